package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// region --- Relation Handlers ---

// SendFriendRequest godoc
// @Summary      Send a friend request
// @Description  Creates a pending request to the target user. Requests to yourself, to existing friends, or across a block are silently ignored.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        handle path string true "Target user handle"
// @Success      200  {object}  map[string]bool "{"success": true}"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{handle}/request [post]
func SendFriendRequest(c *gin.Context) {
	actorID := currentUserID(c)
	target, ok := userByHandle(c)
	if !ok {
		return
	}

	if err := socialGraph.SendFriendRequest(c.Request.Context(), actorID, target.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AcceptFriendRequest godoc
// @Summary      Accept a friend request
// @Description  Resolves a pending request from the target user into a friendship. A missing request is silently ignored.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        handle path string true "Requester handle"
// @Success      200  {object}  map[string]bool "{"success": true}"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{handle}/accept [post]
func AcceptFriendRequest(c *gin.Context) {
	actorID := currentUserID(c)
	requester, ok := userByHandle(c)
	if !ok {
		return
	}

	if err := socialGraph.AcceptFriendRequest(c.Request.Context(), actorID, requester.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RejectFriendRequest godoc
// @Summary      Reject a friend request
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        handle path string true "Requester handle"
// @Success      200  {object}  map[string]bool "{"success": true}"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{handle}/reject [post]
func RejectFriendRequest(c *gin.Context) {
	actorID := currentUserID(c)
	requester, ok := userByHandle(c)
	if !ok {
		return
	}

	if err := socialGraph.RejectFriendRequest(c.Request.Context(), actorID, requester.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// BlockUser godoc
// @Summary      Block a user
// @Description  Blocks the target user, removing any friendship and pending requests between the two.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        handle path string true "Target user handle"
// @Success      200  {object}  map[string]bool "{"success": true}"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{handle}/block [post]
func BlockUser(c *gin.Context) {
	actorID := currentUserID(c)
	target, ok := userByHandle(c)
	if !ok {
		return
	}

	if err := socialGraph.BlockUser(c.Request.Context(), actorID, target.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UnblockUser godoc
// @Summary      Unblock a user
// @Description  Removes the block edge. The friendship removed by a prior block is not restored.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        handle path string true "Target user handle"
// @Success      200  {object}  map[string]bool "{"success": true}"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{handle}/unblock [post]
func UnblockUser(c *gin.Context) {
	actorID := currentUserID(c)
	target, ok := userByHandle(c)
	if !ok {
		return
	}

	if err := socialGraph.UnblockUser(c.Request.Context(), actorID, target.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListFriends godoc
// @Summary      List friends
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   PublicUserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /friends [get]
func ListFriends(c *gin.Context) {
	actorID := currentUserID(c)

	friends, err := socialGraph.ListFriends(c.Request.Context(), actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve friends"})
		return
	}

	responses := make([]PublicUserResponse, 0, len(friends))
	for _, friend := range friends {
		responses = append(responses, buildPublicUserResponse(friend))
	}
	c.JSON(http.StatusOK, responses)
}

// ListFriendRequests godoc
// @Summary      List pending friend requests
// @Description  Lists users with a pending request to or from the viewer, depending on direction.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        direction query string false "incoming (default) or outgoing"
// @Success      200  {array}   PublicUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /friend-requests [get]
func ListFriendRequests(c *gin.Context) {
	actorID := currentUserID(c)

	var err error
	var users []PublicUserResponse
	switch c.DefaultQuery("direction", "incoming") {
	case "incoming":
		requesters, listErr := socialGraph.ListIncomingRequests(c.Request.Context(), actorID)
		err = listErr
		for _, u := range requesters {
			users = append(users, buildPublicUserResponse(u))
		}
	case "outgoing":
		targets, listErr := socialGraph.ListSentRequests(c.Request.Context(), actorID)
		err = listErr
		for _, u := range targets {
			users = append(users, buildPublicUserResponse(u))
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be incoming or outgoing"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve requests"})
		return
	}

	if users == nil {
		users = []PublicUserResponse{}
	}
	c.JSON(http.StatusOK, users)
}

// endregion
