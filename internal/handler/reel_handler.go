package handler

import (
	"net/http"
	"strings"
	"time"

	"socialink/backend/internal/blob"
	"socialink/backend/internal/database"
	"socialink/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// ReelResponse defines the structure for a reel in listings.
type ReelResponse struct {
	ID            uint              `json:"id" example:"1"`
	Author        AuthorResponse    `json:"author"`
	Caption       string            `json:"caption"`
	VideoURL      string            `json:"video_url"`
	CreatedAt     time.Time         `json:"created_at"`
	LikesCount    int64             `json:"likes_count"`
	CommentsCount int64             `json:"comments_count"`
	IsLiked       bool              `json:"is_liked"`
	Comments      []CommentResponse `json:"comments"`
}

// endregion

func buildReelResponses(reels []models.Reel, viewerID uint) []ReelResponse {
	responses := make([]ReelResponse, 0, len(reels))
	for _, reel := range reels {
		response := ReelResponse{
			ID:        reel.ID,
			Author:    buildAuthorResponse(reel.User),
			Caption:   reel.Caption,
			VideoURL:  reel.VideoURL,
			CreatedAt: reel.CreatedAt,
			Comments:  []CommentResponse{},
		}

		database.DB.Model(&models.ReelLike{}).Where("reel_id = ?", reel.ID).Count(&response.LikesCount)
		database.DB.Model(&models.ReelComment{}).Where("reel_id = ?", reel.ID).Count(&response.CommentsCount)

		var count int64
		database.DB.Model(&models.ReelLike{}).Where("reel_id = ? AND user_id = ?", reel.ID, viewerID).Count(&count)
		response.IsLiked = count > 0

		var comments []models.ReelComment
		database.DB.Preload("User").
			Where("reel_id = ?", reel.ID).
			Order("created_at ASC, id ASC").
			Find(&comments)
		for _, comment := range comments {
			response.Comments = append(response.Comments, CommentResponse{
				ID:        comment.ID,
				Author:    buildAuthorResponse(comment.User),
				Content:   comment.Content,
				CreatedAt: comment.CreatedAt,
			})
		}

		responses = append(responses, response)
	}
	return responses
}

// region --- Reel Handlers ---

// CreateReel godoc
// @Summary      Create a reel
// @Description  Publishes a short video with an optional caption. Publishing awards engagement points.
// @Tags         reels
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        caption formData string false "Caption"
// @Param        video   formData file   true  "Video"
// @Success      201  {object}  ReelResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /reels [post]
func CreateReel(c *gin.Context) {
	userID := currentUserID(c)

	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A video file is required"})
		return
	}

	url, ok := uploadMedia(c, file, blob.KindVideo)
	if !ok {
		return
	}

	reel := models.Reel{
		UserID:   userID,
		Caption:  strings.TrimSpace(c.PostForm("caption")),
		VideoURL: url,
	}
	if err := database.DB.Create(&reel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reel"})
		return
	}

	// Publishing content awards engagement points.
	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", 5)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update points"})
		return
	}

	if err := database.DB.Preload("User").First(&reel, reel.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reel"})
		return
	}

	c.JSON(http.StatusCreated, buildReelResponses([]models.Reel{reel}, userID)[0])
}

// ListReels godoc
// @Summary      List reels
// @Description  Returns reels newest-first, excluding reels from users the viewer has blocked.
// @Tags         reels
// @Produce      json
// @Security     BearerAuth
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[ReelResponse]
// @Failure      401  {object}  ErrorResponse
// @Router       /reels [get]
func ListReels(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := pageParams(c)

	blockedIDs, err := socialGraph.BlockedUserIDs(c.Request.Context(), viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reels"})
		return
	}

	query := database.DB.Model(&models.Reel{}).Preload("User")
	if len(blockedIDs) > 0 {
		query = query.Where("user_id NOT IN ?", blockedIDs)
	}

	paginated, err := Paginate[models.Reel](query.Order("created_at DESC, id DESC"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reels"})
		return
	}

	responses := buildReelResponses(paginated.Data, viewerID)
	c.JSON(http.StatusOK, NewPaginatedResponse(responses, paginated.Meta.TotalItems, page, limit))
}

// ToggleReelLike godoc
// @Summary      Toggle a like on a reel
// @Tags         reels
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Reel ID"
// @Success      200  {object}  map[string]interface{} "{"liked": true, "likes_count": 3}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /reels/{id}/like [post]
func ToggleReelLike(c *gin.Context) {
	actorID := currentUserID(c)
	reelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	liked, count, err := interactions.ToggleReelLike(c.Request.Context(), actorID, reelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes_count": count})
}

// AddReelComment godoc
// @Summary      Comment on a reel
// @Tags         reels
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int          true "Reel ID"
// @Param        input body CommentInput true "Comment"
// @Success      201  {object}  CommentResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /reels/{id}/comments [post]
func AddReelComment(c *gin.Context) {
	actorID := currentUserID(c)
	reelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := interactions.AddReelComment(c.Request.Context(), actorID, reelID, input.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CommentResponse{
		ID:        comment.ID,
		Author:    buildAuthorResponse(comment.User),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	})
}

// DeleteReelComment godoc
// @Summary      Delete a reel comment
// @Description  Deletes a reel comment. Only the comment's author or the reel's owner may delete it.
// @Tags         reels
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Comment ID"
// @Success      200  {object}  map[string]bool "{"success": true}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /reels/comments/{id} [delete]
func DeleteReelComment(c *gin.Context) {
	actorID := currentUserID(c)
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := interactions.DeleteReelComment(c.Request.Context(), actorID, commentID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// endregion
