package handler

import (
	"net/http"
	"time"

	"socialink/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// NotificationResponse defines the structure for a single notification.
type NotificationResponse struct {
	ID        uint           `json:"id" example:"1"`
	Sender    AuthorResponse `json:"sender"`
	Kind      string         `json:"kind" example:"like"`
	Content   string         `json:"content" example:"@alice liked your post"`
	RelatedID *uint          `json:"related_id,omitempty"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

// endregion

func buildNotificationResponse(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Sender:    buildAuthorResponse(n.Sender),
		Kind:      string(n.Kind),
		Content:   n.Content,
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// region --- Notification Handlers ---

// ListNotifications godoc
// @Summary      List notifications
// @Description  Returns the viewer's notifications newest-first. Opening the list marks everything read.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   NotificationResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /notifications [get]
func ListNotifications(c *gin.Context) {
	actorID := currentUserID(c)

	notificationRows, err := notifications.ListForRecipient(c.Request.Context(), actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]NotificationResponse, 0, len(notificationRows))
	for _, n := range notificationRows {
		responses = append(responses, buildNotificationResponse(n))
	}
	c.JSON(http.StatusOK, responses)
}

// GetUnreadCount godoc
// @Summary      Get the unread notification count
// @Description  Returns the badge counter without marking anything read.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64 "{"unread_count": 3}"
// @Failure      401  {object}  ErrorResponse
// @Router       /notifications/unread-count [get]
func GetUnreadCount(c *gin.Context) {
	actorID := currentUserID(c)

	count, err := notifications.UnreadCount(c.Request.Context(), actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkNotificationRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Notification ID"
// @Success      200  {object}  map[string]bool "{"success": true}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id}/read [post]
func MarkNotificationRead(c *gin.Context) {
	actorID := currentUserID(c)
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := notifications.MarkOneRead(c.Request.Context(), actorID, notificationID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// endregion
