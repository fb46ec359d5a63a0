package handler

import (
	"errors"
	"net/http"

	"socialink/backend/internal/blob"
	"socialink/backend/internal/database"
	"socialink/backend/internal/models"
	"socialink/backend/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

var (
	socialGraph   *service.SocialGraphService
	interactions  *service.InteractionService
	messaging     *service.MessagingService
	notifications *service.NotificationService
	media         blob.Store
)

// Init wires the handlers to their engines. media may be nil, in which
// case upload endpoints reject files.
func Init(graph *service.SocialGraphService, inter *service.InteractionService, msg *service.MessagingService, notif *service.NotificationService, store blob.Store) {
	socialGraph = graph
	interactions = inter
	messaging = msg
	notifications = notif
	media = store
}

// currentUserID returns the authenticated user's id set by the auth
// middleware.
func currentUserID(c *gin.Context) uint {
	id, _ := c.Get("userID")
	return id.(uint)
}

// userByHandle resolves a path handle to a user row.
func userByHandle(c *gin.Context) (*models.User, bool) {
	var user models.User
	if err := database.DB.Where("handle = ?", c.Param("handle")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		}
		return nil, false
	}
	return &user, true
}

// respondServiceError maps engine sentinel errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
