package handler

import (
	"net/http"
	"strconv"
	"time"

	"socialink/backend/internal/blob"
	"socialink/backend/internal/hub"
	"socialink/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// MessageResponse defines the structure for a single direct message.
type MessageResponse struct {
	ID         uint       `json:"id" example:"1"`
	SenderID   uint       `json:"sender_id" example:"1"`
	ReceiverID uint       `json:"receiver_id" example:"2"`
	Content    string     `json:"content" example:"hello"`
	ImageURL   string     `json:"image_url"`
	VideoURL   string     `json:"video_url"`
	IsRead     bool       `json:"is_read"`
	SeenAt     *time.Time `json:"seen_at,omitempty"`
	ReplyToID  *uint      `json:"reply_to_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ConversationResponse is one row of the conversations listing.
type ConversationResponse struct {
	Peer          AuthorResponse `json:"peer"`
	Preview       string         `json:"preview"`
	LastMessageAt *time.Time     `json:"last_message_at,omitempty"`
	Unread        bool           `json:"unread"`
}

// endregion

func buildMessageResponse(m models.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		ImageURL:   m.ImageURL,
		VideoURL:   m.VideoURL,
		IsRead:     m.IsRead,
		SeenAt:     m.SeenAt,
		ReplyToID:  m.ReplyToID,
		CreatedAt:  m.CreatedAt,
	}
}

// region --- Message Handlers ---

// SendMessage godoc
// @Summary      Send a direct message
// @Description  Sends a message to a friend, with optional media and an optional reply reference. Connected receivers get a real-time event.
// @Tags         messages
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        handle   path     string true  "Receiver handle"
// @Param        content  formData string false "Message text"
// @Param        reply_to formData int    false "ID of the message being replied to"
// @Param        image    formData file   false "Image attachment"
// @Param        video    formData file   false "Video attachment"
// @Success      201  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /conversations/{handle} [post]
func SendMessage(c *gin.Context) {
	senderID := currentUserID(c)
	receiver, ok := userByHandle(c)
	if !ok {
		return
	}

	var imageURL, videoURL string
	if file, err := c.FormFile("image"); err == nil {
		url, ok := uploadMedia(c, file, blob.KindImage)
		if !ok {
			return
		}
		imageURL = url
	}
	if file, err := c.FormFile("video"); err == nil {
		url, ok := uploadMedia(c, file, blob.KindVideo)
		if !ok {
			return
		}
		videoURL = url
	}

	var replyToID *uint
	if v := c.PostForm("reply_to"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reply_to"})
			return
		}
		replyID := uint(id)
		replyToID = &replyID
	}

	message, err := messaging.SendMessage(c.Request.Context(), senderID, receiver.ID,
		c.PostForm("content"), imageURL, videoURL, replyToID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := buildMessageResponse(*message)
	hub.GlobalHub.Publish(receiver.ID, hub.Event{Type: "message.new", Payload: response})

	c.JSON(http.StatusCreated, response)
}

// GetThread godoc
// @Summary      Get a message thread
// @Description  Returns the full exchange with a friend, oldest first. Unread messages addressed to the viewer are marked read.
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        handle path string true "Peer handle"
// @Success      200  {array}   MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /conversations/{handle} [get]
func GetThread(c *gin.Context) {
	actorID := currentUserID(c)
	peer, ok := userByHandle(c)
	if !ok {
		return
	}

	thread, err := messaging.FetchThread(c.Request.Context(), actorID, peer.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]MessageResponse, 0, len(thread))
	for _, message := range thread {
		responses = append(responses, buildMessageResponse(message))
	}
	c.JSON(http.StatusOK, responses)
}

// ListConversations godoc
// @Summary      List conversations
// @Description  Lists friends with the latest message exchanged, newest conversations first. An optional query filters friends by handle or display name.
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Filter friends by handle or display name"
// @Success      200  {array}   ConversationResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /conversations [get]
func ListConversations(c *gin.Context) {
	actorID := currentUserID(c)

	conversations, err := messaging.ListConversations(c.Request.Context(), actorID, c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		responses = append(responses, ConversationResponse{
			Peer:          buildAuthorResponse(conv.Peer),
			Preview:       conv.Preview,
			LastMessageAt: conv.LastMessageAt,
			Unread:        conv.Unread,
		})
	}
	c.JSON(http.StatusOK, responses)
}

// MarkMessageSeen godoc
// @Summary      Mark a message as seen
// @Description  Marks a single received message read. Repeated calls keep the original seen time.
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Message ID"
// @Success      200  {object}  map[string]bool "{"success": true}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /messages/{id}/seen [post]
func MarkMessageSeen(c *gin.Context) {
	actorID := currentUserID(c)
	messageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := messaging.MarkSeen(c.Request.Context(), actorID, messageID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// endregion
