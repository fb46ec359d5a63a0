package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"socialink/backend/internal/models"

	"gorm.io/gorm"
)

// MessagingService maintains the ordered message exchange between pairs
// of mutual friends. The friendship gate is re-checked on every send and
// fetch, never cached, so a block or unfriend takes effect immediately.
type MessagingService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewMessagingService creates the messaging engine.
func NewMessagingService(db *gorm.DB, notifier Notifier) *MessagingService {
	return &MessagingService{db: db, notifier: notifier}
}

// Conversation is one row of the conversations view: a friend, a preview
// of the latest message between the actor and that friend, and whether
// that latest message is still unread by the actor.
type Conversation struct {
	Peer          models.User
	Preview       string
	LastMessageAt *time.Time
	Unread        bool
}

// SendMessage persists a message from sender to receiver. The two must
// be mutual friends and the payload must carry text or media. A reply_to
// that does not resolve to a message between this exact pair is dropped
// rather than rejected.
func (s *MessagingService) SendMessage(ctx context.Context, senderID, receiverID uint, content, imageURL, videoURL string, replyToID *uint) (*models.Message, error) {
	db := s.db.WithContext(ctx)

	friends, err := areFriends(db, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, fmt.Errorf("%w: users are not friends", ErrForbidden)
	}

	content = strings.TrimSpace(content)
	if content == "" && imageURL == "" && videoURL == "" {
		return nil, fmt.Errorf("%w: message has no text or media", ErrValidation)
	}

	if replyToID != nil {
		var count int64
		err := db.Model(&models.Message{}).
			Where("id = ?", *replyToID).
			Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
				senderID, receiverID, receiverID, senderID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count == 0 {
			replyToID = nil
		}
	}

	message := models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		ImageURL:   imageURL,
		VideoURL:   videoURL,
		ReplyToID:  replyToID,
	}
	if err := db.Create(&message).Error; err != nil {
		return nil, err
	}

	var sender models.User
	if err := db.Select("handle").First(&sender, senderID).Error; err != nil {
		return nil, err
	}
	related := message.ID
	notifyContent := content
	if notifyContent == "" {
		notifyContent = previewGlyph(&message)
	}
	if err := s.notifier.Notify(ctx, receiverID, senderID, models.KindNewMessage,
		fmt.Sprintf("@%s: %s", sender.Handle, truncate(notifyContent, 80)), &related); err != nil {
		return nil, err
	}

	return &message, nil
}

// FetchThread returns the full ordered exchange between the actor and
// another user. Viewing the thread is the read receipt: unread messages
// addressed to the actor are marked read with seen_at set to the fetch
// time, in the same transaction as the listing.
func (s *MessagingService) FetchThread(ctx context.Context, actorID, otherID uint) ([]models.Message, error) {
	friends, err := areFriends(s.db.WithContext(ctx), actorID, otherID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, fmt.Errorf("%w: users are not friends", ErrForbidden)
	}

	var thread []models.Message
	now := time.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Message{}).
			Where("sender_id = ? AND receiver_id = ? AND is_read = ?", otherID, actorID, false).
			Updates(map[string]interface{}{"is_read": true, "seen_at": now}).Error; err != nil {
			return err
		}

		return tx.
			Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
				actorID, otherID, otherID, actorID).
			Order("created_at ASC, id ASC").
			Find(&thread).Error
	})
	if err != nil {
		return nil, err
	}
	return thread, nil
}

// MarkSeen marks a single message read. Only the receiver may mark it;
// an already-read message is left untouched, so repeated calls keep the
// original seen_at.
func (s *MessagingService) MarkSeen(ctx context.Context, actorID, messageID uint) error {
	db := s.db.WithContext(ctx)

	var message models.Message
	if err := db.First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: message %d", ErrNotFound, messageID)
		}
		return err
	}
	if message.ReceiverID != actorID {
		return fmt.Errorf("%w: not the message receiver", ErrForbidden)
	}
	if message.IsRead {
		return nil
	}

	now := time.Now()
	return db.Model(&message).
		Updates(map[string]interface{}{"is_read": true, "seen_at": now}).Error
}

// ListConversations enumerates the actor's friends with the latest
// message exchanged in either direction, sorted newest-first; friends
// without any messages sort last. An optional query filters friends by
// handle or display name.
func (s *MessagingService) ListConversations(ctx context.Context, actorID uint, query string) ([]Conversation, error) {
	db := s.db.WithContext(ctx)

	friendsQuery := db.
		Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ?", actorID)
	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		friendsQuery = friendsQuery.Where("lower(users.handle) LIKE ? OR lower(users.display_name) LIKE ?", pattern, pattern)
	}

	var friends []models.User
	if err := friendsQuery.Find(&friends).Error; err != nil {
		return nil, err
	}

	conversations := make([]Conversation, 0, len(friends))
	for _, friend := range friends {
		var latest models.Message
		err := db.
			Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
				actorID, friend.ID, friend.ID, actorID).
			Order("created_at DESC, id DESC").
			First(&latest).Error

		conv := Conversation{Peer: friend}
		if err == nil {
			at := latest.CreatedAt
			conv.LastMessageAt = &at
			conv.Preview = latest.Content
			if conv.Preview == "" {
				conv.Preview = previewGlyph(&latest)
			}
			conv.Unread = !latest.IsRead && latest.ReceiverID == actorID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		conversations = append(conversations, conv)
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		a, b := conversations[i].LastMessageAt, conversations[j].LastMessageAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	return conversations, nil
}

// previewGlyph renders a media-only message for list views.
func previewGlyph(m *models.Message) string {
	switch {
	case m.VideoURL != "":
		return "🎥 Video"
	case m.ImageURL != "":
		return "📷 Photo"
	default:
		return ""
	}
}
