package models

import "gorm.io/gorm"

// NotificationKind enumerates the closed set of notification kinds.
type NotificationKind string

const (
	KindNewMessage    NotificationKind = "new_message"
	KindLike          NotificationKind = "like"
	KindComment       NotificationKind = "comment"
	KindFriendRequest NotificationKind = "friend_request"
	KindFriendAccept  NotificationKind = "friend_accept"
	KindReelLike      NotificationKind = "reel_like"
	KindReelComment   NotificationKind = "reel_comment"
)

// Valid reports whether k is one of the known notification kinds.
func (k NotificationKind) Valid() bool {
	switch k {
	case KindNewMessage, KindLike, KindComment, KindFriendRequest,
		KindFriendAccept, KindReelLike, KindReelComment:
		return true
	}
	return false
}

// Notification is an append-only event addressed to a recipient.
// RelatedID optionally points at the triggering entity (post, reel,
// message) and is interpreted by the Kind.
type Notification struct {
	gorm.Model
	RecipientID uint             `gorm:"not null;index"`
	SenderID    uint             `gorm:"not null;index"`
	Kind        NotificationKind `gorm:"type:varchar(20);not null"`
	Content     string
	RelatedID   *uint
	IsRead      bool `gorm:"not null;default:false;index"`

	Recipient User `gorm:"foreignKey:RecipientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Sender    User `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
