package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is a direct message between two mutual friends. IsRead and
// SeenAt are set together when the receiver views the thread; ReplyTo
// links to an earlier message exchanged between the same two users.
type Message struct {
	gorm.Model
	SenderID   uint   `gorm:"not null;index"`
	ReceiverID uint   `gorm:"not null;index"`
	Content    string
	ImageURL   string `gorm:"size:512"`
	VideoURL   string `gorm:"size:512"`
	IsRead     bool   `gorm:"not null;default:false"`
	SeenAt     *time.Time
	ReplyToID  *uint

	Sender   User     `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Receiver User     `gorm:"foreignKey:ReceiverID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ReplyTo  *Message `gorm:"foreignKey:ReplyToID"`
}
