package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a piece of content published by a user. Media fields hold blob
// store URLs; like and comment counts are derived from the child tables.
type Post struct {
	gorm.Model
	UserID   uint   `gorm:"not null;index"`
	Content  string `gorm:"not null"`
	ImageURL string `gorm:"size:512"`
	VideoURL string `gorm:"size:512"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Like is a toggle relation: the row's existence means "liked". The
// composite primary key is the unique constraint that arbitrates
// concurrent duplicate toggles.
type Like struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	PostID    uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// SavedPost is a toggle relation marking a post as saved by a user.
type SavedPost struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	PostID    uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Comment is an append-only comment on a post, ordered by creation time.
type Comment struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index"`
	PostID  uint   `gorm:"not null;index"`
	Content string `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
