package models

import (
	"time"

	"gorm.io/gorm"
)

// Reel is a short-form video published by a user.
type Reel struct {
	gorm.Model
	UserID   uint   `gorm:"not null;index"`
	Caption  string
	VideoURL string `gorm:"size:512;not null"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ReelLike is the toggle relation for reels, same semantics as Like.
type ReelLike struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	ReelID    uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Reel Reel `gorm:"foreignKey:ReelID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ReelComment is an append-only comment on a reel.
type ReelComment struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index"`
	ReelID  uint   `gorm:"not null;index"`
	Content string `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Reel Reel `gorm:"foreignKey:ReelID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
