package models

import "gorm.io/gorm"

// User represents a registered user of the network.
type User struct {
	gorm.Model
	Handle       string `gorm:"size:64;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	DisplayName  string `gorm:"size:100"`
	Bio          string
	AvatarURL    string `gorm:"size:512"`

	// Engagement score, incremented when the user publishes content.
	Points int `gorm:"not null;default:0"`
}
