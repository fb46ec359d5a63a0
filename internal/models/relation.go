package models

import "time"

// FriendRequest is a directed pending edge: the sender has asked the
// receiver to be friends and the receiver has not decided yet.
// The composite primary key makes duplicate requests impossible.
type FriendRequest struct {
	SenderID   uint `gorm:"primaryKey;autoIncrement:false"`
	ReceiverID uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time

	Sender   User `gorm:"foreignKey:SenderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Receiver User `gorm:"foreignKey:ReceiverID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Friendship is one directed projection of a logical undirected edge.
// Every friendship is stored as two rows, (A,B) and (B,A), written and
// removed inside a single transaction so that readers never observe a
// one-sided friendship.
type Friendship struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	FriendID  uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time

	User   User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Friend User `gorm:"foreignKey:FriendID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Block is a directed block edge. A block never coexists with a
// friendship or a pending request between the same pair; BlockUser
// clears those in the same transaction that inserts this row.
type Block struct {
	BlockerID uint `gorm:"primaryKey;autoIncrement:false"`
	BlockedID uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time

	Blocker User `gorm:"foreignKey:BlockerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Blocked User `gorm:"foreignKey:BlockedID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
