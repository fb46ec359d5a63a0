package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialink/backend/internal/models"

	"gorm.io/gorm"
)

// SocialGraphService maintains the friend-request, friendship and block
// edges between users and enforces their mutual-exclusion invariants:
// friendship is always symmetric, and a block never coexists with a
// friendship or a pending request between the same pair.
type SocialGraphService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewSocialGraphService creates the social graph engine.
func NewSocialGraphService(db *gorm.DB, notifier Notifier) *SocialGraphService {
	return &SocialGraphService{db: db, notifier: notifier}
}

// RelationSummary describes the state between an actor and another user,
// as shown on profile pages.
type RelationSummary struct {
	IsFriend           bool `json:"is_friend"`
	HasSentRequest     bool `json:"has_sent_request"`
	HasReceivedRequest bool `json:"has_received_request"`
	Blocked            bool `json:"blocked"`
	BlockedBy          bool `json:"blocked_by"`
}

// areFriends reports whether the directed projection a->b exists. The
// symmetry invariant makes checking one side sufficient.
func areFriends(db *gorm.DB, a, b uint) (bool, error) {
	var count int64
	err := db.Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", a, b).
		Count(&count).Error
	return count > 0, err
}

func blockedEitherWay(db *gorm.DB, a, b uint) (bool, error) {
	var count int64
	err := db.Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// SendFriendRequest adds a pending edge actor->target and notifies the
// target. It is a silent no-op when actor==target, when the request or a
// friendship already exists, or when either side has blocked the other.
func (s *SocialGraphService) SendFriendRequest(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return nil
	}

	db := s.db.WithContext(ctx)

	blocked, err := blockedEitherWay(db, actorID, targetID)
	if err != nil {
		return err
	}
	if blocked {
		return nil
	}

	friends, err := areFriends(db, actorID, targetID)
	if err != nil {
		return err
	}
	if friends {
		return nil
	}

	request := models.FriendRequest{SenderID: actorID, ReceiverID: targetID}
	if err := db.Create(&request).Error; err != nil {
		// A concurrent duplicate submit lost the race; the edge exists,
		// which is all this operation guarantees.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	var actor models.User
	if err := db.Select("handle").First(&actor, actorID).Error; err != nil {
		return err
	}
	return s.notifier.Notify(ctx, targetID, actorID, models.KindFriendRequest,
		fmt.Sprintf("@%s sent you a friend request", actor.Handle), nil)
}

// AcceptFriendRequest resolves a pending requester->actor edge into a
// symmetric friendship. The request removal (both directions, so no
// stale edge survives a mutual request) and both friendship rows are one
// transaction; readers never observe a one-sided friendship. A missing
// request edge is a no-op.
func (s *SocialGraphService) AcceptFriendRequest(ctx context.Context, actorID, requesterID uint) error {
	if actorID == requesterID {
		return nil
	}

	accepted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("sender_id = ? AND receiver_id = ?", requesterID, actorID).
			Delete(&models.FriendRequest{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Where("sender_id = ? AND receiver_id = ?", actorID, requesterID).
			Delete(&models.FriendRequest{}).Error; err != nil {
			return err
		}

		now := time.Now()
		rows := []models.Friendship{
			{UserID: actorID, FriendID: requesterID, CreatedAt: now},
			{UserID: requesterID, FriendID: actorID, CreatedAt: now},
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		accepted = true
		return nil
	})
	if err != nil || !accepted {
		return err
	}

	var actor models.User
	if err := s.db.WithContext(ctx).Select("handle").First(&actor, actorID).Error; err != nil {
		return err
	}
	return s.notifier.Notify(ctx, requesterID, actorID, models.KindFriendAccept,
		fmt.Sprintf("@%s accepted your friend request", actor.Handle), nil)
}

// RejectFriendRequest removes the pending requester->actor edge if it
// exists. No notification is emitted.
func (s *SocialGraphService) RejectFriendRequest(ctx context.Context, actorID, requesterID uint) error {
	return s.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ?", requesterID, actorID).
		Delete(&models.FriendRequest{}).Error
}

// BlockUser adds the directed block edge and, in the same transaction,
// removes any pending requests in both directions and both friendship
// rows. Each removal is idempotent; blocking succeeds whatever the prior
// state. Blocking yourself is a no-op.
func (s *SocialGraphService) BlockUser(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		block := models.Block{BlockerID: actorID, BlockedID: targetID}
		if err := tx.Create(&block).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}

		if err := tx.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			actorID, targetID, targetID, actorID).
			Delete(&models.FriendRequest{}).Error; err != nil {
			return err
		}

		return tx.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			actorID, targetID, targetID, actorID).
			Delete(&models.Friendship{}).Error
	})
}

// UnblockUser removes the directed block edge only. A friendship or
// request cleared by the block is not restored.
func (s *SocialGraphService) UnblockUser(ctx context.Context, actorID, targetID uint) error {
	return s.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", actorID, targetID).
		Delete(&models.Block{}).Error
}

// AreFriends reports whether the two users hold a mutual friendship.
func (s *SocialGraphService) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	return areFriends(s.db.WithContext(ctx), a, b)
}

// ListFriends returns the actor's friends ordered by handle.
func (s *SocialGraphService) ListFriends(ctx context.Context, actorID uint) ([]models.User, error) {
	var friends []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ?", actorID).
		Order("users.handle").
		Find(&friends).Error
	return friends, err
}

// ListIncomingRequests returns users with a pending request to the actor,
// newest first.
func (s *SocialGraphService) ListIncomingRequests(ctx context.Context, actorID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN friend_requests ON friend_requests.sender_id = users.id").
		Where("friend_requests.receiver_id = ?", actorID).
		Order("friend_requests.created_at DESC").
		Find(&users).Error
	return users, err
}

// ListSentRequests returns users the actor has a pending request to,
// newest first.
func (s *SocialGraphService) ListSentRequests(ctx context.Context, actorID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN friend_requests ON friend_requests.receiver_id = users.id").
		Where("friend_requests.sender_id = ?", actorID).
		Order("friend_requests.created_at DESC").
		Find(&users).Error
	return users, err
}

// RelationSummary computes the actor's view of another user for profile
// pages.
func (s *SocialGraphService) RelationSummary(ctx context.Context, actorID, otherID uint) (*RelationSummary, error) {
	db := s.db.WithContext(ctx)
	summary := &RelationSummary{}

	var err error
	if summary.IsFriend, err = areFriends(db, actorID, otherID); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.FriendRequest{}).
		Where("sender_id = ? AND receiver_id = ?", actorID, otherID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	summary.HasSentRequest = count > 0

	if err := db.Model(&models.FriendRequest{}).
		Where("sender_id = ? AND receiver_id = ?", otherID, actorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	summary.HasReceivedRequest = count > 0

	if err := db.Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", actorID, otherID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	summary.Blocked = count > 0

	if err := db.Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", otherID, actorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	summary.BlockedBy = count > 0

	return summary, nil
}

// BlockedUserIDs returns the ids of everyone the actor has blocked; the
// feed excludes their posts.
func (s *SocialGraphService) BlockedUserIDs(ctx context.Context, actorID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocker_id = ?", actorID).
		Pluck("blocked_id", &ids).Error
	return ids, err
}
