package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"socialink/backend/internal/models"

	"gorm.io/gorm"
)

// InteractionService maintains the like/save toggle relations and the
// comment lists for posts and reels.
//
// Toggles are create-first: the insert either wins or hits the composite
// primary key, and a duplicated-key error means the row already exists,
// so the operation proceeds to the delete branch. Two concurrent submits
// therefore resolve to exactly one flip; no pre-read is needed.
type InteractionService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewInteractionService creates the interaction engine.
func NewInteractionService(db *gorm.DB, notifier Notifier) *InteractionService {
	return &InteractionService{db: db, notifier: notifier}
}

// ToggleLike flips the actor's like on a post and returns the new state
// and count. A fresh like on someone else's post notifies the owner;
// removing a like never does.
func (s *InteractionService) ToggleLike(ctx context.Context, actorID, postID uint) (bool, int64, error) {
	db := s.db.WithContext(ctx)

	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return false, 0, err
	}

	liked := true
	err := db.Create(&models.Like{UserID: actorID, PostID: postID}).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, 0, err
		}
		if err := db.Where("user_id = ? AND post_id = ?", actorID, postID).
			Delete(&models.Like{}).Error; err != nil {
			return false, 0, err
		}
		liked = false
	}

	var count int64
	if err := db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return liked, 0, err
	}

	if liked && actorID != post.UserID {
		var actor models.User
		if err := db.Select("handle").First(&actor, actorID).Error; err != nil {
			return liked, count, err
		}
		related := postID
		if err := s.notifier.Notify(ctx, post.UserID, actorID, models.KindLike,
			fmt.Sprintf("@%s liked your post", actor.Handle), &related); err != nil {
			return liked, count, err
		}
	}

	return liked, count, nil
}

// ToggleSave flips the actor's saved marker on a post. Saves are private
// to the actor, so no notification is emitted in either direction.
func (s *InteractionService) ToggleSave(ctx context.Context, actorID, postID uint) (bool, error) {
	db := s.db.WithContext(ctx)

	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return false, err
	}

	err := db.Create(&models.SavedPost{UserID: actorID, PostID: postID}).Error
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, err
	}
	if err := db.Where("user_id = ? AND post_id = ?", actorID, postID).
		Delete(&models.SavedPost{}).Error; err != nil {
		return false, err
	}
	return false, nil
}

// ToggleReelLike flips the actor's like on a reel, same semantics as
// ToggleLike.
func (s *InteractionService) ToggleReelLike(ctx context.Context, actorID, reelID uint) (bool, int64, error) {
	db := s.db.WithContext(ctx)

	var reel models.Reel
	if err := db.First(&reel, reelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, fmt.Errorf("%w: reel %d", ErrNotFound, reelID)
		}
		return false, 0, err
	}

	liked := true
	err := db.Create(&models.ReelLike{UserID: actorID, ReelID: reelID}).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, 0, err
		}
		if err := db.Where("user_id = ? AND reel_id = ?", actorID, reelID).
			Delete(&models.ReelLike{}).Error; err != nil {
			return false, 0, err
		}
		liked = false
	}

	var count int64
	if err := db.Model(&models.ReelLike{}).Where("reel_id = ?", reelID).Count(&count).Error; err != nil {
		return liked, 0, err
	}

	if liked && actorID != reel.UserID {
		var actor models.User
		if err := db.Select("handle").First(&actor, actorID).Error; err != nil {
			return liked, count, err
		}
		related := reelID
		if err := s.notifier.Notify(ctx, reel.UserID, actorID, models.KindReelLike,
			fmt.Sprintf("@%s liked your reel", actor.Handle), &related); err != nil {
			return liked, count, err
		}
	}

	return liked, count, nil
}

// AddComment appends a comment to a post. Content that is empty after
// trimming is rejected; commenting on someone else's post notifies the
// owner.
func (s *InteractionService) AddComment(ctx context.Context, actorID, postID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is empty", ErrValidation)
	}

	db := s.db.WithContext(ctx)

	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return nil, err
	}

	comment := models.Comment{UserID: actorID, PostID: postID, Content: content}
	if err := db.Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}

	if actorID != post.UserID {
		related := postID
		if err := s.notifier.Notify(ctx, post.UserID, actorID, models.KindComment,
			fmt.Sprintf("@%s commented: %s", comment.User.Handle, truncate(content, 80)), &related); err != nil {
			return nil, err
		}
	}

	return &comment, nil
}

// AddReelComment appends a comment to a reel, same semantics as
// AddComment.
func (s *InteractionService) AddReelComment(ctx context.Context, actorID, reelID uint, content string) (*models.ReelComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is empty", ErrValidation)
	}

	db := s.db.WithContext(ctx)

	var reel models.Reel
	if err := db.First(&reel, reelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reel %d", ErrNotFound, reelID)
		}
		return nil, err
	}

	comment := models.ReelComment{UserID: actorID, ReelID: reelID, Content: content}
	if err := db.Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}

	if actorID != reel.UserID {
		related := reelID
		if err := s.notifier.Notify(ctx, reel.UserID, actorID, models.KindReelComment,
			fmt.Sprintf("@%s commented on your reel: %s", comment.User.Handle, truncate(content, 80)), &related); err != nil {
			return nil, err
		}
	}

	return &comment, nil
}

// DeleteComment removes a comment. Only the comment's author or the
// post's owner may delete it.
func (s *InteractionService) DeleteComment(ctx context.Context, actorID, commentID uint) error {
	db := s.db.WithContext(ctx)

	var comment models.Comment
	if err := db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
		}
		return err
	}

	if comment.UserID != actorID {
		var post models.Post
		if err := db.First(&post, comment.PostID).Error; err != nil {
			return err
		}
		if post.UserID != actorID {
			return fmt.Errorf("%w: not the comment author or post owner", ErrForbidden)
		}
	}

	return db.Delete(&comment).Error
}

// DeleteReelComment removes a reel comment under the same authorization
// rule as DeleteComment.
func (s *InteractionService) DeleteReelComment(ctx context.Context, actorID, commentID uint) error {
	db := s.db.WithContext(ctx)

	var comment models.ReelComment
	if err := db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
		}
		return err
	}

	if comment.UserID != actorID {
		var reel models.Reel
		if err := db.First(&reel, comment.ReelID).Error; err != nil {
			return err
		}
		if reel.UserID != actorID {
			return fmt.Errorf("%w: not the comment author or reel owner", ErrForbidden)
		}
	}

	return db.Delete(&comment).Error
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
