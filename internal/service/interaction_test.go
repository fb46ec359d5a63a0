package service

import (
	"context"
	"testing"

	"socialink/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPost(t *testing.T, db *gorm.DB, author *models.User, content string) *models.Post {
	t.Helper()

	post := models.Post{UserID: author.ID, Content: content}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

func seedReel(t *testing.T, db *gorm.DB, author *models.User, caption string) *models.Reel {
	t.Helper()

	reel := models.Reel{UserID: author.ID, Caption: caption, VideoURL: "https://cdn.example.com/videos/a.mp4"}
	require.NoError(t, db.Create(&reel).Error)
	return &reel
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("first toggle likes and notifies the owner", func(t *testing.T) {
		db := newTestDB(t)
		notifier := &fakeNotifier{}
		interactions := NewInteractionService(db, notifier)
		alice := seedUser(t, db, "alice")
		bob := seedUser(t, db, "bob")
		post := seedPost(t, db, bob, "sunset")

		liked, count, err := interactions.ToggleLike(ctx, alice.ID, post.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.EqualValues(t, 1, count)

		require.Len(t, notifier.calls, 1)
		call := notifier.calls[0]
		assert.Equal(t, bob.ID, call.recipientID)
		assert.Equal(t, alice.ID, call.senderID)
		assert.Equal(t, models.KindLike, call.kind)
		require.NotNil(t, call.relatedID)
		assert.Equal(t, post.ID, *call.relatedID)
	})

	t.Run("double toggle returns to the initial state", func(t *testing.T) {
		db := newTestDB(t)
		notifier := &fakeNotifier{}
		interactions := NewInteractionService(db, notifier)
		alice := seedUser(t, db, "alice")
		bob := seedUser(t, db, "bob")
		post := seedPost(t, db, bob, "sunset")

		_, _, err := interactions.ToggleLike(ctx, alice.ID, post.ID)
		require.NoError(t, err)
		liked, count, err := interactions.ToggleLike(ctx, alice.ID, post.ID)
		require.NoError(t, err)

		assert.False(t, liked)
		assert.EqualValues(t, 0, count)
		assert.Len(t, notifier.calls, 1, "unliking is silent")
	})

	t.Run("liking your own post does not notify", func(t *testing.T) {
		db := newTestDB(t)
		notifier := &fakeNotifier{}
		interactions := NewInteractionService(db, notifier)
		alice := seedUser(t, db, "alice")
		post := seedPost(t, db, alice, "sunset")

		liked, count, err := interactions.ToggleLike(ctx, alice.ID, post.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.EqualValues(t, 1, count)
		assert.Empty(t, notifier.calls)
	})

	t.Run("missing post", func(t *testing.T) {
		db := newTestDB(t)
		interactions := NewInteractionService(db, &fakeNotifier{})
		alice := seedUser(t, db, "alice")

		_, _, err := interactions.ToggleLike(ctx, alice.ID, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestToggleSave(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	interactions := NewInteractionService(db, notifier)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, bob, "sunset")

	saved, err := interactions.ToggleSave(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = interactions.ToggleSave(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	var count int64
	require.NoError(t, db.Model(&models.SavedPost{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	assert.Empty(t, notifier.calls, "saves are private")
}

func TestToggleReelLike(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	interactions := NewInteractionService(db, notifier)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	reel := seedReel(t, db, bob, "clip")

	liked, count, err := interactions.ToggleReelLike(ctx, alice.ID, reel.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 1, count)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, models.KindReelLike, notifier.calls[0].kind)

	liked, count, err = interactions.ToggleReelLike(ctx, alice.ID, reel.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.EqualValues(t, 0, count)
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and notifies the post owner", func(t *testing.T) {
		db := newTestDB(t)
		notifier := &fakeNotifier{}
		interactions := NewInteractionService(db, notifier)
		alice := seedUser(t, db, "alice")
		bob := seedUser(t, db, "bob")
		post := seedPost(t, db, bob, "sunset")

		comment, err := interactions.AddComment(ctx, alice.ID, post.ID, "  lovely  ")
		require.NoError(t, err)
		assert.Equal(t, "lovely", comment.Content)
		assert.Equal(t, "alice", comment.User.Handle)

		require.Len(t, notifier.calls, 1)
		assert.Equal(t, models.KindComment, notifier.calls[0].kind)
		assert.Equal(t, bob.ID, notifier.calls[0].recipientID)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		db := newTestDB(t)
		interactions := NewInteractionService(db, &fakeNotifier{})
		alice := seedUser(t, db, "alice")
		post := seedPost(t, db, alice, "sunset")

		_, err := interactions.AddComment(ctx, alice.ID, post.ID, "   ")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("commenting on your own post does not notify", func(t *testing.T) {
		db := newTestDB(t)
		notifier := &fakeNotifier{}
		interactions := NewInteractionService(db, notifier)
		alice := seedUser(t, db, "alice")
		post := seedPost(t, db, alice, "sunset")

		_, err := interactions.AddComment(ctx, alice.ID, post.ID, "note to self")
		require.NoError(t, err)
		assert.Empty(t, notifier.calls)
	})
}

func TestDeleteComment(t *testing.T) {
	ctx := context.Background()

	t.Run("author may delete", func(t *testing.T) {
		db := newTestDB(t)
		interactions := NewInteractionService(db, &fakeNotifier{})
		alice := seedUser(t, db, "alice")
		bob := seedUser(t, db, "bob")
		post := seedPost(t, db, bob, "sunset")

		comment, err := interactions.AddComment(ctx, alice.ID, post.ID, "lovely")
		require.NoError(t, err)
		require.NoError(t, interactions.DeleteComment(ctx, alice.ID, comment.ID))
	})

	t.Run("post owner may delete", func(t *testing.T) {
		db := newTestDB(t)
		interactions := NewInteractionService(db, &fakeNotifier{})
		alice := seedUser(t, db, "alice")
		bob := seedUser(t, db, "bob")
		post := seedPost(t, db, bob, "sunset")

		comment, err := interactions.AddComment(ctx, alice.ID, post.ID, "lovely")
		require.NoError(t, err)
		require.NoError(t, interactions.DeleteComment(ctx, bob.ID, comment.ID))
	})

	t.Run("anyone else is forbidden", func(t *testing.T) {
		db := newTestDB(t)
		interactions := NewInteractionService(db, &fakeNotifier{})
		alice := seedUser(t, db, "alice")
		bob := seedUser(t, db, "bob")
		carol := seedUser(t, db, "carol")
		post := seedPost(t, db, bob, "sunset")

		comment, err := interactions.AddComment(ctx, alice.ID, post.ID, "lovely")
		require.NoError(t, err)
		assert.ErrorIs(t, interactions.DeleteComment(ctx, carol.ID, comment.ID), ErrForbidden)
	})

	t.Run("missing comment", func(t *testing.T) {
		db := newTestDB(t)
		interactions := NewInteractionService(db, &fakeNotifier{})
		alice := seedUser(t, db, "alice")

		assert.ErrorIs(t, interactions.DeleteComment(ctx, alice.ID, 999), ErrNotFound)
	})
}

func TestReelComments(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	interactions := NewInteractionService(db, notifier)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	reel := seedReel(t, db, bob, "clip")

	comment, err := interactions.AddReelComment(ctx, alice.ID, reel.ID, "nice clip")
	require.NoError(t, err)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, models.KindReelComment, notifier.calls[0].kind)

	_, err = interactions.AddReelComment(ctx, alice.ID, reel.ID, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	carol := seedUser(t, db, "carol")
	assert.ErrorIs(t, interactions.DeleteReelComment(ctx, carol.ID, comment.ID), ErrForbidden)
	require.NoError(t, interactions.DeleteReelComment(ctx, bob.ID, comment.ID))
}
