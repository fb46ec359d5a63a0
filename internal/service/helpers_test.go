package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"socialink/backend/internal/database"
	"socialink/backend/internal/logger"
	"socialink/backend/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testLoggerOnce sync.Once

func initTestLogger() {
	testLoggerOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
	})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	initTestLogger()

	db, err := database.OpenTest()
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, handle string) *models.User {
	t.Helper()

	user := models.User{
		Handle:       handle,
		Email:        handle + "@example.com",
		PasswordHash: "x",
		DisplayName:  handle,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// fakeNotifier records emissions instead of writing notification rows.
type fakeNotifier struct {
	calls []notifyCall
	err   error
}

type notifyCall struct {
	recipientID uint
	senderID    uint
	kind        models.NotificationKind
	content     string
	relatedID   *uint
}

func (f *fakeNotifier) Notify(_ context.Context, recipientID, senderID uint, kind models.NotificationKind, content string, relatedID *uint) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, notifyCall{
		recipientID: recipientID,
		senderID:    senderID,
		kind:        kind,
		content:     content,
		relatedID:   relatedID,
	})
	return nil
}

// requireSymmetricFriendship asserts both directed projection rows exist
// or neither does.
func requireSymmetricFriendship(t *testing.T, db *gorm.DB, a, b uint, want bool) {
	t.Helper()

	for _, pair := range [][2]uint{{a, b}, {b, a}} {
		var count int64
		require.NoError(t, db.Model(&models.Friendship{}).
			Where("user_id = ? AND friend_id = ?", pair[0], pair[1]).
			Count(&count).Error)
		require.Equal(t, want, count > 0,
			fmt.Sprintf("friendship row %d->%d", pair[0], pair[1]))
	}
}

func requestCount(t *testing.T, db *gorm.DB, sender, receiver uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.FriendRequest{}).
		Where("sender_id = ? AND receiver_id = ?", sender, receiver).
		Count(&count).Error)
	return count
}
