package handler

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendMessageForm(t *testing.T, router *gin.Engine, token, handle, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body strings.Builder
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("content", content))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/"+handle, strings.NewReader(body.String()))
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestMessageFlow(t *testing.T) {
	router := setupRouter(t)
	aliceToken := registerAndLogin(t, router, "alice")
	bobToken := registerAndLogin(t, router, "bob")

	t.Run("messaging a stranger is forbidden", func(t *testing.T) {
		recorder := sendMessageForm(t, router, aliceToken, "bob", "hello")
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	// Befriend the two through the API.
	recorder := doJSON(t, router, http.MethodPost, "/api/v1/users/bob/request", aliceToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder = doJSON(t, router, http.MethodPost, "/api/v1/users/alice/accept", bobToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	t.Run("friends exchange a thread with read receipts", func(t *testing.T) {
		recorder := sendMessageForm(t, router, aliceToken, "bob", "hello bob")
		require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

		var sent MessageResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &sent))
		assert.False(t, sent.IsRead)
		assert.Nil(t, sent.SeenAt)

		// Bob opens the thread; the message is now read.
		recorder = doJSON(t, router, http.MethodGet, "/api/v1/conversations/alice", bobToken, nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var thread []MessageResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &thread))
		require.Len(t, thread, 1)
		assert.True(t, thread[0].IsRead)
		assert.NotNil(t, thread[0].SeenAt)
	})

	t.Run("conversations list the latest exchange", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodGet, "/api/v1/conversations", aliceToken, nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var conversations []ConversationResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &conversations))
		require.Len(t, conversations, 1)
		assert.Equal(t, "bob", conversations[0].Peer.Handle)
		assert.Equal(t, "hello bob", conversations[0].Preview)
	})

	t.Run("the receiver saw a new_message notification", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodGet, "/api/v1/notifications/unread-count", bobToken, nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var badge map[string]int64
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &badge))
		// friend_accept went to alice; bob holds friend_request + new_message.
		assert.EqualValues(t, 2, badge["unread_count"])

		recorder = doJSON(t, router, http.MethodGet, "/api/v1/notifications", bobToken, nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var listed []NotificationResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listed))
		require.Len(t, listed, 2)
		assert.Equal(t, "new_message", listed[0].Kind)
		assert.Equal(t, "friend_request", listed[1].Kind)

		// Opening the list cleared the badge.
		recorder = doJSON(t, router, http.MethodGet, "/api/v1/notifications/unread-count", bobToken, nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &badge))
		assert.EqualValues(t, 0, badge["unread_count"])
	})

	t.Run("a block cuts the conversation", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, "/api/v1/users/alice/block", bobToken, nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		recorder = sendMessageForm(t, router, aliceToken, "bob", "still there?")
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}
