package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"socialink/backend/internal/auth"
	"socialink/backend/internal/config"
	"socialink/backend/internal/database"
	"socialink/backend/internal/logger"
	"socialink/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var handlerTestOnce sync.Once

// setupRouter wires the full route table against a fresh in-memory
// database and returns the engine.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	handlerTestOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		logger.ReplaceGlobal(zap.NewNop())
	})
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	db, err := database.OpenTest()
	require.NoError(t, err)
	database.DB = db

	notifications := service.NewNotificationService(db, nil, nil)
	Init(
		service.NewSocialGraphService(db, notifications),
		service.NewInteractionService(db, notifications),
		service.NewMessagingService(db, notifications),
		notifications,
		nil,
	)

	router := gin.New()
	apiV1 := router.Group("/api/v1")
	apiV1.POST("/auth/register", RegisterUser)
	apiV1.POST("/auth/login", LoginUser)

	protected := apiV1.Group("")
	protected.Use(auth.AuthMiddleware())
	protected.GET("/users", SearchUsers)
	protected.GET("/users/me", GetMe)
	protected.GET("/users/:handle", GetUserProfile)
	protected.POST("/users/:handle/request", SendFriendRequest)
	protected.POST("/users/:handle/accept", AcceptFriendRequest)
	protected.POST("/users/:handle/block", BlockUser)
	protected.GET("/friends", ListFriends)
	protected.GET("/friend-requests", ListFriendRequests)
	protected.GET("/conversations", ListConversations)
	protected.POST("/conversations/:handle", SendMessage)
	protected.GET("/conversations/:handle", GetThread)
	protected.GET("/notifications", ListNotifications)
	protected.GET("/notifications/unread-count", GetUnreadCount)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func registerAndLogin(t *testing.T, router *gin.Engine, handle string) string {
	t.Helper()

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"handle":   handle,
		"email":    handle + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var response map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.NotEmpty(t, response["token"])
	return response["token"]
}

func TestRegisterAndLogin(t *testing.T) {
	router := setupRouter(t)

	t.Run("register issues a token", func(t *testing.T) {
		registerAndLogin(t, router, "alice")
	})

	t.Run("duplicate handle conflicts", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"handle":   "alice",
			"email":    "other@example.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"handle":   "bob",
			"email":    "bob@example.com",
			"password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("login by handle or email", func(t *testing.T) {
		for _, login := range []string{"alice", "alice@example.com"} {
			recorder := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
				"login":    login,
				"password": "password123",
			})
			assert.Equal(t, http.StatusOK, recorder.Code)
		}
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"login":    "alice",
			"password": "wrongwrong",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	router := setupRouter(t)

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = doJSON(t, router, http.MethodGet, "/api/v1/users/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestGetMeAndProfile(t *testing.T) {
	router := setupRouter(t)
	aliceToken := registerAndLogin(t, router, "alice")
	registerAndLogin(t, router, "bob")

	t.Run("own profile carries the email", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodGet, "/api/v1/users/me", aliceToken, nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var me PrivateUserResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &me))
		assert.Equal(t, "alice", me.Handle)
		assert.Equal(t, "alice@example.com", me.Email)
	})

	t.Run("another profile carries the relation summary", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodGet, "/api/v1/users/bob", aliceToken, nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var profile ProfileResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &profile))
		assert.Equal(t, "bob", profile.User.Handle)
		require.NotNil(t, profile.Relation)
		assert.False(t, profile.Relation.IsFriend)
	})

	t.Run("unknown handle is missing", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodGet, "/api/v1/users/nobody", aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestSearchUsersExcludesViewer(t *testing.T) {
	router := setupRouter(t)
	aliceToken := registerAndLogin(t, router, "alice")
	registerAndLogin(t, router, "alicia")

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/users?q=ali", aliceToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response PaginatedResponse[PublicUserResponse]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.Data, 1)
	assert.Equal(t, "alicia", response.Data[0].Handle)
}
