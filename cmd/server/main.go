package main

import (
	"fmt"
	"log"
	"net/http"

	"socialink/backend/internal/auth"
	"socialink/backend/internal/blob"
	"socialink/backend/internal/config"
	"socialink/backend/internal/database"
	"socialink/backend/internal/handler"
	"socialink/backend/internal/hub"
	"socialink/backend/internal/logger"
	"socialink/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
	logger.Init(config.AppConfig.LogLevel)
}

// @title           Socialink API
// @version         1.0
// @description     This is the API for the Socialink service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	// Optional unread-badge cache.
	var rdb *redis.Client
	if config.AppConfig.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
		})
	}

	// Optional media store.
	var media blob.Store
	if config.AppConfig.MinioEndpoint != "" {
		store, err := blob.Build(config.AppConfig)
		if err != nil {
			logger.L().Fatal("failed to connect to media store", zap.Error(err))
		}
		media = store
	}

	notifications := service.NewNotificationService(database.DB, rdb, hub.GlobalHub)
	socialGraph := service.NewSocialGraphService(database.DB, notifications)
	interactions := service.NewInteractionService(database.DB, notifications)
	messaging := service.NewMessagingService(database.DB, notifications)
	handler.Init(socialGraph, interactions, messaging, notifications, media)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("", handler.SearchUsers) // Must be before /:handle
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PUT("/me", handler.UpdateMe)
			userRoutes.GET("/:handle", handler.GetUserProfile)

			// Friendship routes
			userRoutes.POST("/:handle/request", handler.SendFriendRequest)
			userRoutes.POST("/:handle/accept", handler.AcceptFriendRequest)
			userRoutes.POST("/:handle/reject", handler.RejectFriendRequest)
			userRoutes.POST("/:handle/block", handler.BlockUser)
			userRoutes.POST("/:handle/unblock", handler.UnblockUser)
		}

		protected := apiV1.Group("")
		protected.Use(auth.AuthMiddleware())
		{
			protected.GET("/friends", handler.ListFriends)
			protected.GET("/friend-requests", handler.ListFriendRequests)

			// Post routes
			protected.POST("/posts", handler.CreatePost)
			protected.GET("/feed", handler.GetFeed)
			protected.GET("/posts/saved", handler.GetSavedPosts)
			protected.POST("/posts/:id/like", handler.TogglePostLike)
			protected.POST("/posts/:id/save", handler.TogglePostSave)
			protected.POST("/posts/:id/comments", handler.AddPostComment)
			protected.DELETE("/comments/:id", handler.DeletePostComment)

			// Reel routes
			protected.POST("/reels", handler.CreateReel)
			protected.GET("/reels", handler.ListReels)
			protected.POST("/reels/:id/like", handler.ToggleReelLike)
			protected.POST("/reels/:id/comments", handler.AddReelComment)
			protected.DELETE("/reels/comments/:id", handler.DeleteReelComment)

			// Message routes
			protected.GET("/conversations", handler.ListConversations)
			protected.POST("/conversations/:handle", handler.SendMessage)
			protected.GET("/conversations/:handle", handler.GetThread)
			protected.POST("/messages/:id/seen", handler.MarkMessageSeen)

			// Notification routes
			protected.GET("/notifications", handler.ListNotifications)
			protected.GET("/notifications/unread-count", handler.GetUnreadCount)
			protected.POST("/notifications/:id/read", handler.MarkNotificationRead)

			// Real-time event stream
			protected.GET("/events", handler.StreamEvents)
		}
	}

	fmt.Println("Server is running on " + config.AppConfig.ServerAddr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddr))
}
