package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"socialink/backend/internal/blob"
	"socialink/backend/internal/database"
	"socialink/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// AuthorResponse is the compact user representation embedded in content.
type AuthorResponse struct {
	ID          uint   `json:"id" example:"1"`
	Handle      string `json:"handle" example:"alice"`
	DisplayName string `json:"display_name" example:"Alice"`
	AvatarURL   string `json:"avatar_url"`
}

// CommentResponse defines the structure for a single comment.
type CommentResponse struct {
	ID        uint           `json:"id" example:"1"`
	Author    AuthorResponse `json:"author"`
	Content   string         `json:"content" example:"Nice shot!"`
	CreatedAt time.Time      `json:"created_at"`
}

// PostResponse defines the structure for a post in feeds and profiles.
type PostResponse struct {
	ID            uint              `json:"id" example:"1"`
	Author        AuthorResponse    `json:"author"`
	Content       string            `json:"content"`
	ImageURL      string            `json:"image_url"`
	VideoURL      string            `json:"video_url"`
	CreatedAt     time.Time         `json:"created_at"`
	LikesCount    int64             `json:"likes_count"`
	CommentsCount int64             `json:"comments_count"`
	IsLiked       bool              `json:"is_liked"`
	IsSaved       bool              `json:"is_saved"`
	Comments      []CommentResponse `json:"comments"`
}

// CommentInput defines the structure for adding a comment.
type CommentInput struct {
	Content string `json:"content" binding:"required" example:"Nice shot!"`
}

// endregion

func buildAuthorResponse(user models.User) AuthorResponse {
	return AuthorResponse{
		ID:          user.ID,
		Handle:      user.Handle,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}
}

func buildCommentResponse(comment models.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		Author:    buildAuthorResponse(comment.User),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

// buildPostResponses annotates posts with the viewer's like/save state,
// counters and comments.
func buildPostResponses(posts []models.Post, viewerID uint) []PostResponse {
	responses := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		response := PostResponse{
			ID:        post.ID,
			Author:    buildAuthorResponse(post.User),
			Content:   post.Content,
			ImageURL:  post.ImageURL,
			VideoURL:  post.VideoURL,
			CreatedAt: post.CreatedAt,
			Comments:  []CommentResponse{},
		}

		database.DB.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&response.LikesCount)
		database.DB.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&response.CommentsCount)

		var count int64
		database.DB.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", post.ID, viewerID).Count(&count)
		response.IsLiked = count > 0
		database.DB.Model(&models.SavedPost{}).Where("post_id = ? AND user_id = ?", post.ID, viewerID).Count(&count)
		response.IsSaved = count > 0

		var comments []models.Comment
		database.DB.Preload("User").
			Where("post_id = ?", post.ID).
			Order("created_at ASC, id ASC").
			Find(&comments)
		for _, comment := range comments {
			response.Comments = append(response.Comments, buildCommentResponse(comment))
		}

		responses = append(responses, response)
	}
	return responses
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// region --- Post Handlers ---

// CreatePost godoc
// @Summary      Create a post
// @Description  Publishes a post with text and optional image/video media. Publishing awards engagement points.
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        content formData string true  "Post text"
// @Param        image   formData file   false "Image attachment"
// @Param        video   formData file   false "Video attachment"
// @Success      201  {object}  PostResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /posts [post]
func CreatePost(c *gin.Context) {
	userID := currentUserID(c)

	content := strings.TrimSpace(c.PostForm("content"))
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post content is required"})
		return
	}

	post := models.Post{UserID: userID, Content: content}

	if file, err := c.FormFile("image"); err == nil {
		url, ok := uploadMedia(c, file, blob.KindImage)
		if !ok {
			return
		}
		post.ImageURL = url
	}
	if file, err := c.FormFile("video"); err == nil {
		url, ok := uploadMedia(c, file, blob.KindVideo)
		if !ok {
			return
		}
		post.VideoURL = url
	}

	if err := database.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	// Publishing content awards engagement points.
	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", 5)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update points"})
		return
	}

	if err := database.DB.Preload("User").First(&post, post.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve post"})
		return
	}

	c.JSON(http.StatusCreated, buildPostResponses([]models.Post{post}, userID)[0])
}

func uploadMedia(c *gin.Context, file *multipart.FileHeader, kind blob.Kind) (string, bool) {
	if media == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Media uploads are not configured"})
		return "", false
	}
	url, err := media.Upload(c.Request.Context(), file, kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload media"})
		return "", false
	}
	return url, true
}

// GetFeed godoc
// @Summary      Get the feed
// @Description  Returns posts newest-first, excluding posts from users the viewer has blocked, annotated with the viewer's like/save state.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[PostResponse]
// @Failure      401  {object}  ErrorResponse
// @Router       /feed [get]
func GetFeed(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := pageParams(c)

	blockedIDs, err := socialGraph.BlockedUserIDs(c.Request.Context(), viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve feed"})
		return
	}

	query := database.DB.Model(&models.Post{}).Preload("User")
	if len(blockedIDs) > 0 {
		query = query.Where("user_id NOT IN ?", blockedIDs)
	}

	paginated, err := Paginate[models.Post](query.Order("created_at DESC, id DESC"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve feed"})
		return
	}

	responses := buildPostResponses(paginated.Data, viewerID)
	c.JSON(http.StatusOK, NewPaginatedResponse(responses, paginated.Meta.TotalItems, page, limit))
}

// GetSavedPosts godoc
// @Summary      List saved posts
// @Description  Returns the viewer's saved posts, most recently saved first.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   PostResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /posts/saved [get]
func GetSavedPosts(c *gin.Context) {
	viewerID := currentUserID(c)

	var posts []models.Post
	if err := database.DB.Preload("User").
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id").
		Where("saved_posts.user_id = ?", viewerID).
		Order("saved_posts.created_at DESC").
		Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve saved posts"})
		return
	}

	c.JSON(http.StatusOK, buildPostResponses(posts, viewerID))
}

// TogglePostLike godoc
// @Summary      Toggle a like on a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Success      200  {object}  map[string]interface{} "{"liked": true, "likes_count": 3}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id}/like [post]
func TogglePostLike(c *gin.Context) {
	actorID := currentUserID(c)
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	liked, count, err := interactions.ToggleLike(c.Request.Context(), actorID, postID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes_count": count})
}

// TogglePostSave godoc
// @Summary      Toggle a save on a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Success      200  {object}  map[string]interface{} "{"saved": true, "post_id": 1}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id}/save [post]
func TogglePostSave(c *gin.Context) {
	actorID := currentUserID(c)
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	saved, err := interactions.ToggleSave(c.Request.Context(), actorID, postID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved, "post_id": postID})
}

// AddPostComment godoc
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int          true "Post ID"
// @Param        input body CommentInput true "Comment"
// @Success      201  {object}  CommentResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id}/comments [post]
func AddPostComment(c *gin.Context) {
	actorID := currentUserID(c)
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := interactions.AddComment(c.Request.Context(), actorID, postID, input.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildCommentResponse(*comment))
}

// DeletePostComment godoc
// @Summary      Delete a comment
// @Description  Deletes a comment. Only the comment's author or the post's owner may delete it.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Comment ID"
// @Success      200  {object}  map[string]bool "{"success": true}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /comments/{id} [delete]
func DeletePostComment(c *gin.Context) {
	actorID := currentUserID(c)
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := interactions.DeleteComment(c.Request.Context(), actorID, commentID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// endregion
