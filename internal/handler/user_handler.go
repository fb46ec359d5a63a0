package handler

import (
	"net/http"
	"strings"

	"socialink/backend/internal/blob"
	"socialink/backend/internal/database"
	"socialink/backend/internal/models"
	"socialink/backend/internal/service"
	"socialink/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Handle      string `json:"handle" binding:"required,min=3,max=32" example:"alice"`
	Email       string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password    string `json:"password" binding:"required,min=8" example:"password123"`
	DisplayName string `json:"display_name" example:"Alice"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// PublicUserResponse defines the structure for a user's public profile.
type PublicUserResponse struct {
	ID           uint   `json:"id" example:"1"`
	Handle       string `json:"handle" example:"alice"`
	DisplayName  string `json:"display_name" example:"Alice"`
	Bio          string `json:"bio"`
	AvatarURL    string `json:"avatar_url"`
	Points       int    `json:"points"`
	FriendsCount int64  `json:"friends_count"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	PublicUserResponse
	Email string `json:"email" example:"alice@example.com"`
}

// ProfileResponse is a public profile together with the viewer's relation
// to it and the user's posts.
type ProfileResponse struct {
	User     PublicUserResponse       `json:"user"`
	Relation *service.RelationSummary `json:"relation,omitempty"`
	Posts    []PostResponse           `json:"posts"`
}

// endregion

func buildPublicUserResponse(user models.User) PublicUserResponse {
	var friendsCount int64
	database.DB.Model(&models.Friendship{}).Where("user_id = ?", user.ID).Count(&friendsCount)

	return PublicUserResponse{
		ID:           user.ID,
		Handle:       user.Handle,
		DisplayName:  user.DisplayName,
		Bio:          user.Bio,
		AvatarURL:    user.AvatarURL,
		Points:       user.Points,
		FriendsCount: friendsCount,
	}
}

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input.Handle = strings.ToLower(strings.TrimSpace(input.Handle))

	var existingUser models.User
	if err := database.DB.Where("handle = ? OR email = ?", input.Handle, input.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Handle or email already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Handle:       input.Handle,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		DisplayName:  input.DisplayName,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with handle/email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("handle = ? OR email = ?", input.Login, input.Login).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// endregion

// region --- User Handlers ---

// GetMe godoc
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	userID := currentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	c.JSON(http.StatusOK, PrivateUserResponse{
		PublicUserResponse: buildPublicUserResponse(user),
		Email:              user.Email,
	})
}

// UpdateMe godoc
// @Summary      Update own profile
// @Description  Updates display name and bio, and optionally replaces the avatar.
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        display_name formData string false "Display name"
// @Param        bio          formData string false "Bio"
// @Param        avatar       formData file   false "Avatar image"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [put]
func UpdateMe(c *gin.Context) {
	userID := currentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	if v, ok := c.GetPostForm("display_name"); ok {
		user.DisplayName = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("bio"); ok {
		user.Bio = strings.TrimSpace(v)
	}

	if file, err := c.FormFile("avatar"); err == nil {
		if media == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Media uploads are not configured"})
			return
		}
		url, err := media.Upload(c.Request.Context(), file, blob.KindAvatar)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload avatar"})
			return
		}
		user.AvatarURL = url
	}

	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, PrivateUserResponse{
		PublicUserResponse: buildPublicUserResponse(user),
		Email:              user.Email,
	})
}

// GetUserProfile godoc
// @Summary      Get a user's profile
// @Description  Returns the profile, the viewer's relation to it, and the user's posts.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        handle path string true "User handle"
// @Success      200  {object}  ProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{handle} [get]
func GetUserProfile(c *gin.Context) {
	viewerID := currentUserID(c)

	user, ok := userByHandle(c)
	if !ok {
		return
	}

	response := ProfileResponse{User: buildPublicUserResponse(*user)}

	if user.ID != viewerID {
		relation, err := socialGraph.RelationSummary(c.Request.Context(), viewerID, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute relation"})
			return
		}
		response.Relation = relation
	}

	var posts []models.Post
	if err := database.DB.Preload("User").
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve posts"})
		return
	}
	response.Posts = buildPostResponses(posts, viewerID)

	c.JSON(http.StatusOK, response)
}

// SearchUsers godoc
// @Summary      Search for users
// @Description  Searches for users by handle or display name with pagination.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  false  "Search query"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedResponse[PublicUserResponse]
// @Failure      401   {object}  ErrorResponse
// @Router       /users [get]
func SearchUsers(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := pageParams(c)

	query := database.DB.Model(&models.User{}).Where("users.id <> ?", viewerID)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(handle) LIKE ? OR lower(display_name) LIKE ?", pattern, pattern)
	}

	paginated, err := Paginate[models.User](query.Order("handle"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	userResponses := make([]PublicUserResponse, 0, len(paginated.Data))
	for _, user := range paginated.Data {
		userResponses = append(userResponses, buildPublicUserResponse(user))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(userResponses, paginated.Meta.TotalItems, page, limit))
}

// endregion
