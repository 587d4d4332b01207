package handlers

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/usthb-datascience/tic-projects/backend/internal/config"
	"github.com/usthb-datascience/tic-projects/backend/internal/middleware"
	"github.com/usthb-datascience/tic-projects/backend/internal/services"
	"github.com/usthb-datascience/tic-projects/backend/internal/storage"
	"github.com/usthb-datascience/tic-projects/backend/pkg/response"
	"gorm.io/gorm"
)

var allowedAvatarExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type UserHandler struct {
	userService *services.UserService
	store       *storage.LocalStorage
	uploadCfg   *config.UploadConfig
}

func NewUserHandler(db *gorm.DB, store *storage.LocalStorage, uploadCfg *config.UploadConfig) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(db),
		store:       store,
		uploadCfg:   uploadCfg,
	}
}

// Search finds users by username or full name substring.
// GET /users/search?q=
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.userService.Search(c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"users": users})
}

// Me returns the caller's full profile.
// GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.GetProfile(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"user": user})
}

// UpdateMe applies a partial profile update. Accepts either a JSON body or a
// multipart form carrying an optional profile_picture image.
// PUT /users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req services.UpdateProfileRequest

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req.Username = c.PostForm("username")
		req.FullName = c.PostForm("full_name")
		req.Bio = c.PostForm("bio")

		if fileHeader, err := c.FormFile("profile_picture"); err == nil {
			ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
			if !allowedAvatarExts[ext] {
				response.BadRequest(c, "Only image files are allowed")
				return
			}
			if fileHeader.Size > h.uploadCfg.MaxAvatarSize {
				response.BadRequest(c, "Profile picture is too large")
				return
			}
			locator, err := h.store.Save(fileHeader, "avatars")
			if err != nil {
				response.Error(c, err)
				return
			}
			req.ProfilePicture = "/uploads/" + locator
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	user, err := h.userService.UpdateProfile(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Profile updated successfully", "user": user})
}

// GetByID returns a user's public profile together with their projects.
// GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	user, projects, err := h.userService.GetPublicProfile(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"user": user, "projects": projects})
}
