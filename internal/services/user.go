package services

import (
	"errors"
	"strings"

	"github.com/usthb-datascience/tic-projects/backend/internal/models"
	"github.com/usthb-datascience/tic-projects/backend/pkg/response"
	"gorm.io/gorm"
)

const searchResultCap = 20

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UpdateProfileRequest struct {
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
}

// Search does a case-insensitive substring match on username and full name.
// Queries shorter than 2 characters return an empty list, not an error.
func (s *UserService) Search(query string) ([]models.PublicUser, error) {
	if len(query) < 2 {
		return []models.PublicUser{}, nil
	}

	pattern := "%" + strings.ToLower(query) + "%"
	var users []models.User
	if err := s.db.
		Where("LOWER(username) LIKE ? OR LOWER(full_name) LIKE ?", pattern, pattern).
		Limit(searchResultCap).
		Find(&users).Error; err != nil {
		return nil, err
	}

	results := make([]models.PublicUser, 0, len(users))
	for i := range users {
		results = append(results, users[i].Public())
	}
	return results, nil
}

// GetProfile loads the caller's own profile.
func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial profile update. Empty fields keep their
// previous values; a username change is checked for conflicts first.
func (s *UserService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("User not found")
		}
		return nil, err
	}

	if req.Username != "" && req.Username != user.Username {
		if len(req.Username) < 3 {
			return nil, response.NewBadRequest("Username must be at least 3 characters")
		}
		var count int64
		if err := s.db.Model(&models.User{}).
			Where("username = ? AND id != ?", req.Username, userID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, response.NewConflict("Username already taken")
		}
		user.Username = req.Username
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.ProfilePicture != "" {
		user.ProfilePicture = req.ProfilePicture
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetPublicProfile returns a user's public profile together with their
// projects and per-project rating aggregates, newest first.
func (s *UserService) GetPublicProfile(userID uint) (*models.PublicUser, []ProjectWithStats, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.NewNotFound("User not found")
		}
		return nil, nil, err
	}

	var projects []ProjectWithStats
	if err := s.db.Model(&models.Project{}).
		Select("projects.*, users.username AS author_name, COALESCE(AVG(reviews.rating), 0) AS avg_rating, COUNT(reviews.id) AS review_count").
		Joins("JOIN users ON users.id = projects.author_id").
		Joins("LEFT JOIN reviews ON reviews.project_id = projects.id").
		Where("projects.author_id = ?", userID).
		Group("projects.id, users.username").
		Order("projects.created_at DESC").
		Scan(&projects).Error; err != nil {
		return nil, nil, err
	}

	public := user.Public()
	return &public, projects, nil
}
