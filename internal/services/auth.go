package services

import (
	"errors"
	"regexp"

	"github.com/usthb-datascience/tic-projects/backend/internal/config"
	"github.com/usthb-datascience/tic-projects/backend/internal/models"
	"github.com/usthb-datascience/tic-projects/backend/internal/utils"
	"github.com/usthb-datascience/tic-projects/backend/pkg/response"
	"gorm.io/gorm"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthService struct {
	db     *gorm.DB
	jwtCfg *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwtCfg: jwtCfg}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	// Email doubles as the identifier field: it matches either the email or
	// the username, which is what the frontend sends.
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthResult is a fresh token plus the public identity it was issued for.
type AuthResult struct {
	Token string
	User  *models.User
}

// Register validates and creates a new account, then signs it in.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResult, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, response.NewBadRequest("Username, email, and password are required")
	}
	if len(req.Username) < 3 {
		return nil, response.NewBadRequest("Username must be at least 3 characters")
	}
	if len(req.Password) < 6 {
		return nil, response.NewBadRequest("Password must be at least 6 characters")
	}
	if !emailRegex.MatchString(req.Email) {
		return nil, response.NewBadRequest("Invalid email format")
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("email = ? OR username = ?", req.Email, req.Username).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, response.NewConflict("Username or email already exists")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Email, s.jwtCfg.ExpireHour)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: &user}, nil
}

// Login authenticates by username or email. The failure message never says
// which part was wrong.
func (s *AuthService) Login(req *LoginRequest) (*AuthResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, response.NewBadRequest("Email and password are required")
	}

	var user models.User
	err := s.db.Where("email = ? OR username = ?", req.Email, req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewUnauthorized("Invalid email/username or password")
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewUnauthorized("Invalid email/username or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Email, s.jwtCfg.ExpireHour)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: &user}, nil
}

// GetUserByID loads the caller's own record.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// ChangePassword replaces the stored hash after re-checking the current one.
func (s *AuthService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return response.NewBadRequest("Current and new passwords are required")
	}
	if len(req.NewPassword) < 6 {
		return response.NewBadRequest("New password must be at least 6 characters")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("User not found")
		}
		return err
	}

	if !utils.CheckPassword(req.CurrentPassword, user.Password) {
		return response.NewUnauthorized("Current password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.db.Model(&user).Update("password", hash).Error
}
