package services

import (
	"fmt"
	"testing"

	"github.com/usthb-datascience/tic-projects/backend/internal/models"
	"github.com/usthb-datascience/tic-projects/backend/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database for one test and migrates the
// full schema into it.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Project{}, &models.Review{}, &models.SystemLog{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// seedUser inserts a user with a real bcrypt hash and returns it.
func seedUser(t *testing.T, db *gorm.DB, username, email, password string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{Username: username, Email: email, Password: hash}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return &user
}

// seedProject inserts a minimal valid project for the given author.
func seedProject(t *testing.T, db *gorm.DB, authorID uint, title string) *models.Project {
	t.Helper()

	project := models.Project{
		Title:       title,
		Description: "A sufficiently long description for " + title,
		AuthorID:    authorID,
		DriveLink:   "https://drive.google.com/drive/folders/abc123",
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("seed project %s: %v", title, err)
	}
	return &project
}
