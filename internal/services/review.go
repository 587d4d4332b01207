package services

import (
	"errors"

	"github.com/usthb-datascience/tic-projects/backend/internal/models"
	"github.com/usthb-datascience/tic-projects/backend/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type SubmitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewWithReviewer is a review row joined with the reviewer's public info.
type ReviewWithReviewer struct {
	models.Review
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// Upsert records the caller's rating of a project. A second submission for
// the same (project, reviewer) pair overwrites the existing row; the unique
// constraint makes that hold even under concurrent submits. Returns true
// when a brand-new row was inserted.
func (s *ReviewService) Upsert(projectID, reviewerID uint, req *SubmitReviewRequest) (bool, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return false, response.NewBadRequest("Rating must be between 1 and 5")
	}

	var count int64
	if err := s.db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, response.NewNotFound("Project not found")
	}

	var existing int64
	if err := s.db.Model(&models.Review{}).
		Where("project_id = ? AND reviewer_id = ?", projectID, reviewerID).
		Count(&existing).Error; err != nil {
		return false, err
	}

	review := models.Review{
		ProjectID:  projectID,
		ReviewerID: reviewerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "reviewer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(&review).Error
	if err != nil {
		return false, err
	}

	return existing == 0, nil
}

// ListByProject returns a project's reviews with reviewer identity, newest
// first.
func (s *ReviewService) ListByProject(projectID uint) ([]ReviewWithReviewer, error) {
	var reviews []ReviewWithReviewer
	if err := s.db.Model(&models.Review{}).
		Select("reviews.*, users.username, users.profile_picture").
		Joins("JOIN users ON users.id = reviews.reviewer_id").
		Where("reviews.project_id = ?", projectID).
		Order("reviews.created_at DESC").
		Scan(&reviews).Error; err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []ReviewWithReviewer{}
	}
	return reviews, nil
}

// GetMine returns the caller's review of a project, or nil when they have
// not reviewed it — the absence of a review is not an error.
func (s *ReviewService) GetMine(projectID, reviewerID uint) (*models.Review, error) {
	var review models.Review
	err := s.db.Where("project_id = ? AND reviewer_id = ?", projectID, reviewerID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}
