package services

import (
	"errors"
	"net/url"
	"time"

	"github.com/usthb-datascience/tic-projects/backend/internal/models"
	"github.com/usthb-datascience/tic-projects/backend/pkg/response"
	"gorm.io/gorm"
)

// duplicateWindow is the trailing interval during which an identical
// submission from the same author is treated as an accidental double-submit
// and answered with the already-created project.
const duplicateWindow = 30 * time.Second

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type ProjectListRequest struct {
	Section string `form:"section"`
	Group   string `form:"group"`
}

type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Section     string `json:"section"`
	GroupNumber string `json:"group_number"`
	FullName    string `json:"full_name"`
	Matricule   string `json:"matricule"`
	DriveLink   string `json:"drive_link"`
}

type UpdateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Section     string `json:"section"`
	GroupNumber string `json:"group_number"`
	FullName    string `json:"full_name"`
	Matricule   string `json:"matricule"`
	DriveLink   string `json:"drive_link"`
}

// ProjectWithStats is a project row joined with its author's username and
// review aggregates.
type ProjectWithStats struct {
	models.Project
	AuthorName  string  `json:"author_name"`
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int64   `json:"review_count"`
}

// CreateResult carries the created (or previously created) project and
// whether the duplicate guard matched.
type CreateResult struct {
	Project          *ProjectWithStats
	AlreadySubmitted bool
}

func (s *ProjectService) statsQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Project{}).
		Select("projects.*, users.username AS author_name, COALESCE(AVG(reviews.rating), 0) AS avg_rating, COUNT(reviews.id) AS review_count").
		Joins("JOIN users ON users.id = projects.author_id").
		Joins("LEFT JOIN reviews ON reviews.project_id = projects.id").
		Group("projects.id, users.username")
}

// List returns all projects with aggregates, newest first, optionally
// filtered by section and group.
func (s *ProjectService) List(req *ProjectListRequest) ([]ProjectWithStats, error) {
	query := s.statsQuery(s.db)
	if req.Section != "" {
		query = query.Where("projects.section = ?", req.Section)
	}
	if req.Group != "" {
		query = query.Where("projects.group_number = ?", req.Group)
	}

	var projects []ProjectWithStats
	if err := query.Order("projects.created_at DESC").Scan(&projects).Error; err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []ProjectWithStats{}
	}
	return projects, nil
}

// GetByID returns one project with aggregates.
func (s *ProjectService) GetByID(id uint) (*ProjectWithStats, error) {
	var project ProjectWithStats
	result := s.statsQuery(s.db).Where("projects.id = ?", id).Scan(&project)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, response.NewNotFound("Project not found")
	}
	return &project, nil
}

// Create validates and inserts a new submission. An identical submission
// (same author, title and description) within the duplicate window returns
// the earlier project instead of inserting a second row, so an accidental
// double-click never surfaces an error. The guard and the insert run inside
// one transaction.
func (s *ProjectService) Create(authorID uint, req *CreateProjectRequest) (*CreateResult, error) {
	if req.Title == "" || req.Description == "" {
		return nil, response.NewBadRequest("Title and description are required")
	}
	if len(req.Title) < 3 {
		return nil, response.NewBadRequest("Title must be at least 3 characters")
	}
	if len(req.Description) < 10 {
		return nil, response.NewBadRequest("Description must be at least 10 characters")
	}
	if req.DriveLink == "" {
		return nil, response.NewBadRequest("Drive link is required")
	}
	if !validLink(req.DriveLink) {
		return nil, response.NewBadRequest("Drive link must be a valid URL")
	}

	var (
		projectID uint
		duplicate bool
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var prior models.Project
		err := tx.Where(
			"author_id = ? AND title = ? AND description = ? AND created_at > ?",
			authorID, req.Title, req.Description, time.Now().Add(-duplicateWindow),
		).Order("created_at DESC").First(&prior).Error
		if err == nil {
			projectID = prior.ID
			duplicate = true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		project := models.Project{
			Title:       req.Title,
			Description: req.Description,
			AuthorID:    authorID,
			Section:     req.Section,
			GroupNumber: req.GroupNumber,
			FullName:    req.FullName,
			Matricule:   req.Matricule,
			DriveLink:   req.DriveLink,
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		projectID = project.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	project, err := s.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Project: project, AlreadySubmitted: duplicate}, nil
}

// Update applies a partial update to the caller's own project.
func (s *ProjectService) Update(id, callerID uint, req *UpdateProjectRequest) (*ProjectWithStats, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("Project not found")
		}
		return nil, err
	}

	if project.AuthorID != callerID {
		return nil, response.NewForbidden("You can only edit your own projects")
	}

	if req.Title != "" && len(req.Title) < 3 {
		return nil, response.NewBadRequest("Title must be at least 3 characters")
	}
	if req.Description != "" && len(req.Description) < 10 {
		return nil, response.NewBadRequest("Description must be at least 10 characters")
	}
	if req.DriveLink != "" && !validLink(req.DriveLink) {
		return nil, response.NewBadRequest("Drive link must be a valid URL")
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Section != "" {
		updates["section"] = req.Section
	}
	if req.GroupNumber != "" {
		updates["group_number"] = req.GroupNumber
	}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Matricule != "" {
		updates["matricule"] = req.Matricule
	}
	if req.DriveLink != "" {
		updates["drive_link"] = req.DriveLink
	}

	if len(updates) > 0 {
		if err := s.db.Model(&project).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetByID(id)
}

// Delete removes the caller's own project and its reviews in one
// transaction, satisfying the reviews→projects foreign key.
func (s *ProjectService) Delete(id, callerID uint) error {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("Project not found")
		}
		return err
	}

	if project.AuthorID != callerID {
		return response.NewForbidden("You can only delete your own projects")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
}

func validLink(link string) bool {
	u, err := url.ParseRequestURI(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
