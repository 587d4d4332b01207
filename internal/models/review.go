package models

import "time"

// Review is one user's rating of one project. The composite unique index
// backs the upsert: a reviewer can never hold two rows for the same project.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProjectID  uint      `gorm:"uniqueIndex:idx_reviews_project_reviewer;not null" json:"project_id"`
	ReviewerID uint      `gorm:"uniqueIndex:idx_reviews_project_reviewer;not null" json:"reviewer_id"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"-"`
}

func (Review) TableName() string { return "reviews" }
