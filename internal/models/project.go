package models

import "time"

// Project is a course-project submission. Attachments are an external drive
// link; the author is immutable once set.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:300;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	AuthorID    uint      `gorm:"index;not null" json:"author_id"`
	Author      *User     `gorm:"foreignKey:AuthorID" json:"-"`
	Section     string    `gorm:"size:100" json:"section"`
	GroupNumber string    `gorm:"size:100" json:"group_number"`
	FullName    string    `gorm:"size:200" json:"full_name"`
	Matricule   string    `gorm:"size:100" json:"matricule"`
	DriveLink   string    `gorm:"size:500;not null" json:"drive_link"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

func (Project) TableName() string { return "projects" }
