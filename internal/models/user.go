package models

import "time"

// User is a platform account. Passwords are stored bcrypt-hashed and never
// serialized; accounts are never hard-deleted.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password       string    `gorm:"size:255;not null" json:"-"`
	FullName       string    `gorm:"size:200" json:"full_name"`
	ProfilePicture string    `gorm:"size:500" json:"profile_picture"`
	Bio            string    `gorm:"type:text" json:"bio"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

// PublicUser is the profile shape exposed to other users: no email, no hash.
type PublicUser struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	FullName       string    `json:"full_name"`
	ProfilePicture string    `json:"profile_picture"`
	Bio            string    `json:"bio"`
	CreatedAt      time.Time `json:"created_at"`
}

// Public strips the private fields from a User.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		CreatedAt:      u.CreatedAt,
	}
}
