// Package models contains data models for the content service.
package models

import "time"

// User represents a registered account.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// Profile is the optional one-to-one profile attached to a user.
// At most one row exists per user; it is created lazily on first write.
type Profile struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	UserID      int64      `json:"-" gorm:"uniqueIndex;not null"`
	User        User       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Bio         string     `json:"bio"`
	Location    string     `json:"location"`
	DateOfBirth *time.Time `json:"date_of_birth" gorm:"type:date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}
