package models

import "time"

// LoginHistory is an append-only record of a successful login.
// Rows are never updated or deleted except when the owning user is removed.
type LoginHistory struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	UserID        int64     `json:"-" gorm:"index;not null"`
	User          User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	LoginDatetime time.Time `json:"login_datetime" gorm:"autoCreateTime;not null"`
	IPAddress     string    `json:"ip_address"`
	UserAgent     string    `json:"user_agent" gorm:"size:255"`
}

// TableName returns the database table name for the LoginHistory model.
func (LoginHistory) TableName() string {
	return "login_history"
}
