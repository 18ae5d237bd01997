package domain

import "time"

// User is the domain entity for a user account.
type User struct {
	ID           int64  `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password;not null" json:"-"`
	Firstname    string `gorm:"not null"`
	Lastname     string `gorm:"not null"`
	IsDeleted    bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
}
