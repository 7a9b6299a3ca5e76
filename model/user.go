package model

import (
	"time"

	"gorm.io/gorm"
)

// User is the tenancy root: every planner document hangs off a user id,
// which is the sole ownership boundary for courses, tasks and events.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"type:varchar(100)" json:"name"`
	TokenVersion int            `gorm:"default:0" json:"-"` // Bump to invalidate all issued tokens
}
