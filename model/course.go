package model

import (
	"time"

	"gorm.io/datatypes"
)

// GenerationType governs how auto-generated review content for a course
// should be rendered downstream (flashcard deck vs multiple-choice quiz).
type GenerationType string

const (
	GenerationFlashcards GenerationType = "flashcards"
	GenerationQuiz       GenerationType = "quiz"
)

// ScheduleSlot is one recurring meeting of a course, e.g.
// {"day": "Monday", "startTime": "10:00", "endTime": "11:30"}.
type ScheduleSlot struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Course is a user-scoped course document. Name is never empty; everything
// else is optional with defaults applied at create time.
type Course struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"-"`
	UpdatedAt      time.Time      `json:"-"`
	UserID         uint           `gorm:"not null;index" json:"-"`
	Name           string         `gorm:"not null" json:"name"`
	Code           string         `gorm:"default:''" json:"code"`
	GenerationType GenerationType `gorm:"type:varchar(20);default:'flashcards'" json:"generationType"`
	Schedule       datatypes.JSON `gorm:"type:jsonb" json:"schedule"`
	TermStartDate  *string        `gorm:"type:varchar(30)" json:"termStartDate"`
	TermEndDate    *string        `gorm:"type:varchar(30)" json:"termEndDate"`
}
