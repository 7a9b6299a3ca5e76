package model

import "time"

// CalendarEvent is a user-scoped calendar entry. CourseID is a non-enforced
// soft reference: deleting a course does not cascade to its events.
type CalendarEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	Title     string    `gorm:"not null" json:"title"`
	StartTime time.Time `gorm:"not null" json:"startTime"`
	EndTime   time.Time `gorm:"not null" json:"endTime"`
	CourseID  *uint     `json:"courseId"`
}
