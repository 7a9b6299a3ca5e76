package model

import (
	"time"

	"gorm.io/datatypes"
)

// TaskStatus is the two-valued task lifecycle. Transitions are caller-driven
// and unconstrained: any status may follow any other.
type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskCompleted TaskStatus = "COMPLETED"
)

// TaskType tells the front end which review mode a generated task belongs to.
type TaskType string

const (
	TaskTypePreLecture  TaskType = "pre-lecture"
	TaskTypePostLecture TaskType = "post-lecture"
	TaskTypeDefault     TaskType = "default"
)

// QuizAnswer is one recorded answer inside a task's quiz result map,
// keyed by the question text.
type QuizAnswer struct {
	UserAnswer string `json:"userAnswer"`
	IsCorrect  bool   `json:"isCorrect"`
}

// Task is a user-scoped to-do document. Details is free text and may embed a
// fenced JSON block (quiz or flashcard payload) that clients classify.
// QuizResult maps question text to the recorded answer and grows by
// shallow merge only: a later submission never drops earlier entries unless
// it overwrites the same question key.
type Task struct {
	ID                     uint              `gorm:"primaryKey" json:"id"`
	CreatedAt              time.Time         `json:"-"`
	UpdatedAt              time.Time         `json:"-"`
	UserID                 uint              `gorm:"not null;index" json:"-"`
	Title                  string            `gorm:"not null" json:"title"`
	Details                string            `gorm:"type:text" json:"details"`
	Status                 TaskStatus        `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	Priority               string            `gorm:"type:varchar(20)" json:"priority"`
	DueDate                time.Time         `gorm:"not null;index" json:"dueDate"`
	RelatedCalendarEventID *uint             `json:"relatedCalendarEventId"` // soft back-reference, never an ownership link
	QuizResult             datatypes.JSONMap `gorm:"type:jsonb" json:"quizResult"`
	TaskType               TaskType          `gorm:"type:varchar(20);default:'default'" json:"taskType"`
}
