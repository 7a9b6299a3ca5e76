package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/studyplanner/api/model"
	"github.com/studyplanner/api/utils/auth"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RunSeeds populates the database with a demo account and a handful of
// planner documents for local development. The demo user is created from
// DEMO_EMAIL and DEMO_PASSWORD; without them seeding is skipped entirely.
func RunSeeds(db *gorm.DB) error {
	email := os.Getenv("DEMO_EMAIL")
	password := os.Getenv("DEMO_PASSWORD")
	if email == "" || password == "" {
		log.Println("DEMO_EMAIL / DEMO_PASSWORD not set, skipping seeds")
		return nil
	}

	var existing model.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("Demo user %s already exists, skipping seeds", email)
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}

	user := model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Demo Student",
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("creating demo user: %w", err)
	}

	course := model.Course{
		UserID:         user.ID,
		Name:           "Operating Systems",
		Code:           "CS350",
		GenerationType: model.GenerationQuiz,
		Schedule:       datatypes.JSON(`[{"day":"Monday","startTime":"10:00","endTime":"11:30"},{"day":"Wednesday","startTime":"10:00","endTime":"11:30"}]`),
	}
	if err := db.Create(&course).Error; err != nil {
		return fmt.Errorf("creating demo course: %w", err)
	}

	now := time.Now()
	event := model.CalendarEvent{
		UserID:    user.ID,
		Title:     "OS Lecture: Virtual Memory",
		StartTime: now.Add(48 * time.Hour),
		EndTime:   now.Add(48*time.Hour + 90*time.Minute),
		CourseID:  &course.ID,
	}
	if err := db.Create(&event).Error; err != nil {
		return fmt.Errorf("creating demo event: %w", err)
	}

	tasks := []model.Task{
		{
			UserID:                 user.ID,
			Title:                  "Review prerequisites for: OS Lecture: Virtual Memory",
			Details:                "Paging, page tables and the TLB.",
			Status:                 model.TaskPending,
			Priority:               "MEDIUM",
			DueDate:                now.Add(24 * time.Hour),
			RelatedCalendarEventID: &event.ID,
			TaskType:               model.TaskTypePreLecture,
		},
		{
			UserID:   user.ID,
			Title:    "Chapter 3 quiz",
			Status:   model.TaskCompleted,
			Priority: "LOW",
			DueDate:  now.Add(-24 * time.Hour),
			QuizResult: datatypes.JSONMap{
				"What does MMU stand for?": map[string]interface{}{
					"userAnswer": "Memory Management Unit",
					"isCorrect":  true,
				},
			},
		},
	}
	for i := range tasks {
		if err := db.Create(&tasks[i]).Error; err != nil {
			return fmt.Errorf("creating demo task: %w", err)
		}
	}

	log.Printf("Seeded demo user %s with 1 course, 1 event and %d tasks", email, len(tasks))
	return nil
}
