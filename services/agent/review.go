package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/studyplanner/api/model"
	"github.com/studyplanner/api/utils/content"
	"gorm.io/gorm"
)

// ReviewPlanner reacts to calendar-event creation: it asks the inference
// backend what the student should review beforehand and files the answer as
// a pre-lecture task referencing the event. With no client configured it
// only logs the trigger, matching the planner's earlier log-only behavior.
type ReviewPlanner struct {
	db     *gorm.DB
	client *InferenceClient // nil means log-only
}

// NewReviewPlanner creates a review planner. client may be nil.
func NewReviewPlanner(db *gorm.DB, client *InferenceClient) *ReviewPlanner {
	return &ReviewPlanner{
		db:     db,
		client: client,
	}
}

// OnEventCreated runs after a calendar event is stored. It is called from a
// goroutine: failures are logged, never surfaced to the create request.
func (p *ReviewPlanner) OnEventCreated(userID uint, event model.CalendarEvent) {
	log.Printf("[Planner] New event [%d] created for user [%d]: %q", event.ID, userID, event.Title)

	if event.Title == "" {
		log.Println("[Planner] Event created without a title, skipping")
		return
	}

	if p.client == nil {
		log.Println("[Planner] No inference backend configured, logging only")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Based on the course material, what are the key prerequisite topics I should review for '%s'? Please provide a concise list.",
		event.Title,
	)

	details, err := p.client.Complete(ctx, "You are a study assistant helping a student prepare for upcoming lectures.", prompt)
	if err != nil {
		log.Printf("[Planner] Inference call failed for event %d: %v", event.ID, err)
		return
	}

	classified := content.Classify(details)
	log.Printf("[Planner] Generated %s content for event %d (%d chars)", classified.Kind, event.ID, len(details))

	eventID := event.ID
	task := model.Task{
		UserID:                 userID,
		Title:                  fmt.Sprintf("Review prerequisites for: %s", event.Title),
		Details:                details,
		Status:                 model.TaskPending,
		Priority:               "MEDIUM",
		DueDate:                time.Now().UTC(),
		RelatedCalendarEventID: &eventID,
		TaskType:               model.TaskTypePreLecture,
	}

	if err := p.db.Create(&task).Error; err != nil {
		log.Printf("[Planner] Failed to create review task for event %d: %v", event.ID, err)
		return
	}

	log.Printf("[Planner] Created review task %d for user %d", task.ID, userID)
}
