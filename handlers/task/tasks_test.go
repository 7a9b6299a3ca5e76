package task

import (
	"testing"
	"time"

	"github.com/studyplanner/api/model"
	"gorm.io/datatypes"
)

func TestMergeQuizResultsDisjointKeys(t *testing.T) {
	existing := datatypes.JSONMap{
		"Capital of France?": map[string]interface{}{"userAnswer": "Paris", "isCorrect": true},
	}
	submitted := datatypes.JSONMap{
		"What is 2+2?": map[string]interface{}{"userAnswer": "4", "isCorrect": true},
	}

	merged := MergeQuizResults(existing, submitted)

	if len(merged) != 2 {
		t.Fatalf("expected union of 2 entries, got %d", len(merged))
	}
	if _, ok := merged["Capital of France?"]; !ok {
		t.Error("earlier answer dropped by merge")
	}
	if _, ok := merged["What is 2+2?"]; !ok {
		t.Error("submitted answer missing after merge")
	}
}

func TestMergeQuizResultsSameKeyNewWins(t *testing.T) {
	existing := datatypes.JSONMap{
		"What is 2+2?": map[string]interface{}{"userAnswer": "5", "isCorrect": false},
	}
	submitted := datatypes.JSONMap{
		"What is 2+2?": map[string]interface{}{"userAnswer": "4", "isCorrect": true},
	}

	merged := MergeQuizResults(existing, submitted)

	if len(merged) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(merged))
	}
	answer, ok := merged["What is 2+2?"].(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected entry type %T", merged["What is 2+2?"])
	}
	if answer["userAnswer"] != "4" || answer["isCorrect"] != true {
		t.Errorf("expected submitted value to win, got %v", answer)
	}
}

func TestMergeQuizResultsDoesNotMutateInputs(t *testing.T) {
	existing := datatypes.JSONMap{"q1": "a1"}
	submitted := datatypes.JSONMap{"q2": "a2"}

	MergeQuizResults(existing, submitted)

	if len(existing) != 1 || len(submitted) != 1 {
		t.Error("merge mutated an input map")
	}
}

func TestMergeQuizResultsEmptyExisting(t *testing.T) {
	submitted := datatypes.JSONMap{"q": "a"}

	merged := MergeQuizResults(nil, submitted)
	if len(merged) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(merged))
	}
}

func TestToTaskResponseDueDateISO(t *testing.T) {
	due := time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC)
	resp := toTaskResponse(model.Task{
		ID:      7,
		Title:   "Review prerequisites",
		Status:  model.TaskPending,
		DueDate: due,
	})

	if resp.DueDate != "2025-11-03T14:30:00Z" {
		t.Errorf("expected RFC 3339 dueDate, got %q", resp.DueDate)
	}
	if _, err := time.Parse(time.RFC3339, resp.DueDate); err != nil {
		t.Errorf("dueDate is not valid ISO-8601: %v", err)
	}
}

func TestToTaskResponseDefaults(t *testing.T) {
	resp := toTaskResponse(model.Task{ID: 1, Title: "t", DueDate: time.Now()})

	if resp.QuizResult != nil {
		t.Errorf("expected nil quizResult (marshals as null), got %v", resp.QuizResult)
	}
	if resp.TaskType != model.TaskTypeDefault {
		t.Errorf("expected taskType %q, got %q", model.TaskTypeDefault, resp.TaskType)
	}
	if resp.RelatedCalendarEventID != nil {
		t.Errorf("expected nil relatedCalendarEventId")
	}
}

func TestToTaskResponseKeepsExplicitTaskType(t *testing.T) {
	resp := toTaskResponse(model.Task{TaskType: model.TaskTypePreLecture, DueDate: time.Now()})
	if resp.TaskType != model.TaskTypePreLecture {
		t.Errorf("expected pre-lecture, got %q", resp.TaskType)
	}
}
