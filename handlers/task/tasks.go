package task

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/studyplanner/api/model"
	"github.com/studyplanner/api/utils/middleware"
	"github.com/studyplanner/api/utils/response"
	"github.com/studyplanner/api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskHandler handles task-related requests, all scoped to the
// authenticated user.
type TaskHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(db *gorm.DB) *TaskHandler {
	return &TaskHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// UpdateTaskStatusRequest represents the request body for a status update
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING COMPLETED"`
}

// TaskResponse is the wire shape of a task: dueDate leaves as an ISO-8601
// string regardless of how storage holds it, quizResult is null until the
// first submission, taskType falls back to "default".
type TaskResponse struct {
	ID                     uint              `json:"id"`
	Title                  string            `json:"title"`
	Details                string            `json:"details"`
	Status                 model.TaskStatus  `json:"status"`
	Priority               string            `json:"priority"`
	DueDate                string            `json:"dueDate"`
	RelatedCalendarEventID *uint             `json:"relatedCalendarEventId"`
	QuizResult             datatypes.JSONMap `json:"quizResult"`
	TaskType               model.TaskType    `json:"taskType"`
}

func toTaskResponse(t model.Task) TaskResponse {
	taskType := t.TaskType
	if taskType == "" {
		taskType = model.TaskTypeDefault
	}

	return TaskResponse{
		ID:                     t.ID,
		Title:                  t.Title,
		Details:                t.Details,
		Status:                 t.Status,
		Priority:               t.Priority,
		DueDate:                t.DueDate.UTC().Format(time.RFC3339),
		RelatedCalendarEventID: t.RelatedCalendarEventID,
		QuizResult:             t.QuizResult, // nil marshals as null
		TaskType:               taskType,
	}
}

// MergeQuizResults shallow-merges a newly submitted result map over the
// stored one. Keys present in the submission win; keys absent from it are
// preserved. Neither input is mutated.
func MergeQuizResults(existing, submitted datatypes.JSONMap) datatypes.JSONMap {
	merged := datatypes.JSONMap{}
	for question, answer := range existing {
		merged[question] = answer
	}
	for question, answer := range submitted {
		merged[question] = answer
	}
	return merged
}

// ListTasks handles GET /tasks
//
// Returns all of the caller's tasks ordered by due date descending.
func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var tasks []model.Task
	if err := h.db.Where("user_id = ?", userID).
		Order("due_date DESC").
		Find(&tasks).Error; err != nil {
		log.Println("Error fetching tasks:", err)
		return response.InternalServerError(c, "")
	}

	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

// UpdateTaskStatus handles PUT /tasks/:id
//
// Writes only the status column. Transitions are unconstrained: any status
// may follow any other, and this endpoint is the only way a task completes
// (quiz submission deliberately does not touch status).
func (h *TaskHandler) UpdateTaskStatus(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	id := c.Params("id")

	var req UpdateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, `Missing "status" field for update.`)
	}

	if err := h.db.Model(&model.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", req.Status).Error; err != nil {
		log.Println("Error updating task:", err)
		return response.InternalServerError(c, "")
	}

	return response.Message(c, "Task updated successfully")
}

// DeleteTask handles DELETE /tasks/:id (idempotent)
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	id := c.Params("id")

	if err := h.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Task{}).Error; err != nil {
		log.Println("Error deleting task:", err)
		return response.InternalServerError(c, "")
	}

	return response.Message(c, "Task deleted successfully")
}

// SubmitQuizResult handles POST /tasks/:id/quiz
//
// Reads the stored quizResult map, shallow-merges the submitted answers on
// top (new keys win, earlier answers survive), and writes the merged map
// back. The read-then-write gap means two concurrent submissions for the
// same task are last-writer-wins on the whole map; a single client
// submitting sequentially never loses answers.
func (h *TaskHandler) SubmitQuizResult(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	id := c.Params("id")

	var submitted map[string]model.QuizAnswer
	if err := c.BodyParser(&submitted); err != nil {
		return response.BadRequest(c, "Missing quiz result data.")
	}
	if len(submitted) == 0 {
		return response.BadRequest(c, "Missing quiz result data.")
	}

	var task model.Task
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Task not found")
		}
		log.Println("Error loading task for quiz result:", err)
		return response.InternalServerError(c, "")
	}

	asMap := datatypes.JSONMap{}
	for question, answer := range submitted {
		asMap[question] = map[string]interface{}{
			"userAnswer": answer.UserAnswer,
			"isCorrect":  answer.IsCorrect,
		}
	}
	merged := MergeQuizResults(task.QuizResult, asMap)

	if err := h.db.Model(&task).
		Update("quiz_result", merged).Error; err != nil {
		log.Println("Error saving quiz result:", err)
		return response.InternalServerError(c, "")
	}

	return response.Message(c, "Quiz result saved successfully.")
}
