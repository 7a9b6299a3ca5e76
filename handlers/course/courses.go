package course

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/studyplanner/api/model"
	"github.com/studyplanner/api/utils/middleware"
	"github.com/studyplanner/api/utils/response"
	"github.com/studyplanner/api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseHandler handles course-related requests. Every query is scoped to
// the authenticated user's id; there is no cross-user access path.
type CourseHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB) *CourseHandler {
	return &CourseHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateCourseRequest represents the request body for creating a course.
// Schedule stays raw so a non-array payload can be rejected explicitly
// instead of silently decoding to nothing.
type CreateCourseRequest struct {
	Name           string          `json:"name" validate:"required"`
	Code           string          `json:"code"`
	GenerationType string          `json:"generationType" validate:"omitempty,oneof=flashcards quiz"`
	Schedule       json.RawMessage `json:"schedule"`
	TermStartDate  *string         `json:"termStartDate"`
	TermEndDate    *string         `json:"termEndDate"`
}

// UpdateCourseRequest represents the request body for a partial course
// update: only supplied keys are written.
type UpdateCourseRequest struct {
	Name           *string         `json:"name"`
	Code           *string         `json:"code"`
	GenerationType *string         `json:"generationType" validate:"omitempty,oneof=flashcards quiz"`
	Schedule       json.RawMessage `json:"schedule"`
	TermStartDate  *string         `json:"termStartDate"`
	TermEndDate    *string         `json:"termEndDate"`
}

// parseSchedule validates that a raw schedule payload is a JSON array of
// {day, startTime, endTime} slots and returns it in stored form.
func parseSchedule(raw json.RawMessage) (datatypes.JSON, error) {
	var slots []model.ScheduleSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []model.ScheduleSlot{}
	}
	normalized, err := json.Marshal(slots)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(normalized), nil
}

// buildCourseUpdates turns a partial-update request into the column set to
// write. An empty map means the request named nothing updatable.
func buildCourseUpdates(req UpdateCourseRequest) (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	if req.Name != nil {
		name := validation.SanitizeString(*req.Name)
		if name == "" {
			return nil, errNameEmpty
		}
		updates["name"] = name
	}
	if req.Code != nil {
		updates["code"] = validation.SanitizeString(*req.Code)
	}
	if req.GenerationType != nil {
		updates["generation_type"] = *req.GenerationType
	}
	if req.Schedule != nil {
		schedule, err := parseSchedule(req.Schedule)
		if err != nil {
			return nil, errBadSchedule
		}
		updates["schedule"] = schedule
	}
	if req.TermStartDate != nil {
		updates["term_start_date"] = *req.TermStartDate
	}
	if req.TermEndDate != nil {
		updates["term_end_date"] = *req.TermEndDate
	}

	return updates, nil
}

var (
	errNameEmpty   = fiber.NewError(fiber.StatusBadRequest, "Course name must not be empty.")
	errBadSchedule = fiber.NewError(fiber.StatusBadRequest, `"schedule" must be an array of {day, startTime, endTime} entries.`)
)

// ListCourses handles GET /courses
//
// Returns all of the caller's courses ordered by name ascending; an empty
// collection is an empty array, not an error.
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var courses []model.Course
	if err := h.db.Where("user_id = ?", userID).
		Order("name ASC").
		Find(&courses).Error; err != nil {
		log.Println("Error fetching courses:", err)
		return response.InternalServerError(c, "")
	}

	// Rows written before schedule defaulting existed may hold NULL
	for i := range courses {
		if len(courses[i].Schedule) == 0 {
			courses[i].Schedule = datatypes.JSON("[]")
		}
		if courses[i].GenerationType == "" {
			courses[i].GenerationType = model.GenerationFlashcards
		}
	}

	return c.Status(fiber.StatusOK).JSON(courses)
}

// CreateCourse handles POST /courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Name = validation.SanitizeString(req.Name)
	if req.Name == "" {
		return response.BadRequest(c, "Course name is required.")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, validation.FormatValidationError(err))
	}

	generationType := model.GenerationFlashcards
	if req.GenerationType != "" {
		generationType = model.GenerationType(req.GenerationType)
	}

	schedule := datatypes.JSON("[]")
	if req.Schedule != nil {
		parsed, err := parseSchedule(req.Schedule)
		if err != nil {
			return response.BadRequest(c, errBadSchedule.Message)
		}
		schedule = parsed
	}

	course := model.Course{
		UserID:         userID,
		Name:           req.Name,
		Code:           validation.SanitizeString(req.Code),
		GenerationType: generationType,
		Schedule:       schedule,
		TermStartDate:  req.TermStartDate,
		TermEndDate:    req.TermEndDate,
	}

	if err := h.db.Create(&course).Error; err != nil {
		log.Println("Error adding course:", err)
		return response.InternalServerError(c, "")
	}

	return response.Created(c, "Course added successfully", fiber.Map{"id": course.ID})
}

// UpdateCourse handles PUT /courses/:id
//
// Partial merge: only supplied keys are written, everything else is left
// untouched in storage. A request naming no updatable field is a 400.
// Updating a course the caller does not own is a no-op 200, matching the
// other idempotent by-id mutations.
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	id := c.Params("id")

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, validation.FormatValidationError(err))
	}

	updates, err := buildCourseUpdates(req)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return response.BadRequest(c, fe.Message)
		}
		return response.BadRequest(c, err.Error())
	}
	if len(updates) == 0 {
		return response.BadRequest(c, "Nothing to update.")
	}

	if err := h.db.Model(&model.Course{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates).Error; err != nil {
		log.Println("Error updating course:", err)
		return response.InternalServerError(c, "")
	}

	return response.Message(c, "Course preference updated.")
}

// DeleteCourse handles DELETE /courses/:id
//
// Idempotent: deleting an id that does not exist (or is not the caller's)
// still succeeds. There is no cascade; tasks and events keep their soft
// references to the deleted course id.
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	id := c.Params("id")

	if err := h.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Course{}).Error; err != nil {
		log.Println("Error deleting course:", err)
		return response.InternalServerError(c, "")
	}

	return response.Message(c, "Course deleted successfully")
}
