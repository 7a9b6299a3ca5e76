package event

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/studyplanner/api/model"
	"github.com/studyplanner/api/services/agent"
	"github.com/studyplanner/api/utils/middleware"
	"github.com/studyplanner/api/utils/response"
	"github.com/studyplanner/api/utils/validation"
	"gorm.io/gorm"
)

// EventHandler handles calendar-event requests. Create and update share one
// request shape because PUT /events/:id is a full replace of the same field
// set, unlike the partial Course update.
type EventHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	planner   *agent.ReviewPlanner // optional; nil disables the create hook
}

// NewEventHandler creates a new event handler. planner may be nil when no
// inference backend is configured.
func NewEventHandler(db *gorm.DB, planner *agent.ReviewPlanner) *EventHandler {
	return &EventHandler{
		db:        db,
		validator: validation.NewValidator(),
		planner:   planner,
	}
}

// EventRequest represents the body of both POST /events and PUT /events/:id
type EventRequest struct {
	Title     string `json:"title" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	CourseID  *uint  `json:"courseId"`
}

var errUnparseableTime = errors.New("unparseable time")

// eventTimeLayouts are the accepted wire formats, widest first. Browsers
// send RFC 3339; datetime-local inputs omit the zone and seconds.
var eventTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseEventTime parses a start/end time from its wire representation.
func ParseEventTime(value string) (time.Time, error) {
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errUnparseableTime
}

func (h *EventHandler) parseRequest(c *fiber.Ctx) (EventRequest, time.Time, time.Time, error) {
	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return req, time.Time{}, time.Time{}, errors.New("Invalid request body")
	}

	req.Title = validation.SanitizeString(req.Title)
	if err := h.validator.ValidateStruct(req); err != nil {
		return req, time.Time{}, time.Time{}, errors.New("Missing required event fields.")
	}

	start, err := ParseEventTime(req.StartTime)
	if err != nil {
		return req, time.Time{}, time.Time{}, errors.New(`"startTime" is not a valid date.`)
	}
	end, err := ParseEventTime(req.EndTime)
	if err != nil {
		return req, time.Time{}, time.Time{}, errors.New(`"endTime" is not a valid date.`)
	}

	return req, start, end, nil
}

// CreateEvent handles POST /events
//
// On success the review planner (when configured) is queried asynchronously
// and may insert a pre-lecture review task referencing the new event.
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	req, start, end, err := h.parseRequest(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	event := model.CalendarEvent{
		UserID:    userID,
		Title:     req.Title,
		StartTime: start,
		EndTime:   end,
		CourseID:  req.CourseID, // stored NULL when omitted
	}

	if err := h.db.Create(&event).Error; err != nil {
		log.Println("Error creating event:", err)
		return response.InternalServerError(c, "")
	}

	if h.planner != nil {
		go h.planner.OnEventCreated(userID, event)
	}

	return response.Created(c, "Event created successfully", fiber.Map{"eventId": event.ID})
}

// UpdateEvent handles PUT /events/:id
//
// Full replace of title, startTime, endTime and courseId; omitting courseId
// resets it to NULL. Idempotent against missing ids.
func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	id := c.Params("id")

	req, start, end, err := h.parseRequest(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	updates := map[string]interface{}{
		"title":      req.Title,
		"start_time": start,
		"end_time":   end,
		"course_id":  req.CourseID,
	}

	if err := h.db.Model(&model.CalendarEvent{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates).Error; err != nil {
		log.Println("Error updating event:", err)
		return response.InternalServerError(c, "")
	}

	return response.Message(c, "Event updated successfully")
}

// DeleteEvent handles DELETE /events/:id (idempotent)
func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	id := c.Params("id")

	if err := h.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.CalendarEvent{}).Error; err != nil {
		log.Println("Error deleting event:", err)
		return response.InternalServerError(c, "")
	}

	return response.Message(c, "Event deleted successfully")
}
