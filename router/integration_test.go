package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/studyplanner/api/config"
	"github.com/studyplanner/api/database"
	"github.com/studyplanner/api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// These tests exercise the full route table against a real PostgreSQL
// instance. Run them with:
//
//	RUN_INTEGRATION_TESTS=true DB_USER_NAME=... DB_PASSWORD=... DB_NAME=... go test ./router/
func setupIntegrationApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run.")
	}

	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "integration-test-secret")
	}
	os.Setenv("GO_ENV", "test")

	store, err := database.StartGORM()
	if err != nil {
		t.Fatalf("failed to connect to PostgreSQL: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	getEnv, err := config.Get()
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}

	app := fiber.New()
	SetupRoutes(app, store, getEnv)

	db := store.GetDB().(*gorm.DB)
	t.Cleanup(func() { store.Close() })

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 15000)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	payload := map[string]interface{}{}
	json.Unmarshal(raw, &payload)
	return resp.StatusCode, payload, raw
}

// registerUser creates a fresh account and returns its access token and id.
func registerUser(t *testing.T, app *fiber.App) (string, uint) {
	t.Helper()

	email := fmt.Sprintf("it-%d@example.com", time.Now().UnixNano())
	status, payload, raw := doJSON(t, app, "POST", "/api/v1/auth/register", "", fiber.Map{
		"email":    email,
		"password": "integration-pass-123",
		"name":     "Integration Tester",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register returned %d: %s", status, raw)
	}

	token, _ := payload["accessToken"].(string)
	if token == "" {
		t.Fatalf("register response carries no accessToken: %s", raw)
	}
	user, _ := payload["user"].(map[string]interface{})
	id, _ := user["id"].(float64)
	return token, uint(id)
}

func TestIntegrationAuthFlow(t *testing.T) {
	app, db := setupIntegrationApp(t)
	_ = db

	email := fmt.Sprintf("it-auth-%d@example.com", time.Now().UnixNano())
	register := fiber.Map{"email": email, "password": "integration-pass-123", "name": "Auth Tester"}

	status, payload, raw := doJSON(t, app, "POST", "/api/v1/auth/register", "", register)
	if status != fiber.StatusCreated {
		t.Fatalf("register returned %d: %s", status, raw)
	}
	refreshToken, _ := payload["refreshToken"].(string)

	// Duplicate registration conflicts
	status, _, _ = doJSON(t, app, "POST", "/api/v1/auth/register", "", register)
	if status != fiber.StatusConflict {
		t.Errorf("duplicate register: expected 409, got %d", status)
	}

	// Wrong password and unknown email share a message
	status, payload, _ = doJSON(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{"email": email, "password": "wrong-password"})
	if status != fiber.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", status)
	}
	if payload["message"] != "Invalid email or password" {
		t.Errorf("unexpected login failure message: %v", payload["message"])
	}

	status, payload, raw = doJSON(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{"email": email, "password": "integration-pass-123"})
	if status != fiber.StatusOK {
		t.Fatalf("login returned %d: %s", status, raw)
	}
	accessToken, _ := payload["accessToken"].(string)

	status, payload, _ = doJSON(t, app, "GET", "/api/v1/auth/me", accessToken, nil)
	if status != fiber.StatusOK {
		t.Fatalf("me returned %d", status)
	}
	if payload["email"] != email {
		t.Errorf("profile email = %v, want %s", payload["email"], email)
	}

	// Refresh mints a fresh access token
	status, payload, _ = doJSON(t, app, "POST", "/api/v1/auth/refresh", "", fiber.Map{"refreshToken": refreshToken})
	if status != fiber.StatusOK {
		t.Fatalf("refresh returned %d", status)
	}
	if payload["accessToken"] == "" {
		t.Error("refresh response carries no accessToken")
	}

	// Logout blacklists the presented token; reuse is then forbidden
	status, _, _ = doJSON(t, app, "POST", "/api/v1/auth/logout", accessToken, nil)
	if status != fiber.StatusOK {
		t.Fatalf("logout returned %d", status)
	}
	status, _, _ = doJSON(t, app, "GET", "/api/v1/auth/me", accessToken, nil)
	if status != fiber.StatusForbidden {
		t.Errorf("revoked token: expected 403, got %d", status)
	}
}

func TestIntegrationCourseLifecycle(t *testing.T) {
	app, _ := setupIntegrationApp(t)
	token, _ := registerUser(t, app)

	// Minimal create gets the defaults
	status, payload, raw := doJSON(t, app, "POST", "/api/v1/courses", token, fiber.Map{"name": "Operating Systems"})
	if status != fiber.StatusCreated {
		t.Fatalf("create course returned %d: %s", status, raw)
	}
	courseID := uint(payload["id"].(float64))

	status, _, raw = doJSON(t, app, "GET", "/api/v1/courses", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("list courses returned %d", status)
	}
	var courses []map[string]interface{}
	if err := json.Unmarshal(raw, &courses); err != nil {
		t.Fatalf("list is not a JSON array: %s", raw)
	}
	if len(courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(courses))
	}
	if courses[0]["generationType"] != "flashcards" {
		t.Errorf("default generationType = %v, want flashcards", courses[0]["generationType"])
	}
	if _, isArray := courses[0]["schedule"].([]interface{}); !isArray {
		t.Errorf("default schedule is not an array: %v", courses[0]["schedule"])
	}

	// Partial update: only generationType changes
	status, _, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/courses/%d", courseID), token, fiber.Map{"generationType": "quiz"})
	if status != fiber.StatusOK {
		t.Fatalf("update course returned %d", status)
	}
	_, _, raw = doJSON(t, app, "GET", "/api/v1/courses", token, nil)
	json.Unmarshal(raw, &courses)
	if courses[0]["generationType"] != "quiz" {
		t.Errorf("generationType after update = %v, want quiz", courses[0]["generationType"])
	}
	if courses[0]["name"] != "Operating Systems" {
		t.Errorf("partial update clobbered name: %v", courses[0]["name"])
	}

	// Naming no updatable field is a 400
	status, payload, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/courses/%d", courseID), token, fiber.Map{})
	if status != fiber.StatusBadRequest {
		t.Errorf("empty update: expected 400, got %d", status)
	}
	if payload["message"] != "Nothing to update." {
		t.Errorf("unexpected message: %v", payload["message"])
	}

	// Non-array schedule rejected
	status, _, _ = doJSON(t, app, "POST", "/api/v1/courses", token, fiber.Map{"name": "Bad", "schedule": "Monday 10:00"})
	if status != fiber.StatusBadRequest {
		t.Errorf("string schedule: expected 400, got %d", status)
	}

	// Delete is idempotent
	for i := 0; i < 2; i++ {
		status, _, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/courses/%d", courseID), token, nil)
		if status != fiber.StatusOK {
			t.Errorf("delete pass %d: expected 200, got %d", i+1, status)
		}
	}
}

func TestIntegrationCourseListOrdering(t *testing.T) {
	app, _ := setupIntegrationApp(t)
	token, _ := registerUser(t, app)

	for _, name := range []string{"Networks", "Algorithms", "Databases"} {
		status, _, _ := doJSON(t, app, "POST", "/api/v1/courses", token, fiber.Map{"name": name})
		if status != fiber.StatusCreated {
			t.Fatalf("create %q returned %d", name, status)
		}
	}

	_, _, raw := doJSON(t, app, "GET", "/api/v1/courses", token, nil)
	var courses []map[string]interface{}
	json.Unmarshal(raw, &courses)

	want := []string{"Algorithms", "Databases", "Networks"}
	if len(courses) != len(want) {
		t.Fatalf("expected %d courses, got %d", len(want), len(courses))
	}
	for i, name := range want {
		if courses[i]["name"] != name {
			t.Errorf("position %d: got %v, want %s", i, courses[i]["name"], name)
		}
	}
}

func TestIntegrationQuizResultMerge(t *testing.T) {
	app, db := setupIntegrationApp(t)
	token, userID := registerUser(t, app)

	task := model.Task{
		UserID:  userID,
		Title:   "Chapter 4 quiz",
		Status:  model.TaskPending,
		DueDate: time.Now().Add(48 * time.Hour),
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}

	quizPath := fmt.Sprintf("/api/v1/tasks/%d/quiz", task.ID)

	// First submission
	status, _, raw := doJSON(t, app, "POST", quizPath, token, fiber.Map{
		"What is 2+2?": fiber.Map{"userAnswer": "5", "isCorrect": false},
	})
	if status != fiber.StatusOK {
		t.Fatalf("first quiz submit returned %d: %s", status, raw)
	}

	// Second submission: new question plus a corrected retake
	status, _, _ = doJSON(t, app, "POST", quizPath, token, fiber.Map{
		"What is 2+2?":       fiber.Map{"userAnswer": "4", "isCorrect": true},
		"Capital of France?": fiber.Map{"userAnswer": "Paris", "isCorrect": true},
	})
	if status != fiber.StatusOK {
		t.Fatalf("second quiz submit returned %d", status)
	}

	var stored model.Task
	if err := db.First(&stored, task.ID).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if len(stored.QuizResult) != 2 {
		t.Fatalf("expected 2 merged entries, got %d: %v", len(stored.QuizResult), stored.QuizResult)
	}
	retake, _ := stored.QuizResult["What is 2+2?"].(map[string]interface{})
	if retake["isCorrect"] != true {
		t.Errorf("retake did not overwrite the earlier answer: %v", retake)
	}

	// Submitting a quiz result never completes the task
	if stored.Status != model.TaskPending {
		t.Errorf("quiz submission changed status to %s", stored.Status)
	}

	// Missing task is the one by-id mutation that 404s
	status, payload, _ := doJSON(t, app, "POST", "/api/v1/tasks/999999/quiz", token, fiber.Map{
		"q": fiber.Map{"userAnswer": "a", "isCorrect": true},
	})
	if status != fiber.StatusNotFound {
		t.Errorf("missing task: expected 404, got %d", status)
	}
	if payload["message"] != "Task not found" {
		t.Errorf("unexpected message: %v", payload["message"])
	}

	// Empty submission is a 400
	status, _, _ = doJSON(t, app, "POST", quizPath, token, fiber.Map{})
	if status != fiber.StatusBadRequest {
		t.Errorf("empty submission: expected 400, got %d", status)
	}
}

func TestIntegrationTaskStatusAndList(t *testing.T) {
	app, db := setupIntegrationApp(t)
	token, userID := registerUser(t, app)

	older := model.Task{UserID: userID, Title: "older", Status: model.TaskPending, DueDate: time.Now().Add(24 * time.Hour)}
	newer := model.Task{UserID: userID, Title: "newer", Status: model.TaskPending, DueDate: time.Now().Add(72 * time.Hour), QuizResult: datatypes.JSONMap{"q": "a"}}
	for _, task := range []*model.Task{&older, &newer} {
		if err := db.Create(task).Error; err != nil {
			t.Fatalf("failed to seed task: %v", err)
		}
	}

	status, _, _ := doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/tasks/%d", older.ID), token, fiber.Map{"status": "COMPLETED"})
	if status != fiber.StatusOK {
		t.Fatalf("status update returned %d", status)
	}

	// Bad status rejected
	status, _, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/tasks/%d", older.ID), token, fiber.Map{"status": "DONE"})
	if status != fiber.StatusBadRequest {
		t.Errorf("invalid status: expected 400, got %d", status)
	}

	_, _, raw := doJSON(t, app, "GET", "/api/v1/tasks", token, nil)
	var tasks []map[string]interface{}
	if err := json.Unmarshal(raw, &tasks); err != nil {
		t.Fatalf("task list is not a JSON array: %s", raw)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	// Due date descending: the later-due task first
	if tasks[0]["title"] != "newer" || tasks[1]["title"] != "older" {
		t.Errorf("unexpected ordering: %v then %v", tasks[0]["title"], tasks[1]["title"])
	}
	if tasks[1]["status"] != "COMPLETED" {
		t.Errorf("status update not visible in list: %v", tasks[1]["status"])
	}
	if _, err := time.Parse(time.RFC3339, tasks[0]["dueDate"].(string)); err != nil {
		t.Errorf("dueDate is not ISO-8601: %v", tasks[0]["dueDate"])
	}
	if tasks[0]["taskType"] != "default" {
		t.Errorf("expected default taskType, got %v", tasks[0]["taskType"])
	}
	if tasks[1]["quizResult"] != nil {
		t.Errorf("expected null quizResult before first submission, got %v", tasks[1]["quizResult"])
	}
}

func TestIntegrationEventLifecycle(t *testing.T) {
	app, _ := setupIntegrationApp(t)
	token, _ := registerUser(t, app)

	// Missing endTime rejected
	status, _, _ := doJSON(t, app, "POST", "/api/v1/events", token, fiber.Map{
		"title":     "Lecture",
		"startTime": "2025-11-03T14:30:00Z",
	})
	if status != fiber.StatusBadRequest {
		t.Errorf("missing endTime: expected 400, got %d", status)
	}

	status, payload, raw := doJSON(t, app, "POST", "/api/v1/events", token, fiber.Map{
		"title":     "OS Lecture",
		"startTime": "2025-11-03T14:30:00Z",
		"endTime":   "2025-11-03T16:00:00Z",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create event returned %d: %s", status, raw)
	}
	eventID := uint(payload["eventId"].(float64))

	// Full replace, datetime-local style timestamps accepted
	status, _, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/events/%d", eventID), token, fiber.Map{
		"title":     "OS Lecture (moved)",
		"startTime": "2025-11-04T10:00",
		"endTime":   "2025-11-04T11:30",
	})
	if status != fiber.StatusOK {
		t.Fatalf("update event returned %d", status)
	}

	status, _, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/events/%d", eventID), token, nil)
	if status != fiber.StatusOK {
		t.Errorf("delete event returned %d", status)
	}
}

func TestIntegrationTenantIsolation(t *testing.T) {
	app, _ := setupIntegrationApp(t)
	firstToken, _ := registerUser(t, app)
	secondToken, _ := registerUser(t, app)

	status, payload, _ := doJSON(t, app, "POST", "/api/v1/courses", firstToken, fiber.Map{"name": "Private Course"})
	if status != fiber.StatusCreated {
		t.Fatalf("create course returned %d", status)
	}
	courseID := uint(payload["id"].(float64))

	// The other tenant sees nothing
	_, _, raw := doJSON(t, app, "GET", "/api/v1/courses", secondToken, nil)
	var courses []map[string]interface{}
	json.Unmarshal(raw, &courses)
	for _, course := range courses {
		if course["name"] == "Private Course" {
			t.Fatal("course leaked across tenants")
		}
	}

	// Cross-tenant mutations are silent no-ops
	status, _, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/courses/%d", courseID), secondToken, fiber.Map{"name": "Hijacked"})
	if status != fiber.StatusOK {
		t.Fatalf("cross-tenant update returned %d", status)
	}
	_, _, raw = doJSON(t, app, "GET", "/api/v1/courses", firstToken, nil)
	json.Unmarshal(raw, &courses)
	if len(courses) != 1 || courses[0]["name"] != "Private Course" {
		t.Errorf("cross-tenant update modified the owner's course: %v", courses)
	}
}
