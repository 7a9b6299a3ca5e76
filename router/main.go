package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/studyplanner/api/config"
	"github.com/studyplanner/api/database"
	"github.com/studyplanner/api/handlers"
	auth_handlers "github.com/studyplanner/api/handlers/auth"
	course_handlers "github.com/studyplanner/api/handlers/course"
	event_handlers "github.com/studyplanner/api/handlers/event"
	task_handlers "github.com/studyplanner/api/handlers/task"
	"github.com/studyplanner/api/services/agent"
	"github.com/studyplanner/api/utils/auth"
	"github.com/studyplanner/api/utils/cache"
	"github.com/studyplanner/api/utils/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires middleware, handlers and the route table.
func SetupRoutes(app *fiber.App, store database.Storage, getEnv *config.EnviornmentVariable) {
	jwtSecret := getEnv.JWT_SECRET
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := getEnv.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "study-planner-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs the login brute-force lockout; the API stays up without it
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)

	// Review planner fires on event creation; without an API key it only logs
	var inferenceClient *agent.InferenceClient
	if getEnv.AGENT_API_KEY != "" {
		inferenceClient = agent.NewInferenceClient(agent.InferenceConfig{
			APIKey:  getEnv.AGENT_API_KEY,
			BaseURL: getEnv.AGENT_BASE_URL,
			Model:   getEnv.AGENT_MODEL,
		})
	}
	planner := agent.NewReviewPlanner(db, inferenceClient)

	courseHandler := course_handlers.NewCourseHandler(db)
	taskHandler := task_handlers.NewTaskHandler(db)
	eventHandler := event_handlers.NewEventHandler(db, planner)

	allowedOrigins := getEnv.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Public endpoints
	app.Get("/", handlers.HandleRoot)
	app.Get("/ping", func(c *fiber.Ctx) error { return handlers.HandleCheckHealth(c, store) })

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Get("/me", authMiddleware.Required(), authHandler.GetProfile)

	// Courses (all protected, scoped to the caller's uid)
	courses := api.Group("/courses", authMiddleware.Required())
	courses.Get("/", courseHandler.ListCourses)      // List, ordered by name ASC
	courses.Post("/", courseHandler.CreateCourse)    // Create with defaults
	courses.Put("/:id", courseHandler.UpdateCourse)  // Partial merge: only supplied keys written
	courses.Delete("/:id", courseHandler.DeleteCourse)

	// Tasks (all protected)
	tasks := api.Group("/tasks", authMiddleware.Required())
	tasks.Get("/", taskHandler.ListTasks)               // List, due date DESC, ISO dueDate
	tasks.Put("/:id", taskHandler.UpdateTaskStatus)     // Status only
	tasks.Delete("/:id", taskHandler.DeleteTask)
	tasks.Post("/:id/quiz", taskHandler.SubmitQuizResult) // Merge; does NOT complete the task

	// Calendar events (all protected)
	events := api.Group("/events", authMiddleware.Required())
	events.Post("/", eventHandler.CreateEvent)      // Triggers the review planner
	events.Put("/:id", eventHandler.UpdateEvent)    // Full replace of the four fields
	events.Delete("/:id", eventHandler.DeleteEvent)
}
