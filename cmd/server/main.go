package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/guardline/workforce-api/internal/config"
	"github.com/guardline/workforce-api/internal/constants"
	"github.com/guardline/workforce-api/internal/database"
	"github.com/guardline/workforce-api/internal/geo"
	"github.com/guardline/workforce-api/internal/handlers"
	"github.com/guardline/workforce-api/internal/middleware"
	"github.com/guardline/workforce-api/internal/repository"
	"github.com/guardline/workforce-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis. Sessions are established by
	// the external auth subsystem; this service only reads them.
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	taskRepo := repository.NewTaskRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Collaborators
	var geocoder geo.ReverseGeocoder = geo.NoopGeocoder{}
	if cfg.GeocoderBaseURL != "" {
		geocoder = geo.NewNominatimGeocoder(cfg.GeocoderBaseURL, cfg.GeocoderTimeout)
	}

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Services
	notificationService := services.NewNotificationService(notificationRepo)
	geofenceService := services.NewGeofenceService(locationRepo, geocoder)
	attendanceService := services.NewAttendanceService(attendanceRepo, orgRepo, userRepo, geofenceService, notificationService)
	escalationService := services.NewEscalationService(taskRepo, notificationService)
	taskService := services.NewTaskService(taskRepo, orgRepo, aiService)
	orgService := services.NewOrganizationService(orgRepo)
	locationService := services.NewLocationService(locationRepo)

	// Background escalation sweep
	stop := make(chan struct{})
	defer close(stop)
	if cfg.EscalationInterval > 0 {
		go escalationService.RunEvery(cfg.EscalationInterval, stop)
	}

	// Handlers
	taskHandler := handlers.NewTaskHandler(taskService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService, attendanceRepo)
	locationHandler := handlers.NewLocationHandler(locationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	escalationHandler := handlers.NewEscalationHandler(escalationService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Workforce API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		// Organization routes
		orgs := api.Group("/organizations")
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.POST("/join", orgHandler.JoinOrganization)
			orgs.GET("/:id", middleware.RequireOrganizationAccess(), orgHandler.GetOrganization)
			orgs.PUT("/:id", middleware.RequireOrganizationAccess(), middleware.RequireOrganizationOwner(), orgHandler.UpdateOrganization)
		}

		// Task routes
		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", middleware.RequireTaskAccess(), taskHandler.GetTask)
			tasks.PATCH("/:id", middleware.RequireTaskAccess(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskAccess(), taskHandler.DeleteTask)
			tasks.PATCH("/:id/status", middleware.RequireTaskAccess(), taskHandler.SetStatus)
			tasks.POST("/:id/assign", middleware.RequireTaskAccess(), taskHandler.AssignTask)
			tasks.POST("/:id/unassign", middleware.RequireTaskAccess(), taskHandler.UnassignTask)
		}

		// Attendance routes
		attendance := api.Group("/attendance")
		{
			attendance.POST("/toggle", attendanceHandler.Toggle)
			attendance.GET("", attendanceHandler.ListToday)
		}

		// Location routes
		locations := api.Group("/locations")
		{
			locations.GET("", locationHandler.ListLocations)
			locations.POST("", locationHandler.CreateLocation)
			locations.POST("/:id/assign", locationHandler.AssignLocation)
		}

		// Notification routes
		notifications := api.Group("/notifications")
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}

		// Escalation sweep (on-demand)
		api.POST("/escalations/run", escalationHandler.Run)
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
