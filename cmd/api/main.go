package main

import (
	"fmt"
	"net/http"
	"os"

	"praxia/internal/audit"
	"praxia/internal/config"
	"praxia/internal/database"
	"praxia/internal/handlers"
	"praxia/internal/logger"
	"praxia/internal/middleware"
	"praxia/internal/services"
	"praxia/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "praxia/internal/docs" // Import swagger docs
)

// @title           Praxia API
// @version         1.0
// @description     Praxia manages academic and enterprise project proposals with a full audit trail of user activity and entity changes.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("closing database: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize the audit trail: the store persists records, the hooks
	// observe entity changes made through this DB handle.
	db := dbManager.DB()
	auditConfig := audit.NewConfig(appConfig)
	auditStore := audit.NewStore(db, auditConfig)
	if err := audit.RegisterCallbacks(db, auditStore, auditConfig); err != nil {
		return fmt.Errorf("failed to register audit callbacks: %w", err)
	}

	// Initialize services
	userService := services.NewUserService(db)
	projectService := services.NewProjectService(db)
	requestService := services.NewCompanyRequestService(db)
	auditService := services.NewAuditService(auditStore)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditStore)
	projectHandler := handlers.NewProjectHandler(projectService)
	requestHandler := handlers.NewCompanyRequestHandler(requestService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes. The audit middleware runs without an authenticated
	// actor here; login/logout events are emitted by the auth handler.
	auth := v1.Group("/auth")
	auth.Use(middleware.Audit(auditStore))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes. Audit must run after auth so the actor identity is
	// already in the request context.
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())
	protected.Use(middleware.Audit(auditStore))

	// User profile and session
	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)

	// Project routes
	projects := protected.Group("/projects")
	projects.POST("", projectHandler.CreateProject)
	projects.GET("", projectHandler.GetProjects)
	projects.GET("/:id", projectHandler.GetProjectByID)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)
	projects.POST("/:id/assignments", projectHandler.AssignUser)

	// Company request routes
	requests := protected.Group("/company-requests")
	requests.POST("", requestHandler.CreateRequest)
	requests.GET("", requestHandler.GetRequests)
	requests.PUT("/:id/state", requestHandler.UpdateState)

	// Audit dashboard, staff only
	auditRoutes := protected.Group("/audit")
	auditRoutes.Use(middleware.RequireStaff())
	auditRoutes.GET("/dashboard", auditHandler.Dashboard)
	auditRoutes.GET("/alerts", auditHandler.Alerts)
	auditRoutes.GET("/records", auditHandler.Records)

	// Ops surface: the same read-only audit endpoints behind a shared key,
	// for monitoring systems that do not hold a user token.
	ops := router.Group("/ops/audit")
	ops.Use(middleware.OpsAuthMiddleware(appConfig.OpsAPIKey))
	ops.GET("/dashboard", auditHandler.Dashboard)
	ops.GET("/alerts", auditHandler.Alerts)
	ops.GET("/records", auditHandler.Records)

	log.Infof("Starting Praxia backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
