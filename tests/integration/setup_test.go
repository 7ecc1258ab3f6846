package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"praxia/internal/audit"
	"praxia/internal/config"
	"praxia/internal/handlers"
	"praxia/internal/logger"
	"praxia/internal/middleware"
	"praxia/internal/models"
	"praxia/internal/services"
	"praxia/internal/validator"
)

const opsTestKey = "test-ops-key"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Store  *audit.Store
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Project{},
		&models.CompanyRequest{},
		&models.Assignment{},
		&models.AuditRecord{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	auditConfig := audit.NewConfig(&config.Config{
		AuditExcludePrefixes: []string{"/swagger/"},
		AuditCaptureGET:      true,
		AuditMaxBodyBytes:    100_000,
	})
	auditStore := audit.NewStore(db, auditConfig)
	if err := audit.RegisterCallbacks(db, auditStore, auditConfig); err != nil {
		t.Fatalf("failed to register audit callbacks: %v", err)
	}

	// Services
	userService := services.NewUserService(db)
	projectService := services.NewProjectService(db)
	requestService := services.NewCompanyRequestService(db)
	auditService := services.NewAuditService(auditStore)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditStore)
	projectHandler := handlers.NewProjectHandler(projectService)
	requestHandler := handlers.NewCompanyRequestHandler(requestService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.Use(middleware.Audit(auditStore))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())
	protected.Use(middleware.Audit(auditStore))

	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)

	projects := protected.Group("/projects")
	projects.POST("", projectHandler.CreateProject)
	projects.GET("", projectHandler.GetProjects)
	projects.GET("/:id", projectHandler.GetProjectByID)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)
	projects.POST("/:id/assignments", projectHandler.AssignUser)

	requests := protected.Group("/company-requests")
	requests.POST("", requestHandler.CreateRequest)
	requests.GET("", requestHandler.GetRequests)
	requests.PUT("/:id/state", requestHandler.UpdateState)

	auditRoutes := protected.Group("/audit")
	auditRoutes.Use(middleware.RequireStaff())
	auditRoutes.GET("/dashboard", auditHandler.Dashboard)
	auditRoutes.GET("/alerts", auditHandler.Alerts)
	auditRoutes.GET("/records", auditHandler.Records)

	ops := router.Group("/ops/audit")
	ops.Use(middleware.OpsAuthMiddleware(opsTestKey))
	ops.GET("/dashboard", auditHandler.Dashboard)
	ops.GET("/alerts", auditHandler.Alerts)
	ops.GET("/records", auditHandler.Records)

	return &testApp{DB: db, Store: auditStore, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// opsRequest makes a GET request authenticated with the operator key header.
func (app *testApp) opsRequest(path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("X-Ops-Key", key)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user with the given role and returns the token
// and user ID.
func (app *testApp) registerUser(t *testing.T, email, password, role string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User","role":%q}`,
		email, password, role)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}
