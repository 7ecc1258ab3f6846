package services

import (
	"context"
	"time"

	"praxia/internal/audit"
	"praxia/internal/models"
	"praxia/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, email, password, firstName, lastName string, role models.UserRole) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	RecordLogin(ctx context.Context, user *models.User) error
	DeactivateUser(ctx context.Context, id uint) error
}

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	CreateProject(ctx context.Context, ownerID uint, title, description string) (*models.Project, error)
	GetProjects(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error)
	GetProjectByID(ctx context.Context, id uint) (*models.Project, error)
	UpdateProject(ctx context.Context, id uint, title, description *string, state *models.ProjectState) (*models.Project, error)
	DeleteProject(ctx context.Context, id uint) error
	AssignUser(ctx context.Context, projectID, userID uint, roleInProject string) (*models.Assignment, error)
}

// CompanyRequestServicer defines the contract for company request business logic.
type CompanyRequestServicer interface {
	CreateRequest(ctx context.Context, requestedBy uint, companyName, contactEmail, description string) (*models.CompanyRequest, error)
	GetRequests(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.CompanyRequest], error)
	UpdateRequestState(ctx context.Context, id uint, state models.CompanyRequestState) (*models.CompanyRequest, error)
}

// AuditServicer defines the read-only query contract the operator dashboard
// consumes. It exposes no mutation operations.
type AuditServicer interface {
	Dashboard(window, activeWindow time.Duration) (*audit.Summary, error)
	Alerts(page pagination.PageRequest) (*pagination.PageResponse[models.AuditRecord], error)
	Records(filter audit.RecordFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditRecord], error)
}
