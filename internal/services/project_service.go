package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "praxia/internal/errors"
	"praxia/internal/models"
	"praxia/internal/pagination"
)

// validProjectTransitions lists the allowed state machine edges.
var validProjectTransitions = map[models.ProjectState][]models.ProjectState{
	models.ProjectStateDraft:    {models.ProjectStateReview},
	models.ProjectStateReview:   {models.ProjectStateApproved, models.ProjectStateRejected, models.ProjectStateDraft},
	models.ProjectStateRejected: {models.ProjectStateDraft},
}

// ProjectService handles project business logic. All mutations go through
// full-entity Save/Delete calls so the change audit hooks observe them.
type ProjectService struct {
	db *gorm.DB
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// CreateProject creates a draft project owned by the given user.
func (s *ProjectService) CreateProject(ctx context.Context, ownerID uint, title, description string) (*models.Project, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Title is required")
	}

	project := &models.Project{
		Title:       title,
		Description: description,
		State:       models.ProjectStateDraft,
		OwnerID:     ownerID,
	}
	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return project, nil
}

// GetProjects lists projects, newest first.
func (s *ProjectService) GetProjects(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
	page.Defaults()

	q := s.db.WithContext(ctx).Model(&models.Project{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var projects []models.Project
	err := q.Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&projects).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(projects, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetProjectByID fetches a project by primary key.
func (s *ProjectService) GetProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrProjectNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

// UpdateProject applies the provided changes; nil fields are left untouched.
func (s *ProjectService) UpdateProject(ctx context.Context, id uint, title, description *string, state *models.ProjectState) (*models.Project, error) {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != nil {
		if strings.TrimSpace(*title) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Title cannot be empty")
		}
		project.Title = *title
	}
	if description != nil {
		project.Description = *description
	}
	if state != nil && *state != project.State {
		if !transitionAllowed(project.State, *state) {
			return nil, apperrors.ErrInvalidProjectState
		}
		project.State = *state
	}

	if err := s.db.WithContext(ctx).Save(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return project, nil
}

// DeleteProject removes a project and its assignments.
func (s *ProjectService) DeleteProject(ctx context.Context, id uint) error {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}

	// Assignments are deleted one row at a time: batch deletes carry no
	// per-row primary key, so the change hooks cannot snapshot them.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assignments []models.Assignment
		if err := tx.Where("project_id = ?", id).Find(&assignments).Error; err != nil {
			return err
		}
		for i := range assignments {
			if err := tx.Delete(&assignments[i]).Error; err != nil {
				return err
			}
		}
		return tx.Delete(project).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AssignUser links a user to a project.
func (s *ProjectService) AssignUser(ctx context.Context, projectID, userID uint, roleInProject string) (*models.Assignment, error) {
	if _, err := s.GetProjectByID(ctx, projectID); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateAssignment
	}

	assignment := &models.Assignment{
		ProjectID:     projectID,
		UserID:        userID,
		RoleInProject: roleInProject,
	}
	if err := s.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return assignment, nil
}

func transitionAllowed(from, to models.ProjectState) bool {
	for _, allowed := range validProjectTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
