package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "praxia/internal/errors"
	"praxia/internal/models"
	"praxia/internal/pagination"
	"praxia/internal/services"
)

// ProjectHandler handles project CRUD requests.
type ProjectHandler struct {
	projectService services.ProjectServicer
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService services.ProjectServicer) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProjectRequest represents the project creation payload
type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"max=5000"`
}

// UpdateProjectRequest represents the project update payload
type UpdateProjectRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	State       *string `json:"state" binding:"omitempty,project_state"`
}

// AssignUserRequest represents the assignment payload
type AssignUserRequest struct {
	UserID        uint   `json:"user_id" binding:"required"`
	RoleInProject string `json:"role_in_project" binding:"max=50"`
}

// CreateProject creates a project
// @Summary     Create project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateProjectRequest true "Project data"
// @Success     201 {object} models.Project
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), userID, req.Title, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProjects lists projects
// @Summary     List projects
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Project]
// @Router      /projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	result, err := h.projectService.GetProjects(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProjectByID fetches one project
// @Summary     Get project
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} models.Project
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /projects/{id} [get]
func (h *ProjectHandler) GetProjectByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	project, err := h.projectService.GetProjectByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// UpdateProject updates a project
// @Summary     Update project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Param       request body UpdateProjectRequest true "Fields to update"
// @Success     200 {object} models.Project
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var state *models.ProjectState
	if req.State != nil {
		s := models.ProjectState(*req.State)
		state = &s
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), id, req.Title, req.Description, state)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject deletes a project
// @Summary     Delete project
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignUser assigns a user to a project
// @Summary     Assign user to project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Param       request body AssignUserRequest true "Assignment data"
// @Success     201 {object} models.Assignment
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Already assigned"
// @Router      /projects/{id}/assignments [post]
func (h *ProjectHandler) AssignUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AssignUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	assignment, err := h.projectService.AssignUser(c.Request.Context(), id, req.UserID, req.RoleInProject)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}
