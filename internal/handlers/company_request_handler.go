package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "praxia/internal/errors"
	"praxia/internal/models"
	"praxia/internal/pagination"
	"praxia/internal/services"
)

// CompanyRequestHandler handles company collaboration requests.
type CompanyRequestHandler struct {
	requestService services.CompanyRequestServicer
}

// NewCompanyRequestHandler creates a new CompanyRequestHandler
func NewCompanyRequestHandler(requestService services.CompanyRequestServicer) *CompanyRequestHandler {
	return &CompanyRequestHandler{requestService: requestService}
}

// CreateCompanyRequest represents the company request payload
type CreateCompanyRequest struct {
	CompanyName  string `json:"company_name" binding:"required,max=255"`
	ContactEmail string `json:"contact_email" binding:"required,email,max=255"`
	Description  string `json:"description" binding:"max=5000"`
}

// UpdateCompanyRequestState represents the state change payload
type UpdateCompanyRequestState struct {
	State string `json:"state" binding:"required,company_request_state"`
}

// CreateRequest files a company request
// @Summary     Create company request
// @Tags        company-requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCompanyRequest true "Company request data"
// @Success     201 {object} models.CompanyRequest
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /company-requests [post]
func (h *CompanyRequestHandler) CreateRequest(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), userID, req.CompanyName, req.ContactEmail, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetRequests lists company requests
// @Summary     List company requests
// @Tags        company-requests
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.CompanyRequest]
// @Router      /company-requests [get]
func (h *CompanyRequestHandler) GetRequests(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	result, err := h.requestService.GetRequests(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateState accepts or rejects a company request
// @Summary     Update company request state
// @Tags        company-requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Request ID"
// @Param       request body UpdateCompanyRequestState true "New state"
// @Success     200 {object} models.CompanyRequest
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /company-requests/{id}/state [put]
func (h *CompanyRequestHandler) UpdateState(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCompanyRequestState
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	request, err := h.requestService.UpdateRequestState(c.Request.Context(), id, models.CompanyRequestState(req.State))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}
