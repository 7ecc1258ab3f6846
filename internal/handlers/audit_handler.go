package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"praxia/internal/audit"
	apperrors "praxia/internal/errors"
	"praxia/internal/models"
	"praxia/internal/pagination"
	"praxia/internal/services"
)

// AuditHandler exposes the read-only operator dashboard over the audit
// trail. There are no mutation endpoints.
type AuditHandler struct {
	auditService services.AuditServicer
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService services.AuditServicer) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// dashboardQuery holds the dashboard window parameters.
type dashboardQuery struct {
	WindowDays  int `form:"window_days" binding:"omitempty,min=1,max=90"`
	ActiveHours int `form:"active_hours" binding:"omitempty,min=1,max=72"`
}

// Dashboard returns aggregated audit statistics
// @Summary     Audit dashboard
// @Description Aggregated audit statistics over a recent window
// @Tags        audit
// @Produce     json
// @Security    BearerAuth
// @Param       window_days query int false "Aggregation window in days (default 7)"
// @Param       active_hours query int false "Active session window in hours (default 1)"
// @Success     200 {object} audit.Summary
// @Failure     403 {object} ErrorResponse "Staff access required"
// @Router      /audit/dashboard [get]
func (h *AuditHandler) Dashboard(c *gin.Context) {
	var q dashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if q.WindowDays == 0 {
		q.WindowDays = 7
	}
	if q.ActiveHours == 0 {
		q.ActiveHours = 1
	}

	summary, err := h.auditService.Dashboard(
		time.Duration(q.WindowDays)*24*time.Hour,
		time.Duration(q.ActiveHours)*time.Hour,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Alerts lists HIGH and CRITICAL records
// @Summary     Audit alerts
// @Description Paginated list of HIGH and CRITICAL severity records
// @Tags        audit
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.AuditRecord]
// @Failure     403 {object} ErrorResponse "Staff access required"
// @Router      /audit/alerts [get]
func (h *AuditHandler) Alerts(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	result, err := h.auditService.Alerts(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// recordsQuery holds the record listing filter parameters.
type recordsQuery struct {
	pagination.PageRequest
	ActorID    *uint  `form:"actor_id"`
	Action     string `form:"action"`
	Severity   string `form:"severity"`
	EntityKind string `form:"entity_kind"`
	EntityID   string `form:"entity_id"`
	FromHours  int    `form:"from_hours" binding:"omitempty,min=1,max=2160"`
}

// Records lists audit records matching a filter
// @Summary     Audit records
// @Description Paginated, filterable audit record listing
// @Tags        audit
// @Produce     json
// @Security    BearerAuth
// @Param       actor_id query int false "Filter by actor"
// @Param       action query string false "Filter by action"
// @Param       severity query string false "Filter by severity"
// @Param       entity_kind query string false "Filter by entity kind"
// @Param       entity_id query string false "Filter by entity id"
// @Param       from_hours query int false "Only records newer than N hours"
// @Success     200 {object} pagination.PageResponse[models.AuditRecord]
// @Failure     403 {object} ErrorResponse "Staff access required"
// @Router      /audit/records [get]
func (h *AuditHandler) Records(c *gin.Context) {
	var q recordsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	q.Defaults()

	filter := audit.RecordFilter{
		ActorID:    q.ActorID,
		EntityKind: q.EntityKind,
		EntityID:   q.EntityID,
	}
	if q.Action != "" {
		action := models.AuditAction(q.Action)
		filter.Action = &action
	}
	if q.Severity != "" {
		severity := models.AuditSeverity(q.Severity)
		filter.Severity = &severity
	}
	if q.FromHours > 0 {
		from := time.Now().Add(-time.Duration(q.FromHours) * time.Hour)
		filter.From = &from
	}

	result, err := h.auditService.Records(filter, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
