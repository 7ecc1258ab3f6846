package services

import (
	"time"

	"praxia/internal/audit"
	apperrors "praxia/internal/errors"
	"praxia/internal/models"
	"praxia/internal/pagination"
)

// AuditService exposes read-only audit trail queries to the dashboard
// handlers. Writes happen only inside the audit package.
type AuditService struct {
	store *audit.Store
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(store *audit.Store) *AuditService {
	return &AuditService{store: store}
}

// Dashboard aggregates the trail over the given window.
func (s *AuditService) Dashboard(window, activeWindow time.Duration) (*audit.Summary, error) {
	summary, err := s.store.Summarize(window, activeWindow)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return summary, nil
}

// Alerts lists HIGH and CRITICAL records, newest first.
func (s *AuditService) Alerts(page pagination.PageRequest) (*pagination.PageResponse[models.AuditRecord], error) {
	resp, err := s.store.Alerts(page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return resp, nil
}

// Records lists records matching the filter, newest first.
func (s *AuditService) Records(filter audit.RecordFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditRecord], error) {
	resp, err := s.store.List(filter, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return resp, nil
}
