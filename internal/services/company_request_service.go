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

// CompanyRequestService handles company collaboration requests.
type CompanyRequestService struct {
	db *gorm.DB
}

// NewCompanyRequestService creates a new CompanyRequestServicer.
func NewCompanyRequestService(db *gorm.DB) *CompanyRequestService {
	return &CompanyRequestService{db: db}
}

// CreateRequest files a pending company request.
func (s *CompanyRequestService) CreateRequest(ctx context.Context, requestedBy uint, companyName, contactEmail, description string) (*models.CompanyRequest, error) {
	if strings.TrimSpace(companyName) == "" || strings.TrimSpace(contactEmail) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Company name and contact email are required")
	}

	request := &models.CompanyRequest{
		CompanyName:  companyName,
		ContactEmail: strings.ToLower(contactEmail),
		Description:  description,
		State:        models.CompanyRequestPending,
		RequestedBy:  requestedBy,
	}
	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return request, nil
}

// GetRequests lists company requests, newest first.
func (s *CompanyRequestService) GetRequests(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.CompanyRequest], error) {
	page.Defaults()

	q := s.db.WithContext(ctx).Model(&models.CompanyRequest{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var requests []models.CompanyRequest
	err := q.Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&requests).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(requests, page.Page, page.PageSize, total)
	return &resp, nil
}

// UpdateRequestState moves a request to accepted or rejected.
func (s *CompanyRequestService) UpdateRequestState(ctx context.Context, id uint, state models.CompanyRequestState) (*models.CompanyRequest, error) {
	var request models.CompanyRequest
	err := s.db.WithContext(ctx).First(&request, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrCompanyRequestNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	request.State = state
	if err := s.db.WithContext(ctx).Save(&request).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &request, nil
}
