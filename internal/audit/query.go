package audit

import (
	"time"

	"praxia/internal/models"
	"praxia/internal/pagination"

	"gorm.io/gorm"
)

// Bucket is one grouped count in a dashboard aggregation.
type Bucket struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Summary aggregates the audit trail over a time window for the operator
// dashboard.
type Summary struct {
	Since          time.Time `json:"since"`
	TotalRecords   int64     `json:"total_records"`
	BySeverity     []Bucket  `json:"by_severity"`
	ByAction       []Bucket  `json:"by_action"`
	TopPaths       []Bucket  `json:"top_paths"`
	TopIPs         []Bucket  `json:"top_ips"`
	TopActors      []Bucket  `json:"top_actors"`
	ActiveSessions int64     `json:"active_sessions"`
}

// Summarize computes the dashboard aggregation for records newer than
// window; active sessions are distinct session ids seen within activeWindow.
func (s *Store) Summarize(window, activeWindow time.Duration) (*Summary, error) {
	since := time.Now().Add(-window)
	summary := &Summary{Since: since}

	recent := func() *gorm.DB {
		return s.db.Model(&models.AuditRecord{}).Where("occurred_at >= ?", since)
	}

	if err := recent().Count(&summary.TotalRecords).Error; err != nil {
		return nil, err
	}

	grouped := func(column string, limit int, dest *[]Bucket) error {
		q := recent().
			Select(column + " AS key, COUNT(*) AS count").
			Where(column + " <> ''").
			Group(column).
			Order("count DESC")
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Scan(dest).Error
	}

	if err := grouped("severity", 0, &summary.BySeverity); err != nil {
		return nil, err
	}
	if err := grouped("action", 0, &summary.ByAction); err != nil {
		return nil, err
	}
	if err := grouped("url_path", 10, &summary.TopPaths); err != nil {
		return nil, err
	}
	if err := grouped("source_ip", 10, &summary.TopIPs); err != nil {
		return nil, err
	}
	if err := grouped("actor_email", 10, &summary.TopActors); err != nil {
		return nil, err
	}

	activeSince := time.Now().Add(-activeWindow)
	err := s.db.Model(&models.AuditRecord{}).
		Where("occurred_at >= ? AND session_id <> ''", activeSince).
		Distinct("session_id").
		Count(&summary.ActiveSessions).Error
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// RecordFilter narrows List to the indexed query dimensions.
type RecordFilter struct {
	From       *time.Time
	To         *time.Time
	ActorID    *uint
	Action     *models.AuditAction
	Severity   *models.AuditSeverity
	EntityKind string
	EntityID   string
}

// List returns matching records, newest first.
func (s *Store) List(filter RecordFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditRecord], error) {
	page.Defaults()

	q := s.db.Model(&models.AuditRecord{})
	if filter.From != nil {
		q = q.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("occurred_at < ?", *filter.To)
	}
	if filter.ActorID != nil {
		q = q.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Action != nil {
		q = q.Where("action = ?", *filter.Action)
	}
	if filter.Severity != nil {
		q = q.Where("severity = ?", *filter.Severity)
	}
	if filter.EntityKind != "" {
		q = q.Where("entity_kind = ?", filter.EntityKind)
	}
	if filter.EntityID != "" {
		q = q.Where("entity_id = ?", filter.EntityID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var records []models.AuditRecord
	err := q.Order("occurred_at DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	resp := pagination.NewPageResponse(records, page.Page, page.PageSize, total)
	return &resp, nil
}

// Alerts returns HIGH and CRITICAL records, newest first.
func (s *Store) Alerts(page pagination.PageRequest) (*pagination.PageResponse[models.AuditRecord], error) {
	page.Defaults()

	q := s.db.Model(&models.AuditRecord{}).
		Where("severity IN ?", []models.AuditSeverity{models.SeverityHigh, models.SeverityCritical})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var records []models.AuditRecord
	err := q.Order("occurred_at DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	resp := pagination.NewPageResponse(records, page.Page, page.PageSize, total)
	return &resp, nil
}
