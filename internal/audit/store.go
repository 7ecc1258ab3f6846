package audit

import (
	"time"

	"praxia/internal/logger"
	"praxia/internal/models"

	"gorm.io/gorm"
)

// Store is the append-only persistence surface for audit records. It never
// exposes update or delete operations; retention is an operational concern
// handled directly against storage.
type Store struct {
	db  *gorm.DB
	cfg *Config
}

// NewStore creates a Store writing through the given database handle.
func NewStore(db *gorm.DB, cfg *Config) *Store {
	return &Store{db: db, cfg: cfg}
}

// Config returns the audit configuration the store was built with.
func (s *Store) Config() *Config {
	return s.cfg
}

// Append writes one audit record. Errors are logged and swallowed: auditing
// must never fail the operation being audited, so a failed write is a
// silent loss rather than a retried or surfaced error.
func (s *Store) Append(record *models.AuditRecord) {
	s.appendVia(s.db, record)
}

// AppendIn writes one audit record through tx, keeping the write inside the
// mutation's own transaction when called from a change hook.
func (s *Store) AppendIn(tx *gorm.DB, record *models.AuditRecord) {
	s.appendVia(tx, record)
}

func (s *Store) appendVia(db *gorm.DB, record *models.AuditRecord) {
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}
	err := db.Session(&gorm.Session{NewDB: true, SkipHooks: true}).Create(record).Error
	if err != nil {
		logger.Get().Errorw("failed to append audit record",
			"error", err,
			"action", record.Action,
			"entity_kind", record.EntityKind,
		)
	}
}
