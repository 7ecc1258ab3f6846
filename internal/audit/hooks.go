package audit

import (
	"fmt"

	"praxia/internal/logger"
	"praxia/internal/models"

	"gorm.io/gorm"
)

// hooks reacts to create/update/delete of tracked entities and writes
// before/after/diff records. The before snapshot is stashed on the GORM
// statement instance keyed by (table, primary key), so concurrent requests
// mutating the same kind can never collide: each statement belongs to
// exactly one execution context.
type hooks struct {
	store *Store
	cfg   *Config
}

// RegisterCallbacks attaches the entity change hooks to the database's
// callback chain. It must be called once, after opening the connection and
// before serving requests.
func RegisterCallbacks(db *gorm.DB, store *Store, cfg *Config) error {
	h := &hooks{store: store, cfg: cfg}

	if err := db.Callback().Create().After("gorm:create").Register("audit:after_create", h.afterCreate); err != nil {
		return fmt.Errorf("failed to register create hook: %w", err)
	}
	if err := db.Callback().Update().Before("gorm:update").Register("audit:before_update", h.beforeUpdate); err != nil {
		return fmt.Errorf("failed to register before-update hook: %w", err)
	}
	if err := db.Callback().Update().After("gorm:update").Register("audit:after_update", h.afterUpdate); err != nil {
		return fmt.Errorf("failed to register after-update hook: %w", err)
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("audit:before_delete", h.beforeDelete); err != nil {
		return fmt.Errorf("failed to register before-delete hook: %w", err)
	}
	if err := db.Callback().Delete().After("gorm:delete").Register("audit:after_delete", h.afterDelete); err != nil {
		return fmt.Errorf("failed to register after-delete hook: %w", err)
	}
	return nil
}

// tracked reports whether this statement mutates an enrolled entity kind.
func (h *hooks) tracked(db *gorm.DB) bool {
	return db.Error == nil &&
		db.Statement != nil &&
		db.Statement.Schema != nil &&
		h.cfg.IsTracked(db.Statement.Table)
}

func stashKey(table, pk string) string {
	return "audit:before:" + table + ":" + pk
}

func (h *hooks) afterCreate(db *gorm.DB) {
	defer h.recoverHook("after_create")
	if !h.tracked(db) {
		return
	}

	after := h.scrubFields(snapshotStatement(db.Statement))
	if after == nil {
		return
	}
	h.emit(db, models.ActionCreate, models.SeverityMedium, primaryKeyString(db.Statement), nil, after)
}

func (h *hooks) beforeUpdate(db *gorm.DB) {
	defer h.recoverHook("before_update")
	if !h.tracked(db) {
		return
	}

	column, value, ok := primaryKey(db.Statement)
	if !ok {
		return
	}

	before, err := snapshotByPK(db, db.Statement.Table, column, value)
	if err != nil {
		logger.Get().Errorw("failed to capture before snapshot",
			"error", err, "table", db.Statement.Table)
		before = nil
	}
	db.InstanceSet(stashKey(db.Statement.Table, fmt.Sprintf("%v", value)), h.scrubFields(before))
}

func (h *hooks) afterUpdate(db *gorm.DB) {
	defer h.recoverHook("after_update")
	if !h.tracked(db) {
		return
	}

	pk := primaryKeyString(db.Statement)
	if pk == "" {
		return
	}

	var before map[string]any
	if stashed, found := db.InstanceGet(stashKey(db.Statement.Table, pk)); found {
		before, _ = stashed.(map[string]any)
	}
	after := h.scrubFields(snapshotStatement(db.Statement))

	// A missing prior row means the update materialized the entity.
	action := models.ActionUpdate
	if before == nil {
		action = models.ActionCreate
	}
	h.emit(db, action, models.SeverityMedium, pk, before, after)
}

func (h *hooks) beforeDelete(db *gorm.DB) {
	defer h.recoverHook("before_delete")
	if !h.tracked(db) {
		return
	}

	column, value, ok := primaryKey(db.Statement)
	if !ok {
		return
	}

	snapshot, err := snapshotByPK(db, db.Statement.Table, column, value)
	if err != nil {
		logger.Get().Errorw("failed to capture delete snapshot",
			"error", err, "table", db.Statement.Table)
		snapshot = nil
	}
	db.InstanceSet(stashKey(db.Statement.Table, fmt.Sprintf("%v", value)), h.scrubFields(snapshot))
}

func (h *hooks) afterDelete(db *gorm.DB) {
	defer h.recoverHook("after_delete")
	if !h.tracked(db) {
		return
	}

	pk := primaryKeyString(db.Statement)
	if pk == "" {
		return
	}

	var before map[string]any
	if stashed, found := db.InstanceGet(stashKey(db.Statement.Table, pk)); found {
		before, _ = stashed.(map[string]any)
	}
	h.emit(db, models.ActionDelete, models.SeverityHigh, pk, before, nil)
}

// emit builds and appends one change record. The actor and session come
// from the request context carrier when the mutation runs inside a request;
// outside one (migrations, background jobs) they stay empty.
func (h *hooks) emit(db *gorm.DB, action models.AuditAction, severity models.AuditSeverity, pk string, before, after map[string]any) {
	record := &models.AuditRecord{
		EntityKind: db.Statement.Table,
		EntityID:   pk,
		Action:     action,
		Severity:   severity,
		Diff:       Diff(before, after, h.cfg.SensitiveKeys()),
	}
	if before != nil {
		record.StateBefore = CapJSON(before)
	}
	if after != nil {
		record.StateAfter = CapJSON(after)
	}

	if info := FromContext(db.Statement.Context); info != nil {
		record.ActorID = info.ActorID
		record.ActorEmail = info.ActorEmail
		record.SessionID = info.SessionID
		record.SourceIP = info.SourceIP
		record.UserAgent = info.UserAgent
		record.URLPath = info.Path
	}

	h.store.AppendIn(db, record)
}

func (h *hooks) scrubFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	if clean, ok := Scrub(fields, h.cfg.SensitiveKeys()).(map[string]any); ok {
		return clean
	}
	return fields
}

// recoverHook keeps one hook's failure from blocking the mutation or the
// other hooks.
func (h *hooks) recoverHook(stage string) {
	if r := recover(); r != nil {
		logger.Get().Errorw("audit hook panic", "stage", stage, "panic", r)
	}
}
