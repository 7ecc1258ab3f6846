package audit

import (
	"context"
	"strings"
	"testing"

	"praxia/internal/models"

	"gorm.io/gorm"
)

func setupHooks(t *testing.T) (*gorm.DB, *Store) {
	t.Helper()

	db := newTestDB(t)
	cfg := newTestConfig()
	store := NewStore(db, cfg)
	if err := RegisterCallbacks(db, store, cfg); err != nil {
		t.Fatalf("failed to register callbacks: %v", err)
	}
	return db, store
}

func changeRecords(t *testing.T, db *gorm.DB, kind string, action models.AuditAction) []models.AuditRecord {
	t.Helper()
	var records []models.AuditRecord
	err := db.Where("entity_kind = ? AND action = ?", kind, action).Order("id").Find(&records).Error
	if err != nil {
		t.Fatalf("failed to load change records: %v", err)
	}
	return records
}

func TestHooksCreate(t *testing.T) {
	db, _ := setupHooks(t)

	project := &models.Project{Title: "Thesis", State: models.ProjectStateDraft, OwnerID: 1}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	records := changeRecords(t, db, "projects", models.ActionCreate)
	if len(records) != 1 {
		t.Fatalf("expected 1 create record, got %d", len(records))
	}
	rec := records[0]
	if rec.Severity != models.SeverityMedium {
		t.Errorf("expected MEDIUM severity, got %s", rec.Severity)
	}
	if rec.EntityID == "" || rec.EntityID == "0" {
		t.Errorf("expected entity id from primary key, got %q", rec.EntityID)
	}
	if rec.StateBefore != "" {
		t.Errorf("expected empty before state, got %s", rec.StateBefore)
	}
	if !strings.Contains(rec.StateAfter, "Thesis") {
		t.Errorf("expected after state to contain title, got %s", rec.StateAfter)
	}
	if !strings.Contains(rec.Diff, "* title: '' → 'Thesis'") {
		t.Errorf("expected creation diff line, got %q", rec.Diff)
	}
}

func TestHooksUpdate(t *testing.T) {
	db, _ := setupHooks(t)

	project := &models.Project{Title: "Thesis", State: models.ProjectStateDraft, OwnerID: 1}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	project.State = models.ProjectStateReview
	if err := db.Save(project).Error; err != nil {
		t.Fatalf("save failed: %v", err)
	}

	records := changeRecords(t, db, "projects", models.ActionUpdate)
	if len(records) != 1 {
		t.Fatalf("expected 1 update record, got %d", len(records))
	}
	rec := records[0]
	if rec.Severity != models.SeverityMedium {
		t.Errorf("expected MEDIUM severity, got %s", rec.Severity)
	}
	if !strings.Contains(rec.StateBefore, "BOR") {
		t.Errorf("expected before state with old value, got %s", rec.StateBefore)
	}
	if !strings.Contains(rec.StateAfter, "REV") {
		t.Errorf("expected after state with new value, got %s", rec.StateAfter)
	}
	if !strings.Contains(rec.Diff, "* state: 'BOR' → 'REV'") {
		t.Errorf("expected state diff line, got %q", rec.Diff)
	}
	if strings.Contains(rec.Diff, "* title:") {
		t.Errorf("unchanged field must not appear in diff: %q", rec.Diff)
	}
}

func TestHooksDelete(t *testing.T) {
	db, _ := setupHooks(t)

	project := &models.Project{Title: "Thesis", State: models.ProjectStateDraft, OwnerID: 1}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := db.Delete(project).Error; err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	records := changeRecords(t, db, "projects", models.ActionDelete)
	if len(records) != 1 {
		t.Fatalf("expected 1 delete record, got %d", len(records))
	}
	rec := records[0]
	if rec.Severity != models.SeverityHigh {
		t.Errorf("expected HIGH severity, got %s", rec.Severity)
	}
	if !strings.Contains(rec.StateBefore, "Thesis") {
		t.Errorf("expected before state with final values, got %s", rec.StateBefore)
	}
	if rec.StateAfter != "" {
		t.Errorf("expected empty after state, got %s", rec.StateAfter)
	}
	if !strings.Contains(rec.Diff, "* title: 'Thesis' → ''") {
		t.Errorf("expected removal diff line, got %q", rec.Diff)
	}
}

func TestHooksScrubSensitiveFields(t *testing.T) {
	db, _ := setupHooks(t)

	user := &models.User{Email: "alice@example.com", Password: "super-secret-hash", Role: models.RoleStudent}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	records := changeRecords(t, db, "users", models.ActionCreate)
	if len(records) != 1 {
		t.Fatalf("expected 1 create record, got %d", len(records))
	}
	rec := records[0]
	if strings.Contains(rec.StateAfter, "super-secret-hash") {
		t.Errorf("cleartext password leaked into after state: %s", rec.StateAfter)
	}
	if !strings.Contains(rec.StateAfter, "***") {
		t.Errorf("expected masked password in after state: %s", rec.StateAfter)
	}
	if strings.Contains(rec.Diff, "password") {
		t.Errorf("password must not appear in diff: %q", rec.Diff)
	}
}

func TestHooksActorAttribution(t *testing.T) {
	db, _ := setupHooks(t)

	actorID := uint(42)
	ctx := NewContext(context.Background(), &RequestInfo{
		ActorID:    &actorID,
		ActorEmail: "alice@example.com",
		SessionID:  "sess-1",
		Path:       "/api/v1/projects",
		SourceIP:   "203.0.113.9",
	})

	project := &models.Project{Title: "Thesis", State: models.ProjectStateDraft, OwnerID: 1}
	if err := db.WithContext(ctx).Create(project).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	records := changeRecords(t, db, "projects", models.ActionCreate)
	if len(records) != 1 {
		t.Fatalf("expected 1 create record, got %d", len(records))
	}
	rec := records[0]
	if rec.ActorID == nil || *rec.ActorID != 42 {
		t.Errorf("expected actor 42, got %v", rec.ActorID)
	}
	if rec.ActorEmail != "alice@example.com" || rec.SessionID != "sess-1" {
		t.Errorf("unexpected actor fields: %s/%s", rec.ActorEmail, rec.SessionID)
	}
	if rec.URLPath != "/api/v1/projects" {
		t.Errorf("unexpected path: %s", rec.URLPath)
	}
}

func TestHooksOutsideRequestContext(t *testing.T) {
	db, _ := setupHooks(t)

	project := &models.Project{Title: "Thesis", State: models.ProjectStateDraft, OwnerID: 1}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	records := changeRecords(t, db, "projects", models.ActionCreate)
	if len(records) != 1 {
		t.Fatalf("expected 1 create record, got %d", len(records))
	}
	if records[0].ActorID != nil || records[0].ActorEmail != "" {
		t.Error("expected empty actor outside a request")
	}
}

func TestHooksIgnoreUntrackedKinds(t *testing.T) {
	db, _ := setupHooks(t)

	// The audit table itself is not a tracked kind, so a direct write must
	// not recurse into another record.
	rec := &models.AuditRecord{Action: models.ActionNavigate, Severity: models.SeverityInfo}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.AuditRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly the written record, got %d", count)
	}
}

func TestHooksBatchCreateSkipsSnapshot(t *testing.T) {
	db, _ := setupHooks(t)

	projects := []models.Project{
		{Title: "One", State: models.ProjectStateDraft, OwnerID: 1},
		{Title: "Two", State: models.ProjectStateDraft, OwnerID: 1},
	}
	if err := db.Create(&projects).Error; err != nil {
		t.Fatalf("batch create failed: %v", err)
	}

	// Batch destinations have no single snapshot; the hook stays silent
	// rather than guessing.
	records := changeRecords(t, db, "projects", models.ActionCreate)
	if len(records) != 0 {
		t.Errorf("expected no change records for batch create, got %d", len(records))
	}
}
