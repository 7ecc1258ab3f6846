package audit

import (
	"testing"
	"time"

	"praxia/internal/models"
	"praxia/internal/pagination"
)

func seedRecords(t *testing.T, store *Store) {
	t.Helper()

	actor := uint(1)
	store.Append(&models.AuditRecord{
		ActorID: &actor, ActorEmail: "alice@example.com", SessionID: "sess-a",
		SourceIP: "203.0.113.1", URLPath: "/api/v1/projects",
		Action: models.ActionNavigate, Severity: models.SeverityInfo,
	})
	store.Append(&models.AuditRecord{
		ActorID: &actor, ActorEmail: "alice@example.com", SessionID: "sess-a",
		SourceIP: "203.0.113.1", URLPath: "/api/v1/projects",
		EntityKind: "projects", EntityID: "9",
		Action: models.ActionCreateOrAction, Severity: models.SeverityMedium,
	})
	store.Append(&models.AuditRecord{
		ActorEmail: "", SessionID: "sess-b",
		SourceIP: "203.0.113.2", URLPath: "/api/v1/auth/login",
		Action: models.ActionLoginFailed, Severity: models.SeverityHigh,
	})
	store.Append(&models.AuditRecord{
		SourceIP: "203.0.113.2", URLPath: "/api/v1/projects/9",
		Action: models.ActionHTTPError, Severity: models.SeverityCritical,
	})
	// Outside any reasonable window.
	store.Append(&models.AuditRecord{
		OccurredAt: time.Now().Add(-48 * time.Hour),
		URLPath:    "/api/v1/old",
		Action:     models.ActionNavigate, Severity: models.SeverityInfo,
	})
}

func TestSummarize(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, newTestConfig())
	seedRecords(t, store)

	summary, err := store.Summarize(24*time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}

	if summary.TotalRecords != 4 {
		t.Errorf("expected 4 records in window, got %d", summary.TotalRecords)
	}

	bySeverity := map[string]int64{}
	for _, b := range summary.BySeverity {
		bySeverity[b.Key] = b.Count
	}
	if bySeverity["INFO"] != 1 || bySeverity["MEDIUM"] != 1 || bySeverity["HIGH"] != 1 || bySeverity["CRITICAL"] != 1 {
		t.Errorf("unexpected severity buckets: %v", bySeverity)
	}

	var topPath Bucket
	for _, b := range summary.TopPaths {
		if b.Count > topPath.Count {
			topPath = b
		}
	}
	if topPath.Key != "/api/v1/projects" || topPath.Count != 2 {
		t.Errorf("unexpected top path: %+v", topPath)
	}

	if summary.ActiveSessions != 2 {
		t.Errorf("expected 2 distinct active sessions, got %d", summary.ActiveSessions)
	}
}

func TestList(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, newTestConfig())
	seedRecords(t, store)

	t.Run("filter_by_action", func(t *testing.T) {
		action := models.ActionLoginFailed
		resp, err := store.List(RecordFilter{Action: &action}, pagination.PageRequest{})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if resp.TotalItems != 1 {
			t.Fatalf("expected 1 match, got %d", resp.TotalItems)
		}
		if resp.Data[0].Action != models.ActionLoginFailed {
			t.Errorf("unexpected action: %s", resp.Data[0].Action)
		}
	})

	t.Run("filter_by_entity", func(t *testing.T) {
		resp, err := store.List(RecordFilter{EntityKind: "projects", EntityID: "9"}, pagination.PageRequest{})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if resp.TotalItems != 1 {
			t.Errorf("expected 1 match, got %d", resp.TotalItems)
		}
	})

	t.Run("filter_by_actor", func(t *testing.T) {
		actor := uint(1)
		resp, err := store.List(RecordFilter{ActorID: &actor}, pagination.PageRequest{})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if resp.TotalItems != 2 {
			t.Errorf("expected 2 matches, got %d", resp.TotalItems)
		}
	})

	t.Run("time_window", func(t *testing.T) {
		from := time.Now().Add(-time.Hour)
		resp, err := store.List(RecordFilter{From: &from}, pagination.PageRequest{})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if resp.TotalItems != 4 {
			t.Errorf("expected 4 recent records, got %d", resp.TotalItems)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		resp, err := store.List(RecordFilter{}, pagination.PageRequest{Page: 1, PageSize: 2})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(resp.Data) != 2 {
			t.Errorf("expected 2 records on page, got %d", len(resp.Data))
		}
		if resp.TotalItems != 5 {
			t.Errorf("expected 5 total, got %d", resp.TotalItems)
		}
		if resp.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", resp.TotalPages)
		}
	})

	t.Run("newest_first", func(t *testing.T) {
		resp, err := store.List(RecordFilter{}, pagination.PageRequest{})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		for i := 1; i < len(resp.Data); i++ {
			if resp.Data[i].OccurredAt.After(resp.Data[i-1].OccurredAt) {
				t.Fatalf("records not sorted newest first at index %d", i)
			}
		}
	})
}

func TestAlerts(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, newTestConfig())
	seedRecords(t, store)

	resp, err := store.Alerts(pagination.PageRequest{})
	if err != nil {
		t.Fatalf("alerts failed: %v", err)
	}
	if resp.TotalItems != 2 {
		t.Fatalf("expected 2 alerts, got %d", resp.TotalItems)
	}
	for _, rec := range resp.Data {
		if rec.Severity != models.SeverityHigh && rec.Severity != models.SeverityCritical {
			t.Errorf("unexpected severity in alerts: %s", rec.Severity)
		}
	}
}
