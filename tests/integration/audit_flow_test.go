package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"praxia/internal/models"
)

func TestAuditFlow_ProjectLifecycle(t *testing.T) {
	app := setupApp(t)

	token, userID := app.registerUser(t, "owner@test.com", "password123", "student")

	// Create, move through review, and delete a project.
	rec := app.request("POST", "/api/v1/projects", `{"title":"Thesis Platform"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project failed: %d %s", rec.Code, rec.Body.String())
	}
	project := parseJSON(t, rec)
	projectID := project["id"].(float64)

	rec = app.request("PUT", fmt.Sprintf("/api/v1/projects/%.0f", projectID), `{"state":"REV"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update project failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("DELETE", fmt.Sprintf("/api/v1/projects/%.0f", projectID), "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete project failed: %d %s", rec.Code, rec.Body.String())
	}

	// The trail now holds request records and change records side by side.
	var requests int64
	app.DB.Model(&models.AuditRecord{}).
		Where("http_method <> '' AND actor_id = ?", uint(userID)).
		Count(&requests)
	if requests < 3 {
		t.Errorf("expected at least 3 request records, got %d", requests)
	}

	var update models.AuditRecord
	err := app.DB.Where("entity_kind = ? AND action = ?", "projects", models.ActionUpdate).
		First(&update).Error
	if err != nil {
		t.Fatalf("expected an UPDATE change record: %v", err)
	}
	if update.ActorID == nil || *update.ActorID != uint(userID) {
		t.Errorf("change record attributed to wrong actor: %v", update.ActorID)
	}
	if !strings.Contains(update.Diff, "* state: 'BOR' → 'REV'") {
		t.Errorf("expected state transition in diff, got %q", update.Diff)
	}

	var deletion models.AuditRecord
	err = app.DB.Where("entity_kind = ? AND action = ?", "projects", models.ActionDelete).
		First(&deletion).Error
	if err != nil {
		t.Fatalf("expected a DELETE change record: %v", err)
	}
	if deletion.Severity != models.SeverityHigh {
		t.Errorf("expected HIGH severity on delete, got %s", deletion.Severity)
	}
}

func TestAuditFlow_LoginEventsAndPasswordScrubbing(t *testing.T) {
	app := setupApp(t)

	app.registerUser(t, "alice@test.com", "password123", "student")
	app.loginUser(t, "alice@test.com", "password123")

	rec := app.request("POST", "/api/v1/auth/login",
		`{"email":"alice@test.com","password":"wrongpass"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rec.Code)
	}

	var failed models.AuditRecord
	err := app.DB.Where("action = ?", models.ActionLoginFailed).First(&failed).Error
	if err != nil {
		t.Fatalf("expected a LOGIN_FAILED record: %v", err)
	}
	if failed.Severity != models.SeverityHigh {
		t.Errorf("expected HIGH severity, got %s", failed.Severity)
	}
	if failed.EntityID != "alice@test.com" {
		t.Errorf("expected attempted identifier, got %s", failed.EntityID)
	}

	var logins int64
	app.DB.Model(&models.AuditRecord{}).Where("action = ?", models.ActionLogin).Count(&logins)
	if logins != 2 {
		t.Errorf("expected 2 LOGIN records (register + login), got %d", logins)
	}

	// No record anywhere may hold a cleartext password.
	var all []models.AuditRecord
	app.DB.Find(&all)
	for _, r := range all {
		for _, blob := range []string{r.Payload, r.StateBefore, r.StateAfter, r.Diff} {
			if strings.Contains(blob, "password123") || strings.Contains(blob, "wrongpass") {
				t.Fatalf("cleartext password leaked in record %d: %s", r.ID, blob)
			}
		}
	}
}

func TestAuditFlow_DashboardAccess(t *testing.T) {
	app := setupApp(t)

	staffToken, _ := app.registerUser(t, "staff@test.com", "password123", "staff")
	studentToken, _ := app.registerUser(t, "student@test.com", "password123", "student")

	app.request("POST", "/api/v1/projects", `{"title":"Visible"}`, studentToken)

	// Students are locked out of the dashboard.
	rec := app.request("GET", "/api/v1/audit/dashboard", "", studentToken)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for student, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/audit/dashboard", "", staffToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard failed for staff: %d %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)
	if summary["total_records"].(float64) == 0 {
		t.Error("expected a non-empty dashboard")
	}

	rec = app.request("GET", "/api/v1/audit/records?entity_kind=projects&action=CREATE", "", staffToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("records query failed: %d %s", rec.Code, rec.Body.String())
	}
	records := parseJSON(t, rec)
	if records["total_items"].(float64) != 1 {
		t.Errorf("expected 1 project CREATE record, got %v", records["total_items"])
	}
}

func TestAuditFlow_OpsEndpoints(t *testing.T) {
	app := setupApp(t)

	app.registerUser(t, "alice@test.com", "password123", "student")

	rec := app.request("GET", "/ops/audit/dashboard", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without ops key, got %d", rec.Code)
	}

	if code := app.opsRequest("/ops/audit/dashboard", "wrong").Code; code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", code)
	}

	rec = app.opsRequest("/ops/audit/dashboard", opsTestKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid key, got %d: %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)
	if summary["total_records"].(float64) == 0 {
		t.Error("expected a non-empty ops dashboard")
	}
}
