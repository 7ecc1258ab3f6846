// Package testutil provides test helpers for setting up in-memory databases,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"praxia/internal/audit"
	"praxia/internal/config"
	"praxia/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// allModels is the list of all GORM models to auto-migrate in tests.
var allModels = []interface{}{
	&models.User{},
	&models.Project{},
	&models.CompanyRequest{},
	&models.Assignment{},
	&models.AuditRecord{},
}

// dbCounter gives each test database a unique name; tests that count audit
// rows must not share state through sqlite's shared cache.
var dbCounter atomic.Int64

// SetupTestDB creates an in-memory SQLite database with all models migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:praxia_test_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// NewTestAuditConfig builds an audit configuration with the defaults used
// across tests.
func NewTestAuditConfig() *audit.Config {
	return audit.NewConfig(&config.Config{
		AuditCaptureGET:   true,
		AuditMaxBodyBytes: 100_000,
	})
}

// SetupAuditDB creates a test database with the audit change hooks
// registered, returning the store writing to it.
func SetupAuditDB(t *testing.T) (*gorm.DB, *audit.Store) {
	t.Helper()

	db := SetupTestDB(t)
	cfg := NewTestAuditConfig()
	store := audit.NewStore(db, cfg)
	if err := audit.RegisterCallbacks(db, store, cfg); err != nil {
		t.Fatalf("failed to register audit callbacks: %v", err)
	}
	return db, store
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
