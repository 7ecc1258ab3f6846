package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"praxia/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var fixtureCounter atomic.Int64

// uniqueEmail returns an email address no other fixture in the process uses.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s%d@example.com", prefix, fixtureCounter.Add(1))
}

// CreateTestUser creates a student user with a bcrypt-hashed password.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.RoleStudent)
}

// CreateTestUserWithRole creates a user with the given role.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	// MinCost keeps hashing fast in tests.
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}

	user := &models.User{
		Email:     uniqueEmail("user"),
		Password:  string(hash),
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProject creates a project owned by the given user.
func CreateTestProject(t *testing.T, db *gorm.DB, owner *models.User) *models.Project {
	t.Helper()

	project := &models.Project{
		Title:       fmt.Sprintf("Test Project %d", fixtureCounter.Add(1)),
		Description: "A project created for testing",
		State:       models.ProjectStateDraft,
		OwnerID:     owner.ID,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestCompanyRequest creates a pending company request filed by the
// given user.
func CreateTestCompanyRequest(t *testing.T, db *gorm.DB, requestedBy *models.User) *models.CompanyRequest {
	t.Helper()

	request := &models.CompanyRequest{
		CompanyName:  fmt.Sprintf("Acme %d", fixtureCounter.Add(1)),
		ContactEmail: uniqueEmail("contact"),
		Description:  "A company request created for testing",
		State:        models.CompanyRequestPending,
		RequestedBy:  requestedBy.ID,
	}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("failed to create test company request: %v", err)
	}
	return request
}
