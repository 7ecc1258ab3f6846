package models

import "time"

// UserRole classifies what a user can do in the platform.
type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleCompanyRep UserRole = "company_rep"
	RoleStaff      UserRole = "staff"
)

// User represents the user model in the database
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        UserRole   `gorm:"size:20;not null;default:student" json:"role"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	Projects    []Project    `gorm:"foreignKey:OwnerID" json:"projects,omitempty"`
	Assignments []Assignment `gorm:"foreignKey:UserID" json:"assignments,omitempty"`
}

// IsStaff reports whether the user may access operator-only surfaces.
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}
