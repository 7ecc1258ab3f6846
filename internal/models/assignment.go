package models

// Assignment links a user to a project with a role within it.
type Assignment struct {
	Base
	ProjectID     uint   `gorm:"not null;uniqueIndex:idx_assignment_project_user" json:"project_id"`
	UserID        uint   `gorm:"not null;uniqueIndex:idx_assignment_project_user" json:"user_id"`
	RoleInProject string `gorm:"size:50" json:"role_in_project"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
