package models

// ProjectState tracks a project's review lifecycle.
type ProjectState string

const (
	ProjectStateDraft    ProjectState = "BOR"
	ProjectStateReview   ProjectState = "REV"
	ProjectStateApproved ProjectState = "APR"
	ProjectStateRejected ProjectState = "REC"
)

// Project represents an academic or enterprise project proposal.
type Project struct {
	Base
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	State       ProjectState `gorm:"size:3;not null;default:BOR;index" json:"state"`
	OwnerID     uint         `gorm:"not null;index" json:"owner_id"`
	Owner       *User        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CompanyID   *uint        `gorm:"index" json:"company_id,omitempty"`

	Assignments []Assignment `gorm:"foreignKey:ProjectID" json:"assignments,omitempty"`
}
