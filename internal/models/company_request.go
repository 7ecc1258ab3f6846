package models

// CompanyRequestState tracks the review state of a company collaboration request.
type CompanyRequestState string

const (
	CompanyRequestPending  CompanyRequestState = "pending"
	CompanyRequestAccepted CompanyRequestState = "accepted"
	CompanyRequestRejected CompanyRequestState = "rejected"
)

// CompanyRequest represents a company's request to sponsor or join a project.
type CompanyRequest struct {
	Base
	CompanyName  string              `gorm:"size:255;not null" json:"company_name"`
	ContactEmail string              `gorm:"size:255;not null" json:"contact_email"`
	Description  string              `gorm:"type:text" json:"description"`
	State        CompanyRequestState `gorm:"size:20;not null;default:pending;index" json:"state"`
	RequestedBy  uint                `gorm:"not null;index" json:"requested_by"`
}
