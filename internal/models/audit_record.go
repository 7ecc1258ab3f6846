package models

import "time"

// AuditAction classifies what an audit record describes.
type AuditAction string

const (
	ActionLogin       AuditAction = "LOGIN"
	ActionLogout      AuditAction = "LOGOUT"
	ActionLoginFailed AuditAction = "LOGIN_FAILED"
	ActionCreate      AuditAction = "CREATE"
	ActionUpdate      AuditAction = "UPDATE"
	ActionDelete      AuditAction = "DELETE"
	ActionView        AuditAction = "VIEW"
	ActionNavigate    AuditAction = "NAVIGATE"
	ActionHTTPError   AuditAction = "HTTP_ERROR"

	// Request-level actions derived from mutating HTTP methods.
	ActionCreateOrAction AuditAction = "CREATE_OR_ACTION"
	ActionUpdateReplace  AuditAction = "UPDATE_REPLACE"
	ActionUpdatePartial  AuditAction = "UPDATE_PARTIAL"
)

// AuditSeverity grades how much operator attention a record deserves.
// Status-derived severities (WARNING, CRITICAL) override the method-derived
// base (INFO, MEDIUM, HIGH) when both apply.
type AuditSeverity string

const (
	SeverityInfo     AuditSeverity = "INFO"
	SeverityMedium   AuditSeverity = "MEDIUM"
	SeverityWarning  AuditSeverity = "WARNING"
	SeverityHigh     AuditSeverity = "HIGH"
	SeverityCritical AuditSeverity = "CRITICAL"
)

// AuditRecord is the append-only unit of the activity trail. One wide row
// serves both request-kind records (written by the audit middleware) and
// change-kind records (written by the entity change hooks); rows are never
// updated or deleted by application code.
type AuditRecord struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OccurredAt time.Time `gorm:"autoCreateTime;index" json:"occurred_at"`

	// Actor is a weak reference: deleting the user nulls it out rather than
	// cascading into the audit history.
	ActorID    *uint  `gorm:"index;constraint:OnDelete:SET NULL" json:"actor_id,omitempty"`
	ActorEmail string `gorm:"size:255" json:"actor_email,omitempty"`
	SessionID  string `gorm:"size:64;index" json:"session_id,omitempty"`

	// Network origin, populated for request-kind records.
	SourceIP  string `gorm:"size:45" json:"source_ip,omitempty"`
	UserAgent string `gorm:"size:512" json:"user_agent,omitempty"`
	Referrer  string `gorm:"size:512" json:"referrer,omitempty"`

	HTTPMethod  string `gorm:"size:10" json:"http_method,omitempty"`
	URLPath     string `gorm:"size:500" json:"url_path,omitempty"`
	QueryString string `gorm:"size:1000" json:"query_string,omitempty"`
	StatusCode  int    `json:"status_code,omitempty"`

	// Tracked entity reference, populated for change-kind records and
	// inferred heuristically for request-kind records.
	EntityKind string `gorm:"size:200;index:idx_audit_entity" json:"entity_kind,omitempty"`
	EntityID   string `gorm:"size:200;index:idx_audit_entity" json:"entity_id,omitempty"`

	Action   AuditAction   `gorm:"size:20;not null;index" json:"action"`
	Severity AuditSeverity `gorm:"size:10;not null;index" json:"severity"`

	// Scrubbed JSON blobs. StateBefore/StateAfter hold entity field maps;
	// Payload holds the captured request body; Metadata holds auxiliary
	// request context (route name, content headers, duration).
	StateBefore string `gorm:"type:text" json:"state_before,omitempty"`
	StateAfter  string `gorm:"type:text" json:"state_after,omitempty"`
	Diff        string `gorm:"type:text" json:"diff,omitempty"`
	Payload     string `gorm:"type:text" json:"payload,omitempty"`
	Metadata    string `gorm:"type:text" json:"metadata,omitempty"`

	Message string `gorm:"size:1000" json:"message,omitempty"`
}

// TableName keeps the audit trail in its own clearly named table.
func (AuditRecord) TableName() string {
	return "audit_records"
}
