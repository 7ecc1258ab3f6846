package audit

import (
	"strconv"

	"praxia/internal/models"
)

// sessionEntityKind groups the auth lifecycle records under one logical kind.
const sessionEntityKind = "auth.session"

// LoginSucceeded records a successful authentication.
func (s *Store) LoginSucceeded(user *models.User, sessionID, ip, userAgent, path string) {
	id := user.ID
	s.Append(&models.AuditRecord{
		ActorID:    &id,
		ActorEmail: user.Email,
		SessionID:  sessionID,
		SourceIP:   ip,
		UserAgent:  userAgent,
		URLPath:    path,
		EntityKind: sessionEntityKind,
		EntityID:   strconv.FormatUint(uint64(user.ID), 10),
		Action:     models.ActionLogin,
		Severity:   models.SeverityInfo,
	})
}

// LoginFailed records a failed authentication attempt. The submitted
// identifier goes into the entity id so repeated attempts against one
// account can be grouped; there is no actor to reference.
func (s *Store) LoginFailed(identifier, ip, userAgent, path string) {
	s.Append(&models.AuditRecord{
		SourceIP:   ip,
		UserAgent:  userAgent,
		URLPath:    path,
		EntityKind: sessionEntityKind,
		EntityID:   identifier,
		Action:     models.ActionLoginFailed,
		Severity:   models.SeverityHigh,
	})
}

// Logout records the end of a session.
func (s *Store) Logout(user *models.User, sessionID, ip, userAgent, path string) {
	id := user.ID
	s.Append(&models.AuditRecord{
		ActorID:    &id,
		ActorEmail: user.Email,
		SessionID:  sessionID,
		SourceIP:   ip,
		UserAgent:  userAgent,
		URLPath:    path,
		EntityKind: sessionEntityKind,
		EntityID:   strconv.FormatUint(uint64(user.ID), 10),
		Action:     models.ActionLogout,
		Severity:   models.SeverityInfo,
	})
}
