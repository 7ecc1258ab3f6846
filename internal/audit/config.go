// Package audit implements the request/entity audit trail: a redaction
// engine, a per-request context carrier, entity change snapshot hooks, and
// the append-only record store with its dashboard queries. Writes are
// best-effort: a failed audit write is logged and dropped, never surfaced
// to the request being audited.
package audit

import (
	"strings"

	"praxia/internal/config"
)

// defaultSensitiveKeys are field names whose values must never reach the
// store in cleartext. Matching is case-insensitive on the lowercased key.
var defaultSensitiveKeys = []string{
	"password",
	"password1",
	"password2",
	"old_password",
	"new_password",
	"pwd",
	"token",
	"secret",
	"authorization",
	"api_key",
	"apikey",
	"csrf_token",
}

// defaultTrackedKinds enrolls the domain tables for change auditing.
var defaultTrackedKinds = []string{
	"users",
	"projects",
	"company_requests",
	"assignments",
}

// truncateBytes caps the serialized size of any stored blob. Larger values
// are replaced with a {"_truncated": true, "size": N} marker.
const truncateBytes = 10_000

// Config is the immutable audit configuration, built once at startup and
// injected into the middleware and hooks.
type Config struct {
	ExcludePrefixes       []string
	CaptureGET            bool
	MaxBodyBytes          int
	RecordUnauthenticated bool

	sensitiveKeys map[string]struct{}
	trackedKinds  map[string]struct{}
}

// NewConfig builds the audit configuration from application settings,
// merging any extra sensitive keys and overriding tracked kinds if set.
func NewConfig(cfg *config.Config) *Config {
	c := &Config{
		ExcludePrefixes:       cfg.AuditExcludePrefixes,
		CaptureGET:            cfg.AuditCaptureGET,
		MaxBodyBytes:          cfg.AuditMaxBodyBytes,
		RecordUnauthenticated: cfg.AuditRecordUnauthed,
		sensitiveKeys:         make(map[string]struct{}),
		trackedKinds:          make(map[string]struct{}),
	}

	for _, k := range defaultSensitiveKeys {
		c.sensitiveKeys[k] = struct{}{}
	}
	for _, k := range cfg.AuditExtraSensitiveKeys {
		c.sensitiveKeys[strings.ToLower(k)] = struct{}{}
	}

	tracked := cfg.AuditTrackedEntities
	if len(tracked) == 0 {
		tracked = defaultTrackedKinds
	}
	for _, k := range tracked {
		c.trackedKinds[k] = struct{}{}
	}

	return c
}

// SensitiveKeys returns a copy of the configured sensitive key set, keeping
// the configuration itself immutable.
func (c *Config) SensitiveKeys() map[string]struct{} {
	keys := make(map[string]struct{}, len(c.sensitiveKeys))
	for k := range c.sensitiveKeys {
		keys[k] = struct{}{}
	}
	return keys
}

// IsExcludedPath reports whether a request path is excluded from auditing.
func (c *Config) IsExcludedPath(path string) bool {
	for _, prefix := range c.ExcludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// IsTracked reports whether an entity kind is enrolled for change auditing.
func (c *Config) IsTracked(kind string) bool {
	_, ok := c.trackedKinds[kind]
	return ok
}
