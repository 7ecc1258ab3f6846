package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	googleuuid "github.com/google/uuid"

	"praxia/internal/audit"
	"praxia/internal/logger"
	"praxia/internal/models"
)

// pkParamNames are route parameter names treated as entity identifiers.
var pkParamNames = []string{"pk", "id", "uuid", "slug"}

// idSegmentPattern matches a trailing path segment that looks like an
// entity id: at least six id-safe characters including a digit.
var idSegmentPattern = regexp.MustCompile(`^[0-9A-Za-z-]{6,}$`)

// Audit returns the request audit middleware. It must run after the auth
// middleware so the actor is known at request begin. For every included
// request it installs the audit context carrier, captures a bounded scrubbed
// copy of mutating request bodies, and writes exactly one request record
// after the response. If the handler panics it writes a CRITICAL HTTP_ERROR
// record instead and lets the panic continue to propagate.
//
// Any internal failure while building or writing a record is swallowed:
// auditing never alters the response.
func Audit(store *audit.Store) gin.HandlerFunc {
	cfg := store.Config()

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		actorID, actorEmail, sessionID := actorFromContext(c)

		// The carrier is installed even when the request record is skipped:
		// change hooks still need the actor for their own records.
		info := &audit.RequestInfo{
			ActorID:    actorID,
			ActorEmail: actorEmail,
			SessionID:  sessionID,
			Path:       path,
			SourceIP:   c.ClientIP(),
			UserAgent:  truncate(c.Request.UserAgent(), 512),
		}
		c.Request = c.Request.WithContext(audit.NewContext(c.Request.Context(), info))

		record := !cfg.IsExcludedPath(path) &&
			(actorID != nil || cfg.RecordUnauthenticated) &&
			(c.Request.Method != "GET" || cfg.CaptureGET)

		var payload any
		if record && isMutating(c.Request.Method) {
			payload = captureBody(c, cfg)
		}

		defer func() {
			if r := recover(); r != nil {
				if record {
					rec := baseRecord(c, info)
					rec.StatusCode = 500
					rec.Action = models.ActionHTTPError
					rec.Severity = models.SeverityCritical
					rec.Message = truncate(fmt.Sprintf("%T: %v", r, r), 1000)
					appendSafely(store, rec)
				}
				panic(r)
			}
		}()

		c.Next()

		if !record {
			return
		}

		rec := baseRecord(c, info)
		rec.StatusCode = c.Writer.Status()
		rec.Action = actionForMethod(c.Request.Method)
		rec.Severity = severityFor(c.Request.Method, rec.StatusCode)
		rec.EntityKind, rec.EntityID = inferEntity(c)
		if payload != nil {
			rec.Payload = audit.CapJSON(payload)
		}
		rec.Metadata = audit.CapJSON(map[string]any{
			"route":       c.FullPath(),
			"handler":     c.HandlerName(),
			"request_id":  c.GetString(requestIDKey),
			"duration_ms": time.Since(start).Milliseconds(),
			"headers": map[string]any{
				"host":            c.Request.Host,
				"content_type":    c.ContentType(),
				"content_length":  c.Request.ContentLength,
				"accept":          c.GetHeader("Accept"),
				"accept_language": c.GetHeader("Accept-Language"),
			},
		})
		appendSafely(store, rec)
	}
}

// actorFromContext reads the authenticated principal installed by the auth
// middleware, or nils for anonymous requests.
func actorFromContext(c *gin.Context) (*uint, string, string) {
	var actorID *uint
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(uint); ok {
			actorID = &id
		}
	}
	return actorID, c.GetString("email"), c.GetString("sessionID")
}

func baseRecord(c *gin.Context, info *audit.RequestInfo) *models.AuditRecord {
	return &models.AuditRecord{
		ActorID:     info.ActorID,
		ActorEmail:  info.ActorEmail,
		SessionID:   info.SessionID,
		SourceIP:    info.SourceIP,
		UserAgent:   info.UserAgent,
		Referrer:    truncate(c.Request.Referer(), 512),
		HTTPMethod:  c.Request.Method,
		URLPath:     truncate(info.Path, 500),
		QueryString: truncate(c.Request.URL.RawQuery, 1000),
	}
}

// appendSafely writes the record, swallowing anything the record build
// machinery might throw.
func appendSafely(store *audit.Store, rec *models.AuditRecord) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Errorw("audit middleware panic", "panic", r)
		}
	}()
	store.Append(rec)
}

func isMutating(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	}
	return false
}

// captureBody reads the request body once, bounded by the configured cap,
// and restores it so handlers can read it again. Oversized bodies become a
// truncation marker and are never parsed. Parsing tries JSON, then form
// key/value pairs, then falls back to raw text.
func captureBody(c *gin.Context, cfg *audit.Config) any {
	if c.Request.Body == nil {
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, int64(cfg.MaxBodyBytes)+1))
	if err != nil {
		return map[string]any{"_read_error": true}
	}
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), c.Request.Body))

	if len(raw) == 0 {
		return nil
	}
	if len(raw) > cfg.MaxBodyBytes {
		return audit.TruncationMarker(len(raw))
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		return audit.Scrub(parsed, cfg.SensitiveKeys())
	}

	if bytes.ContainsRune(raw, '=') {
		if values, err := url.ParseQuery(string(raw)); err == nil && len(values) > 0 {
			form := make(map[string]any, len(values))
			for k, vs := range values {
				if len(vs) == 1 {
					form[k] = vs[0]
				} else {
					form[k] = vs
				}
			}
			return audit.Scrub(form, cfg.SensitiveKeys())
		}
	}

	return map[string]any{"_raw": string(raw)}
}

// inferEntity guesses which entity a request touched: the resolved route
// pattern names the kind, and the id comes from a conventional route
// parameter or, failing that, an id-looking trailing path segment.
func inferEntity(c *gin.Context) (string, string) {
	kind := c.FullPath()

	for _, name := range pkParamNames {
		if v := c.Param(name); v != "" {
			return kind, truncate(v, 200)
		}
	}

	segments := strings.Split(strings.Trim(c.Request.URL.Path, "/"), "/")
	if len(segments) > 0 {
		last := segments[len(segments)-1]
		if googleuuid.Validate(last) == nil ||
			(idSegmentPattern.MatchString(last) && strings.ContainsAny(last, "0123456789")) {
			return kind, truncate(last, 200)
		}
	}
	return kind, ""
}

func actionForMethod(method string) models.AuditAction {
	switch method {
	case "GET":
		return models.ActionNavigate
	case "POST":
		return models.ActionCreateOrAction
	case "PUT":
		return models.ActionUpdateReplace
	case "PATCH":
		return models.ActionUpdatePartial
	case "DELETE":
		return models.ActionDelete
	default:
		return models.AuditAction("HTTP_" + method)
	}
}

// severityFor derives record severity: status class overrides the
// method-derived base.
func severityFor(method string, status int) models.AuditSeverity {
	if status >= 500 {
		return models.SeverityCritical
	}
	if status >= 400 {
		return models.SeverityWarning
	}
	switch method {
	case "POST", "PUT", "PATCH":
		return models.SeverityMedium
	case "DELETE":
		return models.SeverityHigh
	default:
		return models.SeverityInfo
	}
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
