package audit

import "context"

// RequestInfo describes the request currently being handled: the actor, the
// session, and the network origin. The audit middleware installs it on the
// request context so change hooks running inside the ORM, outside the
// middleware's direct call chain, can attribute mutations to the actor.
//
// Carriers live only on a single request's context.Context, so one request
// can never observe another's actor: the carrier dies with the request on
// every exit path, including panics.
type RequestInfo struct {
	ActorID    *uint
	ActorEmail string
	SessionID  string
	Path       string
	SourceIP   string
	UserAgent  string
}

type ctxKey struct{}

// NewContext returns a context carrying the given request info.
func NewContext(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// FromContext returns the request info installed on ctx, or nil when the
// code runs outside a request (migrations, background jobs). A nil result
// is expected there and leaves actor fields empty rather than failing.
func FromContext(ctx context.Context) *RequestInfo {
	info, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return info
}
