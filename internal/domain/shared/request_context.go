package shared

import (
	"github.com/google/uuid"
)

// RequestContext carries the acting user and the reason for a change.
// It is passed explicitly to every mutating application call so audit
// records never depend on ambient state.
type RequestContext struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Reason   string
}

// NewRequestContext creates a request context for the given tenant and user
func NewRequestContext(tenantID, userID uuid.UUID, reason string) RequestContext {
	return RequestContext{
		TenantID: tenantID,
		UserID:   userID,
		Reason:   reason,
	}
}

// ReasonOr returns the supplied reason, or fallback when none was given
func (rc RequestContext) ReasonOr(fallback string) string {
	if rc.Reason == "" {
		return fallback
	}
	return rc.Reason
}

// HasUser reports whether an acting user is known
func (rc RequestContext) HasUser() bool {
	return rc.UserID != uuid.Nil
}
