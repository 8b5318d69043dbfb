package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/trading-system/backend/internal/domain/shared"
	"github.com/trading-system/backend/internal/infrastructure/logger"
	"github.com/trading-system/backend/internal/interfaces/http/dto"
)

// Headers identifying who acts and why
const (
	TenantIDHeader    = "X-Tenant-ID"
	UserIDHeader      = "X-User-ID"
	AuditReasonHeader = "X-Audit-Reason"

	requestContextKey = "request_context"
	maxReasonLength   = 200
)

// DefaultTenantID is used when no X-Tenant-ID header is sent
var DefaultTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// AuditContext builds the shared.RequestContext of the request from headers.
// A malformed tenant or user ID is rejected with 400.
func AuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := DefaultTenantID
		if v := c.GetHeader(TenantIDHeader); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				abortBadHeader(c, "Invalid X-Tenant-ID header")
				return
			}
			tenantID = id
		}

		userID := uuid.Nil
		if v := c.GetHeader(UserIDHeader); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				abortBadHeader(c, "Invalid X-User-ID header")
				return
			}
			userID = id
		}

		reason := c.GetHeader(AuditReasonHeader)
		if len(reason) > maxReasonLength {
			reason = reason[:maxReasonLength]
		}

		rc := shared.NewRequestContext(tenantID, userID, reason)
		c.Set(requestContextKey, rc)

		user := ""
		if rc.HasUser() {
			user = userID.String()
		}
		c.Request = c.Request.WithContext(logger.WithActor(c.Request.Context(), tenantID.String(), user))
		c.Next()
	}
}

// GetRequestContext returns the context built by AuditContext, or one for the
// default tenant when the middleware did not run.
func GetRequestContext(c *gin.Context) shared.RequestContext {
	if v, ok := c.Get(requestContextKey); ok {
		if rc, ok := v.(shared.RequestContext); ok {
			return rc
		}
	}
	return shared.NewRequestContext(DefaultTenantID, uuid.Nil, "")
}

func abortBadHeader(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, message, GetRequestID(c)))
}
