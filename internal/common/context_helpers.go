package common

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type requestIDCtxKey struct{}

// WithRequestID stores the correlation id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey{}, id)
}

// RequestIDFromContext returns the correlation id stored by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}

// LoggerWithRequestID decorates logger with the request id found in ctx.
func LoggerWithRequestID(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// Returns an empty string if not found.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get(AuthorizationHeader)
	if authHeader == "" {
		return ""
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
		return ""
	}
	return parts[1]
}

// GetRequestIDFromContext retrieves the correlation id from the Gin context.
func GetRequestIDFromContext(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
