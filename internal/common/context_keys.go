package common

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin context key for the correlation id.
	RequestIDKey = "requestID"
	// LoggerKey is the gin context key for the request-scoped logger.
	LoggerKey = "logger"
	// VerifiedAuthKey is the gin context key for the raw provider verification result.
	VerifiedAuthKey = "verifiedAuth"
	// IdentityClaimsKey is the gin context key for the normalized identity claims.
	IdentityClaimsKey = "identityClaims"
)
