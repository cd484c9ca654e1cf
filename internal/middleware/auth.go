package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/identity"
	"portfolio_backend/internal/platform/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Guard rejection reasons, used as metric labels.
const (
	rejectMissingToken = "missing_token"
	rejectInvalidToken = "invalid_token"
	rejectTimeout      = "timeout"
	rejectNoSubject    = "no_subject"
)

// AuthGuard verifies the request's credential with verifier before the handler runs.
// Failed verification answers 401 and stops the chain. On success the raw
// verification result and the extracted claims are bound to the request.
func AuthGuard(verifier identity.Verifier, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		log := common.LoggerWithRequestID(ctx, logger)

		verifyCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			verifyCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		auth, err := safeVerify(verifyCtx, verifier, c)
		if err == nil && (auth == nil || auth.SubjectID == "") {
			err = errNoSubject
		}
		if err != nil {
			reason := rejectionReason(err)
			m.ObserveGuardRejection(reason)
			log.Warn("Authentication failed", zap.String("reason", reason), zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or missing session credentials."))
			return
		}

		claims := identity.Extract(auth)
		c.Set(common.VerifiedAuthKey, auth)
		c.Set(common.IdentityClaimsKey, claims)
		c.Request = c.Request.WithContext(identity.NewContext(ctx, claims))

		log.Debug("Request authenticated",
			zap.String("provider", auth.Provider),
			zap.String("external_id", claims.ExternalID),
		)
		c.Next()
	}
}

var errNoSubject = errors.New("verification returned no subject")

// safeVerify converts a panicking verifier into an authentication failure.
func safeVerify(ctx context.Context, verifier identity.Verifier, c *gin.Context) (auth *identity.VerifiedAuth, err error) {
	defer func() {
		if r := recover(); r != nil {
			auth, err = nil, fmt.Errorf("verifier panicked: %v", r)
		}
	}()
	return verifier.Verify(ctx, c.Request)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, identity.ErrMissingToken):
		return rejectMissingToken
	case errors.Is(err, context.DeadlineExceeded):
		return rejectTimeout
	case errors.Is(err, errNoSubject):
		return rejectNoSubject
	default:
		return rejectInvalidToken
	}
}

// GetVerifiedAuth returns the raw verification result bound by AuthGuard.
func GetVerifiedAuth(c *gin.Context) (*identity.VerifiedAuth, bool) {
	val, exists := c.Get(common.VerifiedAuthKey)
	if !exists {
		return nil, false
	}
	auth, ok := val.(*identity.VerifiedAuth)
	return auth, ok
}

// GetIdentityClaims returns the normalized claims bound by AuthGuard.
func GetIdentityClaims(c *gin.Context) (identity.Claims, bool) {
	val, exists := c.Get(common.IdentityClaimsKey)
	if !exists {
		return identity.Claims{}, false
	}
	claims, ok := val.(identity.Claims)
	return claims, ok
}
