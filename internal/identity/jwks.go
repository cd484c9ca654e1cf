package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"portfolio_backend/internal/common"
)

// ProviderJWKS names session tokens verified against a remote key set.
const ProviderJWKS = "jwks"

// SessionCookieName is the cookie some providers use instead of an Authorization header.
const SessionCookieName = "__session"

var (
	ErrMissingToken = errors.New("identity: no session token on request")
	ErrInvalidToken = errors.New("identity: session token is invalid")
)

// JWKSOptions configures a JWKSVerifier.
type JWKSOptions struct {
	JWKSURL           string
	Issuer            string
	Audience          string
	AuthorizedParties []string
	HTTPClient        *http.Client
}

// JWKSVerifier validates RS256/ES256 session tokens against a cached, auto-refreshed JWKS.
type JWKSVerifier struct {
	jwks   *keyfunc.JWKS
	parser *jwt.Parser
	opts   JWKSOptions
	logger *zap.Logger
}

// NewJWKSVerifier fetches the key set once and keeps it refreshed in the background.
func NewJWKSVerifier(ctx context.Context, opts JWKSOptions, logger *zap.Logger) (*JWKSVerifier, error) {
	log := logger.Named("jwks_verifier")
	jwks, err := keyfunc.Get(opts.JWKSURL, keyfunc.Options{
		Ctx:               ctx,
		Client:            opts.HTTPClient,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Warn("Failed to refresh JWKS", zap.String("url", opts.JWKSURL), zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks from %s: %w", opts.JWKSURL, err)
	}

	return &JWKSVerifier{
		jwks:   jwks,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"RS256", "ES256"})),
		opts:   opts,
		logger: log,
	}, nil
}

// Close stops the background refresh.
func (v *JWKSVerifier) Close() {
	v.jwks.EndBackground()
}

// Verify implements Verifier.
func (v *JWKSVerifier) Verify(_ context.Context, r *http.Request) (*VerifiedAuth, error) {
	raw := common.BearerToken(r)
	if raw == "" {
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			raw = cookie.Value
		}
	}
	if raw == "" {
		return nil, ErrMissingToken
	}

	claims := jwt.MapClaims{}
	token, err := v.parser.ParseWithClaims(raw, claims, v.jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if err := v.checkClaims(claims); err != nil {
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	var sid *string
	if s, ok := claims["sid"].(string); ok {
		sid = &s
	}

	return &VerifiedAuth{
		Provider:       ProviderJWKS,
		SubjectID:      sub,
		SessionID:      sid,
		OrganizationID: organizationID(claims),
		SessionClaims:  CanonicalizeClaims(claims),
	}, nil
}

func (v *JWKSVerifier) checkClaims(claims jwt.MapClaims) error {
	if v.opts.Issuer != "" && !claims.VerifyIssuer(v.opts.Issuer, true) {
		return fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
	}
	if v.opts.Audience != "" && !claims.VerifyAudience(v.opts.Audience, true) {
		return fmt.Errorf("%w: unexpected audience", ErrInvalidToken)
	}
	if len(v.opts.AuthorizedParties) > 0 {
		azp, _ := claims["azp"].(string)
		if azp != "" && !contains(v.opts.AuthorizedParties, azp) {
			return fmt.Errorf("%w: unauthorized party %q", ErrInvalidToken, azp)
		}
	}
	return nil
}

// organizationID reads "org_id", or the compact "o": {"id": ...} form.
func organizationID(claims jwt.MapClaims) *string {
	if id, ok := claims["org_id"].(string); ok {
		return &id
	}
	if o, ok := claims["o"].(map[string]interface{}); ok {
		if id, ok := o["id"].(string); ok {
			return &id
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
