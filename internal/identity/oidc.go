package identity

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"

	"portfolio_backend/internal/common"
)

// ProviderOIDC names ID tokens verified through OpenID Connect discovery.
const ProviderOIDC = "oidc"

// OIDCVerifier validates ID tokens issued by an OpenID Connect provider.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
	logger   *zap.Logger
}

// NewOIDCVerifier runs discovery against issuerURL. An empty clientID skips the audience check.
func NewOIDCVerifier(ctx context.Context, issuerURL, clientID string, logger *zap.Logger) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery for %s: %w", issuerURL, err)
	}
	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{
			ClientID:          clientID,
			SkipClientIDCheck: clientID == "",
		}),
		logger: logger.Named("oidc_verifier"),
	}, nil
}

// Verify implements Verifier.
func (v *OIDCVerifier) Verify(ctx context.Context, r *http.Request) (*VerifiedAuth, error) {
	raw := common.BearerToken(r)
	if raw == "" {
		return nil, ErrMissingToken
	}

	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims map[string]interface{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: decode claims: %v", ErrInvalidToken, err)
	}

	auth := &VerifiedAuth{
		Provider:      ProviderOIDC,
		SubjectID:     idToken.Subject,
		SessionClaims: CanonicalizeClaims(claims),
	}
	if sid, ok := claims["sid"].(string); ok {
		auth.SessionID = &sid
	}
	if org, ok := claims["org_id"].(string); ok {
		auth.OrganizationID = &org
	}
	return auth, nil
}
