package app

import (
	"context"
	"fmt"

	"portfolio_backend/internal/config"
	"portfolio_backend/internal/firebase"
	"portfolio_backend/internal/identity"

	"go.uber.org/zap"
)

// NewVerifier builds the identity.Verifier selected by AUTH_PROVIDER.
// The cleanup stops any background key refresh.
func NewVerifier(cfg *config.Config, logger *zap.Logger) (identity.Verifier, func(), error) {
	ctx := context.Background()
	noop := func() {}

	switch cfg.AuthProvider {
	case config.AuthProviderJWKS:
		v, err := identity.NewJWKSVerifier(ctx, identity.JWKSOptions{
			JWKSURL:           cfg.AuthJWKSURL,
			Issuer:            cfg.AuthIssuer,
			Audience:          cfg.AuthAudience,
			AuthorizedParties: cfg.AuthAuthorizedParties,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Identity provider configured", zap.String("provider", cfg.AuthProvider), zap.String("jwks_url", cfg.AuthJWKSURL))
		return v, v.Close, nil

	case config.AuthProviderOIDC:
		v, err := identity.NewOIDCVerifier(ctx, cfg.OIDCIssuerURL, cfg.OIDCClientID, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Identity provider configured", zap.String("provider", cfg.AuthProvider), zap.String("issuer", cfg.OIDCIssuerURL))
		return v, noop, nil

	case config.AuthProviderFirebase:
		v, err := firebase.NewFirebaseService(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Identity provider configured", zap.String("provider", cfg.AuthProvider))
		return v, noop, nil

	default:
		return nil, nil, fmt.Errorf("unsupported AUTH_PROVIDER %q", cfg.AuthProvider)
	}
}
