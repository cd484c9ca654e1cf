package firebase

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/identity"
)

// ProviderFirebase names Firebase ID tokens.
const ProviderFirebase = "firebase"

// tokenVerifier is the subset of *auth.Client used here.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseService verifies Firebase ID tokens with the Admin SDK.
type FirebaseService struct {
	authClient tokenVerifier
	logger     *zap.Logger
}

// NewFirebaseService initializes the Firebase Admin SDK from a service account key file.
func NewFirebaseService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*FirebaseService, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		return nil, fmt.Errorf("firebase service account key path is required")
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var conf *firebase.Config
	if cfg.FirebaseProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, conf, opt)
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return newFirebaseService(authClient, logger), nil
}

func newFirebaseService(client tokenVerifier, logger *zap.Logger) *FirebaseService {
	return &FirebaseService{authClient: client, logger: logger.Named("firebase_verifier")}
}

// Verify implements identity.Verifier.
func (s *FirebaseService) Verify(ctx context.Context, r *http.Request) (*identity.VerifiedAuth, error) {
	idToken := common.BearerToken(r)
	if idToken == "" {
		return nil, identity.ErrMissingToken
	}

	token, err := s.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.logger.Debug("Firebase ID token verification failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", identity.ErrInvalidToken, err)
	}
	if token.UID == "" {
		return nil, fmt.Errorf("%w: missing uid", identity.ErrInvalidToken)
	}

	verified := &identity.VerifiedAuth{
		Provider:      ProviderFirebase,
		SubjectID:     token.UID,
		SessionClaims: identity.CanonicalizeClaims(token.Claims),
	}
	if token.Firebase.Tenant != "" {
		tenant := token.Firebase.Tenant
		verified.OrganizationID = &tenant
	}
	return verified, nil
}
