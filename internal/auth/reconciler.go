package auth

import (
	"context"
	"errors"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/identity"
	"portfolio_backend/internal/platform/metrics"
	"portfolio_backend/internal/user"

	"go.uber.org/zap"
)

// MissingEmailPlaceholder is stored when a new identity arrives without an email claim.
const MissingEmailPlaceholder = "missing-email@example.com"

// Outcome describes what a reconciliation did to the local record.
type Outcome string

const (
	OutcomeCreated   Outcome = metrics.OutcomeCreated
	OutcomeUpdated   Outcome = metrics.OutcomeUpdated
	OutcomeUnchanged Outcome = metrics.OutcomeUnchanged
)

// Fallback holds profile values supplied outside the session claims,
// used only where the claims have none.
type Fallback struct {
	FirstName *string
	LastName  *string
}

// Reconciler keeps local user records in step with verified identities.
type Reconciler struct {
	repo    user.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(repo user.Repository, m *metrics.Metrics, logger *zap.Logger) *Reconciler {
	return &Reconciler{repo: repo, metrics: m, logger: logger.Named("identity_reconciler")}
}

// profile is the resolved view of incoming identity data. Nil means "not supplied".
type profile struct {
	Email           *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
}

// Reconcile returns the local record for claims.ExternalID, creating it on first
// contact and otherwise writing only fields that are supplied and differ.
// A create that loses a race on the external id is retried once as an update.
func (r *Reconciler) Reconcile(ctx context.Context, claims identity.Claims, fallback Fallback) (*user.User, Outcome, error) {
	log := common.LoggerWithRequestID(ctx, r.logger).With(zap.String("external_id", claims.ExternalID))

	p := resolveProfile(claims, fallback)
	if p.Email == nil {
		log.Warn("Session claims carry no email; a placeholder is used for new records",
			zap.String("placeholder", MissingEmailPlaceholder))
	}

	u, outcome, err := r.reconcile(ctx, log, claims.ExternalID, p)
	if err != nil {
		r.metrics.ObserveSync(metrics.OutcomeFailed)
		log.Warn("Identity synchronization failed", zap.Error(err))
		return nil, "", err
	}
	r.metrics.ObserveSync(string(outcome))
	log.Info("Identity synchronized", zap.String("user_id", u.ID.String()), zap.String("outcome", string(outcome)))
	return u, outcome, nil
}

func (r *Reconciler) reconcile(ctx context.Context, log *zap.Logger, externalID string, p profile) (*user.User, Outcome, error) {
	existing, err := r.repo.FindByExternalID(ctx, externalID)
	if err == nil {
		return r.applyChanges(ctx, log, existing, p)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, "", err
	}

	created, err := r.create(ctx, externalID, p)
	if err == nil {
		return created, OutcomeCreated, nil
	}
	if !errors.Is(err, common.ErrConflict) {
		return nil, "", err
	}

	// Another request created the record between lookup and insert.
	r.metrics.ObserveRaceRetry()
	log.Info("Create lost a race on the external id; retrying as update")

	existing, err = r.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrConflict.WithDetails("The user record changed concurrently. Please retry.")
		}
		return nil, "", err
	}
	return r.applyChanges(ctx, log, existing, p)
}

func (r *Reconciler) create(ctx context.Context, externalID string, p profile) (*user.User, error) {
	email := MissingEmailPlaceholder
	if p.Email != nil {
		email = *p.Email
	}
	u := &user.User{
		ExternalID:      externalID,
		Email:           email,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		ProfileImageURL: p.ProfileImageURL,
	}
	if err := r.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Reconciler) applyChanges(ctx context.Context, log *zap.Logger, existing *user.User, p profile) (*user.User, Outcome, error) {
	changes := diff(existing, p)
	if changes.IsEmpty() {
		return existing, OutcomeUnchanged, nil
	}

	updated, err := r.repo.Update(ctx, existing.ID, changes)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrConflict.WithDetails("The user record was removed during synchronization. Please retry.")
		}
		return nil, "", err
	}
	log.Debug("Staged profile fields written", zap.Strings("fields", changes.Fields()))
	return updated, OutcomeUpdated, nil
}

// resolveProfile applies precedence: session claims, then fallback.
func resolveProfile(claims identity.Claims, fallback Fallback) profile {
	return profile{
		Email:           claims.Email,
		FirstName:       firstNonBlank(claims.FirstName, fallback.FirstName),
		LastName:        firstNonBlank(claims.LastName, fallback.LastName),
		ProfileImageURL: claims.ProfileImageURL,
	}
}

// diff stages every supplied field whose value differs from the stored one.
func diff(existing *user.User, p profile) user.UserChanges {
	var c user.UserChanges
	if p.Email != nil && *p.Email != existing.Email {
		c.Email = p.Email
	}
	if differs(p.FirstName, existing.FirstName) {
		c.FirstName = p.FirstName
	}
	if differs(p.LastName, existing.LastName) {
		c.LastName = p.LastName
	}
	if differs(p.ProfileImageURL, existing.ProfileImageURL) {
		c.ProfileImageURL = p.ProfileImageURL
	}
	return c
}

func differs(incoming, stored *string) bool {
	if incoming == nil {
		return false
	}
	return stored == nil || *stored != *incoming
}

func firstNonBlank(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}
