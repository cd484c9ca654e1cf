// Package identity turns verified provider sessions into normalized identity claims.
package identity

import (
	"context"
	"net/http"
	"strings"
)

// Session-claim keys read by Extract.
const (
	ClaimEmail           = "email"
	ClaimFirstName       = "firstName"
	ClaimLastName        = "lastName"
	ClaimProfileImageURL = "profileImageUrl"
)

// VerifiedAuth is the raw result of a successful provider verification.
type VerifiedAuth struct {
	Provider       string
	SubjectID      string
	SessionID      *string
	OrganizationID *string
	SessionClaims  map[string]interface{}
}

// Claims is the normalized identity attached to an authenticated request.
// Optional fields are nil when the provider did not supply a usable value.
type Claims struct {
	ExternalID      string
	SessionID       *string
	OrganizationID  *string
	Email           *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
}

// Verifier validates the credential carried by a request.
// Implementations must return an error for missing, malformed, expired or
// otherwise untrusted credentials.
type Verifier interface {
	Verify(ctx context.Context, r *http.Request) (*VerifiedAuth, error)
}

// Extract normalizes a verification result. It never fails: claims that are
// absent, not strings, or whitespace-only are reported as nil. Other values
// are kept as the provider sent them.
func Extract(auth *VerifiedAuth) Claims {
	if auth == nil {
		return Claims{}
	}
	return Claims{
		ExternalID:      auth.SubjectID,
		SessionID:       nonBlank(auth.SessionID),
		OrganizationID:  nonBlank(auth.OrganizationID),
		Email:           stringClaim(auth.SessionClaims, ClaimEmail),
		FirstName:       stringClaim(auth.SessionClaims, ClaimFirstName),
		LastName:        stringClaim(auth.SessionClaims, ClaimLastName),
		ProfileImageURL: stringClaim(auth.SessionClaims, ClaimProfileImageURL),
	}
}

func stringClaim(claims map[string]interface{}, key string) *string {
	raw, ok := claims[key]
	if !ok {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	return nonBlank(&s)
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

// CanonicalizeClaims copies standard OIDC profile claims onto the keys Extract
// reads when those keys are not already set. The input map is not modified.
func CanonicalizeClaims(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in)+3)
	for k, v := range in {
		out[k] = v
	}
	aliases := map[string]string{
		"given_name":  ClaimFirstName,
		"family_name": ClaimLastName,
		"picture":     ClaimProfileImageURL,
		"image_url":   ClaimProfileImageURL,
	}
	for from, to := range aliases {
		if _, ok := out[to]; ok {
			continue
		}
		if v, ok := in[from]; ok {
			out[to] = v
		}
	}
	return out
}

type claimsCtxKey struct{}

// NewContext returns a copy of ctx carrying claims.
func NewContext(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey{}, claims)
}

// FromContext returns the claims stored by NewContext.
func FromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsCtxKey{}).(Claims)
	return c, ok
}
