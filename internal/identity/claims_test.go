package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestExtract_AllFieldsPresent(t *testing.T) {
	claims := Extract(&VerifiedAuth{
		SubjectID:      "user_1",
		SessionID:      strPtr("sess_1"),
		OrganizationID: strPtr("org_1"),
		SessionClaims: map[string]interface{}{
			"email":           "a@b.co",
			"firstName":       "Ada",
			"lastName":        "Lovelace",
			"profileImageUrl": "https://img.example.com/a.png",
		},
	})

	assert.Equal(t, "user_1", claims.ExternalID)
	require.NotNil(t, claims.SessionID)
	assert.Equal(t, "sess_1", *claims.SessionID)
	require.NotNil(t, claims.OrganizationID)
	assert.Equal(t, "org_1", *claims.OrganizationID)
	assert.Equal(t, "a@b.co", *claims.Email)
	assert.Equal(t, "Ada", *claims.FirstName)
	assert.Equal(t, "Lovelace", *claims.LastName)
	assert.Equal(t, "https://img.example.com/a.png", *claims.ProfileImageURL)
}

func TestExtract_WrongTypesAreAbsent(t *testing.T) {
	claims := Extract(&VerifiedAuth{
		SubjectID: "user_1",
		SessionClaims: map[string]interface{}{
			"email":           42,
			"firstName":       []string{"Ada"},
			"lastName":        nil,
			"profileImageUrl": map[string]interface{}{"url": "x"},
		},
	})

	assert.Nil(t, claims.Email)
	assert.Nil(t, claims.FirstName)
	assert.Nil(t, claims.LastName)
	assert.Nil(t, claims.ProfileImageURL)
}

func TestExtract_BlankStringsAndMissingOrg(t *testing.T) {
	claims := Extract(&VerifiedAuth{
		SubjectID:      "user_1",
		OrganizationID: strPtr(""),
		SessionClaims:  map[string]interface{}{"email": "   "},
	})

	assert.Nil(t, claims.Email)
	assert.Nil(t, claims.OrganizationID)

	noClaims := Extract(&VerifiedAuth{SubjectID: "user_2"})
	assert.Equal(t, "user_2", noClaims.ExternalID)
	assert.Nil(t, noClaims.OrganizationID)
	assert.Nil(t, noClaims.Email)
}

func TestExtract_KeepsValuesVerbatim(t *testing.T) {
	claims := Extract(&VerifiedAuth{
		SubjectID:     "user_1",
		SessionID:     strPtr(" "),
		SessionClaims: map[string]interface{}{"firstName": "Jane ", "lastName": " van Dyke"},
	})

	require.NotNil(t, claims.FirstName)
	assert.Equal(t, "Jane ", *claims.FirstName)
	require.NotNil(t, claims.LastName)
	assert.Equal(t, " van Dyke", *claims.LastName)
	assert.Nil(t, claims.SessionID)
}

func TestExtract_Nil(t *testing.T) {
	assert.Equal(t, Claims{}, Extract(nil))
}

func TestCanonicalizeClaims(t *testing.T) {
	in := map[string]interface{}{
		"given_name":  "Ada",
		"lastName":    "Explicit",
		"family_name": "Ignored",
		"picture":     "https://img.example.com/p.png",
	}
	out := CanonicalizeClaims(in)

	assert.Equal(t, "Ada", out[ClaimFirstName])
	assert.Equal(t, "Explicit", out[ClaimLastName])
	assert.Equal(t, "https://img.example.com/p.png", out[ClaimProfileImageURL])
	_, mutated := in[ClaimFirstName]
	assert.False(t, mutated)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := NewContext(context.Background(), Claims{ExternalID: "user_1"})
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "user_1", got.ExternalID)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
