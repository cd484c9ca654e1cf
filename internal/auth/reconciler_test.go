package auth

import (
	"context"
	"errors"
	"testing"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/identity"
	"portfolio_backend/internal/platform/metrics"
	"portfolio_backend/internal/user"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByExternalID(ctx context.Context, externalID string) (*user.User, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, id uuid.UUID, changes user.UserChanges) (*user.User, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]user.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]user.User), args.Get(1).(int64), args.Error(2)
}

func strPtr(s string) *string { return &s }

func storedUser(externalID string) *user.User {
	u := &user.User{
		ExternalID: externalID,
		Email:      "ada@example.com",
		FirstName:  strPtr("Ada"),
		LastName:   strPtr("Lovelace"),
	}
	u.ID = uuid.New()
	return u
}

func TestReconcile_CreatesOnFirstContact(t *testing.T) {
	repo := new(MockUserRepository)
	m := metrics.New()
	r := NewReconciler(repo, m, zap.NewNop())

	repo.On("FindByExternalID", mock.Anything, "user_1").Return(nil, common.ErrNotFound).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
		return u.ExternalID == "user_1" && u.Email == "ada@example.com" &&
			u.FirstName != nil && *u.FirstName == "Ada" && u.LastName == nil
	})).Return(nil).Once()

	u, outcome, err := r.Reconcile(context.Background(), identity.Claims{
		ExternalID: "user_1",
		Email:      strPtr("ada@example.com"),
		FirstName:  strPtr("Ada"),
	}, Fallback{})

	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)
	assert.Equal(t, "user_1", u.ExternalID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncTotal.WithLabelValues(metrics.OutcomeCreated)))
	repo.AssertExpectations(t)
}

func TestReconcile_ClaimsWinOverHeaderFallback(t *testing.T) {
	repo := new(MockUserRepository)
	r := NewReconciler(repo, metrics.New(), zap.NewNop())

	repo.On("FindByExternalID", mock.Anything, "user_1").Return(nil, common.ErrNotFound).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
		return *u.FirstName == "ClaimFirst" && *u.LastName == "HeaderLast"
	})).Return(nil).Once()

	_, _, err := r.Reconcile(context.Background(), identity.Claims{
		ExternalID: "user_1",
		Email:      strPtr("a@example.com"),
		FirstName:  strPtr("ClaimFirst"),
	}, Fallback{FirstName: strPtr("HeaderFirst"), LastName: strPtr("HeaderLast")})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestReconcile_MissingEmailUsesPlaceholderAndWarns(t *testing.T) {
	repo := new(MockUserRepository)
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewReconciler(repo, metrics.New(), zap.New(core))

	repo.On("FindByExternalID", mock.Anything, "user_1").Return(nil, common.ErrNotFound).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
		return u.Email == MissingEmailPlaceholder
	})).Return(nil).Once()

	ctx := common.WithRequestID(context.Background(), "req-42")
	u, _, err := r.Reconcile(ctx, identity.Claims{ExternalID: "user_1"}, Fallback{})

	require.NoError(t, err)
	assert.Equal(t, MissingEmailPlaceholder, u.Email)

	warnings := logs.FilterMessageSnippet("no email").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "req-42", warnings[0].ContextMap()["request_id"])
	assert.Equal(t, "user_1", warnings[0].ContextMap()["external_id"])
}

func TestReconcile_NoDiffMeansNoWrite(t *testing.T) {
	repo := new(MockUserRepository)
	m := metrics.New()
	r := NewReconciler(repo, m, zap.NewNop())
	existing := storedUser("user_1")

	repo.On("FindByExternalID", mock.Anything, "user_1").Return(existing, nil).Once()

	u, outcome, err := r.Reconcile(context.Background(), identity.Claims{
		ExternalID: "user_1",
		Email:      strPtr("ada@example.com"),
		FirstName:  strPtr("Ada"),
	}, Fallback{})

	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)
	assert.Same(t, existing, u)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncTotal.WithLabelValues(metrics.OutcomeUnchanged)))
}

func TestReconcile_AbsentFieldsNeverEraseStoredData(t *testing.T) {
	repo := new(MockUserRepository)
	r := NewReconciler(repo, metrics.New(), zap.NewNop())
	existing := storedUser("user_1")

	repo.On("FindByExternalID", mock.Anything, "user_1").Return(existing, nil).Once()

	_, outcome, err := r.Reconcile(context.Background(), identity.Claims{ExternalID: "user_1"}, Fallback{})

	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)
	assert.Equal(t, "ada@example.com", existing.Email)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_UpdatesOnlyChangedFields(t *testing.T) {
	repo := new(MockUserRepository)
	r := NewReconciler(repo, metrics.New(), zap.NewNop())
	existing := storedUser("user_1")

	expected := user.UserChanges{
		LastName:        strPtr("Byron"),
		ProfileImageURL: strPtr("https://img.example.com/a.png"),
	}
	refreshed := storedUser("user_1")
	refreshed.LastName = expected.LastName
	refreshed.ProfileImageURL = expected.ProfileImageURL

	repo.On("FindByExternalID", mock.Anything, "user_1").Return(existing, nil).Once()
	repo.On("Update", mock.Anything, existing.ID, expected).Return(refreshed, nil).Once()

	u, outcome, err := r.Reconcile(context.Background(), identity.Claims{
		ExternalID:      "user_1",
		Email:           strPtr("ada@example.com"),
		FirstName:       strPtr("Ada"),
		LastName:        strPtr("Byron"),
		ProfileImageURL: strPtr("https://img.example.com/a.png"),
	}, Fallback{})

	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, "Byron", *u.LastName)
	repo.AssertExpectations(t)
}

func TestReconcile_CreateRaceRetriesOnceAsUpdate(t *testing.T) {
	repo := new(MockUserRepository)
	m := metrics.New()
	r := NewReconciler(repo, m, zap.NewNop())
	winner := storedUser("user_1")
	winner.FirstName = nil

	repo.On("FindByExternalID", mock.Anything, "user_1").Return(nil, common.ErrNotFound).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(common.ErrConflict.WithDetails("dup")).Once()
	repo.On("FindByExternalID", mock.Anything, "user_1").Return(winner, nil).Once()
	repo.On("Update", mock.Anything, winner.ID, user.UserChanges{FirstName: strPtr("Ada")}).Return(storedUser("user_1"), nil).Once()

	_, outcome, err := r.Reconcile(context.Background(), identity.Claims{
		ExternalID: "user_1",
		Email:      strPtr("ada@example.com"),
		FirstName:  strPtr("Ada"),
	}, Fallback{})

	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncRaceRetries))
	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestReconcile_RaceRetryFindsNothingIsConflict(t *testing.T) {
	repo := new(MockUserRepository)
	r := NewReconciler(repo, metrics.New(), zap.NewNop())

	repo.On("FindByExternalID", mock.Anything, "user_1").Return(nil, common.ErrNotFound).Twice()
	repo.On("Create", mock.Anything, mock.Anything).Return(common.ErrConflict).Once()

	_, _, err := r.Reconcile(context.Background(), identity.Claims{ExternalID: "user_1", Email: strPtr("a@example.com")}, Fallback{})

	assert.True(t, errors.Is(err, common.ErrConflict))
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestReconcile_UpdateTargetVanishedIsConflict(t *testing.T) {
	repo := new(MockUserRepository)
	m := metrics.New()
	r := NewReconciler(repo, m, zap.NewNop())
	existing := storedUser("user_1")

	repo.On("FindByExternalID", mock.Anything, "user_1").Return(existing, nil).Once()
	repo.On("Update", mock.Anything, existing.ID, mock.Anything).Return(nil, common.ErrNotFound).Once()

	_, _, err := r.Reconcile(context.Background(), identity.Claims{ExternalID: "user_1", Email: strPtr("new@example.com")}, Fallback{})

	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 409, apiErr.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncTotal.WithLabelValues(metrics.OutcomeFailed)))
}

func TestReconcile_StoreUnavailablePropagates(t *testing.T) {
	repo := new(MockUserRepository)
	r := NewReconciler(repo, metrics.New(), zap.NewNop())

	repo.On("FindByExternalID", mock.Anything, "user_1").Return(nil, common.ErrServiceUnavailable).Once()

	_, _, err := r.Reconcile(context.Background(), identity.Claims{ExternalID: "user_1"}, Fallback{})

	assert.True(t, errors.Is(err, common.ErrServiceUnavailable))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func errUnavailableForTest() error {
	return common.TranslateStoreError(context.DeadlineExceeded, "", "")
}
