package auth

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"portfolio_backend/internal/config"
	"portfolio_backend/internal/identity"
	"portfolio_backend/internal/platform/metrics"
	"portfolio_backend/internal/user"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteUserRepo(t *testing.T) (user.Repository, *gorm.DB) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "auth.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&user.User{}))
	return user.NewGORMRepository(db, &config.Config{}), db
}

// lookupBarrier holds the first n lookups until all n have happened, so every
// caller observes "not found" before anyone inserts.
type lookupBarrier struct {
	user.Repository
	n       int32
	calls   atomic.Int32
	arrived sync.WaitGroup
}

func newLookupBarrier(repo user.Repository, n int) *lookupBarrier {
	b := &lookupBarrier{Repository: repo, n: int32(n)}
	b.arrived.Add(n)
	return b
}

func (b *lookupBarrier) FindByExternalID(ctx context.Context, externalID string) (*user.User, error) {
	u, err := b.Repository.FindByExternalID(ctx, externalID)
	if b.calls.Add(1) <= b.n {
		b.arrived.Done()
		b.arrived.Wait()
	}
	return u, err
}

func TestReconcile_ConcurrentFirstContactCreatesOneRecord(t *testing.T) {
	repo, db := newSQLiteUserRepo(t)
	const callers = 2
	barrier := newLookupBarrier(repo, callers)
	m := metrics.New()
	r := NewReconciler(barrier, m, zap.NewNop())

	claims := identity.Claims{
		ExternalID: "user_race",
		Email:      strPtr("race@example.com"),
		FirstName:  strPtr("Ada"),
	}

	var wg sync.WaitGroup
	results := make([]*user.User, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, errs[i] = r.Reconcile(context.Background(), claims, Fallback{})
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
	}
	assert.Equal(t, results[0].ID, results[1].ID)

	var count int64
	require.NoError(t, db.Model(&user.User{}).Where("external_id = ?", "user_race").Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncRaceRetries))
}

func TestReconcile_SecondSyncIsNoop(t *testing.T) {
	repo, _ := newSQLiteUserRepo(t)
	r := NewReconciler(repo, metrics.New(), zap.NewNop())
	claims := identity.Claims{ExternalID: "user_1", Email: strPtr("a@example.com"), LastName: strPtr("Lovelace")}

	first, outcome, err := r.Reconcile(context.Background(), claims, Fallback{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)

	second, outcome, err := r.Reconcile(context.Background(), claims, Fallback{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt))

	third, outcome, err := r.Reconcile(context.Background(), identity.Claims{ExternalID: "user_1", Email: strPtr("b@example.com")}, Fallback{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, "b@example.com", third.Email)
	require.NotNil(t, third.LastName)
	assert.Equal(t, "Lovelace", *third.LastName)
}
