package education

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"portfolio_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_CreateParsesPartialDates(t *testing.T) {
	svc := NewService(newTestRepo(t), zap.NewNop())
	ctx := context.Background()

	e, err := svc.Create(ctx, CreateRequest{
		Degree: "BSc", Institute: "U", Result: "3.8", StartDate: "2018", EndDate: strPtr("2022-06"),
	})
	require.NoError(t, err)
	assert.True(t, e.StartDate.Equal(day(2018, 1, 1)))
	require.NotNil(t, e.EndDate)
	assert.True(t, e.EndDate.Equal(day(2022, 6, 1)))
	assert.Equal(t, 0, e.DisplayOrder)
}

func TestService_CreateRejectsBadDates(t *testing.T) {
	svc := NewService(newTestRepo(t), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Degree: "BSc", Institute: "U", Result: "A", StartDate: "September"})
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)

	_, err = svc.Create(ctx, CreateRequest{Degree: "BSc", Institute: "U", Result: "A", StartDate: "2020-01-01", EndDate: strPtr("2019-01-01")})
	apiErr, ok = common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)

	_, err = svc.Create(ctx, CreateRequest{Degree: "  ", Institute: "U", Result: "A", StartDate: "2020"})
	assert.Error(t, err)
}

func TestService_UpdateClearsEndDate(t *testing.T) {
	svc := NewService(newTestRepo(t), zap.NewNop())
	ctx := context.Background()

	e, err := svc.Create(ctx, CreateRequest{
		Degree: "MSc", Institute: "U", Result: "A", StartDate: "2022-09-01", EndDate: strPtr("2024-06-30"),
	})
	require.NoError(t, err)

	current := true
	updated, err := svc.Update(ctx, e.ID, UpdateRequest{EndDate: strPtr(""), IsCurrent: &current})
	require.NoError(t, err)
	assert.Nil(t, updated.EndDate)
	assert.True(t, updated.IsCurrent)

	_, err = svc.Update(ctx, e.ID, UpdateRequest{StartDate: strPtr("2025-01-01"), EndDate: strPtr("2024-01-01")})
	assert.Error(t, err)

	_, err = svc.Update(ctx, uuid.New(), UpdateRequest{})
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
