package interest

import (
	"context"
	"errors"
	"testing"

	"portfolio_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, i *Interest) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Interest, error) {
	args := m.Called(ctx, id)
	if i, ok := args.Get(0).(*Interest); ok {
		return i, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context) ([]Interest, error) {
	args := m.Called(ctx)
	if is, ok := args.Get(0).([]Interest); ok {
		return is, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, i *Interest) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestService_CreateDropsBlankIconPath(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	repo.On("Create", mock.Anything, mock.MatchedBy(func(i *Interest) bool {
		return i.Title == "Chess" && i.IconPath == nil && i.Position == 3
	})).Return(nil).Once()

	i, err := svc.Create(context.Background(), CreateRequest{
		Title: " Chess ", Description: "Openings", Icon: "♟️", IconPath: strPtr("  "), Position: 3,
	})
	require.NoError(t, err)
	assert.Nil(t, i.IconPath)
	repo.AssertExpectations(t)
}

func TestService_UpdateRejectsBlankIcon(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	id := uuid.New()
	stored := &Interest{Title: "Chess", Description: "d", Icon: "♟️", Position: 1}
	stored.ID = id

	repo.On("FindByID", mock.Anything, id).Return(stored, nil).Once()

	_, err := svc.Update(context.Background(), id, UpdateRequest{Icon: strPtr("   ")})
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_DeleteMissing(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	id := uuid.New()

	repo.On("Delete", mock.Anything, id).Return(common.ErrNotFound.WithDetails(msgNotFound)).Once()

	err := svc.Delete(context.Background(), id)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	repo.AssertExpectations(t)
}
