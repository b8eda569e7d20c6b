package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkozyrev/food-ordering/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateDish(ctx context.Context, dish models.Dish) (int64, error) {
	args := m.Called(ctx, dish)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) ListDishes(ctx context.Context) ([]*models.Dish, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Dish), args.Error(1)
}
func (m *RepoMock) ReadDish(ctx context.Context, id int64) (*models.Dish, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dish), args.Error(1)
}
func (m *RepoMock) UpdateDish(ctx context.Context, id int64, dish models.Dish) (int, error) {
	args := m.Called(ctx, id, dish)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) SetDishAvailability(ctx context.Context, id int64, available bool) (int, error) {
	args := m.Called(ctx, id, available)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemoveDish(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CreateCategory(ctx context.Context, category models.Category) (int64, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}
func (m *RepoMock) UpdateCategory(ctx context.Context, id int64, category models.Category) (int, error) {
	args := m.Called(ctx, id, category)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemoveCategory(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReorderCategories(ctx context.Context, ids []int64) error {
	return m.Called(ctx, ids).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestCatalogService_CreateDish(t *testing.T) {
	repo := &RepoMock{}
	cache := &CacheMock{}
	svc := NewCatalogService(repo, cache, newNoopLogger())

	req := models.DummyDish{Name: "Борщ", Price: 350, Category: "Супы", Available: true}
	repo.On("CreateDish", mock.Anything, mock.MatchedBy(func(d models.Dish) bool {
		return d.Name == "Борщ" && d.Price == 350 && d.Available
	})).Return(int64(5), nil).Once()
	cache.On("Invalidate", "catalog:dishes").Return(nil).Once()

	id, err := svc.CreateDish(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_ListDishes_CacheHit(t *testing.T) {
	repo := &RepoMock{}
	cache := &CacheMock{}
	svc := NewCatalogService(repo, cache, newNoopLogger())

	cache.On("Get", "catalog:dishes", mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(1).(*[]*models.Dish)
			*out = []*models.Dish{{ID: 1, Name: "Борщ"}}
		}).Return(true, nil).Once()

	dishes, err := svc.ListDishes(context.Background())
	require.NoError(t, err)
	require.Len(t, dishes, 1)
	assert.Equal(t, "Борщ", dishes[0].Name)

	repo.AssertNotCalled(t, "ListDishes", mock.Anything)
}

func TestCatalogService_ListDishes_CacheMiss(t *testing.T) {
	repo := &RepoMock{}
	cache := &CacheMock{}
	svc := NewCatalogService(repo, cache, newNoopLogger())

	stored := []*models.Dish{{ID: 1, Name: "Борщ"}, {ID: 2, Name: "Морс"}}
	cache.On("Get", "catalog:dishes", mock.Anything).Return(false, nil).Once()
	repo.On("ListDishes", mock.Anything).Return(stored, nil).Once()
	cache.On("Set", "catalog:dishes", stored, time.Hour).Return(nil).Once()

	dishes, err := svc.ListDishes(context.Background())
	require.NoError(t, err)
	assert.Len(t, dishes, 2)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_ToggleDishAvailability(t *testing.T) {
	repo := &RepoMock{}
	cache := &CacheMock{}
	svc := NewCatalogService(repo, cache, newNoopLogger())

	repo.On("ReadDish", mock.Anything, int64(3)).
		Return(&models.Dish{ID: 3, Available: true}, nil).Once()
	repo.On("SetDishAvailability", mock.Anything, int64(3), false).Return(1, nil).Once()
	cache.On("Invalidate", "catalog:dishes").Return(nil).Once()

	available, err := svc.ToggleDishAvailability(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, available)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "RemoveDish", mock.Anything, mock.Anything)
}

func TestCatalogService_UpdateDish_NotFound(t *testing.T) {
	repo := &RepoMock{}
	cache := &CacheMock{}
	svc := NewCatalogService(repo, cache, newNoopLogger())

	repo.On("UpdateDish", mock.Anything, int64(99), mock.Anything).Return(0, nil).Once()

	err := svc.UpdateDish(context.Background(), 99, models.DummyDish{Name: "x", Price: 1, Category: "y"})
	assert.Error(t, err)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestCatalogService_ReorderCategories(t *testing.T) {
	repo := &RepoMock{}
	cache := &CacheMock{}
	svc := NewCatalogService(repo, cache, newNoopLogger())

	repo.On("ReorderCategories", mock.Anything, []int64{3, 1, 2}).Return(nil).Once()
	cache.On("Invalidate", "catalog:categories").Return(nil).Once()

	require.NoError(t, svc.ReorderCategories(context.Background(), []int64{3, 1, 2}))

	err := svc.ReorderCategories(context.Background(), nil)
	assert.Error(t, err, "empty sequence must be rejected")

	repo.AssertExpectations(t)
}
