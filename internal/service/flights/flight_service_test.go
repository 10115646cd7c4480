package flights

import (
	"context"
	"testing"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByNumber(ctx context.Context, number string) (*domain.Flight, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFlightCache struct {
	mock.Mock
}

func (m *MockFlightCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	args := m.Called(ctx, flights)
	return args.Error(0)
}

func (m *MockFlightCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestFlightService_List_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockFlightCache{}

	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	cached := []domain.Flight{{ID: 1, Number: "FD100"}}
	mockCache.On("GetFlights", ctx).Return(cached, nil).Once()

	flights, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, cached, flights)
	mockRepo.AssertNotCalled(t, "List", mock.Anything)
}

func TestFlightService_List_CacheMissPopulatesCache(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockFlightCache{}

	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	stored := []domain.Flight{{ID: 1, Number: "FD100"}, {ID: 2, Number: "FD200"}}
	mockCache.On("GetFlights", ctx).Return(nil, nil).Once()
	mockRepo.On("List", ctx).Return(stored, nil).Once()
	mockCache.On("SetFlights", ctx, stored).Return(nil).Once()

	flights, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Len(t, flights, 2)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_AddFlight(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockFlightCache{}

	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	flight := &domain.Flight{Number: "FD100", Origin: "LED", Destination: "SVO", Capacity: 120, PriceCents: 15000}
	mockRepo.On("Create", ctx, flight).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	err := service.AddFlight(ctx, flight)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_AddFlight_Validation(t *testing.T) {
	mockRepo := &MockFlightRepository{}

	service := NewFlightService(mockRepo, nil)

	ctx := context.Background()

	testCases := []struct {
		name   string
		flight *domain.Flight
	}{
		{name: "empty number", flight: &domain.Flight{Capacity: 100}},
		{name: "zero capacity", flight: &domain.Flight{Number: "FD100"}},
		{name: "negative capacity", flight: &domain.Flight{Number: "FD100", Capacity: -10}},
		{name: "negative price", flight: &domain.Flight{Number: "FD100", Capacity: 100, PriceCents: -1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.AddFlight(ctx, tc.flight)
			assert.ErrorIs(t, err, domain.ErrInvalidFlight)
		})
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFlightService_AddFlight_DuplicateNumber(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockFlightCache{}

	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	flight := &domain.Flight{Number: "FD100", Capacity: 120}
	mockRepo.On("Create", ctx, flight).Return(domain.ErrDuplicateFlightNumber).Once()

	err := service.AddFlight(ctx, flight)

	assert.ErrorIs(t, err, domain.ErrDuplicateFlightNumber)
	mockCache.AssertNotCalled(t, "InvalidateFlights", mock.Anything)
}

func TestFlightService_UpdateFlight(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockFlightCache{}

	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	flight := &domain.Flight{ID: 1, Number: "FD100", Capacity: 150, PriceCents: 18000}
	mockRepo.On("Update", ctx, flight).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	err := service.UpdateFlight(ctx, flight)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_DeleteFlight_WithBookings(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockFlightCache{}

	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	mockRepo.On("Delete", ctx, int64(1)).Return(domain.ErrFlightHasBookings).Once()

	err := service.DeleteFlight(ctx, 1)

	assert.ErrorIs(t, err, domain.ErrFlightHasBookings)
	mockCache.AssertNotCalled(t, "InvalidateFlights", mock.Anything)
}

func TestFlightService_DeleteFlight(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockFlightCache{}

	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	mockRepo.On("Delete", ctx, int64(1)).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	err := service.DeleteFlight(ctx, 1)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_GetByNumber(t *testing.T) {
	mockRepo := &MockFlightRepository{}

	service := NewFlightService(mockRepo, nil)

	ctx := context.Background()
	flight := &domain.Flight{ID: 1, Number: "FD100", Capacity: 100}
	mockRepo.On("GetByNumber", ctx, "FD100").Return(flight, nil).Once()

	found, err := service.GetByNumber(ctx, "FD100")

	assert.NoError(t, err)
	assert.Equal(t, int64(1), found.ID)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_GetByID_NotFound(t *testing.T) {
	mockRepo := &MockFlightRepository{}

	service := NewFlightService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrFlightNotFound).Once()

	flight, err := service.GetByID(ctx, 99)

	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	assert.Nil(t, flight)
}
