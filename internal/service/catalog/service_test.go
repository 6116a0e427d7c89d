package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonService/internal/service/catalog/models"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

type fakeServiceRepo struct {
	listResult []*domain.SalonService
	updateErr  error
	created    *domain.SalonService
	lastActive bool
}

func (f *fakeServiceRepo) GetByID(_ context.Context, _ int64) (*domain.SalonService, error) {
	return nil, serviceRepo.ErrServiceNotFound
}

func (f *fakeServiceRepo) ListByBusiness(_ context.Context, _ int64, activeOnly bool) ([]*domain.SalonService, error) {
	f.lastActive = activeOnly
	return f.listResult, nil
}

func (f *fakeServiceRepo) Create(_ context.Context, svc *domain.SalonService) (*domain.SalonService, error) {
	svc.ID = 1
	f.created = svc
	return svc, nil
}

func (f *fakeServiceRepo) Update(_ context.Context, id int64, svc *domain.SalonService) (*domain.SalonService, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	svc.ID = id
	return svc, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestService_Create(t *testing.T) {
	repo := &fakeServiceRepo{}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Create(context.Background(), 10, &models.UpsertServiceRequest{
		Name:            "Стрижка",
		DurationMinutes: 45,
		Price:           ptr.Ptr(1500.0),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, int64(10), resp.BusinessID)
	// Услуга активна по умолчанию
	assert.True(t, resp.Active)
}

func TestService_Create_InvalidDuration(t *testing.T) {
	svc := NewService(&fakeServiceRepo{}, nopLogger{})

	for _, duration := range []int{0, domain.MinDurationMinutes - 1, domain.MaxDurationMinutes + 1} {
		_, err := svc.Create(context.Background(), 10, &models.UpsertServiceRequest{
			Name:            "Стрижка",
			DurationMinutes: duration,
		})
		assert.ErrorIs(t, err, ErrInvalidInput, "duration=%d", duration)
	}
}

func TestService_Create_InvalidName(t *testing.T) {
	svc := NewService(&fakeServiceRepo{}, nopLogger{})

	for _, name := range []string{"", strings.Repeat("x", domain.MaxServiceNameLength+1)} {
		_, err := svc.Create(context.Background(), 10, &models.UpsertServiceRequest{
			Name:            name,
			DurationMinutes: 30,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestService_Create_NegativePrice(t *testing.T) {
	svc := NewService(&fakeServiceRepo{}, nopLogger{})

	_, err := svc.Create(context.Background(), 10, &models.UpsertServiceRequest{
		Name:            "Стрижка",
		DurationMinutes: 30,
		Price:           ptr.Ptr(-1.0),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Update_NotFound(t *testing.T) {
	repo := &fakeServiceRepo{updateErr: serviceRepo.ErrServiceNotFound}
	svc := NewService(repo, nopLogger{})

	_, err := svc.Update(context.Background(), 10, 99, &models.UpsertServiceRequest{
		Name:            "Маникюр",
		DurationMinutes: 60,
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestService_Update_DisableService(t *testing.T) {
	repo := &fakeServiceRepo{}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Update(context.Background(), 10, 5, &models.UpsertServiceRequest{
		Name:            "Маникюр",
		DurationMinutes: 60,
		Active:          ptr.Ptr(false),
	})
	require.NoError(t, err)
	assert.False(t, resp.Active)
}

func TestService_List_PassesActiveOnly(t *testing.T) {
	repo := &fakeServiceRepo{}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.List(context.Background(), 10, true)
	require.NoError(t, err)
	assert.True(t, repo.lastActive)
	assert.Zero(t, resp.Total)
}
