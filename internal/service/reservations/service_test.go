package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

type fakeRepo struct {
	byID map[int64]*domain.Reservation

	confirmErr    error
	confirmedID   int64
	cancelledID   int64
	cancelReason  string
	deletedCount  int64
	byUserResult  []*domain.Reservation
	filterResult  []*domain.Reservation
	lastFilter    domain.BusinessReservationsFilter
	lastStatusArg *domain.ReservationStatus
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return res, nil
}

func (f *fakeRepo) GetByUserID(_ context.Context, _ int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	f.lastStatusArg = status
	return f.byUserResult, nil
}

func (f *fakeRepo) GetByBusinessWithFilter(_ context.Context, filter domain.BusinessReservationsFilter) ([]*domain.Reservation, error) {
	f.lastFilter = filter
	return f.filterResult, nil
}

func (f *fakeRepo) ConfirmHold(_ context.Context, id int64, _ time.Time) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmedID = id
	if res, ok := f.byID[id]; ok {
		res.Status = domain.StatusBooked
		res.ExpiresAt = nil
	}
	return nil
}

func (f *fakeRepo) Cancel(_ context.Context, id int64, reason string) error {
	f.cancelledID = id
	f.cancelReason = reason
	return nil
}

func (f *fakeRepo) DeleteExpiredHeld(_ context.Context, _ time.Time) (int64, error) {
	return f.deletedCount, nil
}

type fakeNotifier struct {
	notified    []int64
	notifiedAll int
}

func (f *fakeNotifier) Notify(_ context.Context, businessID int64) {
	f.notified = append(f.notified, businessID)
}

func (f *fakeNotifier) NotifyAll(_ context.Context) {
	f.notifiedAll++
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func heldReservation(id, userID int64, expiresAt time.Time) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		BusinessID:      10,
		UserID:          userID,
		Date:            time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartAt:         time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: ptr.Ptr(30),
		Status:          domain.StatusHeld,
		ExpiresAt:       &expiresAt,
	}
}

func newService(repo *fakeRepo, notifier *fakeNotifier, now time.Time) *Service {
	return NewService(repo, notifier, fixedClock{now: now}, nopLogger{})
}

func TestService_GetByID_OwnerOnly(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: heldReservation(1, 42, now.Add(10*time.Minute)),
	}}
	svc := newService(repo, &fakeNotifier{}, now)

	resp, err := svc.GetByID(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	_, err = svc.GetByID(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 404, 42)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestService_Confirm_TransitionsHeldToBooked(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: heldReservation(1, 42, now.Add(10*time.Minute)),
	}}
	notifier := &fakeNotifier{}
	svc := newService(repo, notifier, now)

	resp, err := svc.Confirm(context.Background(), 1, 42)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusBooked), resp.Status)
	assert.Nil(t, resp.ExpiresAt)
	assert.Equal(t, int64(1), repo.confirmedID)
	// Подписчики бизнеса получают уведомление
	assert.Equal(t, []int64{10}, notifier.notified)
}

func TestService_Confirm_ExpiredHold(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		byID: map[int64]*domain.Reservation{
			1: heldReservation(1, 42, now.Add(-time.Minute)),
		},
		confirmErr: reservationRepo.ErrHoldNotActive,
	}
	notifier := &fakeNotifier{}
	svc := newService(repo, notifier, now)

	_, err := svc.Confirm(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrHoldExpired)
	assert.Empty(t, notifier.notified)
}

func TestService_Confirm_AccessDenied(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: heldReservation(1, 42, now.Add(10*time.Minute)),
	}}
	svc := newService(repo, &fakeNotifier{}, now)

	_, err := svc.Confirm(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Cancel(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: heldReservation(1, 42, now.Add(10*time.Minute)),
	}}
	notifier := &fakeNotifier{}
	svc := newService(repo, notifier, now)

	err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
		UserID:             42,
		CancellationReason: "передумал",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), repo.cancelledID)
	assert.Equal(t, "передумал", repo.cancelReason)
	assert.Equal(t, []int64{10}, notifier.notified)
}

func TestService_Cancel_AlreadyCancelled(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	cancelled := heldReservation(1, 42, now.Add(10*time.Minute))
	cancelled.Status = domain.StatusCancelled
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{1: cancelled}}
	svc := newService(repo, &fakeNotifier{}, now)

	err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: 42})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestService_Cancel_ForeignReservation(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: heldReservation(1, 42, now.Add(10*time.Minute)),
	}}
	svc := newService(repo, &fakeNotifier{}, now)

	err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: 99})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_GetUserReservations_InvalidStatus(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	svc := newService(&fakeRepo{}, &fakeNotifier{}, now)

	_, err := svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID: 42,
		Status: ptr.Ptr("pending"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetBusinessReservations_FilterMapping(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{}
	svc := newService(repo, &fakeNotifier{}, now)

	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	_, err := svc.GetBusinessReservations(context.Background(), &models.GetBusinessReservationsRequest{
		BusinessID: 10,
		StartDate:  &start,
		EndDate:    &end,
		Status:     ptr.Ptr("booked"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), repo.lastFilter.BusinessID)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StatusBooked, *repo.lastFilter.Status)
	assert.False(t, repo.lastFilter.IncludeCancelled)
}

func TestService_GetBusinessReservations_InvertedPeriod(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	svc := newService(&fakeRepo{}, &fakeNotifier{}, now)

	start := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.GetBusinessReservations(context.Background(), &models.GetBusinessReservationsRequest{
		BusinessID: 10,
		StartDate:  &start,
		EndDate:    &end,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_CleanupExpired(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{deletedCount: 3}
	notifier := &fakeNotifier{}
	svc := newService(repo, notifier, now)

	deleted, err := svc.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.Equal(t, 1, notifier.notifiedAll)
}

func TestService_CleanupExpired_NothingToDelete(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	notifier := &fakeNotifier{}
	svc := newService(&fakeRepo{}, notifier, now)

	deleted, err := svc.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
	// Без изменений подписчиков не будим
	assert.Zero(t, notifier.notifiedAll)
}
