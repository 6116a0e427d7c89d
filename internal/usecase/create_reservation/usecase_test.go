package create_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/availability"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/calendar"
	serviceRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

type fakeReservationRepo struct {
	existing []*domain.Reservation
	created  *domain.Reservation
	nextID   int64
}

func (f *fakeReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	f.nextID++
	res.ID = f.nextID
	f.created = res
	return res, nil
}

func (f *fakeReservationRepo) GetByBusinessWithFilter(_ context.Context, _ domain.BusinessReservationsFilter) ([]*domain.Reservation, error) {
	return f.existing, nil
}

type fakeCalendarRepo struct {
	cal *domain.BusinessCalendar
}

func (f *fakeCalendarRepo) GetByBusiness(_ context.Context, _ int64) (*domain.BusinessCalendar, error) {
	if f.cal == nil {
		return nil, calendarRepo.ErrCalendarNotFound
	}
	return f.cal, nil
}

type fakeServiceRepo struct {
	svc *domain.SalonService
}

func (f *fakeServiceRepo) GetByID(_ context.Context, _ int64) (*domain.SalonService, error) {
	if f.svc == nil {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return f.svc, nil
}

// fakeTxManager исполняет fn без настоящей транзакции
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeNotifier struct {
	notified []int64
}

func (f *fakeNotifier) Notify(_ context.Context, businessID int64) {
	f.notified = append(f.notified, businessID)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func mustTime(t *testing.T, s string) types.TimeString {
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

// Понедельник 2025-06-02, рабочие часы 09:00-17:00 UTC, шаг 15 минут
func testCalendar(t *testing.T) *domain.BusinessCalendar {
	return &domain.BusinessCalendar{
		ID:                  1,
		BusinessID:          10,
		Timezone:            "UTC",
		SlotIntervalMinutes: 15,
		WeeklySchedule: domain.WeeklySchedule{
			Monday: []domain.TimeRange{
				{Start: mustTime(t, "09:00"), End: mustTime(t, "17:00")},
			},
		},
	}
}

type fixture struct {
	uc       *UseCase
	resRepo  *fakeReservationRepo
	txm      *fakeTxManager
	notifier *fakeNotifier
}

func newFixture(t *testing.T, existing []*domain.Reservation, svc *domain.SalonService, now time.Time) fixture {
	resRepo := &fakeReservationRepo{existing: existing}
	txm := &fakeTxManager{}
	notifier := &fakeNotifier{}

	uc := NewUseCase(
		resRepo,
		&fakeCalendarRepo{cal: testCalendar(t)},
		&fakeServiceRepo{svc: svc},
		availability.NewEngine("UTC", nopLogger{}),
		txm,
		notifier,
		domain.DefaultHoldTTLMinutes,
		nopLogger{},
	)
	uc.timeProvider = fixedClock{now: now}

	return fixture{uc: uc, resRepo: resRepo, txm: txm, notifier: notifier}
}

func TestUseCase_CreateBooked(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := date.Add(-24 * time.Hour)
	fx := newFixture(t, nil, nil, now)

	resp, err := fx.uc.Execute(context.Background(), &Request{
		UserID:          42,
		BusinessID:      10,
		DurationMinutes: ptr.Ptr(30),
		Date:            date,
		StartTime:       mustTime(t, "10:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusBooked), resp.Status)
	assert.Nil(t, resp.ExpiresAt)
	assert.Equal(t, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), resp.StartAt)
	assert.Equal(t, time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC), resp.EndAt)

	// Проверка и вставка выполняются внутри транзакции
	assert.Equal(t, 1, fx.txm.calls)
	assert.Equal(t, []int64{10}, fx.notifier.notified)
}

func TestUseCase_CreateHold(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := date.Add(-24 * time.Hour)
	fx := newFixture(t, nil, nil, now)

	resp, err := fx.uc.Execute(context.Background(), &Request{
		UserID:          42,
		BusinessID:      10,
		DurationMinutes: ptr.Ptr(30),
		Date:            date,
		StartTime:       mustTime(t, "10:00"),
		Hold:            true,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusHeld), resp.Status)
	require.NotNil(t, resp.ExpiresAt)
	assert.Equal(t, now.Add(domain.DefaultHoldTTLMinutes*time.Minute), *resp.ExpiresAt)
}

func TestUseCase_SlotTaken(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := date.Add(-24 * time.Hour)
	existing := []*domain.Reservation{{
		ID:              1,
		BusinessID:      10,
		StartAt:         time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: ptr.Ptr(30),
		Status:          domain.StatusBooked,
	}}
	fx := newFixture(t, existing, nil, now)

	_, err := fx.uc.Execute(context.Background(), &Request{
		UserID:          42,
		BusinessID:      10,
		DurationMinutes: ptr.Ptr(30),
		Date:            date,
		StartTime:       mustTime(t, "10:15"), // пересекается с занятым [10:00,10:30)
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, fx.resRepo.created)
	assert.Empty(t, fx.notifier.notified)
}

func TestUseCase_ExpiredHoldDoesNotBlock(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := date.Add(-time.Hour)
	expiredAt := now.Add(-time.Minute)
	existing := []*domain.Reservation{{
		ID:              1,
		BusinessID:      10,
		StartAt:         time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: ptr.Ptr(30),
		Status:          domain.StatusHeld,
		ExpiresAt:       &expiredAt,
	}}
	fx := newFixture(t, existing, nil, now)

	_, err := fx.uc.Execute(context.Background(), &Request{
		UserID:          42,
		BusinessID:      10,
		DurationMinutes: ptr.Ptr(30),
		Date:            date,
		StartTime:       mustTime(t, "10:00"),
	})
	assert.NoError(t, err)
}

func TestUseCase_OutsideWorkingHours(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := date.Add(-24 * time.Hour)
	fx := newFixture(t, nil, nil, now)

	_, err := fx.uc.Execute(context.Background(), &Request{
		UserID:          42,
		BusinessID:      10,
		DurationMinutes: ptr.Ptr(30),
		Date:            date,
		StartTime:       mustTime(t, "08:00"),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestUseCase_OffGridStart(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := date.Add(-24 * time.Hour)
	fx := newFixture(t, nil, nil, now)

	// 10:07 не лежит на сетке с шагом 15 минут
	_, err := fx.uc.Execute(context.Background(), &Request{
		UserID:          42,
		BusinessID:      10,
		DurationMinutes: ptr.Ptr(30),
		Date:            date,
		StartTime:       mustTime(t, "10:07"),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestUseCase_ServiceDenormalized(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := date.Add(-24 * time.Hour)
	svc := &domain.SalonService{ID: 5, BusinessID: 10, Name: "Стрижка", DurationMinutes: 45, Active: true}
	fx := newFixture(t, nil, svc, now)

	resp, err := fx.uc.Execute(context.Background(), &Request{
		UserID:     42,
		BusinessID: 10,
		ServiceID:  ptr.Ptr(int64(5)),
		Date:       date,
		StartTime:  mustTime(t, "09:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, 45, resp.DurationMinutes)
	require.NotNil(t, resp.ServiceName)
	assert.Equal(t, "Стрижка", *resp.ServiceName)
}

func TestUseCase_InactiveService(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := date.Add(-24 * time.Hour)
	svc := &domain.SalonService{ID: 5, BusinessID: 10, Name: "Стрижка", DurationMinutes: 45, Active: false}
	fx := newFixture(t, nil, svc, now)

	_, err := fx.uc.Execute(context.Background(), &Request{
		UserID:     42,
		BusinessID: 10,
		ServiceID:  ptr.Ptr(int64(5)),
		Date:       date,
		StartTime:  mustTime(t, "09:00"),
	})
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestUseCase_Validation(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	fx := newFixture(t, nil, nil, now)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	start := mustTime(t, "10:00")

	longNotes := make([]byte, domain.MaxNotesLength+1)
	for i := range longNotes {
		longNotes[i] = 'x'
	}

	cases := []struct {
		name string
		req  *Request
	}{
		{"no user", &Request{BusinessID: 10, DurationMinutes: ptr.Ptr(30), Date: date, StartTime: start}},
		{"no business", &Request{UserID: 42, DurationMinutes: ptr.Ptr(30), Date: date, StartTime: start}},
		{"zero date", &Request{UserID: 42, BusinessID: 10, DurationMinutes: ptr.Ptr(30), StartTime: start}},
		{"no start time", &Request{UserID: 42, BusinessID: 10, DurationMinutes: ptr.Ptr(30), Date: date}},
		{"no duration source", &Request{UserID: 42, BusinessID: 10, Date: date, StartTime: start}},
		{"notes too long", &Request{UserID: 42, BusinessID: 10, DurationMinutes: ptr.Ptr(30), Date: date, StartTime: start, Notes: ptr.Ptr(string(longNotes))}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.uc.Execute(context.Background(), tc.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
