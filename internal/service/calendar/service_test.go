package calendar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-SalonService/internal/service/calendar/models"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

type fakeCalendarRepo struct {
	stored *domain.BusinessCalendar
	saved  *domain.BusinessCalendar
}

func (f *fakeCalendarRepo) GetByBusiness(_ context.Context, _ int64) (*domain.BusinessCalendar, error) {
	if f.stored == nil {
		return nil, calendarRepo.ErrCalendarNotFound
	}
	return f.stored, nil
}

func (f *fakeCalendarRepo) Save(_ context.Context, cal *domain.BusinessCalendar) (*domain.BusinessCalendar, error) {
	f.saved = cal
	cal.ID = 1
	return cal, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	notified []int64
}

func (f *fakeNotifier) Notify(_ context.Context, businessID int64) {
	f.notified = append(f.notified, businessID)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func mustTime(t *testing.T, s string) types.TimeString {
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func validRequest(t *testing.T) *models.UpdateCalendarRequest {
	return &models.UpdateCalendarRequest{
		Timezone:            "Europe/Moscow",
		SlotIntervalMinutes: 15,
		WeeklySchedule: domain.WeeklySchedule{
			Monday: []domain.TimeRange{
				{Start: mustTime(t, "09:00"), End: mustTime(t, "13:00")},
				{Start: mustTime(t, "14:00"), End: mustTime(t, "18:00")},
			},
		},
	}
}

func TestService_Get_NotFound(t *testing.T) {
	svc := NewService(&fakeCalendarRepo{}, fakeTxManager{}, &fakeNotifier{}, nopLogger{})

	_, err := svc.Get(context.Background(), 10)
	assert.ErrorIs(t, err, ErrCalendarNotFound)
}

func TestService_Update_Valid(t *testing.T) {
	repo := &fakeCalendarRepo{}
	notifier := &fakeNotifier{}
	svc := NewService(repo, fakeTxManager{}, notifier, nopLogger{})

	resp, err := svc.Update(context.Background(), 10, validRequest(t))
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.BusinessID)
	assert.Equal(t, "Europe/Moscow", resp.Timezone)
	require.NotNil(t, repo.saved)
	// Смена календаря будит подписчиков доступности
	assert.Equal(t, []int64{10}, notifier.notified)
}

func TestService_Update_UnknownTimezone(t *testing.T) {
	svc := NewService(&fakeCalendarRepo{}, fakeTxManager{}, &fakeNotifier{}, nopLogger{})

	req := validRequest(t)
	req.Timezone = "Mars/Olympus_Mons"

	_, err := svc.Update(context.Background(), 10, req)
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestService_Update_OverlappingRanges(t *testing.T) {
	svc := NewService(&fakeCalendarRepo{}, fakeTxManager{}, &fakeNotifier{}, nopLogger{})

	req := validRequest(t)
	req.WeeklySchedule.Monday = []domain.TimeRange{
		{Start: mustTime(t, "09:00"), End: mustTime(t, "13:00")},
		{Start: mustTime(t, "12:00"), End: mustTime(t, "18:00")},
	}

	_, err := svc.Update(context.Background(), 10, req)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestService_Update_TouchingRangesAllowed(t *testing.T) {
	svc := NewService(&fakeCalendarRepo{}, fakeTxManager{}, &fakeNotifier{}, nopLogger{})

	req := validRequest(t)
	// Полуоткрытые интервалы: [09:00,13:00) и [13:00,18:00) не пересекаются
	req.WeeklySchedule.Monday = []domain.TimeRange{
		{Start: mustTime(t, "09:00"), End: mustTime(t, "13:00")},
		{Start: mustTime(t, "13:00"), End: mustTime(t, "18:00")},
	}

	_, err := svc.Update(context.Background(), 10, req)
	assert.NoError(t, err)
}

func TestService_Update_InvertedRange(t *testing.T) {
	svc := NewService(&fakeCalendarRepo{}, fakeTxManager{}, &fakeNotifier{}, nopLogger{})

	req := validRequest(t)
	req.WeeklySchedule.Monday = []domain.TimeRange{
		{Start: mustTime(t, "18:00"), End: mustTime(t, "09:00")},
	}

	_, err := svc.Update(context.Background(), 10, req)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestService_Update_ClampsSlotInterval(t *testing.T) {
	repo := &fakeCalendarRepo{}
	svc := NewService(repo, fakeTxManager{}, &fakeNotifier{}, nopLogger{})

	req := validRequest(t)
	req.SlotIntervalMinutes = 1

	resp, err := svc.Update(context.Background(), 10, req)
	require.NoError(t, err)
	assert.Equal(t, domain.MinSlotIntervalMinutes, resp.SlotIntervalMinutes)
}

func TestService_Update_InvalidClosureDate(t *testing.T) {
	svc := NewService(&fakeCalendarRepo{}, fakeTxManager{}, &fakeNotifier{}, nopLogger{})

	req := validRequest(t)
	req.Closures = []models.ClosurePayload{{Date: "02.06.2025"}}

	_, err := svc.Update(context.Background(), 10, req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Update_InvalidSpecialHours(t *testing.T) {
	svc := NewService(&fakeCalendarRepo{}, fakeTxManager{}, &fakeNotifier{}, nopLogger{})

	req := validRequest(t)
	req.SpecialHours = []models.SpecialHoursPayload{{
		Date: "2025-06-02",
		Ranges: []domain.TimeRange{
			{Start: mustTime(t, "12:00"), End: mustTime(t, "10:00")},
		},
	}}

	_, err := svc.Update(context.Background(), 10, req)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}
