package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

func instant(h, m int) time.Time {
	return time.Date(2025, 6, 2, h, m, 0, 0, time.UTC)
}

func booked(start time.Time, durationMin int) domain.ReservedInterval {
	return domain.ReservedInterval{
		StartAt:         start,
		DurationMinutes: ptr.Ptr(durationMin),
		Status:          domain.StatusBooked,
	}
}

func TestFilter_RemovesOverlapping(t *testing.T) {
	candidates := []time.Time{instant(9, 30), instant(10, 0), instant(10, 15), instant(10, 30)}
	reserved := []domain.ReservedInterval{booked(instant(10, 0), 30)}

	got, malformed := Filter(candidates, 30, reserved, instant(8, 0))

	assert.Zero(t, malformed)
	// 09:30-10:00 граничит, не конфликт; 10:00 и 10:15 пересекаются; 10:30 граничит
	assert.Equal(t, []time.Time{instant(9, 30), instant(10, 30)}, got)
}

func TestFilter_TouchingEndpointsDoNotOverlap(t *testing.T) {
	// Запись 10:00-10:30; кандидаты вплотную с обеих сторон свободны
	reserved := []domain.ReservedInterval{booked(instant(10, 0), 30)}

	got, _ := Filter([]time.Time{instant(9, 30), instant(10, 30)}, 30, reserved, instant(8, 0))
	assert.Len(t, got, 2)
}

func TestFilter_CancelledIgnored(t *testing.T) {
	reserved := []domain.ReservedInterval{{
		StartAt:         instant(10, 0),
		DurationMinutes: ptr.Ptr(30),
		Status:          domain.StatusCancelled,
	}}

	got, _ := Filter([]time.Time{instant(10, 0)}, 30, reserved, instant(8, 0))
	assert.Equal(t, []time.Time{instant(10, 0)}, got)
}

func TestFilter_HeldActiveBlocks(t *testing.T) {
	reserved := []domain.ReservedInterval{{
		StartAt:         instant(10, 0),
		DurationMinutes: ptr.Ptr(30),
		Status:          domain.StatusHeld,
		ExpiresAt:       ptr.Ptr(instant(12, 0)),
	}}

	got, _ := Filter([]time.Time{instant(10, 0)}, 30, reserved, instant(9, 0))
	assert.Empty(t, got)
}

func TestFilter_ExpiredHeldIsFree(t *testing.T) {
	reserved := []domain.ReservedInterval{{
		StartAt:         instant(10, 0),
		DurationMinutes: ptr.Ptr(30),
		Status:          domain.StatusHeld,
		ExpiresAt:       ptr.Ptr(instant(8, 30)),
	}}

	// now позже expiresAt - hold инертен, слот предлагается как свободный
	got, _ := Filter([]time.Time{instant(10, 0)}, 30, reserved, instant(9, 0))
	assert.Equal(t, []time.Time{instant(10, 0)}, got)
}

func TestFilter_HeldWithoutExpiryIgnored(t *testing.T) {
	reserved := []domain.ReservedInterval{{
		StartAt:         instant(10, 0),
		DurationMinutes: ptr.Ptr(30),
		Status:          domain.StatusHeld,
		// ExpiresAt отсутствует - held без срока не считается активным
	}}

	got, _ := Filter([]time.Time{instant(10, 0)}, 30, reserved, instant(9, 0))
	assert.Len(t, got, 1)
}

func TestFilter_ExplicitEndWins(t *testing.T) {
	reserved := []domain.ReservedInterval{{
		StartAt:         instant(10, 0),
		EndAt:           ptr.Ptr(instant(11, 0)),
		DurationMinutes: ptr.Ptr(15), // игнорируется при наличии EndAt
		Status:          domain.StatusBooked,
	}}

	got, _ := Filter([]time.Time{instant(10, 30)}, 30, reserved, instant(8, 0))
	assert.Empty(t, got)
}

func TestFilter_MalformedRecordSkippedNotFatal(t *testing.T) {
	reserved := []domain.ReservedInterval{
		{
			StartAt: instant(10, 0),
			Status:  domain.StatusBooked,
			// ни EndAt, ни DurationMinutes - запись исключается из проверки
		},
		booked(instant(11, 0), 30),
	}

	got, malformed := Filter([]time.Time{instant(10, 0), instant(11, 0)}, 30, reserved, instant(8, 0))

	assert.Equal(t, 1, malformed)
	// Битая запись не блокирует 10:00, валидная блокирует 11:00
	assert.Equal(t, []time.Time{instant(10, 0)}, got)
}

func TestFilter_NoOverlapInvariant(t *testing.T) {
	reserved := []domain.ReservedInterval{
		booked(instant(10, 0), 45),
		booked(instant(13, 20), 25),
	}

	candidates := Generate(monday(), []domain.TimeRange{{Start: "09:00", End: "17:00"}}, 30, 15, time.UTC)
	got, _ := Filter(candidates, 30, reserved, instant(8, 0))
	require.NotEmpty(t, got)

	// Ни один выданный слот не пересекается ни с одним активным интервалом
	for _, s := range got {
		sEnd := s.Add(30 * time.Minute)
		for _, r := range reserved {
			rEnd, ok := r.End()
			require.True(t, ok)
			assert.False(t, s.Before(rEnd) && r.StartAt.Before(sEnd),
				"slot %s overlaps reservation %s", s, r.StartAt)
		}
	}
}
