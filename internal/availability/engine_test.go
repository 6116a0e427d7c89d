package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

// nopLogger заглушка логгера для тестов
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestEngine() *Engine {
	return NewEngine("UTC", nopLogger{})
}

func TestComputeAvailableSlots_Scenario(t *testing.T) {
	// Понедельник 09:00-17:00, шаг 15 минут, одна запись 10:00-10:30,
	// запрашиваемая длительность 30 минут
	engine := newTestEngine()
	cal := testCalendar()
	reserved := []domain.ReservedInterval{booked(instant(10, 0), 30)}

	slots := engine.ComputeAvailableSlots(monday(), 30, cal, reserved, instant(8, 0))
	require.NotEmpty(t, slots)

	// Начало: 09:00, 09:15, 09:30, 09:45
	assert.Equal(t, instant(9, 0), slots[0])
	assert.Equal(t, instant(9, 15), slots[1])
	assert.Equal(t, instant(9, 30), slots[2])
	assert.Equal(t, instant(9, 45), slots[3])

	// 10:00 и 10:15 пересекаются с записью и пропущены
	assert.Equal(t, instant(10, 30), slots[4])
	assert.Equal(t, instant(10, 45), slots[5])

	// Последний слот 16:30: его конец 17:00 не выходит за границу
	assert.Equal(t, instant(16, 30), slots[len(slots)-1])

	// Полная сетка 09:00..16:30 с шагом 15 дает 31 кандидата, двое выпали
	assert.Len(t, slots, 29)
}

func TestComputeAvailableSlots_ClosureWinsRegardless(t *testing.T) {
	engine := newTestEngine()
	cal := testCalendar()
	cal.SpecialHours = []domain.SpecialHours{{
		Date:   monday(),
		Ranges: []domain.TimeRange{{Start: "10:00", End: "12:00"}},
	}}
	cal.Closures = []domain.Closure{{Date: monday()}}

	slots := engine.ComputeAvailableSlots(monday(), 30, cal, nil, instant(8, 0))
	assert.Empty(t, slots)
}

func TestComputeAvailableSlots_ExpiredHoldOffered(t *testing.T) {
	engine := newTestEngine()
	cal := testCalendar()
	reserved := []domain.ReservedInterval{{
		StartAt:         instant(10, 0),
		DurationMinutes: ptr.Ptr(30),
		Status:          domain.StatusHeld,
		ExpiresAt:       ptr.Ptr(instant(8, 0)),
	}}

	slots := engine.ComputeAvailableSlots(monday(), 30, cal, reserved, instant(9, 0))
	assert.Contains(t, slots, instant(10, 0))
	assert.Contains(t, slots, instant(10, 15))
}

func TestComputeAvailableSlots_Deterministic(t *testing.T) {
	engine := newTestEngine()
	cal := testCalendar()
	reserved := []domain.ReservedInterval{
		booked(instant(10, 0), 30),
		booked(instant(14, 0), 60),
	}

	first := engine.ComputeAvailableSlots(monday(), 30, cal, reserved, instant(8, 0))
	second := engine.ComputeAvailableSlots(monday(), 30, cal, reserved, instant(8, 0))

	assert.Equal(t, first, second)
}

func TestComputeAvailableSlots_IntervalClamped(t *testing.T) {
	engine := newTestEngine()
	cal := testCalendar()
	cal.SlotIntervalMinutes = 1 // ниже минимума, клампится до 5

	slots := engine.ComputeAvailableSlots(monday(), 30, cal, nil, instant(8, 0))
	require.True(t, len(slots) > 1)
	assert.Equal(t, 5*time.Minute, slots[1].Sub(slots[0]))
}

func TestComputeAvailableSlots_ZeroDateIsEmpty(t *testing.T) {
	engine := newTestEngine()

	slots := engine.ComputeAvailableSlots(time.Time{}, 30, testCalendar(), nil, instant(8, 0))
	assert.Empty(t, slots)
}

func TestComputeAvailableSlots_UnknownTimezoneFallsBack(t *testing.T) {
	engine := newTestEngine()
	cal := testCalendar()
	cal.Timezone = "Atlantis/Central"

	// Фолбэк на дефолтную зону (UTC), расчет не падает
	slots := engine.ComputeAvailableSlots(monday(), 30, cal, nil, instant(8, 0))
	require.NotEmpty(t, slots)
	assert.Equal(t, instant(9, 0), slots[0])
}

func TestComputeAvailableRange(t *testing.T) {
	engine := newTestEngine()
	cal := testCalendar()
	// Вторник с перерывом, остальные дни кроме пн/вт пустые
	cal.Closures = []domain.Closure{{Date: monday().AddDate(0, 0, 1)}}

	days := engine.ComputeAvailableRange(monday(), 3, 30, cal, nil, instant(8, 0))
	require.Len(t, days, 3)

	assert.Equal(t, monday(), days[0].Date)
	assert.NotEmpty(t, days[0].Slots)

	// Вторник закрыт через Closure
	assert.Empty(t, days[1].Slots)

	// Среда не задана в недельном расписании - закрыто
	assert.Empty(t, days[2].Slots)
}

func TestFormatInstants(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	got := FormatInstants([]time.Time{time.Date(2025, 6, 2, 12, 0, 0, 0, moscow)})
	assert.Equal(t, []string{"2025-06-02T09:00:00Z"}, got)
}
