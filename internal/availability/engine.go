package availability

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Engine вычисляет доступные слоты для записи.
// Движок чистый: не ходит в хранилище, не держит состояние между вызовами -
// снапшот календаря и занятых интервалов передается целиком на каждый вызов,
// поэтому его безопасно дергать конкурентно из любого количества горутин.
type Engine struct {
	defaultLoc *time.Location
	logger     Logger
}

// DayAvailability доступные слоты на один день
type DayAvailability struct {
	Date  time.Time
	Slots []time.Time
}

// NewEngine создает движок с дефолтной таймзоной для фолбэка.
// Если дефолтная зона не резолвится, используется UTC.
func NewEngine(defaultTimezone string, logger Logger) *Engine {
	loc, ok := LoadLocation(defaultTimezone, time.UTC)
	if !ok && defaultTimezone != "" {
		logger.Warn("availability: unknown default timezone %q, using UTC", defaultTimezone)
	}
	return &Engine{
		defaultLoc: loc,
		logger:     logger,
	}
}

// Location резолвит таймзону календаря с фолбэком на дефолтную зону движка
func (e *Engine) Location(name string) *time.Location {
	loc, ok := LoadLocation(name, e.defaultLoc)
	if !ok && name != "" {
		e.logger.Warn("availability: unknown timezone %q, falling back to %s", name, e.defaultLoc)
	}
	return loc
}

// ComputeAvailableSlots возвращает упорядоченный список валидных инстантов
// начала записи длительностью durationMinutes на указанную дату.
//
// Композиция: EffectiveRanges -> Generate -> Filter. Нулевая дата или
// закрытый день дают пустой список, а не ошибку. Результат детерминирован:
// одинаковые входы дают одинаковый список в одинаковом порядке.
func (e *Engine) ComputeAvailableSlots(
	date time.Time,
	durationMinutes int,
	cal *domain.BusinessCalendar,
	reserved []domain.ReservedInterval,
	now time.Time,
) []time.Time {
	if date.IsZero() || cal == nil {
		return []time.Time{}
	}

	interval := cal.EffectiveSlotInterval()
	if interval != cal.SlotIntervalMinutes {
		e.logger.Warn("availability: slot interval %d clamped to %d for business=%d",
			cal.SlotIntervalMinutes, interval, cal.BusinessID)
	}

	loc := e.Location(cal.Timezone)

	ranges := EffectiveRanges(date, cal)
	if len(ranges) == 0 {
		return []time.Time{}
	}

	candidates := Generate(date, ranges, durationMinutes, interval, loc)

	slots, malformed := Filter(candidates, durationMinutes, reserved, now)
	if malformed > 0 {
		e.logger.Warn("availability: %d reservation(s) without end or duration excluded from conflict checks for business=%d",
			malformed, cal.BusinessID)
	}

	return slots
}

// ComputeAvailableRange вычисляет доступность по дням от from включительно
// на days дней вперед. Многодневный поиск - первоклассная операция движка,
// а не ad-hoc цикл на стороне вызывающего.
func (e *Engine) ComputeAvailableRange(
	from time.Time,
	days int,
	durationMinutes int,
	cal *domain.BusinessCalendar,
	reserved []domain.ReservedInterval,
	now time.Time,
) []DayAvailability {
	if from.IsZero() || days <= 0 {
		return []DayAvailability{}
	}

	result := make([]DayAvailability, 0, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i)
		result = append(result, DayAvailability{
			Date:  date,
			Slots: e.ComputeAvailableSlots(date, durationMinutes, cal, reserved, now),
		})
	}

	return result
}

// FormatInstants форматирует инстанты в ISO-8601 UTC строки для внешних интерфейсов
func FormatInstants(slots []time.Time) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.UTC().Format(time.RFC3339)
	}
	return out
}
