package availability

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Filter убирает кандидатов, пересекающихся с активными занятыми интервалами.
//
// Интервал участвует в проверке, только если он booked, либо held с еще не
// истекшим expiresAt. Отмененные и протухшие held игнорируются до проверки
// пересечений (ленивое истечение - активного перехода статуса не требуется).
//
// Пересечение полуоткрытых интервалов: aStart < bEnd && bStart < aEnd.
// Соприкасающиеся границы пересечением не считаются.
//
// Записи без конца и без длительности пропускаются; их количество
// возвращается вторым значением, чтобы движок мог залогировать data-quality
// предупреждение - одна битая запись не должна ронять весь расчет.
func Filter(
	candidates []time.Time,
	durationMinutes int,
	reserved []domain.ReservedInterval,
	now time.Time,
) ([]time.Time, int) {
	duration := time.Duration(durationMinutes) * time.Minute

	// Сначала отбираем активные интервалы с вычислимым концом
	type span struct {
		start time.Time
		end   time.Time
	}

	active := make([]span, 0, len(reserved))
	malformed := 0

	for _, r := range reserved {
		if !r.IsActiveAt(now) {
			continue
		}
		end, ok := r.End()
		if !ok {
			malformed++
			continue
		}
		active = append(active, span{start: r.StartAt, end: end})
	}

	result := make([]time.Time, 0, len(candidates))

	for _, c := range candidates {
		cEnd := c.Add(duration)
		conflict := false
		for _, s := range active {
			if c.Before(s.end) && s.start.Before(cEnd) {
				conflict = true
				break
			}
		}
		if !conflict {
			result = append(result, c)
		}
	}

	return result, malformed
}
