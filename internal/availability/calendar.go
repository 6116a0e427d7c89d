package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// EffectiveRanges возвращает рабочие интервалы на дату с учетом приоритетов:
//  1. Closure на эту дату - бизнес закрыт, пустой список
//  2. SpecialHours на эту дату - интервалы оверрайда вместо недельного расписания
//  3. Недельное расписание по дню недели (пустой список = закрыт в этот день)
//
// Некорректные интервалы (незаполненные, start >= end) отбрасываются,
// а не приводят к ошибке: битая запись расписания означает "закрыто".
func EffectiveRanges(date time.Time, cal *domain.BusinessCalendar) []domain.TimeRange {
	for _, closure := range cal.Closures {
		if domain.SameDate(closure.Date, date) {
			return nil
		}
	}

	for _, special := range cal.SpecialHours {
		if domain.SameDate(special.Date, date) {
			return sanitizeRanges(special.Ranges)
		}
	}

	return sanitizeRanges(cal.WeeklySchedule.RangesFor(date.Weekday()))
}

// sanitizeRanges отбрасывает некорректные интервалы и сортирует по началу
func sanitizeRanges(ranges []domain.TimeRange) []domain.TimeRange {
	if len(ranges) == 0 {
		return nil
	}

	valid := make([]domain.TimeRange, 0, len(ranges))
	for _, r := range ranges {
		if r.IsValid() {
			valid = append(valid, r)
		}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Start.IsBefore(valid[j].Start)
	})

	return valid
}
