package availability

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Generate перебирает кандидатов начала записи для рабочих интервалов даты.
// Внутри каждого интервала курсор шагает от начала с шагом intervalMinutes,
// пока cursor + durationMinutes <= конец интервала. Слот, вылезающий за конец
// интервала, не генерируется никогда - это жесткое граничное условие.
//
// Интервалы обрабатываются в переданном порядке, внутри интервала - по
// возрастанию времени. Функция чистая: результат зависит только от аргументов.
func Generate(
	date time.Time,
	ranges []domain.TimeRange,
	durationMinutes int,
	intervalMinutes int,
	loc *time.Location,
) []time.Time {
	if durationMinutes <= 0 || intervalMinutes <= 0 {
		return nil
	}

	duration := time.Duration(durationMinutes) * time.Minute
	step := time.Duration(intervalMinutes) * time.Minute

	candidates := make([]time.Time, 0)

	for _, r := range ranges {
		start, err := ToInstant(date, r.Start, loc)
		if err != nil {
			continue
		}
		end, err := ToInstant(date, r.End, loc)
		if err != nil {
			continue
		}

		// Шагаем по абсолютным инстантам: через границу перевода часов
		// расстояние между слотами остается ровно step
		for cursor := start; !cursor.Add(duration).After(end); cursor = cursor.Add(step) {
			candidates = append(candidates, cursor)
		}
	}

	return candidates
}
