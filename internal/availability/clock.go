package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// ToInstant возвращает момент времени, в который настенные часы в зоне loc
// показывают hhmm в указанную календарную дату.
//
// time.Date нормализует несуществующие локальные времена по правилам зоны:
// на дату весеннего перевода часов "02:30" схлопнется в корректный момент
// уже после перехода, а не в момент со сдвигом на час от фиксированного
// офсета. Именно поэтому вся арифметика слотов строится на инстантах,
// полученных отсюда, а не на сложении минут с локальным временем.
func ToInstant(date time.Time, hhmm types.TimeString, loc *time.Location) (time.Time, error) {
	total, err := hhmm.TotalMinutes()
	if err != nil {
		return time.Time{}, fmt.Errorf("availability: bad wall-clock value: %w", err)
	}

	y, m, d := date.Date()
	return time.Date(y, m, d, total/60, total%60, 0, 0, loc), nil
}

// LoadLocation резолвит IANA имя зоны. При неизвестной зоне возвращает
// fallback и false - вычисление никогда не падает из-за кривой таймзоны,
// предупреждение логируется на уровне движка.
func LoadLocation(name string, fallback *time.Location) (*time.Location, bool) {
	if name == "" {
		return fallback, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback, false
	}
	return loc, true
}
