package calendar

import "errors"

var (
	// ErrCalendarNotFound возвращается, когда календарь бизнеса не найден
	ErrCalendarNotFound = errors.New("calendar not found")

	// ErrInvalidTimezone возвращается при неизвестной IANA таймзоне
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidSchedule возвращается при некорректном расписании
	// (битые интервалы, пересечения внутри дня)
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
