package get_available_days

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/availability"
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ReservationRepository интерфейс репозитория записей
type ReservationRepository interface {
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessReservationsFilter) ([]*domain.Reservation, error)
}

// CalendarRepository интерфейс репозитория календарей
type CalendarRepository interface {
	GetByBusiness(ctx context.Context, businessID int64) (*domain.BusinessCalendar, error)
}

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SalonService, error)
}

// AvailabilityEngine интерфейс движка расчета доступности
type AvailabilityEngine interface {
	ComputeAvailableRange(
		from time.Time,
		days int,
		durationMinutes int,
		cal *domain.BusinessCalendar,
		reserved []domain.ReservedInterval,
		now time.Time,
	) []availability.DayAvailability
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
