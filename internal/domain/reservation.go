package domain

import "time"

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	// StatusBooked подтвержденная запись
	StatusBooked ReservationStatus = "booked"
	// StatusHeld временная бронь, истекает по ExpiresAt если не подтверждена
	StatusHeld ReservationStatus = "held"
	// StatusCancelled отмененная запись, никогда не участвует в проверке конфликтов
	StatusCancelled ReservationStatus = "cancelled"
)

// Reservation represents an appointment record in the system.
// Held and booked records share one shape; the status field is the only tag.
type Reservation struct {
	ID              int64
	BusinessID      int64
	UserID          int64
	ServiceID       *int64
	Date            time.Time // calendar date of the appointment
	StartAt         time.Time // absolute start instant (UTC)
	EndAt           *time.Time
	DurationMinutes *int
	Status          ReservationStatus
	ExpiresAt       *time.Time // set for held reservations only

	// Denormalized data for history
	ServiceName *string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReservedInterval is the projection the availability engine consumes:
// just enough to decide whether a record blocks a candidate slot.
type ReservedInterval struct {
	ID              int64
	StartAt         time.Time
	EndAt           *time.Time
	DurationMinutes *int
	Status          ReservationStatus
	ExpiresAt       *time.Time
}

// Interval projects the reservation onto its conflict-check shape
func (r *Reservation) Interval() ReservedInterval {
	return ReservedInterval{
		ID:              r.ID,
		StartAt:         r.StartAt,
		EndAt:           r.EndAt,
		DurationMinutes: r.DurationMinutes,
		Status:          r.Status,
		ExpiresAt:       r.ExpiresAt,
	}
}

// IsActiveAt reports whether the interval participates in conflict checks at instant now.
// Booked records always do; held records only until ExpiresAt; cancelled never.
func (i ReservedInterval) IsActiveAt(now time.Time) bool {
	switch i.Status {
	case StatusBooked:
		return true
	case StatusHeld:
		return i.ExpiresAt != nil && i.ExpiresAt.After(now)
	default:
		return false
	}
}

// End derives the end instant: explicit EndAt wins, otherwise StartAt + duration.
// Returns false if neither is present (malformed record, excluded from checks).
func (i ReservedInterval) End() (time.Time, bool) {
	if i.EndAt != nil {
		return *i.EndAt, true
	}
	if i.DurationMinutes != nil {
		return i.StartAt.Add(time.Duration(*i.DurationMinutes) * time.Minute), true
	}
	return time.Time{}, false
}

// CanBeCancelled returns true if the reservation can still be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusBooked || r.Status == StatusHeld
}

// IsCancelled returns true if the reservation has been cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// BusinessReservationsFilter фильтр для выборки записей бизнеса
type BusinessReservationsFilter struct {
	BusinessID       int64              // Обязательный параметр
	StartDate        *time.Time         // Начало периода (опционально)
	EndDate          *time.Time         // Конец периода (опционально)
	Status           *ReservationStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отмененные записи
}

// SalonService a service offered by the salon (haircut, manicure, ...)
type SalonService struct {
	ID              int64
	BusinessID      int64
	Name            string
	DurationMinutes int
	Price           *float64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
