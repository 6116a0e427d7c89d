package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// CancelReservationRequest запрос на отмену записи
type CancelReservationRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetUserReservationsRequest запрос на получение записей пользователя
type GetUserReservationsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetBusinessReservationsRequest запрос на получение записей бизнеса
type GetBusinessReservationsRequest struct {
	BusinessID       int64      `json:"businessId"`
	StartDate        *time.Time `json:"startDate,omitempty"`
	EndDate          *time.Time `json:"endDate,omitempty"`
	Status           *string    `json:"status,omitempty"`
	IncludeCancelled bool       `json:"includeCancelled"`
}

// ToDomainFilter конвертирует запрос в domain фильтр
func (r *GetBusinessReservationsRequest) ToDomainFilter() (domain.BusinessReservationsFilter, error) {
	filter := domain.BusinessReservationsFilter{
		BusinessID:       r.BusinessID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := ToDomainReservationStatus(*r.Status)
		if err != nil {
			return domain.BusinessReservationsFilter{}, err
		}
		filter.Status = &status
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return domain.BusinessReservationsFilter{}, errors.New("endDate is before startDate")
	}

	return filter, nil
}

// Response модели

// ReservationResponse запись в ответе API
type ReservationResponse struct {
	ID                 int64      `json:"id"`
	BusinessID         int64      `json:"businessId"`
	UserID             int64      `json:"userId"`
	ServiceID          *int64     `json:"serviceId,omitempty"`
	ServiceName        *string    `json:"serviceName,omitempty"`
	Date               string     `json:"date"`
	StartAt            time.Time  `json:"startAt"`
	EndAt              *time.Time `json:"endAt,omitempty"`
	DurationMinutes    *int       `json:"durationMinutes,omitempty"`
	Status             string     `json:"status"`
	ExpiresAt          *time.Time `json:"expiresAt,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// ReservationListResponse список записей
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Total        int                   `json:"total"`
}

// Конвертация domain <-> models

// FromDomainReservation конвертирует domain модель в response
func FromDomainReservation(res *domain.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:                 res.ID,
		BusinessID:         res.BusinessID,
		UserID:             res.UserID,
		ServiceID:          res.ServiceID,
		ServiceName:        res.ServiceName,
		Date:               res.Date.Format(domain.DateFormat),
		StartAt:            res.StartAt,
		EndAt:              res.EndAt,
		DurationMinutes:    res.DurationMinutes,
		Status:             string(res.Status),
		ExpiresAt:          res.ExpiresAt,
		Notes:              res.Notes,
		CancellationReason: res.CancellationReason,
		CancelledAt:        res.CancelledAt,
		CreatedAt:          res.CreatedAt,
		UpdatedAt:          res.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в response
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	items := make([]ReservationResponse, 0, len(reservations))
	for _, res := range reservations {
		items = append(items, *FromDomainReservation(res))
	}

	return &ReservationListResponse{
		Reservations: items,
		Total:        len(items),
	}
}

// ToDomainReservationStatus конвертирует строку в domain статус с валидацией
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	switch domain.ReservationStatus(status) {
	case domain.StatusBooked, domain.StatusHeld, domain.StatusCancelled:
		return domain.ReservationStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}
