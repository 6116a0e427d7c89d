package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	createReservation "github.com/m04kA/SMC-SalonService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// CreateReservationRequest HTTP модель запроса на создание записи
type CreateReservationRequest struct {
	BusinessID      int64   `json:"businessId"`
	ServiceID       *int64  `json:"serviceId,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Date            string  `json:"date"`      // YYYY-MM-DD
	StartTime       string  `json:"startTime"` // HH:MM в зоне бизнеса
	Hold            bool    `json:"hold"`
	Notes           *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в запрос use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		UserID:          userID,
		BusinessID:      r.BusinessID,
		ServiceID:       r.ServiceID,
		DurationMinutes: r.DurationMinutes,
		Date:            date,
		StartTime:       startTime,
		Hold:            r.Hold,
		Notes:           r.Notes,
	}, nil
}
