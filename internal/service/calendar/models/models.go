package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrInvalidDate возвращается при некорректной дате в формате YYYY-MM-DD
	ErrInvalidDate = errors.New("invalid date format")
)

// Request модели

// ClosurePayload закрытие на дату
type ClosurePayload struct {
	Date   string  `json:"date"`
	Reason *string `json:"reason,omitempty"`
}

// SpecialHoursPayload спец-часы на дату
type SpecialHoursPayload struct {
	Date   string             `json:"date"`
	Ranges []domain.TimeRange `json:"ranges"`
	Reason *string            `json:"reason,omitempty"`
}

// UpdateCalendarRequest запрос на полную замену календаря бизнеса
type UpdateCalendarRequest struct {
	Timezone            string                `json:"timezone"`
	SlotIntervalMinutes int                   `json:"slotIntervalMinutes"`
	WeeklySchedule      domain.WeeklySchedule `json:"weeklySchedule"`
	Closures            []ClosurePayload      `json:"closures"`
	SpecialHours        []SpecialHoursPayload `json:"specialHours"`
}

// ToDomain конвертирует запрос в domain модель календаря
func (r *UpdateCalendarRequest) ToDomain(businessID int64) (*domain.BusinessCalendar, error) {
	cal := &domain.BusinessCalendar{
		BusinessID:          businessID,
		Timezone:            r.Timezone,
		SlotIntervalMinutes: r.SlotIntervalMinutes,
		WeeklySchedule:      r.WeeklySchedule,
	}

	for _, c := range r.Closures {
		date, err := time.Parse(domain.DateFormat, c.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: closure date %q", ErrInvalidDate, c.Date)
		}
		cal.Closures = append(cal.Closures, domain.Closure{Date: date, Reason: c.Reason})
	}

	for _, s := range r.SpecialHours {
		date, err := time.Parse(domain.DateFormat, s.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: special hours date %q", ErrInvalidDate, s.Date)
		}
		cal.SpecialHours = append(cal.SpecialHours, domain.SpecialHours{
			Date:   date,
			Ranges: s.Ranges,
			Reason: s.Reason,
		})
	}

	return cal, nil
}

// Response модели

// CalendarResponse календарь бизнеса в ответе API
type CalendarResponse struct {
	ID                  int64                 `json:"id"`
	BusinessID          int64                 `json:"businessId"`
	Timezone            string                `json:"timezone"`
	SlotIntervalMinutes int                   `json:"slotIntervalMinutes"`
	WeeklySchedule      domain.WeeklySchedule `json:"weeklySchedule"`
	Closures            []ClosurePayload      `json:"closures"`
	SpecialHours        []SpecialHoursPayload `json:"specialHours"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}

// FromDomainCalendar конвертирует domain модель в response
func FromDomainCalendar(cal *domain.BusinessCalendar) *CalendarResponse {
	resp := &CalendarResponse{
		ID:                  cal.ID,
		BusinessID:          cal.BusinessID,
		Timezone:            cal.Timezone,
		SlotIntervalMinutes: cal.SlotIntervalMinutes,
		WeeklySchedule:      cal.WeeklySchedule,
		Closures:            make([]ClosurePayload, 0, len(cal.Closures)),
		SpecialHours:        make([]SpecialHoursPayload, 0, len(cal.SpecialHours)),
		UpdatedAt:           cal.UpdatedAt,
	}

	for _, c := range cal.Closures {
		resp.Closures = append(resp.Closures, ClosurePayload{
			Date:   c.Date.Format(domain.DateFormat),
			Reason: c.Reason,
		})
	}

	for _, s := range cal.SpecialHours {
		resp.SpecialHours = append(resp.SpecialHours, SpecialHoursPayload{
			Date:   s.Date.Format(domain.DateFormat),
			Ranges: s.Ranges,
			Reason: s.Reason,
		})
	}

	return resp
}
