package get_available_days

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/availability"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/calendar"
	serviceRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/service"
)

// UseCase use case многодневного поиска доступности
// Один запрос к хранилищу на весь горизонт, затем расчет по дням в памяти
type UseCase struct {
	reservationRepo ReservationRepository
	calendarRepo    CalendarRepository
	serviceRepo     ServiceRepository
	engine          AvailabilityEngine
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	calendarRepo CalendarRepository,
	serviceRepo ServiceRepository,
	engine AvailabilityEngine,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		calendarRepo:    calendarRepo,
		serviceRepo:     serviceRepo,
		engine:          engine,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case многодневного поиска
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableDays: business=%d, from=%s, days=%d",
		req.BusinessID, req.From.Format(domain.DateFormat), req.Days)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableDays: validation failed: %v", err)
		return nil, err
	}

	days := req.Days
	if days == 0 {
		days = domain.DefaultSearchHorizonDays
	}

	now := uc.timeProvider.Now()

	// 2. Получаем календарь бизнеса
	cal, err := uc.calendarRepo.GetByBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
			uc.logger.Warn("GetAvailableDays: calendar for business=%d not found", req.BusinessID)
			return nil, ErrCalendarNotFound
		}
		uc.logger.Error("GetAvailableDays: failed to get calendar for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}

	// 3. Определяем длительность: явная или из услуги
	duration, err := uc.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Снапшот записей на весь горизонт одним запросом
	endDate := req.From.AddDate(0, 0, days-1)
	filter := domain.BusinessReservationsFilter{
		BusinessID: req.BusinessID,
		StartDate:  &req.From,
		EndDate:    &endDate,
	}

	reservations, err := uc.reservationRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableDays: failed to get reservations for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	reserved := make([]domain.ReservedInterval, 0, len(reservations))
	for _, res := range reservations {
		reserved = append(reserved, res.Interval())
	}

	// 5. Считаем доступность по дням
	perDay := uc.engine.ComputeAvailableRange(req.From, days, duration, cal, reserved, now)

	result := make([]Day, 0, len(perDay))
	for _, day := range perDay {
		result = append(result, Day{
			Date:  day.Date.Format(domain.DateFormat),
			Slots: availability.FormatInstants(day.Slots),
		})
	}

	uc.logger.Info("GetAvailableDays: computed availability for %d days, business=%d", len(result), req.BusinessID)

	return &Response{
		BusinessID:      req.BusinessID,
		Timezone:        cal.Timezone,
		DurationMinutes: duration,
		Days:            result,
	}, nil
}

// resolveDuration возвращает длительность записи в минутах
// Явно переданная длительность имеет приоритет над длительностью услуги
func (uc *UseCase) resolveDuration(ctx context.Context, req *Request) (int, error) {
	if req.DurationMinutes != nil {
		return *req.DurationMinutes, nil
	}

	svc, err := uc.serviceRepo.GetByID(ctx, *req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableDays: service id=%d not found", *req.ServiceID)
			return 0, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableDays: failed to get service id=%d: %v", *req.ServiceID, err)
		return 0, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if svc.BusinessID != req.BusinessID {
		uc.logger.Warn("GetAvailableDays: service id=%d belongs to another business", *req.ServiceID)
		return 0, ErrServiceNotFound
	}

	if !svc.Active {
		uc.logger.Warn("GetAvailableDays: service id=%d is inactive", *req.ServiceID)
		return 0, ErrServiceInactive
	}

	return svc.DurationMinutes, nil
}
