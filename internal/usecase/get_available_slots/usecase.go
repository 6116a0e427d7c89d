package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/availability"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/calendar"
	serviceRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/service"
)

// UseCase use case для получения доступных слотов на дату
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

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%v, duration=%v, date=%s",
		req.BusinessID, req.ServiceID, req.DurationMinutes, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем календарь бизнеса
	cal, err := uc.calendarRepo.GetByBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
			uc.logger.Warn("GetAvailableSlots: calendar for business=%d not found", req.BusinessID)
			return nil, ErrCalendarNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get calendar for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}

	// 3. Определяем длительность: явная или из услуги
	duration, err := uc.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Снапшот записей на дату: отмененные исключены на уровне выборки,
	// протухшие held отфильтрует движок по expiresAt
	reserved, err := uc.loadReservedIntervals(ctx, req.BusinessID, req.Date)
	if err != nil {
		return nil, err
	}

	// 5. Считаем доступность
	slots := uc.engine.ComputeAvailableSlots(req.Date, duration, cal, reserved, now)

	uc.logger.Info("GetAvailableSlots: computed %d slots for business=%d, date=%s",
		len(slots), req.BusinessID, req.Date.Format(domain.DateFormat))

	return &Response{
		BusinessID:      req.BusinessID,
		Date:            req.Date.Format(domain.DateFormat),
		Timezone:        cal.Timezone,
		DurationMinutes: duration,
		Slots:           availability.FormatInstants(slots),
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
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", *req.ServiceID)
			return 0, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
		return 0, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if svc.BusinessID != req.BusinessID {
		uc.logger.Warn("GetAvailableSlots: service id=%d belongs to another business", *req.ServiceID)
		return 0, ErrServiceNotFound
	}

	if !svc.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", *req.ServiceID)
		return 0, ErrServiceInactive
	}

	return svc.DurationMinutes, nil
}

// loadReservedIntervals загружает интервалы записей бизнеса на дату
func (uc *UseCase) loadReservedIntervals(ctx context.Context, businessID int64, date time.Time) ([]domain.ReservedInterval, error) {
	filter := domain.BusinessReservationsFilter{
		BusinessID: businessID,
		StartDate:  &date,
		EndDate:    &date,
	}

	reservations, err := uc.reservationRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	intervals := make([]domain.ReservedInterval, 0, len(reservations))
	for _, res := range reservations {
		intervals = append(intervals, res.Interval())
	}

	return intervals, nil
}
