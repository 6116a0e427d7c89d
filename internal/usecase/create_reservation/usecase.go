package create_reservation

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

// UseCase use case создания записи (held или booked)
//
// Write-путь защищен от гонки между проверкой доступности и вставкой:
// повторная проверка конфликтов и вставка выполняются в одной сериализуемой
// транзакции, выборка записей дня блокирует строки через FOR UPDATE.
// Две конкурентные попытки занять один слот не могут пройти обе.
type UseCase struct {
	reservationRepo ReservationRepository
	calendarRepo    CalendarRepository
	serviceRepo     ServiceRepository
	engine          AvailabilityEngine
	txManager       TransactionManager
	notifier        Notifier
	timeProvider    TimeProvider
	logger          Logger

	holdTTL time.Duration
}

// NewUseCase создает новый экземпляр use case
// holdTTLMinutes <= 0 заменяется дефолтным TTL
func NewUseCase(
	reservationRepo ReservationRepository,
	calendarRepo CalendarRepository,
	serviceRepo ServiceRepository,
	engine AvailabilityEngine,
	txManager TransactionManager,
	notifier Notifier,
	holdTTLMinutes int,
	logger Logger,
) *UseCase {
	if holdTTLMinutes <= 0 {
		holdTTLMinutes = domain.DefaultHoldTTLMinutes
	}

	return &UseCase{
		reservationRepo: reservationRepo,
		calendarRepo:    calendarRepo,
		serviceRepo:     serviceRepo,
		engine:          engine,
		txManager:       txManager,
		notifier:        notifier,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		holdTTL:         time.Duration(holdTTLMinutes) * time.Minute,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, business=%d, date=%s, start=%s, hold=%t",
		req.UserID, req.BusinessID, req.Date.Format(domain.DateFormat), req.StartTime, req.Hold)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем календарь бизнеса
	cal, err := uc.calendarRepo.GetByBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
			uc.logger.Warn("CreateReservation: calendar for business=%d not found", req.BusinessID)
			return nil, ErrCalendarNotFound
		}
		uc.logger.Error("CreateReservation: failed to get calendar for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}

	// 3. Определяем длительность и имя услуги
	duration, serviceName, err := uc.resolveService(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Переводим настенное время начала в инстант в зоне бизнеса
	loc, ok := availability.LoadLocation(cal.Timezone, time.UTC)
	if !ok && cal.Timezone != "" {
		uc.logger.Warn("CreateReservation: unknown timezone %q for business=%d, using UTC",
			cal.Timezone, req.BusinessID)
	}

	startAt, err := availability.ToInstant(req.Date, req.StartTime, loc)
	if err != nil {
		uc.logger.Warn("CreateReservation: bad start time %s: %v", req.StartTime, err)
		return nil, fmt.Errorf("%w: bad start time", ErrInvalidInput)
	}
	endAt := startAt.Add(time.Duration(duration) * time.Minute)

	reservation := &domain.Reservation{
		BusinessID:      req.BusinessID,
		UserID:          req.UserID,
		ServiceID:       req.ServiceID,
		ServiceName:     serviceName,
		Date:            req.Date,
		StartAt:         startAt,
		EndAt:           &endAt,
		DurationMinutes: &duration,
		Status:          domain.StatusBooked,
		Notes:           req.Notes,
	}

	if req.Hold {
		expiresAt := now.Add(uc.holdTTL)
		reservation.Status = domain.StatusHeld
		reservation.ExpiresAt = &expiresAt
	}

	// 5. Повторная проверка доступности и вставка в одной транзакции
	var created *domain.Reservation
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		filter := domain.BusinessReservationsFilter{
			BusinessID: req.BusinessID,
			StartDate:  &req.Date,
			EndDate:    &req.Date,
		}

		// Внутри транзакции выборка дня блокирует строки (FOR UPDATE)
		reservations, err := uc.reservationRepo.GetByBusinessWithFilter(txCtx, filter)
		if err != nil {
			return fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
		}

		reserved := make([]domain.ReservedInterval, 0, len(reservations))
		for _, res := range reservations {
			reserved = append(reserved, res.Interval())
		}

		slots := uc.engine.ComputeAvailableSlots(req.Date, duration, cal, reserved, now)
		if !containsInstant(slots, startAt) {
			return ErrSlotNotAvailable
		}

		created, err = uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.logger.Warn("CreateReservation: slot %s is not available for business=%d",
				startAt.Format(time.RFC3339), req.BusinessID)
			return nil, ErrSlotNotAvailable
		}
		uc.logger.Error("CreateReservation: transaction failed for business=%d: %v", req.BusinessID, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.notifier.Notify(ctx, req.BusinessID)

	uc.logger.Info("CreateReservation: created reservation id=%d, status=%s, business=%d",
		created.ID, created.Status, req.BusinessID)

	return buildResponse(created), nil
}

// resolveService возвращает длительность и имя услуги
// Явно переданная длительность имеет приоритет; имя услуги денормализуется
// в запись для истории
func (uc *UseCase) resolveService(ctx context.Context, req *Request) (int, *string, error) {
	var duration int
	var serviceName *string

	if req.ServiceID != nil {
		svc, err := uc.serviceRepo.GetByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				uc.logger.Warn("CreateReservation: service id=%d not found", *req.ServiceID)
				return 0, nil, ErrServiceNotFound
			}
			uc.logger.Error("CreateReservation: failed to get service id=%d: %v", *req.ServiceID, err)
			return 0, nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		if svc.BusinessID != req.BusinessID {
			uc.logger.Warn("CreateReservation: service id=%d belongs to another business", *req.ServiceID)
			return 0, nil, ErrServiceNotFound
		}

		if !svc.Active {
			uc.logger.Warn("CreateReservation: service id=%d is inactive", *req.ServiceID)
			return 0, nil, ErrServiceInactive
		}

		duration = svc.DurationMinutes
		serviceName = &svc.Name
	}

	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}

	return duration, serviceName, nil
}

// containsInstant проверяет наличие инстанта в упорядоченном списке слотов
func containsInstant(slots []time.Time, target time.Time) bool {
	for _, slot := range slots {
		if slot.Equal(target) {
			return true
		}
	}
	return false
}

func buildResponse(res *domain.Reservation) *Response {
	resp := &Response{
		ID:          res.ID,
		BusinessID:  res.BusinessID,
		UserID:      res.UserID,
		ServiceID:   res.ServiceID,
		ServiceName: res.ServiceName,
		Date:        res.Date.Format(domain.DateFormat),
		StartAt:     res.StartAt,
		Status:      string(res.Status),
		ExpiresAt:   res.ExpiresAt,
		Notes:       res.Notes,
		CreatedAt:   res.CreatedAt,
	}

	if res.EndAt != nil {
		resp.EndAt = *res.EndAt
	}
	if res.DurationMinutes != nil {
		resp.DurationMinutes = *res.DurationMinutes
	}

	return resp
}
