package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-SalonService/internal/service/calendar/models"
)

// Service сервис для работы с календарями бизнесов
type Service struct {
	calendarRepo CalendarRepository
	txManager    TransactionManager
	notifier     Notifier
	logger       Logger
}

// NewService создает новый экземпляр сервиса календарей
func NewService(
	calendarRepo CalendarRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		calendarRepo: calendarRepo,
		txManager:    txManager,
		notifier:     notifier,
		logger:       logger,
	}
}

// Get получает календарь бизнеса
func (s *Service) Get(ctx context.Context, businessID int64) (*models.CalendarResponse, error) {
	s.logger.Info("Get: fetching calendar for business=%d", businessID)

	cal, err := s.calendarRepo.GetByBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
			s.logger.Warn("Get: calendar for business=%d not found", businessID)
			return nil, ErrCalendarNotFound
		}
		s.logger.Error("Get: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainCalendar(cal), nil
}

// Update полностью заменяет календарь бизнеса
// Замена атомарна: базовая конфигурация, закрытия и спец-часы пишутся
// в одной транзакции, конкурентный расчет доступности не увидит
// календарь наполовину обновленным
func (s *Service) Update(ctx context.Context, businessID int64, req *models.UpdateCalendarRequest) (*models.CalendarResponse, error) {
	s.logger.Info("Update: updating calendar for business=%d", businessID)

	cal, err := req.ToDomain(businessID)
	if err != nil {
		s.logger.Warn("Update: invalid payload for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.validateCalendar(cal); err != nil {
		s.logger.Warn("Update: validation failed for business=%d: %v", businessID, err)
		return nil, err
	}

	// Интервал клампится при записи, а не при каждом расчете
	if cal.SlotIntervalMinutes < domain.MinSlotIntervalMinutes {
		s.logger.Warn("Update: slot interval %d below minimum for business=%d, clamping to %d",
			cal.SlotIntervalMinutes, businessID, domain.MinSlotIntervalMinutes)
		cal.SlotIntervalMinutes = domain.MinSlotIntervalMinutes
	}
	if cal.SlotIntervalMinutes > domain.MaxSlotIntervalMinutes {
		s.logger.Warn("Update: slot interval %d above maximum for business=%d, clamping to %d",
			cal.SlotIntervalMinutes, businessID, domain.MaxSlotIntervalMinutes)
		cal.SlotIntervalMinutes = domain.MaxSlotIntervalMinutes
	}

	var saved *domain.BusinessCalendar
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var txErr error
		saved, txErr = s.calendarRepo.Save(txCtx, cal)
		return txErr
	})
	if err != nil {
		s.logger.Error("Update: failed to save calendar for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.notifier.Notify(ctx, businessID)

	s.logger.Info("Update: successfully updated calendar for business=%d", businessID)
	return models.FromDomainCalendar(saved), nil
}

// validateCalendar проверяет инварианты календаря перед записью
func (s *Service) validateCalendar(cal *domain.BusinessCalendar) error {
	if _, err := time.LoadLocation(cal.Timezone); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, cal.Timezone)
	}

	days := []struct {
		name   string
		ranges []domain.TimeRange
	}{
		{"mon", cal.WeeklySchedule.Monday},
		{"tue", cal.WeeklySchedule.Tuesday},
		{"wed", cal.WeeklySchedule.Wednesday},
		{"thu", cal.WeeklySchedule.Thursday},
		{"fri", cal.WeeklySchedule.Friday},
		{"sat", cal.WeeklySchedule.Saturday},
		{"sun", cal.WeeklySchedule.Sunday},
	}

	for _, day := range days {
		if err := validateRanges(day.ranges); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSchedule, day.name, err)
		}
	}

	for _, special := range cal.SpecialHours {
		if err := validateRanges(special.Ranges); err != nil {
			return fmt.Errorf("%w: special hours %s: %v",
				ErrInvalidSchedule, special.Date.Format(domain.DateFormat), err)
		}
	}

	return nil
}

// validateRanges проверяет, что интервалы валидны, отсортированы и не пересекаются
// Интервалы полуоткрытые, поэтому касание концов (end == start) разрешено
func validateRanges(ranges []domain.TimeRange) error {
	for i, r := range ranges {
		if !r.IsValid() {
			return fmt.Errorf("range %d (%s-%s) is not valid", i, r.Start, r.End)
		}
		if i > 0 && r.Start.IsBefore(ranges[i-1].End) {
			return fmt.Errorf("range %d overlaps previous range", i)
		}
	}
	return nil
}
