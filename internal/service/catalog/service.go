package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonService/internal/service/catalog/models"
)

// Service сервис каталога услуг салона
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// List получает услуги бизнеса
// activeOnly = true исключает выключенные услуги
func (s *Service) List(ctx context.Context, businessID int64, activeOnly bool) (*models.ServiceListResponse, error) {
	s.logger.Info("List: fetching services for business=%d, activeOnly=%t", businessID, activeOnly)

	services, err := s.serviceRepo.ListByBusiness(ctx, businessID, activeOnly)
	if err != nil {
		s.logger.Error("List: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

// Create создает новую услугу
func (s *Service) Create(ctx context.Context, businessID int64, req *models.UpsertServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service %q for business=%d", req.Name, businessID)

	if err := validateService(req); err != nil {
		s.logger.Warn("Create: validation failed for business=%d: %v", businessID, err)
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, req.ToDomain(businessID))
	if err != nil {
		s.logger.Error("Create: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created service id=%d for business=%d", created.ID, businessID)
	return models.FromDomainService(created), nil
}

// Update обновляет услугу бизнеса
func (s *Service) Update(ctx context.Context, businessID, serviceID int64, req *models.UpsertServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%d for business=%d", serviceID, businessID)

	if err := validateService(req); err != nil {
		s.logger.Warn("Update: validation failed for service id=%d: %v", serviceID, err)
		return nil, err
	}

	updated, err := s.serviceRepo.Update(ctx, serviceID, req.ToDomain(businessID))
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("Update: service id=%d not found for business=%d", serviceID, businessID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: updated service id=%d for business=%d", serviceID, businessID)
	return models.FromDomainService(updated), nil
}

// validateService проверяет поля услуги перед записью
func validateService(req *models.UpsertServiceRequest) error {
	if req.Name == "" || len(req.Name) > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: service name must be 1-%d characters", ErrInvalidInput, domain.MaxServiceNameLength)
	}

	if req.DurationMinutes < domain.MinDurationMinutes || req.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: duration must be %d-%d minutes",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if req.Price != nil && *req.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	}

	return nil
}
