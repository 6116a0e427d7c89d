package catalog

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SalonService, error)
	ListByBusiness(ctx context.Context, businessID int64, activeOnly bool) ([]*domain.SalonService, error)
	Create(ctx context.Context, svc *domain.SalonService) (*domain.SalonService, error)
	Update(ctx context.Context, id int64, svc *domain.SalonService) (*domain.SalonService, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
