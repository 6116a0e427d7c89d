package upsert_service

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/catalog/models"
)

type CatalogService interface {
	Create(ctx context.Context, businessID int64, req *models.UpsertServiceRequest) (*models.ServiceResponse, error)
	Update(ctx context.Context, businessID, serviceID int64, req *models.UpsertServiceRequest) (*models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
