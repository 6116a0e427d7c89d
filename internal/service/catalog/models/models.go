package models

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Request модели

// UpsertServiceRequest запрос на создание или обновление услуги
type UpsertServiceRequest struct {
	Name            string   `json:"name"`
	DurationMinutes int      `json:"durationMinutes"`
	Price           *float64 `json:"price,omitempty"`
	Active          *bool    `json:"active,omitempty"`
}

// ToDomain конвертирует запрос в domain модель
// Отсутствующий флаг active трактуется как "услуга включена"
func (r *UpsertServiceRequest) ToDomain(businessID int64) *domain.SalonService {
	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return &domain.SalonService{
		BusinessID:      businessID,
		Name:            r.Name,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		Active:          active,
	}
}

// Response модели

// ServiceResponse услуга в ответе API
type ServiceResponse struct {
	ID              int64     `json:"id"`
	BusinessID      int64     `json:"businessId"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           *float64  `json:"price,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Total    int               `json:"total"`
}

// FromDomainService конвертирует domain модель в response
func FromDomainService(svc *domain.SalonService) *ServiceResponse {
	return &ServiceResponse{
		ID:              svc.ID,
		BusinessID:      svc.BusinessID,
		Name:            svc.Name,
		DurationMinutes: svc.DurationMinutes,
		Price:           svc.Price,
		Active:          svc.Active,
		CreatedAt:       svc.CreatedAt,
		UpdatedAt:       svc.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список domain моделей в response
func FromDomainServiceList(services []*domain.SalonService) *ServiceListResponse {
	items := make([]ServiceResponse, 0, len(services))
	for _, svc := range services {
		items = append(items, *FromDomainService(svc))
	}

	return &ServiceListResponse{
		Services: items,
		Total:    len(items),
	}
}
