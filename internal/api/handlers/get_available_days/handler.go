package get_available_days

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	getAvailableDays "github.com/m04kA/SMC-SalonService/internal/usecase/get_available_days"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgInvalidDuration   = "некорректная длительность"
	msgMissingFrom       = "начальная дата обязательна"
	msgInvalidFrom       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDays       = "некорректное количество дней"
	msgInvalidParams     = "некорректные параметры запроса"
	msgCalendarNotFound  = "календарь бизнеса не найден"
	msgServiceNotFound   = "услуга не найдена"
	msgServiceInactive   = "услуга недоступна"
)

type Handler struct {
	useCase GetAvailableDaysUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableDaysUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/available-days
// Query params: from (required, YYYY-MM-DD), days, serviceId или durationMinutes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-days - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	fromStr := r.URL.Query().Get("from")
	if fromStr == "" {
		h.logger.Warn("GET /businesses/{id}/available-days - Missing from date")
		handlers.RespondBadRequest(w, msgMissingFrom)
		return
	}

	from, err := time.Parse(domain.DateFormat, fromStr)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-days - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFrom)
		return
	}

	useCaseReq := &getAvailableDays.Request{
		BusinessID: businessID,
		From:       from,
	}

	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/available-days - Invalid days: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
		useCaseReq.Days = days
	}

	if raw := r.URL.Query().Get("serviceId"); raw != "" {
		serviceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/available-days - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		useCaseReq.ServiceID = &serviceID
	}

	if raw := r.URL.Query().Get("durationMinutes"); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/available-days - Invalid duration: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
		useCaseReq.DurationMinutes = &duration
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableDays.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/available-days - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, getAvailableDays.ErrCalendarNotFound):
			h.logger.Warn("GET /businesses/{id}/available-days - Calendar not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgCalendarNotFound)

		case errors.Is(err, getAvailableDays.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/available-days - Service not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableDays.ErrServiceInactive):
			h.logger.Warn("GET /businesses/{id}/available-days - Service inactive: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		default:
			h.logger.Error("GET /businesses/{id}/available-days - Failed to get days: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/available-days - Availability retrieved: business_id=%d, from=%s, days=%d",
		businessID, fromStr, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}
