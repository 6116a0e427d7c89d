package update_calendar

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	calendarService "github.com/m04kA/SMC-SalonService/internal/service/calendar"
	"github.com/m04kA/SMC-SalonService/internal/service/calendar/models"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidBody       = "некорректное тело запроса"
	msgInvalidTimezone   = "неизвестная таймзона"
	msgInvalidSchedule   = "некорректное расписание"
	msgInvalidParams     = "некорректные параметры запроса"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/businesses/{businessId}/calendar
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/calendar - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req models.UpdateCalendarRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/calendar - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.service.Update(r.Context(), businessID, &req)
	if err != nil {
		switch {
		case errors.Is(err, calendarService.ErrInvalidTimezone):
			h.logger.Warn("PUT /businesses/{id}/calendar - Invalid timezone: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgInvalidTimezone)

		case errors.Is(err, calendarService.ErrInvalidSchedule):
			h.logger.Warn("PUT /businesses/{id}/calendar - Invalid schedule: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		case errors.Is(err, calendarService.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/calendar - Invalid input: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("PUT /businesses/{id}/calendar - Failed: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/calendar - Updated: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
