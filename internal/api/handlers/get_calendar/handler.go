package get_calendar

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	calendarService "github.com/m04kA/SMC-SalonService/internal/service/calendar"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgCalendarNotFound  = "календарь бизнеса не найден"
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

// Handle GET /api/v1/businesses/{businessId}/calendar
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/calendar - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	result, err := h.service.Get(r.Context(), businessID)
	if err != nil {
		switch {
		case errors.Is(err, calendarService.ErrCalendarNotFound):
			h.logger.Warn("GET /businesses/{id}/calendar - Not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgCalendarNotFound)

		default:
			h.logger.Error("GET /businesses/{id}/calendar - Failed: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/calendar - Retrieved: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
