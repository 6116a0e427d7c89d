package watch_reservations

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/watch"
	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	subscriber Subscriber
	logger     Logger
}

func NewHandler(subscriber Subscriber, logger Logger) *Handler {
	return &Handler{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/reservations/watch
// Server-Sent Events: сразу отдает снапшот записей, затем шлет новый
// полный снапшот на каждое изменение. Соединение живет до отключения клиента.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/reservations/watch - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	query := watch.Query{BusinessID: businessID}

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		query.StartDate = startDate
	}

	if raw := r.URL.Query().Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		query.EndDate = endDate
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("GET /businesses/{id}/reservations/watch - Response writer does not support flushing")
		handlers.RespondInternalError(w)
		return
	}

	snapshot, updates, cancel, err := h.subscriber.Subscribe(r.Context(), query)
	if err != nil {
		h.logger.Error("GET /businesses/{id}/reservations/watch - Subscribe failed: business_id=%d, error=%v",
			businessID, err)
		handlers.RespondInternalError(w)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	h.logger.Info("GET /businesses/{id}/reservations/watch - Subscribed: business_id=%d", businessID)

	if err := writeEvent(w, flusher, snapshot); err != nil {
		h.logger.Warn("GET /businesses/{id}/reservations/watch - Failed to write initial snapshot: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("GET /businesses/{id}/reservations/watch - Client disconnected: business_id=%d", businessID)
			return

		case next, open := <-updates:
			if !open {
				return
			}
			if err := writeEvent(w, flusher, next); err != nil {
				h.logger.Warn("GET /businesses/{id}/reservations/watch - Failed to write snapshot: %v", err)
				return
			}
		}
	}
}

// writeEvent сериализует снапшот в одно SSE событие
func writeEvent(w http.ResponseWriter, flusher http.Flusher, snapshot []*domain.Reservation) error {
	payload, err := json.Marshal(models.FromDomainReservationList(snapshot))
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: reservations\ndata: %s\n\n", payload); err != nil {
		return err
	}

	flusher.Flush()
	return nil
}
