package update_calendar

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/calendar/models"
)

type CalendarService interface {
	Update(ctx context.Context, businessID int64, req *models.UpdateCalendarRequest) (*models.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
