package calendar

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// CalendarRepository интерфейс репозитория календарей
type CalendarRepository interface {
	GetByBusiness(ctx context.Context, businessID int64) (*domain.BusinessCalendar, error)
	Save(ctx context.Context, cal *domain.BusinessCalendar) (*domain.BusinessCalendar, error)
}

// Notifier интерфейс для оповещения подписчиков об изменениях
// Смена календаря меняет доступность, подписчики должны пересчитать её
type Notifier interface {
	Notify(ctx context.Context, businessID int64)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
