package watch_reservations

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/watch"
)

type Subscriber interface {
	Subscribe(ctx context.Context, q watch.Query) ([]*domain.Reservation, <-chan []*domain.Reservation, func(), error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
