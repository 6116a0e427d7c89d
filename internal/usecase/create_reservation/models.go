package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Request модель запроса на создание записи
// Hold = true создает временную бронь с TTL, которую нужно подтвердить;
// иначе запись создается сразу подтвержденной
type Request struct {
	UserID          int64            // ID пользователя
	BusinessID      int64            // ID бизнеса
	ServiceID       *int64           // ID услуги (опционально)
	DurationMinutes *int             // Явная длительность в минутах (опционально)
	Date            time.Time        // Дата записи (без времени)
	StartTime       types.TimeString // Настенное время начала в зоне бизнеса
	Hold            bool             // Создать hold вместо подтвержденной записи
	Notes           *string          // Комментарий пользователя (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64      `json:"id"`
	BusinessID      int64      `json:"businessId"`
	UserID          int64      `json:"userId"`
	ServiceID       *int64     `json:"serviceId,omitempty"`
	ServiceName     *string    `json:"serviceName,omitempty"`
	Date            string     `json:"date"`
	StartAt         time.Time  `json:"startAt"`
	EndAt           time.Time  `json:"endAt"`
	DurationMinutes int        `json:"durationMinutes"`
	Status          string     `json:"status"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}
