package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
// Длительность берется либо явно из DurationMinutes, либо из услуги
// по ServiceID; явная длительность имеет приоритет
type Request struct {
	BusinessID      int64     // ID бизнеса
	ServiceID       *int64    // ID услуги (опционально)
	DurationMinutes *int      // Явная длительность в минутах (опционально)
	Date            time.Time // Дата для расчета слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	BusinessID      int64    `json:"businessId"`
	Date            string   `json:"date"`
	Timezone        string   `json:"timezone"`
	DurationMinutes int      `json:"durationMinutes"`
	Slots           []string `json:"slots"` // ISO-8601 UTC инстанты начала
}
