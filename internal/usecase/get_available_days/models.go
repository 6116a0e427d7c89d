package get_available_days

import "time"

// Request модель запроса на многодневный поиск доступности
type Request struct {
	BusinessID      int64     // ID бизнеса
	ServiceID       *int64    // ID услуги (опционально)
	DurationMinutes *int      // Явная длительность в минутах (опционально)
	From            time.Time // Первый день горизонта поиска
	Days            int       // Количество дней (0 = дефолтный горизонт)
}

// Response модель ответа с доступностью по дням
type Response struct {
	BusinessID      int64  `json:"businessId"`
	Timezone        string `json:"timezone"`
	DurationMinutes int    `json:"durationMinutes"`
	Days            []Day  `json:"days"`
}

// Day доступные слоты на один день горизонта
// Дни без слотов присутствуют в ответе с пустым списком - клиент видит
// весь горизонт, а не только открытые дни
type Day struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"` // ISO-8601 UTC инстанты начала
}
