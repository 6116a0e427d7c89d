package domain

// Default configuration values
const (
	DefaultSlotIntervalMinutes = 15
	DefaultHoldTTLMinutes      = 10
	DefaultTimezone            = "UTC"
	DefaultSearchHorizonDays   = 30
)

// Business validation constants
const (
	MinSlotIntervalMinutes = 5
	MaxSlotIntervalMinutes = 480 // 8 hours

	MinDurationMinutes = 5
	MaxDurationMinutes = 480

	MaxSearchHorizonDays = 90

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxReasonLength             = 200
	MaxServiceNameLength        = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
