package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// TimeRange represents a half-open wall-clock range [Start, End)
type TimeRange struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// IsValid returns true if both endpoints parse and Start < End
func (r TimeRange) IsValid() bool {
	return r.Start.IsValid() && r.End.IsValid() && r.Start.IsBefore(r.End)
}

// WeeklySchedule maps each weekday to its ordered open ranges.
// An empty (or nil) slice means the business is closed that weekday.
type WeeklySchedule struct {
	Monday    []TimeRange `json:"mon"`
	Tuesday   []TimeRange `json:"tue"`
	Wednesday []TimeRange `json:"wed"`
	Thursday  []TimeRange `json:"thu"`
	Friday    []TimeRange `json:"fri"`
	Saturday  []TimeRange `json:"sat"`
	Sunday    []TimeRange `json:"sun"`
}

// RangesFor returns the open ranges for the given weekday
func (w WeeklySchedule) RangesFor(day time.Weekday) []TimeRange {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return nil
	}
}

// Closure marks a calendar date as fully closed, overriding everything else
type Closure struct {
	Date   time.Time `json:"date"`
	Reason *string   `json:"reason,omitempty"`
}

// SpecialHours overrides the weekly schedule for a single date
// (unless a Closure exists for the same date - Closure wins)
type SpecialHours struct {
	Date   time.Time   `json:"date"`
	Ranges []TimeRange `json:"ranges"`
	Reason *string     `json:"reason,omitempty"`
}

// BusinessCalendar is the full operating calendar of a business
type BusinessCalendar struct {
	ID                  int64
	BusinessID          int64
	Timezone            string // IANA zone name, e.g. "Europe/Moscow"
	SlotIntervalMinutes int
	WeeklySchedule      WeeklySchedule
	Closures            []Closure
	SpecialHours        []SpecialHours
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EffectiveSlotInterval returns the configured step clamped to the minimum
func (c *BusinessCalendar) EffectiveSlotInterval() int {
	if c.SlotIntervalMinutes < MinSlotIntervalMinutes {
		return MinSlotIntervalMinutes
	}
	return c.SlotIntervalMinutes
}

// SameDate compares calendar dates ignoring the time-of-day part
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
