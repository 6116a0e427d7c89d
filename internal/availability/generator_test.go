package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

func TestGenerate_SpacingAndBoundary(t *testing.T) {
	date := monday()
	ranges := []domain.TimeRange{{Start: "09:00", End: "17:00"}}

	slots := Generate(date, ranges, 30, 15, time.UTC)
	require.NotEmpty(t, slots)

	// Первый слот в начале интервала
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), slots[0])

	// Последний слот: 16:30, потому что 16:30 + 30 мин = 17:00 <= конец,
	// а 16:45 + 30 мин уже вылезает
	assert.Equal(t, time.Date(2025, 6, 2, 16, 30, 0, 0, time.UTC), slots[len(slots)-1])

	// Шаг между соседними слотами ровно 15 минут
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, 15*time.Minute, slots[i].Sub(slots[i-1]))
	}

	// Ни один слот не выходит за конец интервала
	end := time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)
	for _, s := range slots {
		assert.False(t, s.Add(30*time.Minute).After(end))
	}
}

func TestGenerate_DurationLongerThanRange(t *testing.T) {
	slots := Generate(monday(), []domain.TimeRange{{Start: "09:00", End: "09:45"}}, 60, 15, time.UTC)
	assert.Empty(t, slots)
}

func TestGenerate_ExactFit(t *testing.T) {
	slots := Generate(monday(), []domain.TimeRange{{Start: "09:00", End: "10:00"}}, 60, 15, time.UTC)
	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), slots[0])
}

func TestGenerate_MultipleRangesInOrder(t *testing.T) {
	ranges := []domain.TimeRange{
		{Start: "09:00", End: "10:00"},
		{Start: "14:00", End: "15:00"},
	}

	slots := Generate(monday(), ranges, 30, 30, time.UTC)
	require.Len(t, slots, 4)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), slots[0])
	assert.Equal(t, time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC), slots[1])
	assert.Equal(t, time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC), slots[2])
	assert.Equal(t, time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC), slots[3])
}

func TestGenerate_DSTSpacingStaysConstant(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// День весеннего перевода: интервал 01:00-05:00 по настенным часам
	// физически длится 3 часа, слотов меньше, но шаг в абсолютном времени
	// остается ровным
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	slots := Generate(date, []domain.TimeRange{{Start: "01:00", End: "05:00"}}, 30, 30, loc)

	require.NotEmpty(t, slots)
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, 30*time.Minute, slots[i].Sub(slots[i-1]))
	}

	// 01:00 EST = 06:00 UTC, 05:00 EDT = 09:00 UTC: всего 3 часа -> 6 слотов
	assert.Len(t, slots, 6)
}

func TestGenerate_NonPositiveInputs(t *testing.T) {
	ranges := []domain.TimeRange{{Start: "09:00", End: "17:00"}}

	assert.Empty(t, Generate(monday(), ranges, 0, 15, time.UTC))
	assert.Empty(t, Generate(monday(), ranges, 30, 0, time.UTC))
}
