package deduction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/deduction"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDeductionDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		current   time.Time
		frequency deduction.PaymentFrequency
		expected  time.Time
	}{
		{
			name:      "weekly adds seven days",
			current:   day(2025, time.January, 10),
			frequency: deduction.FrequencyWeekly,
			expected:  day(2025, time.January, 17),
		},
		{
			name:      "bi-weekly adds fourteen days",
			current:   day(2025, time.January, 10),
			frequency: deduction.FrequencyBiWeekly,
			expected:  day(2025, time.January, 24),
		},
		{
			name:      "semi-monthly first half jumps to month end",
			current:   day(2025, time.January, 15),
			frequency: deduction.FrequencySemiMonthly,
			expected:  day(2025, time.January, 31),
		},
		{
			name:      "semi-monthly second half jumps to next 15th",
			current:   day(2025, time.January, 31),
			frequency: deduction.FrequencySemiMonthly,
			expected:  day(2025, time.February, 15),
		},
		{
			name:      "semi-monthly february end",
			current:   day(2025, time.February, 10),
			frequency: deduction.FrequencySemiMonthly,
			expected:  day(2025, time.February, 28),
		},
		{
			name:      "semi-monthly december wraps the year",
			current:   day(2025, time.December, 31),
			frequency: deduction.FrequencySemiMonthly,
			expected:  day(2026, time.January, 15),
		},
		{
			name:      "monthly keeps anchor day",
			current:   day(2025, time.March, 10),
			frequency: deduction.FrequencyMonthly,
			expected:  day(2025, time.April, 10),
		},
		{
			name:      "monthly clamps to short month",
			current:   day(2025, time.January, 31),
			frequency: deduction.FrequencyMonthly,
			expected:  day(2025, time.February, 28),
		},
		{
			name:      "monthly clamps to leap february",
			current:   day(2024, time.January, 31),
			frequency: deduction.FrequencyMonthly,
			expected:  day(2024, time.February, 29),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDeductionDate(tt.current, tt.frequency)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.expected), "got %s, want %s", got, tt.expected)
		})
	}
}

func TestNextDeductionDate_InvalidFrequency(t *testing.T) {
	t.Parallel()
	_, err := NextDeductionDate(day(2025, time.January, 10), "quarterly")
	assert.ErrorIs(t, err, deduction.ErrInvalidFrequency)
}
