package rateconfig

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(configType, key, value string, effective time.Time, expiry *time.Time) RateConfiguration {
	return RateConfiguration{
		ConfigType:    configType,
		ConfigKey:     key,
		Value:         decimal.RequireFromString(value),
		EffectiveDate: effective,
		ExpiryDate:    expiry,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestActiveOn_WindowIsHalfOpen(t *testing.T) {
	t.Parallel()
	expiry := date(2025, time.July, 1)
	r := row(TypePremiumMultiplier, KeyOvertime, "1.25", date(2025, time.January, 1), &expiry)

	assert.False(t, r.ActiveOn(date(2024, time.December, 31)))
	assert.True(t, r.ActiveOn(date(2025, time.January, 1)))
	assert.True(t, r.ActiveOn(date(2025, time.June, 30)))
	// The expiry date itself is outside the window.
	assert.False(t, r.ActiveOn(date(2025, time.July, 1)))
}

func TestResolveAsOf_LatestEffectiveWins(t *testing.T) {
	t.Parallel()
	history := []RateConfiguration{
		row(TypePremiumMultiplier, KeyOvertime, "1.25", date(2024, time.January, 1), nil),
		row(TypePremiumMultiplier, KeyOvertime, "1.30", date(2025, time.January, 1), nil),
		row(TypePremiumMultiplier, KeyOvertime, "1.35", date(2026, time.January, 1), nil),
	}

	resolved, found := ResolveAsOf(history, date(2025, time.June, 15))
	require.True(t, found)
	assert.Equal(t, "1.3", resolved.Value.String())

	// Before any row takes effect nothing resolves.
	_, found = ResolveAsOf(history, date(2023, time.June, 15))
	assert.False(t, found)
}

func TestBuildSnapshot_ResolvesEverySeries(t *testing.T) {
	t.Parallel()
	expired := date(2025, time.January, 1)
	rows := []RateConfiguration{
		row(TypePremiumMultiplier, KeyOvertime, "1.20", date(2024, time.January, 1), &expired),
		row(TypePremiumMultiplier, KeyOvertime, "1.25", date(2025, time.January, 1), nil),
		row(TypeWorkSchedule, KeyStandardDailyHours, "8", date(2024, time.January, 1), nil),
	}

	snap := BuildSnapshot(rows, date(2025, time.March, 1))

	overtime, err := snap.Value(TypePremiumMultiplier, KeyOvertime)
	require.NoError(t, err)
	assert.Equal(t, "1.25", overtime.String())

	hours, err := snap.Value(TypeWorkSchedule, KeyStandardDailyHours)
	require.NoError(t, err)
	assert.Equal(t, "8", hours.String())
}

func TestSnapshot_MissingKeyIsTypedError(t *testing.T) {
	t.Parallel()
	snap := BuildSnapshot(nil, date(2025, time.March, 1))

	_, err := snap.Value(TypeSSS, KeySSSMSCFloor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigurationMissing)

	var missing *MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, TypeSSS, missing.ConfigType)
	assert.Equal(t, KeySSSMSCFloor, missing.ConfigKey)
	assert.True(t, missing.AsOf.Equal(date(2025, time.March, 1)))
}

func TestSnapshot_KeysAreSorted(t *testing.T) {
	t.Parallel()
	rows := []RateConfiguration{
		row(TypeTaxBracket, "bracket_02_floor", "10417", date(2024, time.January, 1), nil),
		row(TypeTaxBracket, "bracket_01_floor", "0", date(2024, time.January, 1), nil),
		row(TypeTaxBracket, "bracket_01_rate", "0", date(2024, time.January, 1), nil),
	}

	snap := BuildSnapshot(rows, date(2025, time.March, 1))
	assert.Equal(t, []string{"bracket_01_floor", "bracket_01_rate", "bracket_02_floor"}, snap.Keys(TypeTaxBracket))
}
