package rateconfig

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Config types known to the calculation engines. The store itself is generic;
// these constants name the tables the payroll pipeline depends on.
const (
	TypePremiumMultiplier = "premium_multiplier"
	TypeWorkSchedule      = "work_schedule"
	TypeSSS               = "sss"
	TypePhilHealth        = "philhealth"
	TypePagIBIG           = "pagibig"
	TypeTaxBracket        = "tax_bracket"
)

// Premium multiplier keys.
const (
	KeyOvertime               = "overtime"
	KeyNightDifferential      = "night_differential"
	KeyRestDay                = "rest_day"
	KeySpecialHoliday         = "special_holiday"
	KeyRegularHoliday         = "regular_holiday"
	KeyRegularHolidayUnworked = "regular_holiday_unworked"
	KeyRestDayRegularHoliday  = "rest_day_regular_holiday"
	KeyRestDaySpecialHoliday  = "rest_day_special_holiday"
)

// Work schedule keys.
const (
	KeyStandardDailyHours  = "standard_daily_hours"
	KeyStandardMonthlyDays = "standard_monthly_days"
)

// Statutory contribution keys. SSS contributions are computed from the
// monthly salary credit table parameters rather than a full bracket list.
const (
	KeySSSMSCFloor     = "msc_floor"
	KeySSSMSCCeiling   = "msc_ceiling"
	KeySSSMSCStep      = "msc_step"
	KeySSSEmployeeRate = "employee_rate"

	KeyPhilHealthPremiumRate   = "premium_rate"
	KeyPhilHealthEmployeeShare = "employee_share"
	KeyPhilHealthSalaryFloor   = "salary_floor"
	KeyPhilHealthSalaryCeiling = "salary_ceiling"

	KeyPagIBIGEmployeeRate    = "employee_rate"
	KeyPagIBIGCompensationCap = "compensation_cap"
)

// Tax bracket rows are stored as three scalar keys per bracket, suffixed with
// a zero-padded ordinal so Snapshot.Keys returns them in ascending order:
// bracket_01_floor, bracket_01_rate, bracket_01_base, bracket_02_floor, ...
const (
	TaxBracketFloorSuffix = "_floor"
	TaxBracketRateSuffix  = "_rate"
	TaxBracketBaseSuffix  = "_base"
)

// RateConfiguration is one effective-dated scalar value. Rows sharing a
// type/key form a history of non-overlapping windows.
type RateConfiguration struct {
	ID            string
	ConfigType    string
	ConfigKey     string
	Value         decimal.Decimal
	EffectiveDate time.Time
	ExpiryDate    *time.Time
	Description   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ActiveOn reports whether asOf falls inside the row's effective window.
// The window is [EffectiveDate, ExpiryDate); a nil expiry is open-ended.
func (c RateConfiguration) ActiveOn(asOf time.Time) bool {
	if asOf.Before(c.EffectiveDate) {
		return false
	}
	if c.ExpiryDate != nil && !asOf.Before(*c.ExpiryDate) {
		return false
	}
	return true
}

// ResolveAsOf picks the single row in force on asOf: the active row with the
// latest effective date. This is the one as-of rule every consumer shares.
func ResolveAsOf(rows []RateConfiguration, asOf time.Time) (RateConfiguration, bool) {
	var best RateConfiguration
	found := false
	for _, row := range rows {
		if !row.ActiveOn(asOf) {
			continue
		}
		if !found || row.EffectiveDate.After(best.EffectiveDate) {
			best = row
			found = true
		}
	}
	return best, found
}

// Snapshot is the configuration in force on a single date, resolved once per
// payroll run and shared by the earnings and statutory engines.
type Snapshot struct {
	AsOf   time.Time
	values map[string]map[string]RateConfiguration
}

// BuildSnapshot resolves every type/key series in rows as of the given date.
// Keys with no active row are simply absent from the snapshot; consumers get
// a MissingError when they ask for them.
func BuildSnapshot(rows []RateConfiguration, asOf time.Time) Snapshot {
	series := make(map[string]map[string][]RateConfiguration)
	for _, row := range rows {
		if series[row.ConfigType] == nil {
			series[row.ConfigType] = make(map[string][]RateConfiguration)
		}
		series[row.ConfigType][row.ConfigKey] = append(series[row.ConfigType][row.ConfigKey], row)
	}

	snap := Snapshot{AsOf: asOf, values: make(map[string]map[string]RateConfiguration)}
	for configType, keys := range series {
		for key, history := range keys {
			resolved, ok := ResolveAsOf(history, asOf)
			if !ok {
				continue
			}
			if snap.values[configType] == nil {
				snap.values[configType] = make(map[string]RateConfiguration)
			}
			snap.values[configType][key] = resolved
		}
	}
	return snap
}

// Value returns the resolved scalar for a type/key, or a MissingError.
func (s Snapshot) Value(configType, configKey string) (decimal.Decimal, error) {
	if keys, ok := s.values[configType]; ok {
		if row, ok := keys[configKey]; ok {
			return row.Value, nil
		}
	}
	return decimal.Zero, &MissingError{ConfigType: configType, ConfigKey: configKey, AsOf: s.AsOf}
}

// Keys returns the sorted keys present for a config type. Bracket tables are
// stored as ordered keys within one type, so sorted order is bracket order.
func (s Snapshot) Keys(configType string) []string {
	keys := make([]string, 0, len(s.values[configType]))
	for key := range s.values[configType] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
