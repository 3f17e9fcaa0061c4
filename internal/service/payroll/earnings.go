package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/attendance"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/employee"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/payroll"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/rateconfig"
)

// HourlyRate derives the employee's effective hourly rate from their rate
// basis and the standard schedule in the configuration snapshot.
func HourlyRate(emp employee.Employee, snap rateconfig.Snapshot) (decimal.Decimal, error) {
	if emp.Rate.IsZero() {
		return decimal.Zero, employee.ErrNoRateConfigured
	}

	switch emp.RateType {
	case employee.RateTypeHourly:
		return emp.Rate, nil
	case employee.RateTypeDaily:
		dailyHours, err := snap.Value(rateconfig.TypeWorkSchedule, rateconfig.KeyStandardDailyHours)
		if err != nil {
			return decimal.Zero, err
		}
		return emp.Rate.Div(dailyHours), nil
	case employee.RateTypeMonthly:
		dailyHours, err := snap.Value(rateconfig.TypeWorkSchedule, rateconfig.KeyStandardDailyHours)
		if err != nil {
			return decimal.Zero, err
		}
		monthlyDays, err := snap.Value(rateconfig.TypeWorkSchedule, rateconfig.KeyStandardMonthlyDays)
		if err != nil {
			return decimal.Zero, err
		}
		return emp.Rate.Div(monthlyDays.Mul(dailyHours)), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", payroll.ErrUnknownRateType, emp.RateType)
	}
}

// ComputeEarnings turns the period aggregate into an itemized gross-pay
// breakdown. Every multiplier comes from the snapshot; combined conditions
// multiply their combined base by the overtime multiplier rather than summing
// flat percentages, and each hour bucket is paid exactly once.
func ComputeEarnings(agg attendance.Aggregate, emp employee.Employee, snap rateconfig.Snapshot) (payroll.EarningsBreakdown, error) {
	hourlyRate, err := HourlyRate(emp, snap)
	if err != nil {
		return payroll.EarningsBreakdown{}, err
	}

	multiplier := func(key string) (decimal.Decimal, error) {
		return snap.Value(rateconfig.TypePremiumMultiplier, key)
	}

	var breakdown payroll.EarningsBreakdown
	addLine := func(category attendance.HourCategory, hours float64, m decimal.Decimal) {
		if hours <= 0 {
			return
		}
		h := decimal.NewFromFloat(hours)
		amount := h.Mul(hourlyRate).Mul(m)
		breakdown.Lines = append(breakdown.Lines, payroll.EarningsLine{
			Category:   category,
			Hours:      h,
			HourlyRate: hourlyRate,
			Multiplier: m,
			Amount:     amount,
		})
	}

	// Base-condition buckets: hours at the condition's multiplier.
	addLine(attendance.CategoryRegular, agg.RegularHours, decimal.NewFromInt(1))

	restDay, err := multiplierIfNeeded(agg.RestDayHours+agg.OvertimeRestDayHours, multiplier, rateconfig.KeyRestDay)
	if err != nil {
		return payroll.EarningsBreakdown{}, err
	}
	addLine(attendance.CategoryRestDay, agg.RestDayHours, restDay)

	specialHoliday, err := multiplierIfNeeded(agg.SpecialHolidayHours+agg.OvertimeSpecialHolidayHours, multiplier, rateconfig.KeySpecialHoliday)
	if err != nil {
		return payroll.EarningsBreakdown{}, err
	}
	addLine(attendance.CategorySpecialHoliday, agg.SpecialHolidayHours, specialHoliday)

	regularHoliday, err := multiplierIfNeeded(agg.RegularHolidayHours+agg.OvertimeRegularHolidayHours, multiplier, rateconfig.KeyRegularHoliday)
	if err != nil {
		return payroll.EarningsBreakdown{}, err
	}
	addLine(attendance.CategoryRegularHoliday, agg.RegularHolidayHours, regularHoliday)

	restDaySpecial, err := multiplierIfNeeded(agg.RestDaySpecialHolidayHours+agg.OvertimeRestDaySpecialHolidayHours, multiplier, rateconfig.KeyRestDaySpecialHoliday)
	if err != nil {
		return payroll.EarningsBreakdown{}, err
	}
	addLine(attendance.CategoryRestDaySpecialHoliday, agg.RestDaySpecialHolidayHours, restDaySpecial)

	restDayRegular, err := multiplierIfNeeded(agg.RestDayRegularHolidayHours+agg.OvertimeRestDayRegularHolidayHours, multiplier, rateconfig.KeyRestDayRegularHoliday)
	if err != nil {
		return payroll.EarningsBreakdown{}, err
	}
	addLine(attendance.CategoryRestDayRegularHoliday, agg.RestDayRegularHolidayHours, restDayRegular)

	// Overtime buckets: the condition's (possibly combined) multiplier is the
	// base, and the overtime multiplier applies on top of it.
	anyOvertime := agg.OvertimeHours + agg.OvertimeRestDayHours + agg.OvertimeSpecialHolidayHours +
		agg.OvertimeRegularHolidayHours + agg.OvertimeRestDaySpecialHolidayHours + agg.OvertimeRestDayRegularHolidayHours
	overtime, err := multiplierIfNeeded(anyOvertime, multiplier, rateconfig.KeyOvertime)
	if err != nil {
		return payroll.EarningsBreakdown{}, err
	}

	addLine(attendance.CategoryOvertime, agg.OvertimeHours, overtime)
	addLine(attendance.CategoryOvertimeRestDay, agg.OvertimeRestDayHours, restDay.Mul(overtime))
	addLine(attendance.CategoryOvertimeSpecialHoliday, agg.OvertimeSpecialHolidayHours, specialHoliday.Mul(overtime))
	addLine(attendance.CategoryOvertimeRegularHoliday, agg.OvertimeRegularHolidayHours, regularHoliday.Mul(overtime))
	addLine(attendance.CategoryOvertimeRestDaySpecialHoliday, agg.OvertimeRestDaySpecialHolidayHours, restDaySpecial.Mul(overtime))
	addLine(attendance.CategoryOvertimeRestDayRegularHoliday, agg.OvertimeRestDayRegularHolidayHours, restDayRegular.Mul(overtime))

	// Night differential stacks on top of hours already paid in their own
	// bucket, so only the premium portion is added here.
	if agg.NightDiffHours > 0 {
		nightDiff, err := multiplier(rateconfig.KeyNightDifferential)
		if err != nil {
			return payroll.EarningsBreakdown{}, err
		}
		premium := nightDiff.Sub(decimal.NewFromInt(1))
		hours := decimal.NewFromFloat(agg.NightDiffHours)
		breakdown.Lines = append(breakdown.Lines, payroll.EarningsLine{
			Category:   attendance.CategoryNightDifferential,
			Hours:      hours,
			HourlyRate: hourlyRate,
			Multiplier: premium,
			Amount:     hours.Mul(hourlyRate).Mul(premium),
		})
	}

	// Day-based pay: unworked regular holidays and paid leave.
	dailyHours, err := snap.Value(rateconfig.TypeWorkSchedule, rateconfig.KeyStandardDailyHours)
	if err != nil {
		return payroll.EarningsBreakdown{}, err
	}
	if agg.RegularHolidayUnworkedDays > 0 {
		unworked, err := multiplier(rateconfig.KeyRegularHolidayUnworked)
		if err != nil {
			return payroll.EarningsBreakdown{}, err
		}
		hours := decimal.NewFromInt(int64(agg.RegularHolidayUnworkedDays)).Mul(dailyHours)
		breakdown.Lines = append(breakdown.Lines, payroll.EarningsLine{
			Category:   attendance.CategoryRegularHolidayUnwkday,
			Hours:      hours,
			HourlyRate: hourlyRate,
			Multiplier: unworked,
			Amount:     hours.Mul(hourlyRate).Mul(unworked),
		})
	}
	if agg.DaysPaidLeave > 0 {
		hours := decimal.NewFromInt(int64(agg.DaysPaidLeave)).Mul(dailyHours)
		breakdown.Lines = append(breakdown.Lines, payroll.EarningsLine{
			Category:   attendance.CategoryPaidLeave,
			Hours:      hours,
			HourlyRate: hourlyRate,
			Multiplier: decimal.NewFromInt(1),
			Amount:     hours.Mul(hourlyRate),
		})
	}

	gross := decimal.Zero
	for _, line := range breakdown.Lines {
		gross = gross.Add(line.Amount)
	}
	breakdown.Gross = gross

	return breakdown, nil
}

// multiplierIfNeeded resolves a multiplier only when hours exist for it, so a
// run with no holiday work does not fail on a missing holiday multiplier.
func multiplierIfNeeded(hours float64, lookup func(string) (decimal.Decimal, error), key string) (decimal.Decimal, error) {
	if hours <= 0 {
		return decimal.Zero, nil
	}
	return lookup(key)
}
