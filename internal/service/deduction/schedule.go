package deduction

import (
	"time"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/deduction"
)

// NextDeductionDate advances a loan's schedule one installment past current.
//
// Semi-monthly schedules alternate between the 15th and the last day of the
// month. Monthly schedules keep the anchor day, clamped to shorter months.
func NextDeductionDate(current time.Time, frequency deduction.PaymentFrequency) (time.Time, error) {
	switch frequency {
	case deduction.FrequencyWeekly:
		return current.AddDate(0, 0, 7), nil
	case deduction.FrequencyBiWeekly:
		return current.AddDate(0, 0, 14), nil
	case deduction.FrequencySemiMonthly:
		if current.Day() <= 15 {
			return endOfMonth(current), nil
		}
		return time.Date(current.Year(), current.Month()+1, 15, 0, 0, 0, 0, current.Location()), nil
	case deduction.FrequencyMonthly:
		return addMonthClamped(current), nil
	default:
		return time.Time{}, deduction.ErrInvalidFrequency
	}
}

func endOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

// addMonthClamped moves one month forward without the rollover that AddDate
// does for short months (Jan 31 + 1 month must be Feb 28/29, not Mar 2/3).
func addMonthClamped(t time.Time) time.Time {
	year, month, day := t.Year(), t.Month(), t.Day()
	next := time.Date(year, month+1, 1, 0, 0, 0, 0, t.Location())
	lastDay := endOfMonth(next).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(next.Year(), next.Month(), day, 0, 0, 0, 0, t.Location())
}
