package payroll

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/payroll"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/rateconfig"
)

// taxBracket is one assembled row of the progressive withholding table.
type taxBracket struct {
	Floor decimal.Decimal
	Rate  decimal.Decimal
	Base  decimal.Decimal
}

// ComputeStatutory derives the four mandated employee-share withholdings from
// periodic gross pay. Every parameter comes from the snapshot; a missing key
// fails the computation rather than silently contributing zero.
func ComputeStatutory(gross decimal.Decimal, snap rateconfig.Snapshot) (payroll.StatutoryDeductions, error) {
	sss, err := computeSSS(gross, snap)
	if err != nil {
		return payroll.StatutoryDeductions{}, err
	}
	philHealth, err := computePhilHealth(gross, snap)
	if err != nil {
		return payroll.StatutoryDeductions{}, err
	}
	pagIBIG, err := computePagIBIG(gross, snap)
	if err != nil {
		return payroll.StatutoryDeductions{}, err
	}

	// Withholding tax applies to gross net of the pre-tax contributions.
	taxable := gross.Sub(sss).Sub(philHealth).Sub(pagIBIG)
	tax, err := computeWithholdingTax(taxable, snap)
	if err != nil {
		return payroll.StatutoryDeductions{}, err
	}

	return payroll.StatutoryDeductions{
		SSS:            sss,
		PhilHealth:     philHealth,
		PagIBIG:        pagIBIG,
		WithholdingTax: tax,
	}, nil
}

// computeSSS clamps gross into the monthly salary credit range, rounds the
// credit to the nearest table step, and applies the employee rate.
func computeSSS(gross decimal.Decimal, snap rateconfig.Snapshot) (decimal.Decimal, error) {
	floor, err := snap.Value(rateconfig.TypeSSS, rateconfig.KeySSSMSCFloor)
	if err != nil {
		return decimal.Zero, err
	}
	ceiling, err := snap.Value(rateconfig.TypeSSS, rateconfig.KeySSSMSCCeiling)
	if err != nil {
		return decimal.Zero, err
	}
	step, err := snap.Value(rateconfig.TypeSSS, rateconfig.KeySSSMSCStep)
	if err != nil {
		return decimal.Zero, err
	}
	rate, err := snap.Value(rateconfig.TypeSSS, rateconfig.KeySSSEmployeeRate)
	if err != nil {
		return decimal.Zero, err
	}

	msc := clamp(gross, floor, ceiling)
	if step.IsPositive() {
		msc = clamp(msc.Div(step).Round(0).Mul(step), floor, ceiling)
	}
	return msc.Mul(rate), nil
}

func computePhilHealth(gross decimal.Decimal, snap rateconfig.Snapshot) (decimal.Decimal, error) {
	rate, err := snap.Value(rateconfig.TypePhilHealth, rateconfig.KeyPhilHealthPremiumRate)
	if err != nil {
		return decimal.Zero, err
	}
	share, err := snap.Value(rateconfig.TypePhilHealth, rateconfig.KeyPhilHealthEmployeeShare)
	if err != nil {
		return decimal.Zero, err
	}
	floor, err := snap.Value(rateconfig.TypePhilHealth, rateconfig.KeyPhilHealthSalaryFloor)
	if err != nil {
		return decimal.Zero, err
	}
	ceiling, err := snap.Value(rateconfig.TypePhilHealth, rateconfig.KeyPhilHealthSalaryCeiling)
	if err != nil {
		return decimal.Zero, err
	}

	base := clamp(gross, floor, ceiling)
	return base.Mul(rate).Mul(share), nil
}

func computePagIBIG(gross decimal.Decimal, snap rateconfig.Snapshot) (decimal.Decimal, error) {
	rate, err := snap.Value(rateconfig.TypePagIBIG, rateconfig.KeyPagIBIGEmployeeRate)
	if err != nil {
		return decimal.Zero, err
	}
	cap, err := snap.Value(rateconfig.TypePagIBIG, rateconfig.KeyPagIBIGCompensationCap)
	if err != nil {
		return decimal.Zero, err
	}

	base := gross
	if base.GreaterThan(cap) {
		base = cap
	}
	return base.Mul(rate), nil
}

// computeWithholdingTax walks the assembled bracket table and applies
// base + (taxable - floor) * marginal rate for the highest bracket whose
// floor does not exceed taxable income.
func computeWithholdingTax(taxable decimal.Decimal, snap rateconfig.Snapshot) (decimal.Decimal, error) {
	if !taxable.IsPositive() {
		return decimal.Zero, nil
	}

	brackets, err := assembleTaxBrackets(snap)
	if err != nil {
		return decimal.Zero, err
	}

	tax := decimal.Zero
	for _, b := range brackets {
		if taxable.LessThan(b.Floor) {
			break
		}
		tax = b.Base.Add(taxable.Sub(b.Floor).Mul(b.Rate))
	}
	return tax, nil
}

// assembleTaxBrackets groups the scalar bracket_NN_{floor,rate,base} rows back
// into ordered brackets. A bracket missing any of its three keys is a
// configuration fault.
func assembleTaxBrackets(snap rateconfig.Snapshot) ([]taxBracket, error) {
	keys := snap.Keys(rateconfig.TypeTaxBracket)

	prefixes := make([]string, 0, len(keys)/3)
	seen := make(map[string]bool)
	for _, key := range keys {
		prefix := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(key,
			rateconfig.TaxBracketFloorSuffix), rateconfig.TaxBracketRateSuffix), rateconfig.TaxBracketBaseSuffix)
		if !seen[prefix] {
			seen[prefix] = true
			prefixes = append(prefixes, prefix)
		}
	}
	sort.Strings(prefixes)

	if len(prefixes) == 0 {
		return nil, &rateconfig.MissingError{
			ConfigType: rateconfig.TypeTaxBracket,
			ConfigKey:  "bracket_01" + rateconfig.TaxBracketFloorSuffix,
			AsOf:       snap.AsOf,
		}
	}

	brackets := make([]taxBracket, 0, len(prefixes))
	for _, prefix := range prefixes {
		floor, err := snap.Value(rateconfig.TypeTaxBracket, prefix+rateconfig.TaxBracketFloorSuffix)
		if err != nil {
			return nil, err
		}
		rate, err := snap.Value(rateconfig.TypeTaxBracket, prefix+rateconfig.TaxBracketRateSuffix)
		if err != nil {
			return nil, err
		}
		base, err := snap.Value(rateconfig.TypeTaxBracket, prefix+rateconfig.TaxBracketBaseSuffix)
		if err != nil {
			return nil, err
		}
		brackets = append(brackets, taxBracket{Floor: floor, Rate: rate, Base: base})
	}

	sort.Slice(brackets, func(i, j int) bool { return brackets[i].Floor.LessThan(brackets[j].Floor) })
	return brackets, nil
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
