package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/rateconfig"
)

// statutorySnapshot uses round numbers so expectations stay readable: SSS
// credits run 4000..30000 in steps of 500 at 4.5%, PhilHealth is 5% split
// evenly between 10000 and 100000, Pag-IBIG is 2% capped at 10000, and the
// bracket table mirrors a semi-monthly progressive schedule.
func statutorySnapshot() rateconfig.Snapshot {
	rows := []rateconfig.RateConfiguration{
		configRow(rateconfig.TypeSSS, rateconfig.KeySSSMSCFloor, "4000"),
		configRow(rateconfig.TypeSSS, rateconfig.KeySSSMSCCeiling, "30000"),
		configRow(rateconfig.TypeSSS, rateconfig.KeySSSMSCStep, "500"),
		configRow(rateconfig.TypeSSS, rateconfig.KeySSSEmployeeRate, "0.045"),

		configRow(rateconfig.TypePhilHealth, rateconfig.KeyPhilHealthPremiumRate, "0.05"),
		configRow(rateconfig.TypePhilHealth, rateconfig.KeyPhilHealthEmployeeShare, "0.5"),
		configRow(rateconfig.TypePhilHealth, rateconfig.KeyPhilHealthSalaryFloor, "10000"),
		configRow(rateconfig.TypePhilHealth, rateconfig.KeyPhilHealthSalaryCeiling, "100000"),

		configRow(rateconfig.TypePagIBIG, rateconfig.KeyPagIBIGEmployeeRate, "0.02"),
		configRow(rateconfig.TypePagIBIG, rateconfig.KeyPagIBIGCompensationCap, "10000"),

		configRow(rateconfig.TypeTaxBracket, "bracket_01_floor", "0"),
		configRow(rateconfig.TypeTaxBracket, "bracket_01_rate", "0"),
		configRow(rateconfig.TypeTaxBracket, "bracket_01_base", "0"),
		configRow(rateconfig.TypeTaxBracket, "bracket_02_floor", "10417"),
		configRow(rateconfig.TypeTaxBracket, "bracket_02_rate", "0.15"),
		configRow(rateconfig.TypeTaxBracket, "bracket_02_base", "0"),
		configRow(rateconfig.TypeTaxBracket, "bracket_03_floor", "16667"),
		configRow(rateconfig.TypeTaxBracket, "bracket_03_rate", "0.20"),
		configRow(rateconfig.TypeTaxBracket, "bracket_03_base", "937.50"),
	}
	return rateconfig.BuildSnapshot(rows, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
}

func TestComputeSSS(t *testing.T) {
	t.Parallel()
	snap := statutorySnapshot()

	tests := []struct {
		name     string
		gross    string
		expected string
	}{
		{name: "below floor clamps up", gross: "3000", expected: "180"},     // 4000 x 0.045
		{name: "above ceiling clamps down", gross: "50000", expected: "1350"}, // 30000 x 0.045
		{name: "rounds to nearest step", gross: "12730", expected: "562.5"},   // 12500 x 0.045
		{name: "rounds up past midpoint", gross: "12770", expected: "585"},    // 13000 x 0.045
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := computeSSS(decimal.RequireFromString(tt.gross), snap)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestComputePhilHealth(t *testing.T) {
	t.Parallel()
	snap := statutorySnapshot()

	tests := []struct {
		name     string
		gross    string
		expected string
	}{
		{name: "within range", gross: "20000", expected: "500"},      // 20000 x 0.05 x 0.5
		{name: "below floor", gross: "5000", expected: "250"},        // 10000 x 0.05 x 0.5
		{name: "above ceiling", gross: "150000", expected: "2500"},   // 100000 x 0.05 x 0.5
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := computePhilHealth(decimal.RequireFromString(tt.gross), snap)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestComputePagIBIG(t *testing.T) {
	t.Parallel()
	snap := statutorySnapshot()

	got, err := computePagIBIG(decimal.RequireFromString("8000"), snap)
	require.NoError(t, err)
	assert.Equal(t, "160", got.String())

	capped, err := computePagIBIG(decimal.RequireFromString("25000"), snap)
	require.NoError(t, err)
	assert.Equal(t, "200", capped.String()) // 10000 cap x 0.02
}

func TestComputeWithholdingTax(t *testing.T) {
	t.Parallel()
	snap := statutorySnapshot()

	tests := []struct {
		name     string
		taxable  string
		expected string
	}{
		{name: "zero taxable owes nothing", taxable: "0", expected: "0"},
		{name: "negative taxable owes nothing", taxable: "-500", expected: "0"},
		{name: "first bracket is exempt", taxable: "10000", expected: "0"},
		{name: "second bracket marginal", taxable: "12417", expected: "300"},   // (12417-10417) x 0.15
		{name: "third bracket uses base", taxable: "20667", expected: "1737.5"}, // 937.50 + 4000 x 0.20
		{name: "exact bracket floor", taxable: "16667", expected: "937.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := computeWithholdingTax(decimal.RequireFromString(tt.taxable), snap)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestComputeStatutory(t *testing.T) {
	t.Parallel()
	snap := statutorySnapshot()

	got, err := ComputeStatutory(decimal.RequireFromString("20000"), snap)
	require.NoError(t, err)

	assert.Equal(t, "900", got.SSS.String())    // MSC 20000 x 0.045
	assert.Equal(t, "500", got.PhilHealth.String())
	assert.Equal(t, "200", got.PagIBIG.String())
	// Taxable = 20000 - 900 - 500 - 200 = 18400; tax = 937.50 + (18400-16667) x 0.20.
	assert.Equal(t, "1284.1", got.WithholdingTax.String())
	assert.Equal(t, "2884.1", got.Total().String())
}

func TestComputeStatutory_MissingConfigFails(t *testing.T) {
	t.Parallel()
	snap := rateconfig.BuildSnapshot(nil, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	_, err := ComputeStatutory(decimal.RequireFromString("20000"), snap)
	assert.ErrorIs(t, err, rateconfig.ErrConfigurationMissing)

	var missing *rateconfig.MissingError
	assert.ErrorAs(t, err, &missing)
}

func TestComputeWithholdingTax_EmptyBracketTableFails(t *testing.T) {
	t.Parallel()
	rows := []rateconfig.RateConfiguration{
		configRow(rateconfig.TypeSSS, rateconfig.KeySSSMSCFloor, "4000"),
	}
	snap := rateconfig.BuildSnapshot(rows, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	_, err := computeWithholdingTax(decimal.RequireFromString("15000"), snap)
	assert.ErrorIs(t, err, rateconfig.ErrConfigurationMissing)
}
