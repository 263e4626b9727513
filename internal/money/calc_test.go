package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBaseLumpsum(t *testing.T) {
	got := Base(true, 10, decimal.Zero, dec("100"))
	require.True(t, got.Equal(dec("1000.00")), "got %s", got)
}

func TestBaseWeight(t *testing.T) {
	got := Base(false, 0, dec("100"), dec("200"))
	require.True(t, got.Equal(dec("1000.00")), "got %s", got)
}

func TestBaseZeroRate(t *testing.T) {
	require.True(t, Base(true, 10, decimal.Zero, decimal.Zero).IsZero())
	require.True(t, Base(false, 0, dec("55.5"), decimal.Zero).IsZero())
}

func TestBaseTwoStageRounding(t *testing.T) {
	// 12.345 * 7.77 / 20 = 4.79605... -> 4.796053 at 6 places -> 4.80
	got := Base(false, 0, dec("12.345"), dec("7.77"))
	want := dec("12.345").Mul(dec("7.77")).DivRound(decimal.NewFromInt(20), 6).Round(2)
	require.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestFeeWorkedExamples(t *testing.T) {
	base := dec("1000")
	require.True(t, Fee(base, dec("0.70")).Equal(dec("7.00")))
	require.True(t, Fee(base, dec("2.00")).Equal(dec("20.00")))
}

func TestFeeZeroInputs(t *testing.T) {
	require.True(t, Fee(decimal.Zero, dec("2")).IsZero())
	require.True(t, Fee(dec("1000"), decimal.Zero).IsZero())
}

func TestFeeLinearInPercent(t *testing.T) {
	base := dec("1536.50")
	for _, pct := range []string{"0.5", "1.25", "2", "3.15"} {
		p := dec(pct)
		single := Fee(base, p)
		double := Fee(base, p.Mul(decimal.NewFromInt(2)))
		diff := double.Sub(single.Mul(decimal.NewFromInt(2))).Abs()
		require.True(t, diff.LessThanOrEqual(dec("0.01")), "pct=%s diff=%s", pct, diff)
	}
}

func TestGrandTotalScenario(t *testing.T) {
	base := Base(true, 10, decimal.Zero, dec("100"))
	market := Fee(base, dec("0.70"))
	commission := Fee(base, dec("2.00"))
	total := GrandTotal(base, market, commission)

	require.True(t, base.Equal(dec("1000.00")))
	require.True(t, market.Equal(dec("7.00")))
	require.True(t, commission.Equal(dec("20.00")))
	require.True(t, total.Equal(dec("1027.00")), "got %s", total)
}

func TestParseAmount(t *testing.T) {
	require.True(t, ParseAmount("1,027.50").Equal(dec("1027.50")))
	require.True(t, ParseAmount("  42 ").Equal(dec("42")))
	require.True(t, ParseAmount("").IsZero())
	require.True(t, ParseAmount("abc").IsZero())
	require.True(t, ParseAmount("12.3.4").IsZero())
}

func TestParseCount(t *testing.T) {
	require.EqualValues(t, 10, ParseCount("10"))
	require.EqualValues(t, 0, ParseCount("ten"))
	require.EqualValues(t, 0, ParseCount(""))
}
