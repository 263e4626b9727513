package printing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"1027.00", "One Thousand Twenty Seven Rupees Only"},
		{"0", "Zero Rupees Only"},
		{"1", "One Rupees Only"},
		{"99.99", "Ninety Nine Rupees and Ninety Nine Paise Only"},
		{"1234.56", "One Thousand Two Hundred Thirty Four Rupees and Fifty Six Paise Only"},
		{"100000", "One Lakh Rupees Only"},
		{"150000", "One Lakh Fifty Thousand Rupees Only"},
		{"10000000", "One Crore Rupees Only"},
		{"12345678.90", "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight Rupees and Ninety Paise Only"},
		{"700", "Seven Hundred Rupees Only"},
		{"20", "Twenty Rupees Only"},
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.amount)
		require.NoError(t, err)
		require.Equal(t, tc.want, AmountInWords(d), "amount %s", tc.amount)
	}
}

func TestAmountInWordsRoundsToPaise(t *testing.T) {
	// Half a paise rounds away from zero before spelling.
	d, err := decimal.NewFromString("10.005")
	require.NoError(t, err)
	require.Equal(t, "Ten Rupees and One Paise Only", AmountInWords(d))
}

func TestAmountFiguresIndianGrouping(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"1027", "1,027.00"},
		{"100000", "1,00,000.00"},
		{"12345678.9", "1,23,45,678.90"},
		{"7", "7.00"},
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.amount)
		require.NoError(t, err)
		require.Equal(t, tc.want, AmountFigures(d), "amount %s", tc.amount)
	}
}
