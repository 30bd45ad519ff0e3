package currency

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatPrice(1234.5, "USD"))
	assert.Equal(t, "$0.99", FormatPrice(0.99, "USD"))
	// JPY has no fraction digits
	assert.Equal(t, "¥1,235", FormatPrice(1234.6, "JPY"))
}

func TestFormatPriceUnknownCodeFallsBackToUSD(t *testing.T) {
	assert.Equal(t, "$5.00", FormatPrice(5, "NOPE"))
	assert.Equal(t, "$5.00", FormatPrice(5, ""))
}

func TestFormatChange(t *testing.T) {
	assert.Equal(t, "+$12.34", FormatChange(12.34, "USD"))
	assert.Equal(t, "-$12.34", FormatChange(-12.34, "USD"))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+1.23%", FormatPercent(1.234))
	assert.Equal(t, "-4.50%", FormatPercent(-4.5))
	assert.Equal(t, "0.00%", FormatPercent(0))
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "$1.2K", FormatCompact(1200, "USD"))
	assert.Equal(t, "$3.4M", FormatCompact(3_400_000, "USD"))
	assert.Equal(t, "$5.6B", FormatCompact(5_600_000_000, "USD"))
	assert.Equal(t, "$7.8T", FormatCompact(7_800_000_000_000, "USD"))
	assert.Equal(t, "-$1.5M", FormatCompact(-1_500_000, "USD"))
	// below the compact threshold
	assert.Equal(t, "$999.00", FormatCompact(999, "USD"))
}

func TestParsePriceRoundTrip(t *testing.T) {
	cases := []struct {
		amount float64
		code   string
	}{
		{1234.56, "USD"},
		{0.07, "USD"},
		{98765, "JPY"},
		{1234.5, "EUR"},
	}

	for _, tc := range cases {
		formatted := FormatPrice(tc.amount, tc.code)
		parsed, err := ParsePrice(formatted, tc.code)
		require.NoError(t, err, "parse %q", formatted)

		// equal within the currency's precision
		tolerance := math.Pow(10, -float64(DecimalPlaces(tc.code))) / 2
		assert.InDelta(t, tc.amount, parsed, tolerance+1e-9, "round-trip %q", formatted)
	}
}

func TestParsePriceRejectsGarbage(t *testing.T) {
	_, err := ParsePrice("not a price", "USD")
	assert.Error(t, err)

	_, err = ParsePrice("", "USD")
	assert.Error(t, err)
}
