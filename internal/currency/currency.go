// Package currency provides display formatting for monetary amounts.
// Formatting rules (symbol, separators, decimal places) come from the
// go-money currency table, so JPY renders with 0 decimals and USD with 2.
package currency

import (
	"fmt"
	"math"
	"strings"

	money "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCode is used when a caller passes an empty currency code.
const DefaultCode = "USD"

func resolve(code string) *money.Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCode
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		cur = money.GetCurrency(DefaultCode)
	}
	return cur
}

// DecimalPlaces returns the number of fraction digits for a currency code.
func DecimalPlaces(code string) int {
	return resolve(code).Fraction
}

// FormatPrice renders an amount in the currency's display format,
// e.g. FormatPrice(1234.5, "USD") == "$1,234.50".
func FormatPrice(amount float64, code string) string {
	cur := resolve(code)
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// FormatChange renders a signed amount, prefixing gains with "+".
func FormatChange(amount float64, code string) string {
	s := FormatPrice(amount, code)
	if amount > 0 {
		return "+" + s
	}
	return s
}

// FormatPercent renders a signed percentage with two decimals.
func FormatPercent(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatCompact renders large amounts in compact notation (1.2K, 3.4M, 5.6B,
// 7.8T) with the currency symbol. Amounts under 1000 fall back to FormatPrice.
func FormatCompact(amount float64, code string) string {
	cur := resolve(code)
	abs := math.Abs(amount)
	if abs < 1000 {
		return FormatPrice(amount, code)
	}

	suffixes := []struct {
		limit  float64
		suffix string
	}{
		{1e12, "T"},
		{1e9, "B"},
		{1e6, "M"},
		{1e3, "K"},
	}

	for _, s := range suffixes {
		if abs >= s.limit {
			sign := ""
			if amount < 0 {
				sign = "-"
			}
			return fmt.Sprintf("%s%s%.1f%s", sign, cur.Grapheme, abs/s.limit, s.suffix)
		}
	}
	return FormatPrice(amount, code)
}

// ParsePrice is the inverse of FormatPrice: it strips the currency's symbol
// and thousand separators and parses the remaining numeric text. The result
// equals the original amount within the currency's decimal precision.
func ParsePrice(s, code string) (float64, error) {
	cur := resolve(code)

	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, cur.Grapheme, "")
	cleaned = strings.ReplaceAll(cleaned, cur.Thousand, "")
	if cur.Decimal != "" && cur.Decimal != "." {
		cleaned = strings.ReplaceAll(cleaned, cur.Decimal, ".")
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("cannot parse price from %q", s)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("cannot parse price from %q: %w", s, err)
	}
	f, _ := d.Float64()
	return f, nil
}
