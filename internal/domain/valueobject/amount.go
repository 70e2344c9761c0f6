// Package valueobject contains domain value objects for the Store Ledger system.
package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountConvention identifies how a source schema writes monetary values.
// It is a declared normalizer parameter, never auto-detected: the literal
// string "1.234" means 1234 under one convention and 1.234 under the other.
type AmountConvention string

const (
	// ConventionCommaThousands parses "$1,234.56" style amounts
	// (comma groups thousands, period is the decimal separator).
	ConventionCommaThousands AmountConvention = "comma-thousands"
	// ConventionPeriodThousands parses "$ 1.234,56" style amounts
	// (period groups thousands, comma is the decimal separator).
	ConventionPeriodThousands AmountConvention = "period-thousands"
)

// ParseAmount normalizes a raw currency field into a decimal value.
// Currency symbols and whitespace are stripped first; any residual
// non-numeric content is an error rather than a silent zero.
func ParseAmount(raw string, convention AmountConvention) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '$':
			return -1
		case r == ' ' || r == '\t' || r == ' ':
			return -1
		default:
			return r
		}
	}, raw)

	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}

	switch convention {
	case ConventionCommaThousands:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case ConventionPeriodThousands:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	default:
		return decimal.Decimal{}, fmt.Errorf("unknown amount convention %q", convention)
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount %q is not numeric", raw)
	}
	return value, nil
}

// ParseCount normalizes an integer count field (baskets, units, quantity).
// Counts never carry grouping separators in the source files, but a stray
// decimal point with a zero fraction is tolerated ("3.0" counts as 3).
func ParseCount(raw string) (int64, error) {
	value, err := ParseAmount(raw, ConventionCommaThousands)
	if err != nil {
		return 0, err
	}
	if !value.IsInteger() {
		return 0, fmt.Errorf("count %q is not a whole number", raw)
	}
	return value.IntPart(), nil
}
