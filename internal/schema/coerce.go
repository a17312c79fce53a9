package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// toDecimal parses any supported numeric representation exactly.
// Booleans are not numbers here even though they convert in some
// languages.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int8:
		return decimal.NewFromInt(int64(n)), true
	case int16:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return fromUint(uint64(n)), true
	case uint8:
		return fromUint(uint64(n)), true
	case uint16:
		return fromUint(uint64(n)), true
	case uint32:
		return fromUint(uint64(n)), true
	case uint64:
		return fromUint(n), true
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case json.Number:
		return fromString(n.String())
	case string:
		return fromString(n)
	default:
		return decimal.Decimal{}, false
	}
}

func fromUint(n uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0)
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, false
	}

	return decimal.NewFromFloat(f), true
}

func fromString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}

	return d, true
}

func toInt64(d decimal.Decimal) (int64, bool) {
	if !d.IsInteger() {
		return 0, false
	}

	bi := d.BigInt()
	if !bi.IsInt64() {
		return 0, false
	}

	return bi.Int64(), true
}

func (c Constraint) checkBounds(d decimal.Decimal) error {
	if c.Gt != nil && d.Cmp(decimal.NewFromFloat(*c.Gt)) <= 0 {
		return fmt.Errorf("value %s must be greater than %s", d, formatBound(*c.Gt))
	}

	if c.Gte != nil && d.Cmp(decimal.NewFromFloat(*c.Gte)) < 0 {
		return fmt.Errorf("value %s must be greater than or equal to %s", d, formatBound(*c.Gte))
	}

	if c.Lt != nil && d.Cmp(decimal.NewFromFloat(*c.Lt)) >= 0 {
		return fmt.Errorf("value %s must be less than %s", d, formatBound(*c.Lt))
	}

	if c.Lte != nil && d.Cmp(decimal.NewFromFloat(*c.Lte)) > 0 {
		return fmt.Errorf("value %s must be less than or equal to %s", d, formatBound(*c.Lte))
	}

	return nil
}
