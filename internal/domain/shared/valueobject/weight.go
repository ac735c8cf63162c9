package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// WeightUnit is a unit of mass with its factor to kilograms
type WeightUnit string

const (
	Gram     WeightUnit = "g"
	Kilogram WeightUnit = "kg"
	Pound    WeightUnit = "lb"
)

var weightUnitFactors = map[WeightUnit]decimal.Decimal{
	Gram:     decimal.RequireFromString("0.001"),
	Kilogram: decimal.NewFromInt(1),
	Pound:    decimal.RequireFromString("0.45359237"),
}

// Weight is a non-negative mass stored in kilograms
type Weight struct {
	kg decimal.Decimal
}

// NewWeight creates a Weight in the given unit
func NewWeight(value decimal.Decimal, unit WeightUnit) (Weight, error) {
	factor, ok := weightUnitFactors[unit]
	if !ok {
		return Weight{}, fmt.Errorf("unknown weight unit %q", unit)
	}
	if value.IsNegative() {
		return Weight{}, fmt.Errorf("weight cannot be negative: %s", value)
	}
	return Weight{kg: value.Mul(factor)}, nil
}

// Kilograms creates a Weight from a kilogram amount, clamping negatives to zero
func Kilograms(kg decimal.Decimal) Weight {
	if kg.IsNegative() {
		return Weight{kg: decimal.Zero}
	}
	return Weight{kg: kg}
}

// ParseWeight parses values like "250g", "1.5 kg" or "3". A bare number is kilograms.
func ParseWeight(s string) (Weight, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Weight{}, fmt.Errorf("weight cannot be empty")
	}
	unit := Kilogram
	for _, u := range []WeightUnit{Kilogram, Gram, Pound} {
		if strings.HasSuffix(s, string(u)) {
			unit = u
			s = strings.TrimSpace(strings.TrimSuffix(s, string(u)))
			break
		}
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return Weight{}, fmt.Errorf("invalid weight %q: %w", s, err)
	}
	return NewWeight(value, unit)
}

// Kg returns the weight in kilograms
func (w Weight) Kg() decimal.Decimal {
	return w.kg
}

// In returns the weight expressed in the given unit
func (w Weight) In(unit WeightUnit) decimal.Decimal {
	factor, ok := weightUnitFactors[unit]
	if !ok {
		return w.kg
	}
	return w.kg.Div(factor)
}

// IsZero returns true for an empty weight
func (w Weight) IsZero() bool {
	return w.kg.IsZero()
}

// Add returns the combined weight
func (w Weight) Add(other Weight) Weight {
	return Weight{kg: w.kg.Add(other.kg)}
}

// Times returns the weight of n items
func (w Weight) Times(n decimal.Decimal) Weight {
	return Kilograms(w.kg.Mul(n))
}

// Cmp compares two weights
func (w Weight) Cmp(other Weight) int {
	return w.kg.Cmp(other.kg)
}

// String returns the weight in kilograms
func (w Weight) String() string {
	return w.kg.String() + " kg"
}

// MarshalJSON encodes the weight as a kilogram decimal string
func (w Weight) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.kg.String())
}

// UnmarshalJSON accepts a number of kilograms or a string with a unit suffix
func (w *Weight) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n json.Number
		if err2 := json.Unmarshal(data, &n); err2 != nil {
			return fmt.Errorf("invalid weight: %w", err)
		}
		s = n.String()
	}
	parsed, err := ParseWeight(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// Value implements driver.Valuer
func (w Weight) Value() (driver.Value, error) {
	return w.kg.String(), nil
}

// Scan implements sql.Scanner
func (w *Weight) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("cannot scan weight: %w", err)
	}
	*w = Kilograms(d)
	return nil
}
