package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Currency is an ISO 4217 code
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	SEK Currency = "SEK"
	GBP Currency = "GBP"
)

// DefaultCurrency is used when a shop does not configure one
const DefaultCurrency = EUR

// ParseCurrency validates an ISO 4217 code and returns its canonical form
func ParseCurrency(code string) (Currency, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", fmt.Errorf("invalid currency %q: %w", code, err)
	}
	return Currency(unit.String()), nil
}

// ErrCurrencyMismatch is returned when two amounts in different currencies
// are combined.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is an amount in one currency. The zero value has no currency and
// only adds to other zero values.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// ParseMoney reads a decimal amount such as "12.50"
func ParseMoney(amount string, c Currency) (Money, error) {
	if c == "" {
		return Money{}, errors.New("money needs a currency")
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return Money{amount: d, currency: c}, nil
}

// MustMoney is ParseMoney for literals; it panics on bad input
func MustMoney(amount string, c Currency) Money {
	m, err := ParseMoney(amount, c)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyOf pairs an amount with a currency already known to be valid
func MoneyOf(amount decimal.Decimal, c Currency) Money {
	return Money{amount: amount, currency: c}
}

// Zero is an amount of nothing in currency c
func Zero(c Currency) Money {
	return Money{amount: decimal.Zero, currency: c}
}

// Amount returns the unrounded decimal amount
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the ISO 4217 code of the amount
func (m Money) Currency() Currency { return m.currency }

// IsZero reports whether the amount is zero in any currency
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsPositive reports whether the amount is above zero
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// IsNegative reports whether the amount is below zero
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

func (m Money) with(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: m.currency}
}

func (m Money) combine(other Money, op func(a, b decimal.Decimal) decimal.Decimal) (Money, error) {
	if _, err := m.Compare(other); err != nil {
		return Money{}, err
	}
	return m.with(op(m.amount, other.amount)), nil
}

// Add returns m + other. Both must share a currency.
func (m Money) Add(other Money) (Money, error) {
	return m.combine(other, decimal.Decimal.Add)
}

// Subtract returns m - other. Both must share a currency.
func (m Money) Subtract(other Money) (Money, error) {
	return m.combine(other, decimal.Decimal.Sub)
}

// Multiply scales the amount, e.g. a unit price by a quantity
func (m Money) Multiply(factor decimal.Decimal) Money {
	return m.with(m.amount.Mul(factor))
}

// Divide splits the amount into equal parts, e.g. a line total into a unit price
func (m Money) Divide(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, errors.New("division by zero")
	}
	return m.with(m.amount.Div(divisor)), nil
}

// Negate flips the sign, turning a charge into a discount
func (m Money) Negate() Money {
	return m.with(m.amount.Neg())
}

// Compare returns -1, 0 or +1 as m is below, equal to or above other
func (m Money) Compare(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return m.amount.Cmp(other.amount), nil
}

// LessThan reports m < other, or ErrCurrencyMismatch
func (m Money) LessThan(other Money) (bool, error) {
	c, err := m.Compare(other)
	return c < 0, err
}

// GreaterThan reports m > other, or ErrCurrencyMismatch
func (m Money) GreaterThan(other Money) (bool, error) {
	c, err := m.Compare(other)
	return c > 0, err
}

// GreaterThanOrEqual reports m >= other, or ErrCurrencyMismatch
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	c, err := m.Compare(other)
	return err == nil && c >= 0, err
}

// Equals compares numerically, so 1.0 EUR equals 1.00 EUR
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String formats the amount with two decimals followed by the currency
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + string(m.currency)
}

// moneyJSON keeps the amount a string so no precision is lost in transit
type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

// MarshalJSON writes {"amount": "12.5", "currency": "EUR"}
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.String(), Currency: m.currency})
}

// UnmarshalJSON does not validate the currency; use ParseCurrency on
// external input.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", raw.Amount, err)
	}
	*m = Money{amount: amount, currency: raw.Currency}
	return nil
}

// Sum adds items onto a zero of currency c
func Sum(c Currency, items ...Money) (Money, error) {
	total := Zero(c)
	for _, item := range items {
		var err error
		if total, err = total.Add(item); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}
