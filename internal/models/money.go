package models

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount. Arithmetic is exact; rounding to cents
// happens only when formatting.
type Money struct {
	d decimal.Decimal
}

// NewMoney parses a decimal string such as "120.00".
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{d: d}, nil
}

// MustMoney is NewMoney for constants; it panics on malformed input.
func MustMoney(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }

// Times multiplies the amount by a quantity.
func (m Money) Times(qty int) Money { return Money{d: m.d.Mul(decimal.NewFromInt(int64(qty)))} }

func (m Money) IsZero() bool { return m.d.IsZero() }

func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

func (m Money) Decimal() decimal.Decimal { return m.d }

// String formats the amount with two decimals, e.g. "920.00".
func (m Money) String() string { return m.d.StringFixed(2) }

// Display formats the amount for the UI, e.g. "$920.00".
func (m Money) Display() string { return "$" + m.String() }

// MarshalJSON writes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		m.d = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", b, err)
	}
	m.d = d
	return nil
}
