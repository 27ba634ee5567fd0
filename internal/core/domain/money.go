package domain

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits used when formatting amounts.
const MoneyScale = 2

// LedgerCurrency is the ISO code every ledger amount is expressed in.
const LedgerCurrency = money.INR

// Money is an exact decimal amount in LedgerCurrency. The zero value is zero.
type Money struct {
	value decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money { return Money{value: d} }
func MoneyFromInt(v int64) Money       { return Money{value: decimal.NewFromInt(v)} }
func ZeroMoney() Money                 { return Money{} }

// MoneyFromString parses a decimal string such as "1250.50".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: d}, nil
}

func (m Money) Decimal() decimal.Decimal     { return m.value }
func (m Money) Add(n Money) Money            { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money            { return Money{value: m.value.Sub(n.value)} }
func (m Money) MulQuantity(q Quantity) Money { return Money{value: m.value.Mul(q.value)} }
func (m Money) Neg() Money                   { return Money{value: m.value.Neg()} }
func (m Money) Abs() Money                   { return Money{value: m.value.Abs()} }
func (m Money) Cmp(n Money) int              { return m.value.Cmp(n.value) }
func (m Money) Equal(n Money) bool           { return m.value.Equal(n.value) }
func (m Money) LessThan(n Money) bool        { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool     { return m.value.GreaterThan(n.value) }
func (m Money) IsZero() bool                 { return m.value.IsZero() }
func (m Money) IsPositive() bool             { return m.value.IsPositive() }
func (m Money) IsNegative() bool             { return m.value.IsNegative() }

// Min returns the smaller of m and n.
func (m Money) Min(n Money) Money {
	if n.value.LessThan(m.value) {
		return n
	}
	return m
}

// String formats the amount with MoneyScale fractional digits, rounding half away from zero.
func (m Money) String() string {
	return m.value.StringFixed(MoneyScale)
}

// Display formats the amount for people, with the currency symbol and thousands separators.
func (m Money) Display() string {
	cur := *money.New(0, LedgerCurrency).Currency()
	minor := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// MarshalJSON emits the amount as a fixed-scale string so clients never parse floats.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted and bare decimal literals.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	m.value = d
	return nil
}

// SumMoney adds amounts exactly.
func SumMoney(amounts ...Money) Money {
	total := ZeroMoney()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Quantity is an exact decimal count of delivered units.
type Quantity struct {
	value decimal.Decimal
}

func NewQuantity(d decimal.Decimal) Quantity { return Quantity{value: d} }
func QuantityFromInt(v int64) Quantity       { return Quantity{value: decimal.NewFromInt(v)} }
func (q Quantity) Decimal() decimal.Decimal  { return q.value }
func (q Quantity) Add(o Quantity) Quantity   { return Quantity{value: q.value.Add(o.value)} }
func (q Quantity) IsPositive() bool          { return q.value.IsPositive() }
func (q Quantity) IsZero() bool              { return q.value.IsZero() }
func (q Quantity) Equal(o Quantity) bool     { return q.value.Equal(o.value) }
func (q Quantity) String() string            { return q.value.String() }

func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + q.value.String() + `"`), nil
}

// QuantityFromString parses a decimal quantity.
func QuantityFromString(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	return Quantity{value: d}, nil
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid quantity: %w", err)
	}
	q.value = d
	return nil
}
