// Package brl renders decimal amounts as Brazilian real.
package brl

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const Code = money.BRL

// New converts a decimal amount in reais to a go-money value in centavos,
// rounding half away from zero.
func New(amount decimal.Decimal) *money.Money {
	cur := money.GetCurrency(Code)
	return money.New(amount.Shift(int32(cur.Fraction)).Round(0).IntPart(), Code)
}

// Format renders amount in the BRL display format, e.g. R$1.234,56.
func Format(amount decimal.Decimal) string {
	return New(amount).Display()
}
