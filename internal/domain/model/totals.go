package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

const (
	MinDiscountPercent = 0
	MaxDiscountPercent = 50
)

var ErrDiscountOutOfRange = errors.New("discount out of range")

type Totals struct {
	Subtotal        int64 `json:"subtotal"`
	DiscountPercent int   `json:"discount_percent"`
	DiscountAmount  int64 `json:"discount_amount"`
	Total           int64 `json:"total"`
}

var hundred = decimal.NewFromInt(100)

// ComputeTotals is pure: the same lines and discount always give the same result.
// The discount amount is rounded to whole currency units, half away from zero.
func ComputeTotals(lines []LineItem, discountPercent int) (Totals, error) {
	if discountPercent < MinDiscountPercent || discountPercent > MaxDiscountPercent {
		return Totals{}, ErrDiscountOutOfRange
	}

	var subtotal int64
	for _, l := range lines {
		if l.Subtotal < 0 || l.Subtotal > MaxAmount-subtotal {
			return Totals{}, ErrAmountOutOfRange
		}
		subtotal += l.Subtotal
	}

	discount := decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromInt(int64(discountPercent))).
		Div(hundred).
		Round(0).
		IntPart()

	return Totals{
		Subtotal:        subtotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  discount,
		Total:           subtotal - discount,
	}, nil
}
