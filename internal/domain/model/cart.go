package model

import "errors"

var (
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAmountOutOfRange  = errors.New("amount out of range")
)

// 明細小計・合計の上限
const MaxAmount int64 = 1_000_000_000_000_000

// カート明細。追加時点の名前と価格を保存する
type LineItem struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

func LineSubtotal(price, qty int64) (int64, error) {
	if price < 0 || qty < 0 {
		return 0, ErrAmountOutOfRange
	}
	if price != 0 && qty > MaxAmount/price {
		return 0, ErrAmountOutOfRange
	}
	return price * qty, nil
}

// 追加順。同一商品でも行を分ける
type Cart struct {
	Items []LineItem `json:"items"`
}

// 在庫チェックはpの値で（古い可能性あり）
func (c *Cart) Add(p Product, qty int64) (LineItem, error) {
	if qty <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}
	if qty > p.Stock {
		return LineItem{}, ErrInsufficientStock
	}
	subtotal, err := LineSubtotal(p.Price, qty)
	if err != nil {
		return LineItem{}, err
	}
	// 合計も上限内に収める
	if _, err := ComputeTotals(append(c.Lines(), LineItem{Subtotal: subtotal}), 0); err != nil {
		return LineItem{}, err
	}

	line := LineItem{
		Code:      p.Code,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
		Subtotal:  subtotal,
	}
	c.Items = append(c.Items, line)
	return line, nil
}

func (c *Cart) Clear() {
	c.Items = nil
}

// コピーを返す
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, len(c.Items))
	copy(out, c.Items)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
