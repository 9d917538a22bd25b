package model

import (
	"strings"
	"time"
	"unicode"
)

// 確定時に一度だけ作る。以後変更しない
type Invoice struct {
	Number       string     `json:"number"`
	CustomerName string     `json:"customer_name"`
	TaxID        string     `json:"tax_id,omitempty"`
	Salesperson  string     `json:"salesperson,omitempty"`
	IssuedAt     time.Time  `json:"issued_at"`
	Lines        []LineItem `json:"lines"`
	Totals       Totals     `json:"totals"`
}

func NewInvoice(number string, customer Customer, issuedAt time.Time, lines []LineItem, totals Totals) Invoice {
	cp := make([]LineItem, len(lines))
	copy(cp, lines)

	return Invoice{
		Number:       number,
		CustomerName: strings.TrimSpace(customer.Name),
		TaxID:        strings.TrimSpace(customer.TaxID),
		Salesperson:  strings.TrimSpace(customer.Salesperson),
		IssuedAt:     issuedAt,
		Lines:        cp,
		Totals:       totals,
	}
}

type Customer struct {
	Name        string
	TaxID       string
	Salesperson string
}

// DocumentName derives the download name from the customer name.
// "María José" -> "Factura_María_José.pdf"
func (i Invoice) DocumentName() string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(i.CustomerName) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	name := strings.TrimRight(b.String(), "_")
	if name == "" {
		name = "cliente"
	}
	return "Factura_" + name + ".pdf"
}
