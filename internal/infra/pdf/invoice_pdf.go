// Package pdf lays invoices out on A4 pages. It only formats; every figure comes
// precomputed in the model.Invoice.
package pdf

import (
	"bytes"
	"fmt"

	"bodega/internal/domain/model"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NameWidth is how many characters of a product name fit in the table.
const NameWidth = 30

const (
	colName     = 90.0
	colQty      = 20.0
	colPrice    = 35.0
	colSubtotal = 35.0
	rowHeight   = 7.0
)

var money = message.NewPrinter(language.English)

// FormatMoney prints whole currency units with thousands separators: $150,000.
func FormatMoney(v int64) string {
	if v < 0 {
		return money.Sprintf("-$%d", -v)
	}
	return money.Sprintf("$%d", v)
}

// Truncate cuts s to n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

type InvoiceRenderer struct {
	businessName string
}

func NewInvoiceRenderer(businessName string) *InvoiceRenderer {
	return &InvoiceRenderer{businessName: businessName}
}

func (r *InvoiceRenderer) Render(inv model.Invoice) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Factura "+inv.Number, true)
	doc.SetAutoPageBreak(true, 20)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetHeaderFunc(func() {
		doc.SetFont("Helvetica", "B", 9)
		doc.CellFormat(0, 5, tr(r.businessName), "", 1, "R", false, 0, "")
		doc.Ln(2)
	})
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont("Helvetica", "I", 8)
		doc.CellFormat(0, 10, fmt.Sprintf("%d/{nb}", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.AliasNbPages("")
	doc.AddPage()

	// header block
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, tr(r.businessName), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 6, tr("Factura N° "+inv.Number), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, tr("Cliente: "+inv.CustomerName), "", 1, "L", false, 0, "")
	if inv.TaxID != "" {
		doc.CellFormat(0, 6, tr("NIT/CC: "+inv.TaxID), "", 1, "L", false, 0, "")
	}
	if inv.Salesperson != "" {
		doc.CellFormat(0, 6, tr("Vendedor: "+inv.Salesperson), "", 1, "L", false, 0, "")
	}
	doc.CellFormat(0, 6, "Fecha: "+inv.IssuedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	doc.Ln(4)

	// line items
	tableHeader := func() {
		doc.SetFont("Helvetica", "B", 10)
		doc.SetFillColor(230, 230, 230)
		doc.CellFormat(colName, rowHeight, tr("Producto"), "1", 0, "L", true, 0, "")
		doc.CellFormat(colQty, rowHeight, "Cant.", "1", 0, "C", true, 0, "")
		doc.CellFormat(colPrice, rowHeight, "Precio", "1", 0, "R", true, 0, "")
		doc.CellFormat(colSubtotal, rowHeight, "Subtotal", "1", 1, "R", true, 0, "")
		doc.SetFont("Helvetica", "", 10)
	}
	tableHeader()

	_, pageHeight := doc.GetPageSize()
	_, _, _, bottom := doc.GetMargins()
	for _, l := range inv.Lines {
		if doc.GetY()+rowHeight > pageHeight-bottom-20 {
			doc.AddPage()
			tableHeader()
		}
		doc.CellFormat(colName, rowHeight, tr(Truncate(l.Name, NameWidth)), "1", 0, "L", false, 0, "")
		doc.CellFormat(colQty, rowHeight, fmt.Sprintf("%d", l.Quantity), "1", 0, "C", false, 0, "")
		doc.CellFormat(colPrice, rowHeight, FormatMoney(l.UnitPrice), "1", 0, "R", false, 0, "")
		doc.CellFormat(colSubtotal, rowHeight, FormatMoney(l.Subtotal), "1", 1, "R", false, 0, "")
	}
	doc.Ln(4)

	// totals block
	labelWidth := colName + colQty + colPrice
	t := inv.Totals
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(labelWidth, rowHeight, "Subtotal:", "", 0, "R", false, 0, "")
	doc.CellFormat(colSubtotal, rowHeight, FormatMoney(t.Subtotal), "", 1, "R", false, 0, "")
	doc.CellFormat(labelWidth, rowHeight, fmt.Sprintf("Descuento (%d%%):", t.DiscountPercent), "", 0, "R", false, 0, "")
	doc.CellFormat(colSubtotal, rowHeight, FormatMoney(-t.DiscountAmount), "", 1, "R", false, 0, "")
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(labelWidth, rowHeight+1, "TOTAL A PAGAR:", "", 0, "R", false, 0, "")
	doc.CellFormat(colSubtotal, rowHeight+1, FormatMoney(t.Total), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.Number, err)
	}
	return buf.Bytes(), nil
}
