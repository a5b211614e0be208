package orders

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ReceiptPDFFilename is the export name of an order's PDF receipt.
func ReceiptPDFFilename(o Order) string {
	return "receipt_" + o.ID + ".pdf"
}

// ReceiptPDF renders o with the default brand.
func ReceiptPDF(o Order) ([]byte, error) {
	return Receipt{Brand: DefaultBrand}.PDF(o)
}

// PDF renders the same content as Text on an A4 page. The core PDF fonts
// have no rupee glyph, so amounts are written as "Rs.".
func (r Receipt) PDF(o Order) ([]byte, error) {
	brand := r.Brand
	if brand == "" {
		brand = DefaultBrand
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetTitle("Receipt "+o.ID, false)
	pdf.SetAuthor(brand, false)
	pdf.SetCreationDate(o.OrderDate.UTC())
	pdf.SetModificationDate(o.OrderDate.UTC())
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, brand, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Order Receipt", "B", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Order ID: "+o.ID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+o.OrderDate.UTC().Format(dateLayout), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Transaction ID: "+o.TransactionID, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// tabel item
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	headers := []string{"#", "Item", "Qty", "Price", "Subtotal"}
	widths := []float64{10, 90, 20, 35, 35}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if o.Degraded {
		pdf.CellFormat(190, 7, "(item details unavailable)", "1", 1, "C", false, 0, "")
	}
	for i, it := range o.Items {
		name := it.Name
		if len(it.Customizations) > 0 {
			name += " (" + strings.Join(it.Customizations, ", ") + ")"
		}
		pdf.CellFormat(widths[0], 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, truncate(name, 48), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, pdfMoney(it.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, pdfMoney(it.LineTotal()), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	summary := [][2]string{
		{"Subtotal", pdfMoney(o.Subtotal)},
		{"Delivery Fee", pdfMoney(o.DeliveryFee)},
	}
	if !o.Discount.IsZero() {
		summary = append(summary, [2]string{"Discount", "-" + pdfMoney(o.Discount)})
	}
	for _, row := range summary {
		pdf.CellFormat(155, 6, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, row[1], "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(155, 7, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, pdfMoney(o.TotalAmount), "T", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Payment Method: "+o.PaymentMethod, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Status: "+strings.ToUpper(string(o.Status)), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Delivery Address:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, o.DeliveryAddress, "", "L", false)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, "Thank you for your order!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfMoney(d decimal.Decimal) string {
	return "Rs. " + d.StringFixed(2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
