package orders

import (
	"fmt"
	"strings"

	"github.com/yeremiapane/zest-order/utils"
)

const (
	DefaultBrand = "ZEST INDIA"

	receiptRule = "========================================"
	receiptLine = "----------------------------------------"
	dateLayout  = "2006-01-02 15:04:05 UTC"
)

// Receipt renders orders for export under a restaurant brand.
type Receipt struct {
	Brand string
}

// FormatReceipt renders o with the default brand.
func FormatReceipt(o Order) string {
	return Receipt{Brand: DefaultBrand}.Text(o)
}

// ReceiptFilename is the export name of an order's text receipt.
func ReceiptFilename(o Order) string {
	return "receipt_" + o.ID + ".txt"
}

// ShortID is the last eight characters of the order id, upper-cased, as
// shown in the history list.
func ShortID(o Order) string {
	id := o.ID
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToUpper(id)
}

// Text is a pure function of o: the same order always renders to the same bytes.
func (r Receipt) Text(o Order) string {
	brand := r.Brand
	if brand == "" {
		brand = DefaultBrand
	}

	var b strings.Builder
	b.WriteString(receiptRule + "\n")
	b.WriteString(center(brand) + "\n")
	b.WriteString(center("Order Receipt") + "\n")
	b.WriteString(receiptRule + "\n\n")

	fmt.Fprintf(&b, "Order ID: %s\n", o.ID)
	fmt.Fprintf(&b, "Date: %s\n", o.OrderDate.UTC().Format(dateLayout))
	fmt.Fprintf(&b, "Transaction ID: %s\n\n", o.TransactionID)

	b.WriteString(receiptLine + "\n")
	b.WriteString("Items:\n")
	if o.Degraded {
		b.WriteString("\n   (item details unavailable)\n")
	}
	for i, it := range o.Items {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, it.Name)
		fmt.Fprintf(&b, "   Quantity: %d\n", it.Quantity)
		fmt.Fprintf(&b, "   Price: %s\n", utils.FormatRupee(it.Price))
		fmt.Fprintf(&b, "   Subtotal: %s\n", utils.FormatRupee(it.LineTotal()))
		if len(it.Customizations) > 0 {
			fmt.Fprintf(&b, "   Customizations: %s\n", strings.Join(it.Customizations, ", "))
		}
	}
	b.WriteString("\n" + receiptLine + "\n\n")

	fmt.Fprintf(&b, "Subtotal: %s\n", utils.FormatRupee(o.Subtotal))
	fmt.Fprintf(&b, "Delivery Fee: %s\n", utils.FormatRupee(o.DeliveryFee))
	if !o.Discount.IsZero() {
		fmt.Fprintf(&b, "Discount: -%s\n", utils.FormatRupee(o.Discount))
	}
	fmt.Fprintf(&b, "Total: %s\n\n", utils.FormatRupee(o.TotalAmount))

	fmt.Fprintf(&b, "Payment Method: %s\n", o.PaymentMethod)
	fmt.Fprintf(&b, "Status: %s\n\n", strings.ToUpper(string(o.Status)))

	b.WriteString("Delivery Address:\n")
	b.WriteString(o.DeliveryAddress + "\n\n")

	b.WriteString(receiptRule + "\n")
	b.WriteString(center("Thank you for your order!") + "\n")
	b.WriteString(receiptRule + "\n")
	return b.String()
}

func center(s string) string {
	pad := (len(receiptRule) - len([]rune(s))) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
