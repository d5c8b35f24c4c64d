// Package notify delivers paid-order and contact-form notifications over
// Telegram and SMTP. Builders render the message bodies; the Dispatcher
// fans a single event out to every configured channel.
package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sothun2025/kimhutcoffee-v2/model"
	"github.com/sothun2025/kimhutcoffee-v2/money"
)

// itemLines renders one "- qty x name (amount CUR)" line per item. Line
// totals are stored in USD; when the order was charged in KHR they are
// converted with the rate frozen on the order.
func itemLines(o *model.Order, escapeNames bool) []string {
	fx := decimal.Zero
	if o.Currency == money.KHR {
		if rate, err := decimal.NewFromString(o.FxRate); err == nil {
			fx = rate
		}
	}

	lines := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		total := it.LineTotal
		if fx.IsPositive() {
			total = total.Mul(fx)
		}
		name := it.Name
		if escapeNames {
			name = html.EscapeString(name)
		}
		lines = append(lines, fmt.Sprintf("- %d x %s (%s %s)", it.Qty, name, money.Format(total, o.Currency), o.Currency))
	}
	return lines
}

// OrderMessage builds the Telegram HTML message for a freshly paid order.
func OrderMessage(o *model.Order, now time.Time) string {
	lines := []string{
		"<b>New Paid Order</b>",
		"Name: " + html.EscapeString(o.Customer.Name),
		"Email: " + html.EscapeString(o.Customer.Email),
		"Phone: " + html.EscapeString(o.Customer.Phone),
		"Address: " + html.EscapeString(o.Customer.Address),
		"",
		"Items:",
	}
	lines = append(lines, itemLines(o, true)...)
	lines = append(lines,
		"",
		fmt.Sprintf("Subtotal: %s %s", o.Subtotal, o.Currency),
		"Time: "+now.Format("2006-01-02 15:04"),
	)
	return strings.Join(lines, "\n")
}

// InvoiceBody builds the plain text invoice mailed to the customer.
func InvoiceBody(o *model.Order, now time.Time) string {
	name := o.Customer.Name
	if name == "" {
		name = "Customer"
	}
	address := o.Customer.Address
	if address == "" {
		address = "(none)"
	}
	phone := o.Customer.Phone
	if phone == "" {
		phone = "(none)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nThanks for your order!\n\n", name)
	b.WriteString(strings.Join(itemLines(o, false), "\n"))
	fmt.Fprintf(&b, "\n\nSubtotal: %s %s\nTime: %s", o.Subtotal, o.Currency, now.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "\n\nDelivery to:\n%s\nPhone: %s\n\n— Kimhut Café", address, phone)
	return b.String()
}

// ContactMessage builds the Telegram HTML message for a contact-form
// submission.
func ContactMessage(name, email, message string) string {
	return fmt.Sprintf("<b>Contact</b>\nFrom: %s &lt;%s&gt;\n\n%s",
		html.EscapeString(name), html.EscapeString(email), html.EscapeString(message))
}

// ContactAckBody builds the acknowledgement mailed back to the sender.
func ContactAckBody(name, message string) string {
	return fmt.Sprintf("Hi %s,\n\n"+
		"Thanks for reaching out to Kimhut Café. We’ve received your message:\n\n"+
		"\"%s\"\n\n"+
		"We’ll get back to you as soon as possible.\n\n— Kimhut Café", name, message)
}
