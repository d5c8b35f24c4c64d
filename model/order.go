package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the free-form delivery contact captured at checkout.
type Customer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// OrderItem is a cart line snapshotted into the order. Price and LineTotal
// are USD at cent precision; KHR conversion happens at display/notify time.
type OrderItem struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Order is the pending-payment record persisted under order:<md5>.
// Subtotal holds the per-currency formatted settlement amount (the exact
// string embedded in the KHQR payload). FxRate is set only for KHR orders.
// Notified flips false->true at most once, guarded by the notify lock.
type Order struct {
	Customer  Customer    `json:"customer"`
	Items     []OrderItem `json:"items"`
	Subtotal  string      `json:"subtotal"`
	Currency  string      `json:"currency"`
	FxRate    string      `json:"fx_rate,omitempty"`
	QRPayload string      `json:"qr_payload"`
	Notified  bool        `json:"notified"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Expired reports whether the payment window has closed at the given time.
func (o *Order) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
