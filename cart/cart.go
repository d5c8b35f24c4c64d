// Package cart implements the session cart. The cart itself is a plain
// product id to quantity map, stored in the session as a JSON string so
// it survives any session backend.
package cart

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sothun2025/kimhutcoffee-v2/catalog"
	"github.com/sothun2025/kimhutcoffee-v2/model"
	"github.com/sothun2025/kimhutcoffee-v2/money"
)

// SessionKey is the session entry the encoded cart lives under.
const SessionKey = "cart"

// Cart maps product id to quantity.
type Cart map[int]int

// Decode restores a cart from its session encoding. Anything unreadable
// yields an empty cart rather than an error; a broken cookie should not
// take the shop down.
func Decode(raw string) Cart {
	c := Cart{}
	if raw == "" {
		return c
	}
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Cart{}
	}
	return c
}

// Encode serializes the cart for session storage.
func (c Cart) Encode() string {
	raw, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// Add increments the quantity for a product.
func (c Cart) Add(productID, qty int) {
	c[productID] += qty
}

// SetQty overwrites the quantity for a product. Zero and negative
// quantities remove the line.
func (c Cart) SetQty(productID, qty int) {
	if qty <= 0 {
		delete(c, productID)
		return
	}
	c[productID] = qty
}

// Count reports the total number of units across all lines.
func (c Cart) Count() int {
	n := 0
	for _, qty := range c {
		n += qty
	}
	return n
}

// Items resolves the cart against the catalog and prices each line in
// USD. Products that vanished from the catalog are skipped. The subtotal
// is the sum of the line totals rounded to cents.
func (c Cart) Items(cat *catalog.Catalog) ([]model.OrderItem, decimal.Decimal) {
	ids := make([]int, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	items := make([]model.OrderItem, 0, len(ids))
	subtotal := decimal.Zero
	for _, id := range ids {
		product, ok := cat.Get(id)
		if !ok {
			continue
		}
		lineTotal := money.LineTotal(product.Price, c[id])
		items = append(items, model.OrderItem{
			ID:        product.ID,
			Name:      product.Name,
			Price:     product.Price.Round(2),
			Qty:       c[id],
			LineTotal: lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	return items, subtotal.Round(2)
}
