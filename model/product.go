package model

import "github.com/shopspring/decimal"

// Product is one catalog entry from products.json.
type Product struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Desc     string          `json:"desc,omitempty"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
}
