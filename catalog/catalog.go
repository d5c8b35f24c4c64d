// Package catalog serves the café's product list from a JSON file. The file
// is read once at startup and held in memory; there is no product database.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sothun2025/kimhutcoffee-v2/model"
)

type Catalog struct {
	products []model.Product
	byID     map[int]model.Product
}

// Load reads and indexes the product file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read products file: %w", err)
	}

	var products []model.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("parse products file: %w", err)
	}

	c := &Catalog{
		products: products,
		byID:     make(map[int]model.Product, len(products)),
	}
	for _, p := range products {
		c.byID[p.ID] = p
	}
	return c, nil
}

// Get looks a product up by id.
func (c *Catalog) Get(id int) (model.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// List filters by category ("" or "All" means every category) and by a
// case-insensitive name substring.
func (c *Catalog) List(category, query string) []model.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && category != "All" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns the distinct category names, sorted.
func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	var cats []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			cats = append(cats, p.Category)
		}
	}
	sort.Strings(cats)
	return cats
}
