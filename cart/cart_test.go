package cart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sothun2025/kimhutcoffee-v2/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	data := `[
		{"id": 1, "name": "Espresso", "desc": "", "category": "Coffee", "price": "1.75", "image": "espresso.jpg"},
		{"id": 2, "name": "Latte", "desc": "", "category": "Coffee", "price": "2.50", "image": "latte.jpg"},
		{"id": 3, "name": "Croissant", "desc": "", "category": "Bakery", "price": "1.95", "image": "croissant.jpg"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cat, err := catalog.Load(path)
	require.NoError(t, err)
	return cat
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	c := Cart{1: 2, 3: 1}
	got := Decode(c.Encode())
	assert.Equal(t, c, got)
}

func TestDecodeGarbage(t *testing.T) {
	assert.Empty(t, Decode(""))
	assert.Empty(t, Decode("not json"))
	assert.Empty(t, Decode(`{"x":"y"}`))
}

func TestAddAccumulates(t *testing.T) {
	c := Cart{}
	c.Add(1, 2)
	c.Add(1, 1)
	c.Add(2, 1)

	assert.Equal(t, Cart{1: 3, 2: 1}, c)
	assert.Equal(t, 4, c.Count())
}

func TestSetQty(t *testing.T) {
	c := Cart{1: 2, 2: 1}
	c.SetQty(1, 5)
	c.SetQty(2, 0)
	c.SetQty(3, -1)

	assert.Equal(t, Cart{1: 5}, c)
}

func TestItemsSubtotalMatchesLineSum(t *testing.T) {
	cat := testCatalog(t)
	c := Cart{1: 2, 2: 1, 3: 3}

	items, subtotal := c.Items(cat)
	require.Len(t, items, 3)

	// 2*1.75 + 1*2.50 + 3*1.95 = 3.50 + 2.50 + 5.85
	assert.Equal(t, "3.50", items[0].LineTotal.StringFixed(2))
	assert.Equal(t, "2.50", items[1].LineTotal.StringFixed(2))
	assert.Equal(t, "5.85", items[2].LineTotal.StringFixed(2))
	assert.Equal(t, "11.85", subtotal.StringFixed(2))
}

func TestItemsSkipsUnknownProducts(t *testing.T) {
	cat := testCatalog(t)
	c := Cart{1: 1, 99: 4}

	items, subtotal := c.Items(cat)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, "1.75", subtotal.StringFixed(2))
}

func TestItemsEmptyCart(t *testing.T) {
	cat := testCatalog(t)

	items, subtotal := Cart{}.Items(cat)
	assert.Empty(t, items)
	assert.True(t, subtotal.IsZero())
}

func TestItemsStableOrder(t *testing.T) {
	cat := testCatalog(t)
	c := Cart{3: 1, 1: 1, 2: 1}

	items, _ := c.Items(cat)
	require.Len(t, items, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{items[0].ID, items[1].ID, items[2].ID})
}
