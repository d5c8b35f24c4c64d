package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProducts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	data := `[
		{"id": 1, "name": "Espresso", "category": "Coffee", "price": "1.75"},
		{"id": 2, "name": "Cafe Latte", "category": "Coffee", "price": "2.50"},
		{"id": 3, "name": "Lemon Iced Tea", "category": "Tea", "price": "1.95"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoadAndGet(t *testing.T) {
	c, err := Load(writeProducts(t))
	require.NoError(t, err)

	p, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, "Cafe Latte", p.Name)
	assert.Equal(t, "2.5", p.Price.String())

	_, ok = c.Get(99)
	assert.False(t, ok)
}

func TestListFilters(t *testing.T) {
	c, err := Load(writeProducts(t))
	require.NoError(t, err)

	assert.Len(t, c.List("", ""), 3)
	assert.Len(t, c.List("All", ""), 3)
	assert.Len(t, c.List("Coffee", ""), 2)
	assert.Len(t, c.List("coffee", ""), 2) // category match is case-insensitive

	got := c.List("", "latte")
	require.Len(t, got, 1)
	assert.Equal(t, "Cafe Latte", got[0].Name)

	assert.Empty(t, c.List("Tea", "latte"))
}

func TestCategories(t *testing.T) {
	c, err := Load(writeProducts(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Coffee", "Tea"}, c.Categories())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
