package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sothun2025/kimhutcoffee-v2/catalog"
)

type ProductController struct {
	Catalog *catalog.Catalog
}

// List filters the catalog by category and name substring, mirroring the
// storefront product page.
func (pc *ProductController) List(c *fiber.Ctx) error {
	category := c.Query("category", "All")
	q := c.Query("q")

	categories := append([]string{"All"}, pc.Catalog.Categories()...)

	return c.JSON(fiber.Map{
		"products":   pc.Catalog.List(category, q),
		"categories": categories,
		"selected":   category,
	})
}
