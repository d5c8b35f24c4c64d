package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/shopspring/decimal"

	"github.com/sothun2025/kimhutcoffee-v2/cart"
	"github.com/sothun2025/kimhutcoffee-v2/catalog"
	"github.com/sothun2025/kimhutcoffee-v2/model"
)

type CartController struct {
	Catalog  *catalog.Catalog
	Sessions *session.Store
}

func (cc *CartController) load(c *fiber.Ctx) (*session.Session, cart.Cart, error) {
	sess, err := cc.Sessions.Get(c)
	if err != nil {
		return nil, nil, err
	}
	raw, _ := sess.Get(cart.SessionKey).(string)
	return sess, cart.Decode(raw), nil
}

func save(sess *session.Session, crt cart.Cart) error {
	sess.Set(cart.SessionKey, crt.Encode())
	return sess.Save()
}

func cartView(items []model.OrderItem, subtotal decimal.Decimal, count int) fiber.Map {
	return fiber.Map{
		"items":      items,
		"subtotal":   subtotal.StringFixed(2),
		"cart_count": count,
	}
}

func (cc *CartController) View(c *fiber.Ctx) error {
	_, crt, err := cc.load(c)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load session"})
	}

	items, subtotal := crt.Items(cc.Catalog)
	return c.JSON(cartView(items, subtotal, crt.Count()))
}

func (cc *CartController) AddItem(c *fiber.Ctx) error {
	var in struct {
		ProductID int `json:"product_id"`
		Qty       int `json:"qty"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	if in.Qty == 0 {
		in.Qty = 1
	}
	if in.Qty < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid qty"})
	}
	if _, ok := cc.Catalog.Get(in.ProductID); !ok {
		return c.Status(404).JSON(fiber.Map{"error": "product not found"})
	}

	sess, crt, err := cc.load(c)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load session"})
	}

	crt.Add(in.ProductID, in.Qty)
	if err := save(sess, crt); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to save cart"})
	}

	return c.JSON(fiber.Map{"ok": true, "cart_count": crt.Count()})
}

// Replace rebuilds the whole cart from the submitted quantities. Zero or
// negative quantities drop the line.
func (cc *CartController) Replace(c *fiber.Ctx) error {
	var in struct {
		Items map[int]int `json:"items"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	sess, _, err := cc.load(c)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load session"})
	}

	crt := cart.Cart{}
	for id, qty := range in.Items {
		crt.SetQty(id, qty)
	}
	if err := save(sess, crt); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to save cart"})
	}

	items, subtotal := crt.Items(cc.Catalog)
	return c.JSON(cartView(items, subtotal, crt.Count()))
}
