package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/sothun2025/kimhutcoffee-v2/cart"
	"github.com/sothun2025/kimhutcoffee-v2/catalog"
	"github.com/sothun2025/kimhutcoffee-v2/checkout"
	"github.com/sothun2025/kimhutcoffee-v2/model"
)

type CheckoutController struct {
	Service  *checkout.Service
	Catalog  *catalog.Catalog
	Sessions *session.Store
	Validate *validator.Validate
}

type checkoutRequest struct {
	Name     string `json:"name" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Currency string `json:"currency"`
}

// Create turns the session cart into a pending order and hands back the
// payment view data: fingerprint, display amount and the QR image URL.
func (cc *CheckoutController) Create(c *fiber.Ctx) error {
	var in checkoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := cc.Validate.Struct(in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": validationError(err)})
	}

	sess, err := cc.Sessions.Get(c)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load session"})
	}
	raw, _ := sess.Get(cart.SessionKey).(string)
	items, subtotal := cart.Decode(raw).Items(cc.Catalog)

	res, err := cc.Service.StartCheckout(c.Context(), checkout.CheckoutInput{
		Customer: model.Customer{
			Name:    in.Name,
			Address: in.Address,
			Email:   in.Email,
			Phone:   in.Phone,
		},
		Currency: in.Currency,
		Items:    items,
		Subtotal: subtotal,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			return c.Status(400).JSON(fiber.Map{"error": "cart is empty"})
		case errors.Is(err, checkout.ErrUnsupportedCurrency):
			return c.Status(400).JSON(fiber.Map{"error": "unsupported currency"})
		case errors.Is(err, checkout.ErrGatewayNotConfigured):
			return c.Status(500).JSON(fiber.Map{"error": "BAKONG_TOKEN not set"})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "failed to start checkout"})
		}
	}

	return c.JSON(res)
}
