package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/sothun2025/kimhutcoffee-v2/bakong"
	"github.com/sothun2025/kimhutcoffee-v2/cart"
	"github.com/sothun2025/kimhutcoffee-v2/checkout"
	"github.com/sothun2025/kimhutcoffee-v2/store"
)

type PaymentController struct {
	Service  *checkout.Service
	Sessions *session.Store
}

// Check handles one confirmation poll. The payment page calls it every
// few seconds until it gets a terminal answer.
func (pc *PaymentController) Check(c *fiber.Ctx) error {
	var in struct {
		MD5 string `json:"md5"`
	}
	if err := c.BodyParser(&in); err != nil || in.MD5 == "" {
		return c.Status(400).JSON(fiber.Map{"error": "missing md5"})
	}

	res, err := pc.Service.ConfirmPayment(c.Context(), in.MD5)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrGatewayNotConfigured):
			return c.Status(500).JSON(fiber.Map{"error": "BAKONG_TOKEN not set"})
		case errors.Is(err, bakong.ErrUnavailable):
			return c.Status(502).JSON(fiber.Map{"error": "bakong_unavailable"})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "payment check failed"})
		}
	}

	// Only the poll that actually dispatched the notifications clears the
	// cart, so racing polls cannot clear it twice or clear a fresh cart.
	if res.Dispatched {
		pc.clearCart(c)
	}

	switch res.Status {
	case checkout.StatusExpired:
		return c.Status(410).JSON(fiber.Map{"success": false, "message": res.Message})
	case checkout.StatusWaiting:
		return c.JSON(fiber.Map{"success": false, "message": res.Message})
	default:
		return c.JSON(fiber.Map{"success": true, "message": res.Message})
	}
}

func (pc *PaymentController) clearCart(c *fiber.Ctx) {
	sess, err := pc.Sessions.Get(c)
	if err != nil {
		return
	}
	sess.Set(cart.SessionKey, cart.Cart{}.Encode())
	_ = sess.Save()
}

// QR regenerates the payment QR image from the stored payload. The image
// is never written to disk and must not be cached; the payload of record
// lives in the order store.
func (pc *PaymentController) QR(c *fiber.Ctx) error {
	fingerprint := strings.TrimSuffix(c.Params("file"), ".png")

	order, err := pc.Service.Order(c.Context(), fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.SendStatus(404)
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load order"})
	}
	if order.QRPayload == "" {
		return c.SendStatus(404)
	}

	png, err := qrcode.Encode(order.QRPayload, qrcode.Low, 512)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to render qr"})
	}

	c.Set("Cache-Control", "no-store, max-age=0")
	c.Set("Content-Type", "image/png")
	return c.Send(png)
}
