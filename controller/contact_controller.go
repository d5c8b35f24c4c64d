package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/sothun2025/kimhutcoffee-v2/notify"
)

type ContactController struct {
	Dispatcher *notify.Dispatcher
	Validate   *validator.Validate
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email"`
	Message string `json:"message" validate:"required"`
}

// Submit relays the message to the shop Telegram chat and mails an
// acknowledgement when the sender left an address. Channel outages never
// fail the request; the response says whether anything got through.
func (cc *ContactController) Submit(c *fiber.Ctx) error {
	var in contactRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := cc.Validate.Struct(in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": validationError(err)})
	}

	delivered := cc.Dispatcher.NotifyContact(c.Context(), in.Name, in.Email, in.Message)

	message := "Thanks! Your message was sent."
	if !delivered {
		message = "Message received, but notifications are not configured."
	}
	return c.JSON(fiber.Map{"ok": true, "delivered": delivered, "message": message})
}
