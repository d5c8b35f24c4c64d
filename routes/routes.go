package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/sothun2025/kimhutcoffee-v2/catalog"
	"github.com/sothun2025/kimhutcoffee-v2/checkout"
	"github.com/sothun2025/kimhutcoffee-v2/controller"
	"github.com/sothun2025/kimhutcoffee-v2/notify"
)

// Deps is everything the handlers need, wired once in main.
type Deps struct {
	Catalog    *catalog.Catalog
	Sessions   *session.Store
	Service    *checkout.Service
	Dispatcher *notify.Dispatcher
	Validate   *validator.Validate
}

func Register(app *fiber.App, d Deps) {
	pc := &controller.ProductController{Catalog: d.Catalog}
	cc := &controller.CartController{Catalog: d.Catalog, Sessions: d.Sessions}
	oc := &controller.CheckoutController{Service: d.Service, Catalog: d.Catalog, Sessions: d.Sessions, Validate: d.Validate}
	pay := &controller.PaymentController{Service: d.Service, Sessions: d.Sessions}
	con := &controller.ContactController{Dispatcher: d.Dispatcher, Validate: d.Validate}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Get("/products", pc.List)
	api.Get("/cart", cc.View)
	api.Post("/cart/items", cc.AddItem)
	api.Put("/cart", cc.Replace)
	api.Post("/checkout", oc.Create)
	api.Post("/contact", con.Submit)

	// The payment page polls and renders these outside the /api group.
	app.Post("/check-payment", pay.Check)
	app.Get("/qr/:file", pay.QR)
}
