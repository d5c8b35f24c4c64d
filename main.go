package main

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	redisstorage "github.com/gofiber/storage/redis/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sothun2025/kimhutcoffee-v2/bakong"
	"github.com/sothun2025/kimhutcoffee-v2/cache"
	"github.com/sothun2025/kimhutcoffee-v2/catalog"
	"github.com/sothun2025/kimhutcoffee-v2/checkout"
	"github.com/sothun2025/kimhutcoffee-v2/config"
	"github.com/sothun2025/kimhutcoffee-v2/events"
	"github.com/sothun2025/kimhutcoffee-v2/khqr"
	"github.com/sothun2025/kimhutcoffee-v2/lock"
	"github.com/sothun2025/kimhutcoffee-v2/logger"
	"github.com/sothun2025/kimhutcoffee-v2/notify"
	"github.com/sothun2025/kimhutcoffee-v2/routes"
	"github.com/sothun2025/kimhutcoffee-v2/store"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	logg := logger.Get()

	catalogue, err := catalog.Load(cfg.ProductsFile)
	if err != nil {
		logg.WithError(err).Fatal("failed to load product catalog")
	}

	// ======================
	// SHARED BACKENDS
	// ======================
	redisClient, err := cache.Connect(cfg.RedisURL)
	if err != nil {
		logg.WithError(err).Fatal("failed to connect redis")
	}

	var orderStore store.OrderStore
	var locker lock.Locker
	if redisClient != nil {
		orderStore = store.NewRedisStore(redisClient)
		locker = lock.NewRedisLocker(redisClient)
	} else {
		logg.Warn("REDIS_URL not set; orders, notify locks and sessions are process-local")
		orderStore = store.NewMemoryStore()
		locker = lock.NewLocalLocker()
	}

	sessions := newSessionStore(cfg)

	var publisher checkout.EventPublisher
	if cfg.KafkaBroker != "" {
		producer, err := events.NewProducer(cfg.KafkaBroker, logg)
		if err != nil {
			logg.WithError(err).Warn("kafka unavailable; order events disabled")
		} else {
			defer producer.Close()
			publisher = producer
		}
	}

	// ======================
	// DOMAIN SERVICES
	// ======================
	fxRate, err := decimal.NewFromString(cfg.ExchangeRateKHR)
	if err != nil {
		logg.WithError(err).Fatal("invalid EXCHANGE_RATE_KHR")
	}

	telegram := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	mailer := notify.NewEmail(cfg.MailServer, cfg.MailPort, cfg.MailUsername, cfg.MailPassword, cfg.MailDefaultSender)
	dispatcher := notify.NewDispatcher(telegram, mailer, logg)

	gateway := bakong.NewClient(cfg.BakongURL, cfg.BakongToken)
	if cfg.BakongToken == "" {
		logg.Warn("BAKONG_TOKEN not set; checkout and payment confirmation will be refused")
	}

	service := checkout.NewService(orderStore, locker, gateway, dispatcher, publisher, checkout.Config{
		Merchant: khqr.MerchantInfo{
			BankAccount:   cfg.BakongAccount,
			Name:          cfg.MerchantName,
			City:          cfg.MerchantCity,
			PhoneNumber:   cfg.MerchantPhone,
			StoreLabel:    cfg.StoreLabel,
			TerminalLabel: cfg.TerminalLabel,
		},
		FxRate:            fxRate,
		OrderTTL:          time.Duration(cfg.OrderTTLSeconds) * time.Second,
		ExpiresIn:         time.Duration(cfg.OrderExpiresSeconds) * time.Second,
		LockTTL:           time.Duration(cfg.NotifyLockSeconds) * time.Second,
		GatewayConfigured: cfg.BakongToken != "",
	}, logg)

	// ======================
	// HTTP SERVER (Fiber)
	// ======================
	app := fiber.New(fiber.Config{AppName: "kimhut-cafe"})
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	routes.Register(app, routes.Deps{
		Catalog:    catalogue,
		Sessions:   sessions,
		Service:    service,
		Dispatcher: dispatcher,
		Validate:   validator.New(),
	})

	logg.WithFields(logrus.Fields{
		"address": cfg.Address,
		"shared":  redisClient != nil,
	}).Info("kimhut cafe storefront listening")

	if err := app.Listen(cfg.Address); err != nil {
		logg.WithError(err).Fatal("server stopped")
	}
}

// newSessionStore keeps visitor carts in Redis when it is configured so
// carts survive restarts and are visible to every instance; otherwise
// fiber's in-memory session storage applies, single instance only.
func newSessionStore(cfg *config.Configuration) *session.Store {
	sessCfg := session.Config{
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:session_id",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}
	if cfg.RedisURL != "" {
		sessCfg.Storage = redisstorage.New(redisstorage.Config{URL: cfg.RedisURL})
	}
	return session.New(sessCfg)
}
