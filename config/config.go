package config

import (
	"fmt"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration holds every runtime knob for the storefront. Values come
// from the process environment; a .env file in the working directory is
// loaded first when present.
type Configuration struct {
	Address string `env:"ADDRESS" envDefault:":3000"`

	// Optional shared backends. Empty REDIS_URL means orders, notify locks
	// and sessions fall back to in-process storage (single instance only).
	RedisURL    string `env:"REDIS_URL"`
	KafkaBroker string `env:"KAFKA_BROKER"`

	// Bakong / KHQR merchant identity.
	BakongURL     string `env:"BAKONG_URL" envDefault:"https://api-bakong.nbc.gov.kh"`
	BakongToken   string `env:"BAKONG_TOKEN"`
	BakongAccount string `env:"BAKONG_ACCOUNT" envDefault:"sothun_thoeun@aclb"`
	MerchantName  string `env:"MERCHANT_NAME" envDefault:"SOTHUN THOEUN"`
	MerchantCity  string `env:"MERCHANT_CITY" envDefault:"Phnom Penh"`
	MerchantPhone string `env:"MERCHANT_PHONE" envDefault:"855888356210"`
	StoreLabel    string `env:"STORE_LABEL" envDefault:"thun-Shop"`
	TerminalLabel string `env:"TERMINAL_LABEL" envDefault:"Cashier-01"`

	// USD -> KHR conversion applied when the buyer picks KHR.
	ExchangeRateKHR string `env:"EXCHANGE_RATE_KHR" envDefault:"4000"`

	// Order lifecycle windows, in seconds. The store TTL must stay above the
	// domain expiry so a late poll still finds the order record.
	OrderTTLSeconds     int `env:"ORDER_TTL_SECONDS" envDefault:"3600"`
	OrderExpiresSeconds int `env:"ORDER_EXPIRES_SECONDS" envDefault:"60"`
	NotifyLockSeconds   int `env:"NOTIFY_LOCK_TTL_SECONDS" envDefault:"60"`

	// Telegram notifications.
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `env:"TELEGRAM_CHAT_ID"`

	// SMTP invoice mail.
	MailServer        string `env:"MAIL_SERVER" envDefault:"smtp.gmail.com"`
	MailPort          int    `env:"MAIL_PORT" envDefault:"587"`
	MailUsername      string `env:"MAIL_USERNAME"`
	MailPassword      string `env:"MAIL_PASSWORD"`
	MailDefaultSender string `env:"MAIL_DEFAULT_SENDER"`

	ProductsFile string `env:"PRODUCTS_FILE" envDefault:"products.json"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`
}

// New loads .env (if any) and parses the environment into a Configuration.
func New() (*Configuration, error) {
	// Not finding a .env file is normal in containers; real env wins anyway.
	_ = godotenv.Load()

	cfg := &Configuration{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MailDefaultSender == "" {
		cfg.MailDefaultSender = cfg.MailUsername
	}
	return cfg, nil
}
