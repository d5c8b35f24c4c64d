// Package checkout is the order lifecycle coordinator. It mints a KHQR
// payload and fingerprint for the cart, parks the pending order in the
// store, and turns client polls into a settled, notified order exactly
// once no matter how many polls race.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sothun2025/kimhutcoffee-v2/khqr"
	"github.com/sothun2025/kimhutcoffee-v2/lock"
	"github.com/sothun2025/kimhutcoffee-v2/model"
	"github.com/sothun2025/kimhutcoffee-v2/money"
	"github.com/sothun2025/kimhutcoffee-v2/store"
)

var (
	// ErrGatewayNotConfigured means BAKONG_TOKEN is absent. Checkout and
	// confirmation are both refused; degrading into "waiting forever"
	// would hide the misconfiguration.
	ErrGatewayNotConfigured = errors.New("bakong token not configured")

	// ErrEmptyCart rejects a checkout submission with nothing in it.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrUnsupportedCurrency rejects currencies other than USD and KHR.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// PaymentChecker asks the payment network whether the transaction
// behind a fingerprint has settled.
type PaymentChecker interface {
	CheckTransaction(ctx context.Context, fingerprint string) (bool, error)
}

// Notifier delivers the paid-order side effects. Implementations absorb
// their own failures.
type Notifier interface {
	NotifyPaid(ctx context.Context, order *model.Order)
}

// EventPublisher mirrors order milestones onto the event bus.
type EventPublisher interface {
	PublishOrderCreated(o *model.Order, fingerprint string)
	PublishOrderPaid(o *model.Order, fingerprint string)
}

// Config carries the merchant identity and the lifecycle windows.
type Config struct {
	Merchant khqr.MerchantInfo
	// FxRate converts the USD subtotal when the buyer pays in KHR.
	FxRate decimal.Decimal
	// OrderTTL is the store eviction bound. It must stay above ExpiresIn
	// so late polls still find the order and get a proper answer.
	OrderTTL  time.Duration
	ExpiresIn time.Duration
	LockTTL   time.Duration
	// GatewayConfigured is false when BAKONG_TOKEN is missing.
	GatewayConfigured bool
}

// Service wires the store, lock, gateway and notifier together.
type Service struct {
	store    store.OrderStore
	locks    lock.Locker
	gateway  PaymentChecker
	notifier Notifier
	events   EventPublisher
	cfg      Config
	log      *logrus.Logger
	now      func() time.Time
}

// NewService builds the coordinator. events may be nil when no broker
// is configured.
func NewService(st store.OrderStore, lk lock.Locker, gateway PaymentChecker, notifier Notifier, events EventPublisher, cfg Config, log *logrus.Logger) *Service {
	if !st.Shared() || !lk.Shared() {
		log.Warn("order store or notify lock is process-local; duplicate notification protection does not cover multiple instances")
	}
	return &Service{
		store:    st,
		locks:    lk,
		gateway:  gateway,
		notifier: notifier,
		events:   events,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// CheckoutInput is the validated checkout submission plus the priced
// cart lines. Item prices and the subtotal are USD.
type CheckoutInput struct {
	Customer model.Customer
	Currency string
	Items    []model.OrderItem
	Subtotal decimal.Decimal
}

// CheckoutResult is everything the payment view needs to render the QR
// and start polling.
type CheckoutResult struct {
	Fingerprint  string `json:"md5"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	MerchantName string `json:"merchant_name"`
	QRImage      string `json:"qr_image"`
	Seconds      int    `json:"seconds"`
}

// StartCheckout prices the cart in the chosen currency, builds a fresh
// KHQR payload and fingerprint, and persists the pending order. Every
// submission mints a new fingerprint; resubmitting the same cart twice
// creates two independent orders.
func (s *Service) StartCheckout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if !s.cfg.GatewayConfigured {
		return nil, ErrGatewayNotConfigured
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}

	currency := money.Normalize(in.Currency)
	if !money.Supported(currency) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, in.Currency)
	}

	amount := in.Subtotal
	fxRate := ""
	if currency == money.KHR {
		amount = money.UsdToKhr(in.Subtotal, s.cfg.FxRate)
		fxRate = s.cfg.FxRate.String()
	}
	amountStr := money.Format(amount, currency)

	now := s.now().UTC()
	billNumber := "INV-" + now.Format("20060102150405")

	payload, err := khqr.BuildPayload(s.cfg.Merchant, amountStr, currency, billNumber)
	if err != nil {
		return nil, fmt.Errorf("build khqr payload: %w", err)
	}
	fingerprint := khqr.Fingerprint(payload)

	order := &model.Order{
		Customer:  in.Customer,
		Items:     in.Items,
		Subtotal:  amountStr,
		Currency:  currency,
		FxRate:    fxRate,
		QRPayload: payload,
		Notified:  false,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.ExpiresIn),
	}
	if err := s.store.Save(ctx, fingerprint, order, s.cfg.OrderTTL); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	if s.events != nil {
		s.events.PublishOrderCreated(order, fingerprint)
	}

	s.log.WithFields(logrus.Fields{
		"fingerprint": fingerprint,
		"amount":      amountStr,
		"currency":    currency,
	}).Info("order created")

	return &CheckoutResult{
		Fingerprint:  fingerprint,
		Amount:       amountStr,
		Currency:     currency,
		MerchantName: s.cfg.Merchant.Name,
		QRImage:      "/qr/" + fingerprint + ".png",
		Seconds:      int(s.cfg.ExpiresIn.Seconds()),
	}, nil
}

// Order loads a stored order by fingerprint. Used by the QR image
// endpoint to regenerate the code from the stored payload.
func (s *Service) Order(ctx context.Context, fingerprint string) (*model.Order, error) {
	return s.store.Get(ctx, fingerprint)
}

// Status says how a confirmation poll ended.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusWaiting Status = "waiting"
	StatusExpired Status = "expired"
)

// ConfirmResult is the poll verdict. Dispatched is true only for the
// single call that won the lock and ran the notifications; the caller
// uses it to clear the cart exactly once.
type ConfirmResult struct {
	Status     Status
	Message    string
	Dispatched bool
}

const (
	msgPaid        = "Payment Success"
	msgPaidNoOrder = "Payment Success (order not found)"
	msgWaiting     = "Waiting for payment..."
	msgExpired     = "QR expired. Please go back to Checkout to generate a new code."
)

// ConfirmPayment handles one poll for a fingerprint. Safe to call
// repeatedly and concurrently: the notify lock collapses every racing
// poll into at most one notification dispatch.
func (s *Service) ConfirmPayment(ctx context.Context, fingerprint string) (*ConfirmResult, error) {
	if !s.cfg.GatewayConfigured {
		return nil, ErrGatewayNotConfigured
	}

	order, err := s.store.Get(ctx, fingerprint)
	if errors.Is(err, store.ErrNotFound) {
		// Evicted or never existed. Answer success-like so a stale client
		// stops polling, but dispatch nothing.
		s.log.WithField("fingerprint", fingerprint).Warn("order not found")
		return &ConfirmResult{Status: StatusPaid, Message: msgPaidNoOrder}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}

	// Once notified, expiry no longer matters: payment already beat it.
	if order.Expired(s.now()) && !order.Notified {
		s.log.WithField("fingerprint", fingerprint).Info("order expired")
		return &ConfirmResult{Status: StatusExpired, Message: msgExpired}, nil
	}

	paid, err := s.gateway.CheckTransaction(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	if !paid {
		return &ConfirmResult{Status: StatusWaiting, Message: msgWaiting}, nil
	}

	acquired, err := s.locks.Acquire(ctx, fingerprint, s.cfg.LockTTL)
	if err != nil {
		s.log.WithError(err).Warn("notify lock acquire failed")
		acquired = false
	}
	if !acquired {
		// Another poll holds the lock or just finished. Converge on the
		// same success response without a second dispatch.
		s.log.WithField("fingerprint", fingerprint).Info("duplicate notification suppressed")
		return &ConfirmResult{Status: StatusPaid, Message: msgPaid}, nil
	}

	dispatched := s.notifyOnce(ctx, fingerprint)
	return &ConfirmResult{Status: StatusPaid, Message: msgPaid, Dispatched: dispatched}, nil
}

// notifyOnce runs under an acquired lock and always releases it, even
// if a dispatch step panics. The order is reloaded first so a holder
// that finished between our gateway call and lock acquisition is
// detected and skipped.
func (s *Service) notifyOnce(ctx context.Context, fingerprint string) (dispatched bool) {
	defer func() {
		if err := s.locks.Release(ctx, fingerprint); err != nil {
			s.log.WithError(err).Warn("notify lock release failed")
		}
	}()

	order, err := s.store.Get(ctx, fingerprint)
	if err != nil {
		s.log.WithError(err).WithField("fingerprint", fingerprint).Error("reload order under lock failed")
		return false
	}
	if order.Notified {
		return false
	}

	s.notifier.NotifyPaid(ctx, order)

	if _, err := s.store.Update(ctx, fingerprint, s.cfg.OrderTTL, func(o *model.Order) {
		o.Notified = true
	}); err != nil {
		s.log.WithError(err).WithField("fingerprint", fingerprint).Error("mark notified failed")
	}

	if s.events != nil {
		s.events.PublishOrderPaid(order, fingerprint)
	}

	s.log.WithField("fingerprint", fingerprint).Info("order paid and notified")
	return true
}
