package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sothun2025/kimhutcoffee-v2/model"
)

const (
	invoiceSubject    = "Your Kimhut Café Invoice"
	contactAckSubject = "We received your message — Kimhut Café"
)

// TextSender is the Telegram shaped channel.
type TextSender interface {
	Send(ctx context.Context, text string) error
}

// MailSender is the SMTP shaped channel.
type MailSender interface {
	Send(to, subject, body string) error
}

// Dispatcher fans one event out to both channels. A failing channel is
// logged and skipped; the other channel still gets its copy.
type Dispatcher struct {
	telegram TextSender
	mail     MailSender
	log      *logrus.Logger
}

func NewDispatcher(telegram TextSender, mail MailSender, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{telegram: telegram, mail: mail, log: log}
}

// NotifyPaid announces the order in the shop's Telegram chat and mails
// the invoice to the customer. Errors are logged, not returned: the
// order gets exactly one delivery attempt per channel.
func (d *Dispatcher) NotifyPaid(ctx context.Context, o *model.Order) {
	now := time.Now()

	if err := d.telegram.Send(ctx, OrderMessage(o, now)); err != nil {
		d.log.WithError(err).Warn("telegram order notification failed")
	}
	if err := d.mail.Send(o.Customer.Email, invoiceSubject, InvoiceBody(o, now)); err != nil {
		d.log.WithError(err).Warn("invoice email failed")
	}
}

// NotifyContact forwards a contact form message to Telegram and sends an
// acknowledgement mail back to the sender. It reports whether at least
// one channel delivered.
func (d *Dispatcher) NotifyContact(ctx context.Context, name, email, message string) bool {
	delivered := false

	if err := d.telegram.Send(ctx, ContactMessage(name, email, message)); err != nil {
		d.log.WithError(err).Warn("contact telegram notification failed")
	} else {
		delivered = true
	}

	if email != "" {
		if err := d.mail.Send(email, contactAckSubject, ContactAckBody(name, message)); err != nil {
			d.log.WithError(err).Warn("contact acknowledgement email failed")
		} else {
			delivered = true
		}
	}
	return delivered
}
