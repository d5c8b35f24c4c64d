package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Email sends plain text mail through the configured SMTP relay.
type Email struct {
	host     string
	port     int
	username string
	password string
	sender   string
}

func NewEmail(host string, port int, username, password, sender string) *Email {
	return &Email{host: host, port: port, username: username, password: password, sender: sender}
}

// Send mails body to the given address. An empty recipient falls back to
// the configured sender so a paid order without an email still leaves a
// trace in the shop inbox.
func (e *Email) Send(to, subject, body string) error {
	if e.username == "" || e.sender == "" {
		return fmt.Errorf("%w: smtp username or sender missing", ErrNotConfigured)
	}
	if to == "" {
		to = e.sender
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(e.host, e.port, e.username, e.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
