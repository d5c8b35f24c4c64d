package notify

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeText struct {
	sent []string
	err  error
}

func (f *fakeText) Send(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMail struct {
	sent []sentMail
	err  error
}

func (f *fakeMail) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNotifyPaidBothChannels(t *testing.T) {
	tg := &fakeText{}
	mail := &fakeMail{}
	d := NewDispatcher(tg, mail, quietLogger())

	d.NotifyPaid(context.Background(), usdOrder())

	require.Len(t, tg.sent, 1)
	assert.Contains(t, tg.sent[0], "New Paid Order")

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "sok@example.com", mail.sent[0].to)
	assert.Equal(t, "Your Kimhut Café Invoice", mail.sent[0].subject)
	assert.Contains(t, mail.sent[0].body, "Thanks for your order!")
}

func TestNotifyPaidTelegramFailureStillMails(t *testing.T) {
	tg := &fakeText{err: errors.New("api down")}
	mail := &fakeMail{}
	d := NewDispatcher(tg, mail, quietLogger())

	d.NotifyPaid(context.Background(), usdOrder())

	assert.Len(t, mail.sent, 1)
}

func TestNotifyContact(t *testing.T) {
	tg := &fakeText{}
	mail := &fakeMail{}
	d := NewDispatcher(tg, mail, quietLogger())

	ok := d.NotifyContact(context.Background(), "Dara", "dara@example.com", "Do you deliver?")
	assert.True(t, ok)

	require.Len(t, tg.sent, 1)
	assert.Contains(t, tg.sent[0], "<b>Contact</b>")

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "dara@example.com", mail.sent[0].to)
	assert.Equal(t, "We received your message — Kimhut Café", mail.sent[0].subject)
}

func TestNotifyContactNoEmailSkipsAck(t *testing.T) {
	tg := &fakeText{}
	mail := &fakeMail{}
	d := NewDispatcher(tg, mail, quietLogger())

	ok := d.NotifyContact(context.Background(), "Dara", "", "hello")
	assert.True(t, ok, "telegram delivery alone is enough")
	assert.Empty(t, mail.sent)
}

func TestNotifyContactAllChannelsDown(t *testing.T) {
	tg := &fakeText{err: errors.New("down")}
	mail := &fakeMail{err: errors.New("down")}
	d := NewDispatcher(tg, mail, quietLogger())

	ok := d.NotifyContact(context.Background(), "Dara", "dara@example.com", "hello")
	assert.False(t, ok)
}
