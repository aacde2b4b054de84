package smtp

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/g-wilson/courier/internal/emailer"

	logger "github.com/g-wilson/runtime/ctxlog"
	"github.com/go-mail/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return logger.SetContext(context.Background(), logger.Create("test", "text", "panic"))
}

type fakeDialer struct {
	sent []*mail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*mail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func newTestEmailer(t *testing.T, sendForReal bool, d dialer) *SMTPEmailer {
	t.Helper()

	e, err := New(Params{
		SendForReal:        sendForReal,
		Host:               "smtp.example.com",
		DefaultFromAddress: "noreply@example.com",
	})
	require.NoError(t, err)

	e.dialer = d
	return e
}

func TestNew_ResolvesService(t *testing.T) {
	e, err := New(Params{Service: "Gmail", User: "me@gmail.com", Password: "app-password"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.gmail.com", e.params.Host)
	assert.Equal(t, 465, e.params.Port)

	d, ok := e.dialer.(*mail.Dialer)
	require.True(t, ok)
	assert.True(t, d.SSL)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Params{Service: "pigeon"})
	assert.Error(t, err)

	_, err = New(Params{})
	assert.Error(t, err)
}

func TestSMTPEmailer_Send(t *testing.T) {
	d := &fakeDialer{}
	e := newTestEmailer(t, true, d)

	err := e.Send(testContext(), emailer.Message{
		To:      "ada@example.com",
		Subject: "Email Verification Code",
		HTML:    "<p>Hello Ada</p><h1>482913</h1>",
		Text:    "Hello Ada, your code is 482913",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"noreply@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"ada@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Email Verification Code"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "482913")
	assert.Contains(t, buf.String(), "text/html")
}

func TestSMTPEmailer_Send_ExplicitFrom(t *testing.T) {
	d := &fakeDialer{}
	e := newTestEmailer(t, true, d)

	err := e.Send(testContext(), emailer.Message{From: "team@example.com", To: "ada@example.com", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, []string{"team@example.com"}, d.sent[0].GetHeader("From"))
}

func TestSMTPEmailer_Send_RelayError(t *testing.T) {
	d := &fakeDialer{err: errors.New("535 authentication failed")}
	e := newTestEmailer(t, true, d)

	err := e.Send(testContext(), emailer.Message{To: "ada@example.com", HTML: "<p>hi</p>"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535 authentication failed")
}

func TestSMTPEmailer_Send_Disabled(t *testing.T) {
	d := &fakeDialer{}
	e := newTestEmailer(t, false, d)

	err := e.Send(testContext(), emailer.Message{To: "ada@example.com", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Empty(t, d.sent)
}

func TestSMTPEmailer_Send_NoRecipient(t *testing.T) {
	d := &fakeDialer{}
	e := newTestEmailer(t, true, d)

	err := e.Send(testContext(), emailer.Message{HTML: "<p>hi</p>"})
	assert.ErrorIs(t, err, emailer.ErrNoRecipient)
	assert.Empty(t, d.sent)
}
