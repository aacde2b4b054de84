package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/g-wilson/courier/internal/emailer"

	logger "github.com/g-wilson/runtime/ctxlog"
	"github.com/go-mail/mail"
)

type wellKnown struct {
	Host string
	Port int
}

// WellKnownServices resolves a relay service name to its submission endpoint.
var WellKnownServices = map[string]wellKnown{
	"gmail":    {Host: "smtp.gmail.com", Port: 465},
	"outlook":  {Host: "smtp-mail.outlook.com", Port: 587},
	"hotmail":  {Host: "smtp-mail.outlook.com", Port: 587},
	"yahoo":    {Host: "smtp.mail.yahoo.com", Port: 465},
	"sendgrid": {Host: "smtp.sendgrid.net", Port: 587},
	"mailgun":  {Host: "smtp.mailgun.org", Port: 587},
	"zoho":     {Host: "smtp.zoho.com", Port: 465},
}

type Params struct {
	SendForReal bool

	// Service takes precedence over Host/Port when set
	Service  string
	Host     string
	Port     int
	User     string
	Password string

	DefaultFromAddress string
	Timeout            time.Duration
}

type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPEmailer meets the emailer.Emailer interface
type SMTPEmailer struct {
	dialer dialer
	params Params
}

func New(cfg Params) (*SMTPEmailer, error) {
	if cfg.Service != "" {
		svc, ok := WellKnownServices[strings.ToLower(cfg.Service)]
		if !ok {
			return nil, fmt.Errorf("smtp emailer: unknown service %q", cfg.Service)
		}
		cfg.Host, cfg.Port = svc.Host, svc.Port
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp emailer: host or service is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.Timeout = cfg.Timeout
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	if cfg.Port == 465 {
		d.SSL = true
	}

	return &SMTPEmailer{dialer: d, params: cfg}, nil
}

func (e *SMTPEmailer) Send(ctx context.Context, msg emailer.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	m := e.buildMessage(msg)

	if !e.params.SendForReal {
		logger.FromContext(ctx).Entry().
			WithField("to", msg.To).
			WithField("subject", msg.Subject).
			Info("smtp emailer: sending disabled, message dropped")

		return nil
	}

	err := e.dialer.DialAndSend(m)
	if err != nil {
		return fmt.Errorf("smtp emailer: send to %s via %s:%d failed: %w", msg.To, e.params.Host, e.params.Port, err)
	}

	return nil
}

func (e *SMTPEmailer) buildMessage(msg emailer.Message) *mail.Message {
	from := msg.From
	if from == "" {
		from = e.params.DefaultFromAddress
	}

	m := mail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else {
		m.SetBody("text/html", msg.HTML)
	}

	return m
}
