package sendverificationemail

import (
	"fmt"

	"github.com/g-wilson/courier/internal/callable"
	"github.com/g-wilson/courier/internal/config"
	"github.com/g-wilson/courier/internal/emailer"
	sesemailer "github.com/g-wilson/courier/internal/emailer/ses"
	smtpemailer "github.com/g-wilson/courier/internal/emailer/smtp"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	logger "github.com/g-wilson/runtime/ctxlog"
)

const Name = "sendverificationemail"

func Init() (lambda.Handler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.Create(Name, cfg.LogFormat, cfg.LogLevel)

	mailer, err := NewEmailer(cfg)
	if err != nil {
		return nil, err
	}

	f := &Function{
		Emailer:     mailer,
		FromAddress: cfg.Mail.FromAddress,
	}

	log.WithField("transport", cfg.Mail.Transport).Info("function initialised")

	return lambda.NewHandler(callable.WrapAPIGatewayHTTP(log, f.Do)), nil
}

// NewEmailer builds the relay selected by MAIL_TRANSPORT.
func NewEmailer(cfg *config.Config) (emailer.Emailer, error) {
	switch cfg.Mail.Transport {
	case config.TransportSES:
		awsConfig := aws.NewConfig().WithRegion(cfg.AWSRegion)
		awsSession := session.Must(session.NewSession())

		return sesemailer.New(awsSession, awsConfig, sesemailer.Params{
			SendForReal:        cfg.Mail.SendForReal,
			DefaultFromAddress: cfg.Mail.FromAddress,
		}), nil
	case config.TransportSMTP:
		from := cfg.Mail.FromAddress
		if from == "" {
			from = cfg.Mail.User
		}

		return smtpemailer.New(smtpemailer.Params{
			SendForReal:        cfg.Mail.SendForReal,
			Service:            cfg.Mail.Service,
			Host:               cfg.Mail.Host,
			Port:               cfg.Mail.Port,
			User:               cfg.Mail.User,
			Password:           cfg.Mail.Password,
			DefaultFromAddress: from,
		})
	default:
		return nil, fmt.Errorf("unsupported mail transport %q", cfg.Mail.Transport)
	}
}
