package ses

import (
	"context"
	"fmt"

	"github.com/g-wilson/courier/internal/emailer"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	logger "github.com/g-wilson/runtime/ctxlog"
)

const charsetUTF8 = "UTF-8"

type Params struct {
	SendForReal bool

	DefaultReplyAddress string
	DefaultFromAddress  string
}

// SESEmailer meets the emailer.Emailer interface
type SESEmailer struct {
	ses    sesiface.SESAPI
	params Params
}

func New(awsSession *session.Session, awsConfig *aws.Config, cfg Params) *SESEmailer {
	return &SESEmailer{
		ses:    ses.New(awsSession, awsConfig),
		params: cfg,
	}
}

func (e *SESEmailer) Send(ctx context.Context, msg emailer.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	input := e.buildInput(msg)

	if !e.params.SendForReal {
		logger.FromContext(ctx).Entry().
			WithField("to", msg.To).
			WithField("subject", msg.Subject).
			Info("ses emailer: sending disabled, message dropped")

		return nil
	}

	_, err := e.ses.SendEmailWithContext(ctx, input)
	if err != nil {
		return fmt.Errorf("ses emailer: send failed: %w", err)
	}

	return nil
}

func (e *SESEmailer) buildInput(msg emailer.Message) *ses.SendEmailInput {
	from := msg.From
	if from == "" {
		from = e.params.DefaultFromAddress
	}

	body := &ses.Body{
		Html: &ses.Content{
			Charset: aws.String(charsetUTF8),
			Data:    aws.String(msg.HTML),
		},
	}
	if msg.Text != "" {
		body.Text = &ses.Content{
			Charset: aws.String(charsetUTF8),
			Data:    aws.String(msg.Text),
		}
	}

	input := &ses.SendEmailInput{
		Destination: &ses.Destination{ToAddresses: []*string{aws.String(msg.To)}},
		Source:      aws.String(from),
		Message: &ses.Message{
			Subject: &ses.Content{
				Charset: aws.String(charsetUTF8),
				Data:    aws.String(msg.Subject),
			},
			Body: body,
		},
	}
	if e.params.DefaultReplyAddress != "" {
		input.ReplyToAddresses = []*string{aws.String(e.params.DefaultReplyAddress)}
	}

	return input
}
