package sendverificationemail

import (
	"context"

	"github.com/g-wilson/courier"
	"github.com/g-wilson/courier/emails"
	"github.com/g-wilson/courier/internal/emailer"

	logger "github.com/g-wilson/runtime/ctxlog"
)

type Function struct {
	Emailer     emailer.Emailer
	FromAddress string
}

type Request = courier.VerificationEmailRequest

type Response = courier.VerificationEmailResponse

// Do sends exactly one email per valid request. Relay failures are logged
// and reported to the caller only as courier.ErrSendingEmail.
func (f *Function) Do(ctx context.Context, req *Request) (*Response, error) {
	log := logger.FromContext(ctx).Entry()

	err := validateRequest(log, req)
	if err != nil {
		return nil, err
	}

	log = log.WithField("to", req.Email)

	email, err := emails.NewVerificationEmail(f.FromAddress, req.Email, req.UserName, req.Code)
	if err != nil {
		log.WithError(err).
			WithField("email_template", "verification").
			Error("verification email template failed")

		return nil, courier.ErrSendingEmail
	}

	err = f.Emailer.Send(ctx, email)
	if err != nil {
		log.Errorf("verification email sending failed: %v", err)

		return nil, courier.ErrSendingEmail
	}

	log.Debug("verification email sent")

	return &Response{Success: true}, nil
}
