package emails

import (
	"bytes"
	html "html/template"
	text "text/template"

	"github.com/g-wilson/courier/internal/emailer"
)

const VerificationSubject = "Email Verification Code"

// VerificationCodeTTLText is shown to the recipient only, expiry is enforced wherever the code is stored.
const VerificationCodeTTLText = "5 minutes"

// UserName and Code go into the markup verbatim, the same as the plain text body.
type verificationTemplateData struct {
	UserName html.HTML
	Code     html.HTML
	TTL      string
}

var verificationHTMLTemplate = html.Must(html.New("verification").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Email Verification</h2>
  <p>Hello {{.UserName}},</p>
  <p>Your verification code is:</p>
  <div style="background-color: #f4f4f4; padding: 20px; text-align: center; margin: 20px 0;">
    <h1 style="color: #29A87A; font-size: 32px; letter-spacing: 5px; margin: 0;">{{.Code}}</h1>
  </div>
  <p>This code will expire in {{.TTL}}.</p>
  <p>If you didn't request this code, please ignore this email.</p>
</div>
`))

var verificationTextTemplate = text.Must(text.New("verification").Parse(`Hello {{.UserName}},

Your verification code is: {{.Code}}

This code will expire in {{.TTL}}.
If you didn't request this code, please ignore this email.
`))

// NewVerificationEmail renders the verification code email. From is left to the emailer's default when empty.
func NewVerificationEmail(from, toAddress, userName, code string) (emailer.Message, error) {
	data := verificationTemplateData{
		UserName: html.HTML(userName),
		Code:     html.HTML(code),
		TTL:      VerificationCodeTTLText,
	}

	var htmlOutput bytes.Buffer
	err := verificationHTMLTemplate.Execute(&htmlOutput, data)
	if err != nil {
		return emailer.Message{}, err
	}

	var textOutput bytes.Buffer
	err = verificationTextTemplate.Execute(&textOutput, data)
	if err != nil {
		return emailer.Message{}, err
	}

	return emailer.Message{
		From:    from,
		To:      toAddress,
		Subject: VerificationSubject,
		HTML:    htmlOutput.String(),
		Text:    textOutput.String(),
	}, nil
}
