package emailer

import (
	"context"
	"errors"
)

var ErrNoRecipient = errors.New("emailer: message has no recipient")

// Message is a single outbound email. Text is optional.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

func (m Message) Validate() error {
	if m.To == "" {
		return ErrNoRecipient
	}

	return nil
}

type Emailer interface {
	Send(ctx context.Context, msg Message) error
}
