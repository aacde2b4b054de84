package push

import "context"

// DataKeyNotificationID carries the notification record id in the message data block
const DataKeyNotificationID = "notificationId"

type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers one message and returns the provider's message id.
// Failures are *courier.Error values so callers can branch on the kind.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}
