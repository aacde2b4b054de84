package courier

import "time"

const (
	DefaultNotificationTitle = "Notification"

	// Status values written onto a notification record when delivery is skipped
	StatusNoUserID   = "no-userId"
	StatusNoFCMToken = "no-fcmToken"
)

var (
	ErrMissingParameters = NewError(KindInvalidArgument, "Missing required parameters")
	ErrSendingEmail      = NewError(KindInternal, "Failed to send email")

	ErrUserNotFound         = NewError(KindNotFound, "user not found")
	ErrNotificationNotFound = NewError(KindNotFound, "notification not found")
)

// Notification is the record created under notification/{id} by an external actor
type Notification struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	UserID  string `json:"userId"`

	Delivered    *bool      `json:"delivered,omitempty"`
	Error        string     `json:"error,omitempty"`
	FCMMessageID string     `json:"fcmMessageId,omitempty"`
	DeliveredAt  *time.Time `json:"deliveredAt,omitempty"`
}

// WithDefaults returns a copy with the optional display fields filled in.
func (n Notification) WithDefaults() Notification {
	if n.Title == "" {
		n.Title = DefaultNotificationTitle
	}

	return n
}

// UserProfile is the subset of users/{userId} the dispatcher reads
type UserProfile struct {
	ID       string `json:"id"`
	FCMToken string `json:"fcmToken,omitempty"`
}

// DeliveryOutcome is the terminal status written onto a notification record.
// DeliveredAt is assigned by the storage layer when Delivered is true.
type DeliveryOutcome struct {
	Delivered    bool
	FCMMessageID string
	Error        string
}

func Delivered(messageID string) DeliveryOutcome {
	return DeliveryOutcome{Delivered: true, FCMMessageID: messageID}
}

func Undelivered(reason string) DeliveryOutcome {
	return DeliveryOutcome{Delivered: false, Error: reason}
}

type VerificationEmailRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	UserName string `json:"userName"`
}

type VerificationEmailResponse struct {
	Success bool `json:"success"`
}
