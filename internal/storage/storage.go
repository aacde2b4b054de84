package storage

import (
	"context"
	"fmt"

	"github.com/g-wilson/courier"

	"github.com/segmentio/ksuid"
)

type TypePrefix string

const TypePrefixNotification = TypePrefix("notif")

func GenerateID(t TypePrefix) string {
	return fmt.Sprintf("%s_%s", t, ksuid.New().String())
}

// Storage is the document store as seen by the functions. GetUserProfile
// returns courier.ErrUserNotFound for a missing profile, GetNotification and
// SetNotificationOutcome return courier.ErrNotificationNotFound for a missing record.
type Storage interface {
	GetUserProfile(ctx context.Context, userID string) (courier.UserProfile, error)
	SetUserFCMToken(ctx context.Context, userID, token string) error
	ClearUserFCMToken(ctx context.Context, userID string) error

	CreateNotification(ctx context.Context, n courier.Notification) (courier.Notification, error)
	GetNotification(ctx context.Context, notificationID string) (courier.Notification, error)
	SetNotificationOutcome(ctx context.Context, notificationID string, outcome courier.DeliveryOutcome) error
}
