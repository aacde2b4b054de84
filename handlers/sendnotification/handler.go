package sendnotification

import (
	"context"
	"errors"
	"fmt"

	"github.com/g-wilson/courier"
	"github.com/g-wilson/courier/internal/push"
	"github.com/g-wilson/courier/internal/storage"

	logger "github.com/g-wilson/runtime/ctxlog"
	"github.com/sirupsen/logrus"
)

type Function struct {
	Storage storage.Storage
	Push    push.Sender
}

// Dispatch runs once per created notification and always ends in exactly one
// outcome write. Delivery problems become the record's error field; only a
// failure to write that outcome is returned.
func (f *Function) Dispatch(ctx context.Context, n courier.Notification) error {
	if n.ID == "" {
		return errors.New("sendnotification: notification has no id")
	}

	n = n.WithDefaults()

	log := logger.FromContext(ctx).Entry().
		WithField("notification_id", n.ID).
		WithField("user_id", n.UserID)

	outcome := f.deliver(ctx, log, n)

	err := f.Storage.SetNotificationOutcome(ctx, n.ID, outcome)
	if err != nil {
		log.WithError(err).Error("recording notification outcome failed")

		return fmt.Errorf("sendnotification: recording outcome of %s: %w", n.ID, err)
	}

	return nil
}

func (f *Function) deliver(ctx context.Context, log *logrus.Entry, n courier.Notification) courier.DeliveryOutcome {
	if n.UserID == "" {
		return courier.Undelivered(courier.StatusNoUserID)
	}

	profile, err := f.Storage.GetUserProfile(ctx, n.UserID)
	if err != nil && !errors.Is(err, courier.ErrUserNotFound) {
		log.WithError(err).Error("user profile lookup failed")

		return courier.Undelivered(err.Error())
	}
	if profile.FCMToken == "" {
		return courier.Undelivered(courier.StatusNoFCMToken)
	}

	messageID, err := f.Push.Send(ctx, push.Message{
		Token: profile.FCMToken,
		Title: n.Title,
		Body:  n.Message,
		Data:  map[string]string{push.DataKeyNotificationID: n.ID},
	})
	if err != nil {
		log.WithError(err).
			WithField("error_kind", courier.KindOf(err)).
			Error("error sending notification")

		if courier.IsStaleToken(err) {
			clearErr := f.Storage.ClearUserFCMToken(ctx, n.UserID)
			if clearErr != nil {
				log.WithError(clearErr).Warn("removing stale fcm token failed")
			}
		}

		return courier.Undelivered(err.Error())
	}

	log.WithField("fcm_message_id", messageID).Info("notification sent")

	return courier.Delivered(messageID)
}
