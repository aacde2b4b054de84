package dynamo

import (
	"context"
	"fmt"

	"github.com/g-wilson/courier"
	"github.com/g-wilson/courier/internal/storage"

	"github.com/guregu/dynamo"
)

func (s *DynamoStorage) CreateNotification(ctx context.Context, n courier.Notification) (courier.Notification, error) {
	if n.ID == "" {
		n.ID = storage.GenerateID(storage.TypePrefixNotification)
	}

	ent := notificationFromApp(n)

	err := s.db.Table(s.notificationsTable).
		Put(ent).
		If("attribute_not_exists(id)").
		RunWithContext(ctx)
	if err != nil {
		return courier.Notification{}, fmt.Errorf("dynamo: CreateNotification: %w", err)
	}

	return ent.ToApp(), nil
}

func (s *DynamoStorage) GetNotification(ctx context.Context, notificationID string) (courier.Notification, error) {
	ent := Notification{}

	err := s.db.Table(s.notificationsTable).
		Get("id", notificationID).
		OneWithContext(ctx, &ent)
	if err != nil {
		if err == dynamo.ErrNotFound {
			return courier.Notification{}, courier.ErrNotificationNotFound
		}

		return courier.Notification{}, fmt.Errorf("dynamo: GetNotification: %w", err)
	}

	return ent.ToApp(), nil
}

// SetNotificationOutcome stamps deliveredAt with the storage clock on success.
func (s *DynamoStorage) SetNotificationOutcome(ctx context.Context, notificationID string, outcome courier.DeliveryOutcome) error {
	update := s.db.Table(s.notificationsTable).
		Update("id", notificationID).
		Set("delivered", outcome.Delivered)

	if outcome.Delivered {
		update = update.
			Set("fcmMessageId", outcome.FCMMessageID).
			Set("deliveredAt", s.now().Unix())
	} else {
		update = update.Set("error", outcome.Error)
	}

	err := update.
		If("attribute_exists(id)").
		RunWithContext(ctx)
	if err != nil {
		if isConditionFailed(err) {
			return courier.ErrNotificationNotFound
		}

		return fmt.Errorf("dynamo: SetNotificationOutcome: %w", err)
	}

	return nil
}
