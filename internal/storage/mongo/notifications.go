package mongo

import (
	"context"
	"fmt"

	"github.com/g-wilson/courier"
	"github.com/g-wilson/courier/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (s *MongoStorage) CreateNotification(ctx context.Context, n courier.Notification) (courier.Notification, error) {
	if n.ID == "" {
		n.ID = storage.GenerateID(storage.TypePrefixNotification)
	}

	ent := Notification{
		ID:      n.ID,
		Title:   n.Title,
		Message: n.Message,
		UserID:  n.UserID,
	}

	_, err := s.db.Collection(CollectionNotifications).InsertOne(ctx, ent)
	if err != nil {
		return courier.Notification{}, fmt.Errorf("mongo: CreateNotification: %w", err)
	}

	return ent.ToApp(), nil
}

func (s *MongoStorage) GetNotification(ctx context.Context, notificationID string) (courier.Notification, error) {
	ent := Notification{}

	err := s.db.Collection(CollectionNotifications).
		FindOne(ctx, idFilter(notificationID)).
		Decode(&ent)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return courier.Notification{}, courier.ErrNotificationNotFound
		}

		return courier.Notification{}, fmt.Errorf("mongo: GetNotification: %w", err)
	}

	return ent.ToApp(), nil
}

// SetNotificationOutcome lets the server assign deliveredAt.
func (s *MongoStorage) SetNotificationOutcome(ctx context.Context, notificationID string, outcome courier.DeliveryOutcome) error {
	res, err := s.db.Collection(CollectionNotifications).UpdateOne(ctx, idFilter(notificationID), outcomeUpdate(outcome))
	if err != nil {
		return fmt.Errorf("mongo: SetNotificationOutcome: %w", err)
	}
	if res.MatchedCount == 0 {
		return courier.ErrNotificationNotFound
	}

	return nil
}

func outcomeUpdate(outcome courier.DeliveryOutcome) bson.M {
	update := bson.M{}

	if outcome.Delivered {
		update["$set"] = bson.M{
			"delivered":    true,
			"fcmMessageId": outcome.FCMMessageID,
		}
		update["$currentDate"] = bson.M{"deliveredAt": true}
	} else {
		update["$set"] = bson.M{
			"delivered": false,
			"error":     outcome.Error,
		}
	}

	return update
}
