package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/g-wilson/courier"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionNotifications = "notification"
	CollectionUsers         = "users"
	CollectionWatchState    = "watch_state"
)

// MongoStorage meets the storage.Storage interface
type MongoStorage struct {
	db *mongo.Database
}

func New(db *mongo.Database) *MongoStorage {
	return &MongoStorage{
		db: db,
	}
}

func (s *MongoStorage) Setup() (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = s.db.Collection(CollectionNotifications).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "delivered", Value: 1}}},
	})

	return
}

// Notification keeps _id as stored. Documents created outside courier usually carry an ObjectId.
type Notification struct {
	ID      interface{} `bson:"_id"`
	Title   string `bson:"title,omitempty"`
	Message string `bson:"message,omitempty"`
	UserID  string `bson:"userId,omitempty"`

	Delivered    *bool      `bson:"delivered,omitempty"`
	Error        string     `bson:"error,omitempty"`
	FCMMessageID string     `bson:"fcmMessageId,omitempty"`
	DeliveredAt  *time.Time `bson:"deliveredAt,omitempty"`
}

func (n Notification) ToApp() courier.Notification {
	return courier.Notification{
		ID:           idString(n.ID),
		Title:        n.Title,
		Message:      n.Message,
		UserID:       n.UserID,
		Delivered:    n.Delivered,
		Error:        n.Error,
		FCMMessageID: n.FCMMessageID,
		DeliveredAt:  n.DeliveredAt,
	}
}

type User struct {
	ID       interface{} `bson:"_id"`
	FCMToken string `bson:"fcmToken,omitempty"`
}

func (u User) ToApp() courier.UserProfile {
	return courier.UserProfile{
		ID:       idString(u.ID),
		FCMToken: u.FCMToken,
	}
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	default:
		return fmt.Sprint(v)
	}
}

// idFilter matches a document by the id handed out by ToApp. A hex id also
// matches the ObjectId it was rendered from.
func idFilter(id string) bson.M {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bson.M{"_id": id}
	}

	return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
}
