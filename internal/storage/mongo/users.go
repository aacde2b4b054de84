package mongo

import (
	"context"
	"fmt"

	"github.com/g-wilson/courier"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStorage) GetUserProfile(ctx context.Context, userID string) (courier.UserProfile, error) {
	ent := User{}

	err := s.db.Collection(CollectionUsers).
		FindOne(ctx, idFilter(userID)).
		Decode(&ent)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return courier.UserProfile{}, courier.ErrUserNotFound
		}

		return courier.UserProfile{}, fmt.Errorf("mongo: GetUserProfile: %w", err)
	}

	return ent.ToApp(), nil
}

// SetUserFCMToken creates the profile with a string id when none matches.
func (s *MongoStorage) SetUserFCMToken(ctx context.Context, userID, token string) error {
	update := bson.M{"$set": bson.M{"fcmToken": token}}

	res, err := s.db.Collection(CollectionUsers).UpdateOne(ctx, idFilter(userID), update)
	if err != nil {
		return fmt.Errorf("mongo: SetUserFCMToken: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	_, err = s.db.Collection(CollectionUsers).UpdateOne(ctx,
		bson.M{"_id": userID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo: SetUserFCMToken: %w", err)
	}

	return nil
}

func (s *MongoStorage) ClearUserFCMToken(ctx context.Context, userID string) error {
	res, err := s.db.Collection(CollectionUsers).UpdateOne(ctx, idFilter(userID), clearTokenUpdate())
	if err != nil {
		return fmt.Errorf("mongo: ClearUserFCMToken: %w", err)
	}
	if res.MatchedCount == 0 {
		return courier.ErrUserNotFound
	}

	return nil
}

func clearTokenUpdate() bson.M {
	return bson.M{"$unset": bson.M{"fcmToken": ""}}
}
