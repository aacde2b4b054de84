package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/g-wilson/courier"

	logger "github.com/g-wilson/runtime/ctxlog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// notificationsWatchID keys the stored resume token of the notification stream
const notificationsWatchID = "notification-inserts"

type insertEvent struct {
	FullDocument Notification `bson:"fullDocument"`
}

type watchState struct {
	ID          string    `bson:"_id"`
	ResumeToken bson.Raw  `bson:"resumeToken"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// InsertPipeline restricts a change stream to newly created documents.
func InsertPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "operationType", Value: "insert"}}}},
	}
}

func decodeInsertEvent(raw bson.Raw) (courier.Notification, error) {
	ev := insertEvent{}

	err := bson.Unmarshal(raw, &ev)
	if err != nil {
		return courier.Notification{}, err
	}

	return ev.FullDocument.ToApp(), nil
}

// WatchNotifications calls fn once per inserted notification until ctx is
// cancelled or fn returns an error. The resume token is stored after every
// event, so a restarted watcher picks up inserts made while it was down.
// Undecodable events are logged and skipped. A cancelled context is not an error.
func (s *MongoStorage) WatchNotifications(ctx context.Context, fn func(context.Context, courier.Notification) error) error {
	log := logger.FromContext(ctx).Entry()

	opts := options.ChangeStream()

	token, err := s.loadResumeToken(ctx)
	if err != nil {
		return fmt.Errorf("mongo: WatchNotifications: %w", err)
	}
	if token != nil {
		log.Info("resuming notification change stream")
		opts.SetStartAfter(token)
	}

	stream, err := s.db.Collection(CollectionNotifications).Watch(ctx, InsertPipeline(), opts)
	if err != nil {
		return fmt.Errorf("mongo: WatchNotifications: %w", err)
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		n, err := decodeInsertEvent(stream.Current)
		if err != nil {
			log.WithError(err).Error("skipping undecodable change event")
		} else {
			err = fn(ctx, n)
			if err != nil {
				return err
			}
		}

		err = s.saveResumeToken(ctx, stream.ResumeToken())
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("mongo: WatchNotifications: %w", err)
		}
	}

	if ctx.Err() != nil {
		return nil
	}

	return stream.Err()
}

func (s *MongoStorage) loadResumeToken(ctx context.Context) (bson.Raw, error) {
	state := watchState{}

	err := s.db.Collection(CollectionWatchState).
		FindOne(ctx, bson.M{"_id": notificationsWatchID}).
		Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}

		return nil, fmt.Errorf("loading resume token: %w", err)
	}

	return state.ResumeToken, nil
}

func (s *MongoStorage) saveResumeToken(ctx context.Context, token bson.Raw) error {
	if token == nil {
		return nil
	}

	_, err := s.db.Collection(CollectionWatchState).UpdateOne(ctx,
		bson.M{"_id": notificationsWatchID},
		resumeTokenUpdate(token, time.Now().UTC()),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("saving resume token: %w", err)
	}

	return nil
}

func resumeTokenUpdate(token bson.Raw, now time.Time) bson.M {
	return bson.M{"$set": bson.M{"resumeToken": token, "updatedAt": now}}
}
