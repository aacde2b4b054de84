package dynamo

import (
	"context"
	"fmt"

	"github.com/g-wilson/courier"

	"github.com/guregu/dynamo"
)

func (s *DynamoStorage) GetUserProfile(ctx context.Context, userID string) (courier.UserProfile, error) {
	ent := User{}

	err := s.db.Table(s.usersTable).
		Get("id", userID).
		OneWithContext(ctx, &ent)
	if err != nil {
		if err == dynamo.ErrNotFound {
			return courier.UserProfile{}, courier.ErrUserNotFound
		}

		return courier.UserProfile{}, fmt.Errorf("dynamo: GetUserProfile: %w", err)
	}

	return ent.ToApp(), nil
}

func (s *DynamoStorage) SetUserFCMToken(ctx context.Context, userID, token string) error {
	err := s.db.Table(s.usersTable).
		Update("id", userID).
		Set("fcmToken", token).
		RunWithContext(ctx)
	if err != nil {
		return fmt.Errorf("dynamo: SetUserFCMToken: %w", err)
	}

	return nil
}

// ClearUserFCMToken removes the attribute rather than blanking it.
func (s *DynamoStorage) ClearUserFCMToken(ctx context.Context, userID string) error {
	err := s.db.Table(s.usersTable).
		Update("id", userID).
		Remove("fcmToken").
		If("attribute_exists(id)").
		RunWithContext(ctx)
	if err != nil {
		if isConditionFailed(err) {
			return courier.ErrUserNotFound
		}

		return fmt.Errorf("dynamo: ClearUserFCMToken: %w", err)
	}

	return nil
}
