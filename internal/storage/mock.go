package storage

import (
	"context"
	"sync"
	"time"

	"github.com/g-wilson/courier"
)

// Mock is an in-memory Storage which records every call it receives.
type Mock struct {
	mu sync.Mutex

	Profiles      map[string]courier.UserProfile
	Notifications map[string]courier.Notification

	// Set these to make the matching operation fail
	GetUserProfileErr         error
	ClearUserFCMTokenErr      error
	SetNotificationOutcomeErr error

	Calls    []string
	Outcomes map[string]courier.DeliveryOutcome
	Now      func() time.Time
}

func NewMock() *Mock {
	return &Mock{
		Profiles:      map[string]courier.UserProfile{},
		Notifications: map[string]courier.Notification{},
		Outcomes:      map[string]courier.DeliveryOutcome{},
	}
}

func (s *Mock) record(call string) {
	s.Calls = append(s.Calls, call)
}

// Called reports whether op was invoked at least once.
func (s *Mock) Called(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.Calls {
		if c == op {
			return true
		}
	}

	return false
}

func (s *Mock) GetUserProfile(ctx context.Context, userID string) (courier.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("GetUserProfile")
	if s.GetUserProfileErr != nil {
		return courier.UserProfile{}, s.GetUserProfileErr
	}

	p, ok := s.Profiles[userID]
	if !ok {
		return courier.UserProfile{}, courier.ErrUserNotFound
	}

	return p, nil
}

func (s *Mock) SetUserFCMToken(ctx context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("SetUserFCMToken")
	s.Profiles[userID] = courier.UserProfile{ID: userID, FCMToken: token}

	return nil
}

func (s *Mock) ClearUserFCMToken(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("ClearUserFCMToken")
	if s.ClearUserFCMTokenErr != nil {
		return s.ClearUserFCMTokenErr
	}

	p, ok := s.Profiles[userID]
	if !ok {
		return courier.ErrUserNotFound
	}
	p.FCMToken = ""
	s.Profiles[userID] = p

	return nil
}

func (s *Mock) CreateNotification(ctx context.Context, n courier.Notification) (courier.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("CreateNotification")
	if n.ID == "" {
		n.ID = GenerateID(TypePrefixNotification)
	}
	s.Notifications[n.ID] = n

	return n, nil
}

func (s *Mock) GetNotification(ctx context.Context, notificationID string) (courier.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("GetNotification")
	n, ok := s.Notifications[notificationID]
	if !ok {
		return courier.Notification{}, courier.ErrNotificationNotFound
	}

	return n, nil
}

func (s *Mock) SetNotificationOutcome(ctx context.Context, notificationID string, outcome courier.DeliveryOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("SetNotificationOutcome")
	if s.SetNotificationOutcomeErr != nil {
		return s.SetNotificationOutcomeErr
	}

	s.Outcomes[notificationID] = outcome

	n := s.Notifications[notificationID]
	n.ID = notificationID
	n.Delivered = &outcome.Delivered
	if outcome.Delivered {
		now := time.Now().UTC()
		if s.Now != nil {
			now = s.Now()
		}
		n.FCMMessageID = outcome.FCMMessageID
		n.DeliveredAt = &now
	} else {
		n.Error = outcome.Error
	}
	s.Notifications[notificationID] = n

	return nil
}
