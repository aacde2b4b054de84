package sendnotification

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/g-wilson/courier"
	"github.com/g-wilson/courier/internal/push"
	"github.com/g-wilson/courier/internal/storage"

	logger "github.com/g-wilson/runtime/ctxlog"
)

func testContext() context.Context {
	return logger.SetContext(context.Background(), logger.Create("test", "text", "panic"))
}

type fakeSender struct {
	id   string
	err  error
	sent []push.Message
}

func (s *fakeSender) Send(ctx context.Context, msg push.Message) (string, error) {
	s.sent = append(s.sent, msg)
	if s.err != nil {
		return "", s.err
	}

	return s.id, nil
}

func newMockStorage(profiles ...courier.UserProfile) *storage.Mock {
	s := storage.NewMock()
	for _, p := range profiles {
		s.Profiles[p.ID] = p
	}

	return s
}

func TestFunction_Dispatch(t *testing.T) {
	tokenGone := courier.NewError(courier.KindTokenNotRegistered, "Requested entity was not found.")
	tokenBad := courier.NewError(courier.KindTokenInvalid, "The registration token is not a valid FCM registration token")
	quota := courier.NewError(courier.KindPushUnavailable, "Quota exceeded")

	tests := []struct {
		name         string
		notification courier.Notification
		profiles     []courier.UserProfile
		sender       *fakeSender
		wantOutcome  courier.DeliveryOutcome
		wantLookup   bool
		wantSends    int
		wantToken    map[string]string
	}{
		{
			name:         "no user id",
			notification: courier.Notification{ID: "n1", Title: "Hi"},
			sender:       &fakeSender{},
			wantOutcome:  courier.Undelivered("no-userId"),
		},
		{
			name:         "no profile",
			notification: courier.Notification{ID: "n1", UserID: "u1"},
			sender:       &fakeSender{},
			wantOutcome:  courier.Undelivered("no-fcmToken"),
			wantLookup:   true,
		},
		{
			name:         "profile without token",
			notification: courier.Notification{ID: "n1", UserID: "u1"},
			profiles:     []courier.UserProfile{{ID: "u1"}},
			sender:       &fakeSender{},
			wantOutcome:  courier.Undelivered("no-fcmToken"),
			wantLookup:   true,
			wantToken:    map[string]string{"u1": ""},
		},
		{
			name:         "delivered",
			notification: courier.Notification{ID: "n1", Title: "Hi", Message: "Yo", UserID: "u1"},
			profiles:     []courier.UserProfile{{ID: "u1", FCMToken: "tok1"}},
			sender:       &fakeSender{id: "m-42"},
			wantOutcome:  courier.Delivered("m-42"),
			wantLookup:   true,
			wantSends:    1,
			wantToken:    map[string]string{"u1": "tok1"},
		},
		{
			name:         "unregistered token is removed",
			notification: courier.Notification{ID: "n1", UserID: "u1"},
			profiles:     []courier.UserProfile{{ID: "u1", FCMToken: "tok1"}},
			sender:       &fakeSender{err: tokenGone},
			wantOutcome:  courier.Undelivered("Requested entity was not found."),
			wantLookup:   true,
			wantSends:    1,
			wantToken:    map[string]string{"u1": ""},
		},
		{
			name:         "invalid token is removed",
			notification: courier.Notification{ID: "n1", UserID: "u1"},
			profiles:     []courier.UserProfile{{ID: "u1", FCMToken: "tok1"}},
			sender:       &fakeSender{err: tokenBad},
			wantOutcome:  courier.Undelivered("The registration token is not a valid FCM registration token"),
			wantLookup:   true,
			wantSends:    1,
			wantToken:    map[string]string{"u1": ""},
		},
		{
			name:         "other send error keeps token",
			notification: courier.Notification{ID: "n1", UserID: "u1"},
			profiles:     []courier.UserProfile{{ID: "u1", FCMToken: "tok1"}},
			sender:       &fakeSender{err: quota},
			wantOutcome:  courier.Undelivered("Quota exceeded"),
			wantLookup:   true,
			wantSends:    1,
			wantToken:    map[string]string{"u1": "tok1"},
		},
		{
			name:         "unstructured send error is stringified",
			notification: courier.Notification{ID: "n1", UserID: "u1"},
			profiles:     []courier.UserProfile{{ID: "u1", FCMToken: "tok1"}},
			sender:       &fakeSender{err: errors.New("connection reset by peer")},
			wantOutcome:  courier.Undelivered("connection reset by peer"),
			wantLookup:   true,
			wantSends:    1,
			wantToken:    map[string]string{"u1": "tok1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStorage(tt.profiles...)
			f := &Function{
				Storage: store,
				Push:    tt.sender,
			}

			err := f.Dispatch(testContext(), tt.notification)
			if err != nil {
				t.Fatalf("Function.Dispatch() error = %v", err)
			}

			got, ok := store.Outcomes[tt.notification.ID]
			if !ok {
				t.Fatalf("no outcome written for %s", tt.notification.ID)
			}
			if !reflect.DeepEqual(got, tt.wantOutcome) {
				t.Errorf("outcome = %+v, want %+v", got, tt.wantOutcome)
			}
			if store.Called("GetUserProfile") != tt.wantLookup {
				t.Errorf("profile lookup = %v, want %v", store.Called("GetUserProfile"), tt.wantLookup)
			}
			if len(tt.sender.sent) != tt.wantSends {
				t.Errorf("push sends = %d, want %d", len(tt.sender.sent), tt.wantSends)
			}
			for userID, wantToken := range tt.wantToken {
				if got := store.Profiles[userID].FCMToken; got != wantToken {
					t.Errorf("token of %s = %q, want %q", userID, got, wantToken)
				}
			}
		})
	}
}

func TestFunction_Dispatch_Example(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

	store := newMockStorage(courier.UserProfile{ID: "u1", FCMToken: "tok1"})
	store.Now = func() time.Time { return now }
	store.Notifications["n1"] = courier.Notification{ID: "n1", Title: "Hi", Message: "Yo", UserID: "u1"}

	sender := &fakeSender{id: "m-42"}
	f := &Function{Storage: store, Push: sender}

	err := f.Dispatch(testContext(), store.Notifications["n1"])
	if err != nil {
		t.Fatalf("Function.Dispatch() error = %v", err)
	}

	rec := store.Notifications["n1"]
	if rec.Delivered == nil || !*rec.Delivered {
		t.Errorf("delivered = %v, want true", rec.Delivered)
	}
	if rec.FCMMessageID != "m-42" {
		t.Errorf("fcmMessageId = %q, want m-42", rec.FCMMessageID)
	}
	if rec.DeliveredAt == nil || !rec.DeliveredAt.Equal(now) {
		t.Errorf("deliveredAt = %v, want %v", rec.DeliveredAt, now)
	}

	want := push.Message{
		Token: "tok1",
		Title: "Hi",
		Body:  "Yo",
		Data:  map[string]string{"notificationId": "n1"},
	}
	if !reflect.DeepEqual(sender.sent[0], want) {
		t.Errorf("push message = %+v, want %+v", sender.sent[0], want)
	}
}

func TestFunction_Dispatch_Defaults(t *testing.T) {
	store := newMockStorage(courier.UserProfile{ID: "u1", FCMToken: "tok1"})
	sender := &fakeSender{id: "m-1"}
	f := &Function{Storage: store, Push: sender}

	err := f.Dispatch(testContext(), courier.Notification{ID: "n2", UserID: "u1"})
	if err != nil {
		t.Fatalf("Function.Dispatch() error = %v", err)
	}

	if sender.sent[0].Title != "Notification" || sender.sent[0].Body != "" {
		t.Errorf("push message = %+v, want default title and empty body", sender.sent[0])
	}
}

func TestFunction_Dispatch_Failures(t *testing.T) {
	t.Run("profile lookup error is recorded", func(t *testing.T) {
		store := newMockStorage()
		store.GetUserProfileErr = errors.New("dynamo: GetUserProfile: throttled")
		sender := &fakeSender{}
		f := &Function{Storage: store, Push: sender}

		err := f.Dispatch(testContext(), courier.Notification{ID: "n1", UserID: "u1"})
		if err != nil {
			t.Fatalf("Function.Dispatch() error = %v", err)
		}

		want := courier.Undelivered("dynamo: GetUserProfile: throttled")
		if got := store.Outcomes["n1"]; !reflect.DeepEqual(got, want) {
			t.Errorf("outcome = %+v, want %+v", got, want)
		}
		if len(sender.sent) != 0 {
			t.Errorf("push sends = %d, want 0", len(sender.sent))
		}
	})

	t.Run("token cleanup error still records outcome", func(t *testing.T) {
		store := newMockStorage(courier.UserProfile{ID: "u1", FCMToken: "tok1"})
		store.ClearUserFCMTokenErr = errors.New("dynamo: ClearUserFCMToken: throttled")
		f := &Function{Storage: store, Push: &fakeSender{err: courier.NewError(courier.KindTokenNotRegistered, "gone")}}

		err := f.Dispatch(testContext(), courier.Notification{ID: "n1", UserID: "u1"})
		if err != nil {
			t.Fatalf("Function.Dispatch() error = %v", err)
		}

		if !store.Called("ClearUserFCMToken") {
			t.Errorf("ClearUserFCMToken was not attempted")
		}
		if got := store.Outcomes["n1"]; got.Delivered || got.Error != "gone" {
			t.Errorf("outcome = %+v", got)
		}
	})

	t.Run("outcome write error is returned", func(t *testing.T) {
		store := newMockStorage()
		store.SetNotificationOutcomeErr = errors.New("dynamo: SetNotificationOutcome: throttled")
		f := &Function{Storage: store, Push: &fakeSender{}}

		err := f.Dispatch(testContext(), courier.Notification{ID: "n1"})
		if err == nil {
			t.Fatalf("Function.Dispatch() error = nil, want error")
		}
	})

	t.Run("missing id", func(t *testing.T) {
		store := newMockStorage()
		f := &Function{Storage: store, Push: &fakeSender{}}

		err := f.Dispatch(testContext(), courier.Notification{UserID: "u1"})
		if err == nil {
			t.Fatalf("Function.Dispatch() error = nil, want error")
		}
		if len(store.Calls) != 0 {
			t.Errorf("storage calls = %v, want none", store.Calls)
		}
	})
}
