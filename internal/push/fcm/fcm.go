package fcm

import (
	"context"
	"errors"
	"fmt"

	"github.com/g-wilson/courier"
	"github.com/g-wilson/courier/internal/push"

	"golang.org/x/oauth2/google"
	fcm "google.golang.org/api/fcm/v1"
	"google.golang.org/api/option"
)

type Params struct {
	// ProjectID defaults to the project of the credentials
	ProjectID string

	// CredentialsJSON is a service account key. Application default credentials are used when empty.
	CredentialsJSON string

	ClientOptions []option.ClientOption
}

// FCMSender meets the push.Sender interface using the FCM HTTP v1 API
type FCMSender struct {
	messages *fcm.ProjectsMessagesService
	parent   string
}

func New(ctx context.Context, cfg Params) (*FCMSender, error) {
	opts := append([]option.ClientOption{}, cfg.ClientOptions...)

	if cfg.CredentialsJSON != "" {
		creds, err := google.CredentialsFromJSON(ctx, []byte(cfg.CredentialsJSON), fcm.FirebaseMessagingScope)
		if err != nil {
			return nil, fmt.Errorf("fcm: parsing credentials failed: %w", err)
		}
		if cfg.ProjectID == "" {
			cfg.ProjectID = creds.ProjectID
		}

		opts = append(opts, option.WithCredentials(creds))
	}

	if cfg.ProjectID == "" {
		return nil, errors.New("fcm: project id is required")
	}

	svc, err := fcm.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("fcm: creating service failed: %w", err)
	}

	return &FCMSender{
		messages: svc.Projects.Messages,
		parent:   "projects/" + cfg.ProjectID,
	}, nil
}

func (s *FCMSender) Send(ctx context.Context, msg push.Message) (string, error) {
	if msg.Token == "" {
		return "", courier.NewError(courier.KindTokenInvalid, "registration token must be a non-empty string")
	}

	req := &fcm.SendMessageRequest{
		Message: &fcm.Message{
			Token: msg.Token,
			Notification: &fcm.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
		},
	}

	res, err := s.messages.Send(s.parent, req).Context(ctx).Do()
	if err != nil {
		return "", mapError(err)
	}

	return res.Name, nil
}
