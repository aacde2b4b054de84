package dynamo

import (
	"strings"
	"time"

	"github.com/g-wilson/courier"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/guregu/dynamo"
)

type Params struct {
	AWSSession             *session.Session
	AWSConfig              *aws.Config
	NotificationsTableName string
	UsersTableName         string
}

// DynamoStorage meets the storage.Storage interface
type DynamoStorage struct {
	db                 *dynamo.DB
	notificationsTable string
	usersTable         string
	now                func() time.Time
}

func New(cfg Params) *DynamoStorage {
	return &DynamoStorage{
		db:                 dynamo.New(cfg.AWSSession, cfg.AWSConfig),
		notificationsTable: cfg.NotificationsTableName,
		usersTable:         cfg.UsersTableName,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

type Notification struct {
	ID      string `dynamo:"id,hash"`
	Title   string `dynamo:"title,omitempty"`
	Message string `dynamo:"message,omitempty"`
	UserID  string `dynamo:"userId,omitempty"`

	Delivered    *bool      `dynamo:"delivered"`
	Error        string     `dynamo:"error,omitempty"`
	FCMMessageID string     `dynamo:"fcmMessageId,omitempty"`
	DeliveredAt  *time.Time `dynamo:"deliveredAt,unixtime"`
}

func (n Notification) ToApp() courier.Notification {
	return courier.Notification{
		ID:           n.ID,
		Title:        n.Title,
		Message:      n.Message,
		UserID:       n.UserID,
		Delivered:    n.Delivered,
		Error:        n.Error,
		FCMMessageID: n.FCMMessageID,
		DeliveredAt:  n.DeliveredAt,
	}
}

func notificationFromApp(n courier.Notification) Notification {
	return Notification{
		ID:           n.ID,
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
	ID       string `dynamo:"id,hash"`
	FCMToken string `dynamo:"fcmToken,omitempty"`
}

func (u User) ToApp() courier.UserProfile {
	return courier.UserProfile{
		ID:       u.ID,
		FCMToken: u.FCMToken,
	}
}

func isConditionFailed(err error) bool {
	aErr, ok := err.(awserr.Error)

	return ok && strings.Contains(aErr.Code(), "ConditionalCheckFailed")
}
