package sendnotification

import (
	"context"
	"fmt"
	"time"

	"github.com/g-wilson/courier/internal/config"
	"github.com/g-wilson/courier/internal/push/fcm"
	"github.com/g-wilson/courier/internal/storage"
	dynamostorage "github.com/g-wilson/courier/internal/storage/dynamo"
	mongostorage "github.com/g-wilson/courier/internal/storage/mongo"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	logger "github.com/g-wilson/runtime/ctxlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Name = "sendnotification"

// Init builds the DynamoDB stream entrypoint. The stream only exists for the
// dynamo driver, so STORAGE_DRIVER is ignored here.
func Init() (lambda.Handler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.Create(Name, cfg.LogFormat, cfg.LogLevel)

	initCtx, cancelFn := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFn()

	sender, err := fcm.New(initCtx, fcm.Params{
		ProjectID:       cfg.FCMProjectID,
		CredentialsJSON: cfg.FCMCredentialsJSON,
	})
	if err != nil {
		return nil, err
	}

	f := &Function{
		Storage: NewDynamoStorage(cfg),
		Push:    sender,
	}

	log.Info("function initialised")

	return lambda.NewHandler(f.StreamHandler(log)), nil
}

func NewDynamoStorage(cfg *config.Config) *dynamostorage.DynamoStorage {
	awsConfig := aws.NewConfig().WithRegion(cfg.AWSRegion)
	awsSession := session.Must(session.NewSession())

	return dynamostorage.New(dynamostorage.Params{
		AWSSession:             awsSession,
		AWSConfig:              awsConfig,
		NotificationsTableName: cfg.NotificationsTableName,
		UsersTableName:         cfg.UsersTableName,
	})
}

func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongostorage.MongoStorage, error) {
	if cfg.MongoURI == "" {
		return nil, nil, fmt.Errorf("MONGODB_URI is required for the mongo storage driver")
	}

	conn, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, err
	}

	return conn, mongostorage.New(conn.Database(cfg.MongoDBName)), nil
}

// NewStorage picks the driver from STORAGE_DRIVER. The returned func releases connections.
func NewStorage(ctx context.Context, cfg *config.Config) (storage.Storage, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMongo:
		conn, s, err := ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		return s, func() { _ = conn.Disconnect(context.Background()) }, nil
	default:
		return NewDynamoStorage(cfg), func() {}, nil
	}
}
