package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/g-wilson/courier"
	"github.com/g-wilson/courier/handlers/sendnotification"
	"github.com/g-wilson/courier/internal/config"
	"github.com/g-wilson/courier/internal/push/fcm"

	logger "github.com/g-wilson/runtime/ctxlog"
	"github.com/sirupsen/logrus"
)

// The watcher is the change-stream counterpart of the sendnotification lambda,
// for deployments storing notifications in MongoDB.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("loading config")
	}

	log := logger.Create("notificationwatcher", cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initCtx, cancelFn := context.WithTimeout(ctx, 10*time.Second)
	defer cancelFn()

	conn, store, err := sendnotification.ConnectMongo(initCtx, cfg)
	if err != nil {
		log.WithError(err).Fatal("connecting to mongo")
	}
	defer conn.Disconnect(context.Background())

	err = store.Setup()
	if err != nil {
		log.WithError(err).Fatal("creating indexes")
	}

	sender, err := fcm.New(initCtx, fcm.Params{
		ProjectID:       cfg.FCMProjectID,
		CredentialsJSON: cfg.FCMCredentialsJSON,
	})
	if err != nil {
		log.WithError(err).Fatal("creating fcm client")
	}

	f := &sendnotification.Function{
		Storage: store,
		Push:    sender,
	}

	log.WithField("database", cfg.MongoDBName).Info("watching for new notifications")

	err = store.WatchNotifications(logger.SetContext(ctx, log), func(ctx context.Context, n courier.Notification) error {
		err := f.Dispatch(logger.SetContext(ctx, log), n)
		if err != nil {
			// the record keeps no outcome, carry on with the rest of the stream
			log.WithError(err).WithField("notification_id", n.ID).Error("dispatch failed")
		}

		return nil
	})
	if err != nil {
		log.WithError(err).Fatal("change stream closed")
	}

	log.Info("shutting down")
}
