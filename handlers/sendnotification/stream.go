package sendnotification

import (
	"context"
	"sync"

	dynamostorage "github.com/g-wilson/courier/internal/storage/dynamo"

	"github.com/aws/aws-lambda-go/events"
	logger "github.com/g-wilson/runtime/ctxlog"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentRecords bounds how many records of one stream batch are dispatched at once
const maxConcurrentRecords = 10

// StreamHandler adapts Dispatch to a DynamoDB stream on the notifications table.
// Only INSERT records are dispatched. Records whose outcome could not be
// written are reported back as batch item failures so only they are retried.
func (f *Function) StreamHandler(log *logrus.Entry) func(context.Context, events.DynamoDBEvent) (events.DynamoDBEventResponse, error) {
	return func(ctx context.Context, ev events.DynamoDBEvent) (events.DynamoDBEventResponse, error) {
		var mu sync.Mutex
		res := events.DynamoDBEventResponse{}

		g := errgroup.Group{}
		g.SetLimit(maxConcurrentRecords)

		for _, rec := range ev.Records {
			rec := rec

			if rec.EventName != string(events.DynamoDBOperationTypeInsert) {
				continue
			}

			recLog := log.WithField("event_id", rec.EventID)

			n, err := dynamostorage.NotificationFromStreamImage(rec.Change.NewImage)
			if err != nil {
				recLog.WithError(err).Error("skipping undecodable stream record")
				continue
			}

			g.Go(func() error {
				err := f.Dispatch(logger.SetContext(ctx, recLog), n)
				if err != nil {
					mu.Lock()
					res.BatchItemFailures = append(res.BatchItemFailures, events.DynamoDBBatchItemFailure{
						ItemIdentifier: rec.Change.SequenceNumber,
					})
					mu.Unlock()
				}

				return nil
			})
		}

		_ = g.Wait()

		return res, nil
	}
}
