package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/g-wilson/courier"
	"github.com/g-wilson/courier/handlers/sendnotification"
	"github.com/g-wilson/courier/internal/push/fcm"
	"github.com/g-wilson/courier/internal/storage"

	logger "github.com/g-wilson/runtime/ctxlog"
	"github.com/spf13/cobra"
)

func notifyCmd(e *env) *cobra.Command {
	n := courier.Notification{}
	noDispatch := false

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Create a notification record and dispatch it",
		Long: `Create a notification record and dispatch it locally.

Pass --no-dispatch when the sendnotification stream or the watcher is running
against the same store, otherwise the record is delivered twice.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.SetContext(cmd.Context(), e.log)

			store, closeFn, err := sendnotification.NewStorage(ctx, e.cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			n.ID = storage.GenerateID(storage.TypePrefixNotification)

			created, err := store.CreateNotification(ctx, n)
			if err != nil {
				return err
			}

			if !noDispatch {
				sender, err := fcm.New(ctx, fcm.Params{
					ProjectID:       e.cfg.FCMProjectID,
					CredentialsJSON: e.cfg.FCMCredentialsJSON,
				})
				if err != nil {
					return err
				}

				f := &sendnotification.Function{
					Storage: store,
					Push:    sender,
				}

				err = f.Dispatch(ctx, created)
				if err != nil {
					return err
				}
			}

			rec, err := store.GetNotification(ctx, created.ID)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			return enc.Encode(rec)
		},
	}

	cmd.Flags().StringVar(&n.UserID, "user", "", "target user id")
	cmd.Flags().StringVar(&n.Title, "title", "", fmt.Sprintf("notification title (default %q)", courier.DefaultNotificationTitle))
	cmd.Flags().StringVar(&n.Message, "message", "", "notification body")
	cmd.Flags().BoolVar(&noDispatch, "no-dispatch", false, "only create the record and leave delivery to the deployed trigger")

	return cmd
}
