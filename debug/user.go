package main

import (
	"errors"
	"fmt"

	"github.com/g-wilson/courier/handlers/sendnotification"
	"github.com/g-wilson/courier/internal/config"

	logger "github.com/g-wilson/runtime/ctxlog"
	"github.com/spf13/cobra"
)

func userCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Inspect and edit user profiles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-token <userId> <fcmToken>",
		Short: "Store a push token on a user profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.SetContext(cmd.Context(), e.log)

			store, closeFn, err := sendnotification.NewStorage(ctx, e.cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			return store.SetUserFCMToken(ctx, args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <userId>",
		Short: "Print the push token stored on a user profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.SetContext(cmd.Context(), e.log)

			store, closeFn, err := sendnotification.NewStorage(ctx, e.cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			profile, err := store.GetUserProfile(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s fcmToken=%q\n", profile.ID, profile.FCMToken)

			return nil
		},
	})

	return cmd
}

func storageCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Manage the document store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "setup",
		Short: "Create the mongo indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.cfg.StorageDriver != config.StorageMongo {
				return errors.New("storage setup only applies to STORAGE_DRIVER=mongo")
			}

			conn, store, err := sendnotification.ConnectMongo(cmd.Context(), e.cfg)
			if err != nil {
				return err
			}
			defer conn.Disconnect(cmd.Context())

			return store.Setup()
		},
	})

	return cmd
}
