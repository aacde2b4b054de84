package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/g-wilson/courier/internal/config"
	"github.com/g-wilson/courier/internal/token"

	logger "github.com/g-wilson/runtime/ctxlog"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}
}

type env struct {
	cfg   *config.Config
	log   *logrus.Entry
	codes token.Token
}

func main() {
	e := &env{codes: token.New()}

	root := &cobra.Command{
		Use:           "courier-debug",
		Short:         "Run the courier functions locally against real infrastructure",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			e.cfg, err = config.Load()
			if err != nil {
				return err
			}
			e.log = logger.Create("debug", "text", e.cfg.LogLevel)

			return nil
		},
	}

	root.AddCommand(
		sendVerificationCmd(e),
		notifyCmd(e),
		userCmd(e),
		storageCmd(e),
	)

	err := root.ExecuteContext(context.Background())
	if err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}
