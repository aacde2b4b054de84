package main

import (
	"fmt"

	"github.com/g-wilson/courier/handlers/sendverificationemail"

	logger "github.com/g-wilson/runtime/ctxlog"
	"github.com/spf13/cobra"
)

func sendVerificationCmd(e *env) *cobra.Command {
	req := sendverificationemail.Request{}

	cmd := &cobra.Command{
		Use:   "send-verification",
		Short: "Send a verification code email through the configured relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Code == "" {
				code, err := e.codes.Generate(6)
				if err != nil {
					return err
				}
				req.Code = code
			}

			mailer, err := sendverificationemail.NewEmailer(e.cfg)
			if err != nil {
				return err
			}

			f := &sendverificationemail.Function{
				Emailer:     mailer,
				FromAddress: e.cfg.Mail.FromAddress,
			}

			ctx := logger.SetContext(cmd.Context(), e.log)

			res, err := f.Do(ctx, &req)
			if err != nil {
				return err
			}

			fmt.Printf("sent code %s to %s (success: %t)\n", req.Code, req.Email, res.Success)

			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "recipient address")
	cmd.Flags().StringVar(&req.UserName, "name", "", "name used in the greeting")
	cmd.Flags().StringVar(&req.Code, "code", "", "verification code, generated when empty")

	return cmd
}
