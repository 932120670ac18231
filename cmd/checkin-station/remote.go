package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aussiebroadwan/checkin/pkg/checkinsdk"
	"github.com/spf13/cobra"
)

func remoteCmd() *cobra.Command {
	var (
		server     string
		token      string
		noCooldown bool
	)

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Verify codes from stdin against a check-in server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := checkinsdk.NewClient(server)
			client.Token = token

			sess, err := client.CreateSession(ctx)
			if err != nil {
				return fmt.Errorf("open scan session: %w", err)
			}
			defer func() {
				if err := client.DeleteSession(cmd.Context(), sess.ID); err != nil {
					fmt.Fprintf(os.Stderr, "failed to close session: %v\n", err)
				}
			}()
			fmt.Fprintf(os.Stderr, "Session %s open. Press Ctrl-D to finish.\n", sess.ID)

			sc := bufio.NewScanner(os.Stdin)
			for sc.Scan() {
				if ctx.Err() != nil {
					break
				}
				text := strings.TrimSpace(sc.Text())
				if text == "" {
					continue
				}

				res, err := client.Scan(ctx, sess.ID, text)
				switch {
				case checkinsdk.IsCode(err, checkinsdk.ErrorCodeBusy):
					fmt.Fprintln(os.Stderr, "station cooling down, scan ignored")
					continue
				case err != nil:
					return err
				}

				printResult(os.Stdout, res.At, res.Outcome.Kind, res.Outcome.Message, res.Outcome.NameMismatch)

				if noCooldown {
					if _, err := client.ScanNext(ctx, sess.ID); err != nil {
						return err
					}
				}
			}
			return sc.Err()
		},
	}

	cmd.Flags().StringVar(&server, "server", envOr("CHECKIN_SERVER", "http://localhost:8080"), "Check-in server base URL")
	cmd.Flags().StringVar(&token, "token", os.Getenv("CHECKIN_TOKEN"), "Staff bearer token")
	cmd.Flags().BoolVar(&noCooldown, "no-cooldown", false, "Resume scanning immediately after each result")

	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
