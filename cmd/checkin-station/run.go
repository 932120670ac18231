package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/events"
	"github.com/aussiebroadwan/checkin/internal/checkin/scan"
	"github.com/aussiebroadwan/checkin/internal/checkin/service"
	"github.com/aussiebroadwan/checkin/internal/checkin/store"
	"github.com/aussiebroadwan/checkin/internal/checkin/store/drivers/postgres"
	"github.com/aussiebroadwan/checkin/internal/checkin/store/drivers/sqlite"
	"github.com/aussiebroadwan/checkin/pkg/idx"
	"github.com/aussiebroadwan/checkin/pkg/slogx"
	"github.com/spf13/cobra"
)

func runCmd(logLevel *string) *cobra.Command {
	var (
		dbFile      string
		databaseURL string
		natsURL     string
		cooldown    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Verify codes from stdin against a local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*logLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := openStore(ctx, dbFile, databaseURL)
			if err != nil {
				return err
			}
			defer st.Close()

			publisher := events.Publisher(events.Nop{})
			if natsURL != "" {
				p, err := events.NewNATSPublisher(natsURL, events.DefaultSubject)
				if err != nil {
					return fmt.Errorf("connect to nats: %w", err)
				}
				defer p.Close()
				publisher = p
			}

			return runStation(ctx, st, publisher, cooldown, logger)
		},
	}

	cmd.Flags().StringVar(&dbFile, "db", "checkin.db", "SQLite database file")
	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres DSN; overrides --db")
	cmd.Flags().StringVar(&natsURL, "nats", os.Getenv("NATS_URL"), "Publish check-ins to this NATS server")
	cmd.Flags().DurationVar(&cooldown, "cooldown", scan.DefaultCooldown, "Pause after each result before scanning resumes")

	return cmd
}

func runStation(
	ctx context.Context,
	st store.Store,
	publisher events.Publisher,
	cooldown time.Duration,
	logger *slog.Logger,
) error {
	stationID := idx.New().String()
	ctx = slogx.WithContext(ctx, logger.With(slog.String("session_id", stationID)))

	stream := scan.NewLineStream(os.Stdin)
	defer stream.Stop()

	verifier := &service.AttendanceVerifier{
		Store:     st,
		Guard:     service.NewReplayGuard(),
		Events:    publisher,
		SessionID: stationID,
	}

	controller := scan.NewController(scan.Config{
		Verifier: verifier,
		Stream:   stream,
		Cooldown: cooldown,
		Logger:   logger,
		OnResult: func(r scan.Result) {
			printResult(os.Stdout, r.At, r.Outcome.Kind.String(), r.Outcome.Message(), r.Outcome.NameMismatch)
		},
	})
	defer controller.Close()

	if err := controller.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Ready to scan. Press Ctrl-D to finish.")

	// StreamEnded fires only after the last scanned line has been verified.
	select {
	case <-ctx.Done():
	case <-controller.StreamEnded():
	}
	return nil
}

func openStore(ctx context.Context, dbFile, databaseURL string) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	if databaseURL != "" {
		st, err = postgres.NewStore(ctx, databaseURL)
	} else {
		st, err = sqlite.NewStore(fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbFile))
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return st, nil
}

func newLogger(level string) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: appName,
		Level:   level,
		Format:  "text",
		Output:  os.Stderr,
	})
}
