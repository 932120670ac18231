package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/service"
	"github.com/aussiebroadwan/checkin/pkg/qrx"
	"github.com/spf13/cobra"
)

func encodeCmd() *cobra.Command {
	var id, name string

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the QR payload for an attendee",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := qrx.Encode(qrx.Payload{
				UserID:    id,
				Name:      name,
				Timestamp: time.Now().UnixMilli(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Attendee ID")
	cmd.Flags().StringVar(&name, "name", "", "Attendee name")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func qrCmd() *cobra.Command {
	var (
		id          string
		out         string
		dbFile      string
		databaseURL string
		size        int
	)

	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Write a registered attendee's QR code as a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := openStore(ctx, dbFile, databaseURL)
			if err != nil {
				return err
			}
			defer st.Close()

			attendees := &service.AttendeeService{Store: st}
			img, filename, err := attendees.QRImage(ctx, id, size)
			if err != nil {
				return fmt.Errorf("render qr for %s: %w", id, err)
			}

			if out == "" {
				out = filename
			} else if info, err := os.Stat(out); err == nil && info.IsDir() {
				out = filepath.Join(out, filename)
			}

			if err := os.WriteFile(out, img, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Attendee ID")
	cmd.Flags().StringVar(&out, "out", "", "Output file or directory (default: qr_<name>.png)")
	cmd.Flags().StringVar(&dbFile, "db", "checkin.db", "SQLite database file")
	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres DSN; overrides --db")
	cmd.Flags().IntVar(&size, "size", qrx.DefaultPNGSize, "Image size in pixels")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
