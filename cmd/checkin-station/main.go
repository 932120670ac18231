// Command checkin-station runs a door station. A keyboard-wedge QR scanner
// types each code followed by Enter, so the station reads one code per line
// from stdin.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appName = "checkin-station"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Event check-in door station",
		Long: `checkin-station verifies attendee QR codes at the door.

Codes are read from stdin, one per line, as typed by a keyboard-wedge
scanner. The station either verifies against a local database (run) or
against a check-in server (remote).`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		runCmd(&logLevel),
		remoteCmd(),
		encodeCmd(),
		qrCmd(),
		tokenCmd(),
	)

	return cmd
}
