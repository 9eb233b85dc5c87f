package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
)

// NewMonitorCommand is a "top"-like live view of the UPS HAT, re-rendered
// every interval until interrupted.
func NewMonitorCommand() *cobra.Command {
	interval := 2 * time.Second

	cmd := &cobra.Command{
		Use:     "monitor",
		GroupID: gBasic,
		Short:   "Continuously monitor the UPS HAT",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := apiClient()
			for {
				data, err := fetchStatusData(c)
				if err != nil {
					return fmt.Errorf("failed to get status: %w", err)
				}

				cmd.Print(clearScreen + cursorHome)
				cmd.Println(bold("UPS HAT (E) Monitor") + "  " + time.Now().Format(time.RFC1123))
				cmd.Println("═══════════════════════════════════════════")
				renderStatus(cmd, data)
				cmd.Println()
				cmd.Println("Press Ctrl+C to exit")

				time.Sleep(interval)
			}
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "n", interval, "refresh interval")

	return cmd
}
