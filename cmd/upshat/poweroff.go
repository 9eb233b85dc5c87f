package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func confirmPowerOff(cmd *cobra.Command) (bool, error) {
	cmd.Print("Are you sure you want to power-off the Raspberry Pi? [y/N] ")

	input, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read input: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(input), "y"), nil
}

// NewPowerOffCommand arms the UPS's 30-second hardware power-off. This is an
// unclean, unconditional cut; there is no way to cancel once armed.
func NewPowerOffCommand() *cobra.Command {
	yes := false

	cmd := &cobra.Command{
		Use:     "poweroff",
		GroupID: gAdvanced,
		Short:   "Forcefully power-off the Raspberry Pi in 30 seconds",
		Long: `Forcefully power-off the Raspberry Pi in 30 seconds.

The UPS cuts power with its own timer, without giving the operating system a
chance to shut down cleanly. Once armed this CANNOT be canceled.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				ok, err := confirmPowerOff(cmd)
				if err != nil {
					return err
				}
				if !ok {
					cmd.Println("Aborting power-off due to user input. Use -y to skip the confirmation prompt.")
					return nil
				}
			}

			c := apiClient()

			ret, err := c.ForcePowerOff()
			if err != nil {
				return fmt.Errorf("failed to arm power-off: %w", err)
			}
			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			pending, err := c.GetPowerOffPending()
			if err != nil {
				return fmt.Errorf("failed to read back power-off status: %w", err)
			}
			if !pending {
				return fmt.Errorf("UPS did not report the power-off as pending")
			}

			cmd.Println("UPS will power-off the attached Raspberry Pi in 30 seconds")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")

	return cmd
}
