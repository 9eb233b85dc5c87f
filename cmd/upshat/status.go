package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hat-tools/upshat/pkg/client"
	"github.com/hat-tools/upshat/pkg/types"
)

type statusData struct {
	revision        types.SoftwareRevision
	battery         *types.BatteryState
	power           *types.PowerState
	comm            *types.CommunicationState
	vbus            *types.VBusState
	cells           *types.CellVoltage
	batteryLow      bool
	powerOffPending bool
}

// fetchStatusData gathers everything the status and monitor commands render.
func fetchStatusData(c *client.Client) (*statusData, error) {
	revision, err := c.GetSoftwareRevision()
	if err != nil {
		return nil, err
	}

	battery, err := c.GetBatteryState()
	if err != nil {
		return nil, err
	}

	power, err := c.GetPowerState()
	if err != nil {
		return nil, err
	}

	comm, err := c.GetCommunicationState()
	if err != nil {
		return nil, err
	}

	vbus, err := c.GetVBus()
	if err != nil {
		return nil, err
	}

	cells, err := c.GetCellVoltage()
	if err != nil {
		return nil, err
	}

	batteryLow, err := c.GetBatteryLow()
	if err != nil {
		return nil, err
	}

	powerOffPending, err := c.GetPowerOffPending()
	if err != nil {
		return nil, err
	}

	return &statusData{
		revision:        revision,
		battery:         battery,
		power:           power,
		comm:            comm,
		vbus:            vbus,
		cells:           cells,
		batteryLow:      batteryLow,
		powerOffPending: powerOffPending,
	}, nil
}

func linkText(s types.LinkState) string {
	switch s {
	case types.LinkOk:
		return color.New(color.FgGreen).Sprint("ok")
	case types.LinkDegraded:
		return color.New(color.Bold, color.FgYellow).Sprint("degraded")
	default:
		return color.New(color.Bold, color.FgRed).Sprint("lost")
	}
}

func renderStatus(cmd *cobra.Command, data *statusData) {
	cmd.Println(bold("UPS"))
	cmd.Printf("  Software revision: %s\n", data.revision)
	cmd.Println()

	cmd.Println(bold("Power"))
	cmd.Printf("  Charging:          %s (%s)\n", data.power.ChargingState, data.power.ChargerActivity)
	cmd.Printf("  USB-C input:       %s\n", data.power.USBCInputState)
	cmd.Printf("  USB-C PD:          %s\n", data.power.USBCPowerDelivery)
	cmd.Printf("  Power-off pending: %s\n", alert(data.powerOffPending))
	cmd.Println()

	cmd.Println(bold("Communication"))
	cmd.Printf("  BQ4050 (gauge):    %s\n", linkText(data.comm.FuelGauge))
	cmd.Printf("  IP2368 (charger):  %s\n", linkText(data.comm.Charger))
	cmd.Println()

	cmd.Println(bold("Battery"))
	cmd.Printf("  Charge:            %d%%\n", data.battery.RemainingPercent)
	cmd.Printf("  Voltage:           %d mV\n", data.battery.Millivolts)
	cmd.Printf("  Current:           %d mA\n", data.battery.Milliamps)
	cmd.Printf("  Est. capacity:     %d mAh\n", data.battery.RemainingCapacityMilliamphours)
	if data.battery.Milliamps < 0 {
		cmd.Printf("  Est. runtime:      %d min\n", data.battery.RemainingRuntimeMinutes)
	} else if data.battery.TimeToFullMinutes > 0 {
		cmd.Printf("  Time to full:      %d min\n", data.battery.TimeToFullMinutes)
	}
	cmd.Printf("  Battery low:       %s\n", alert(data.batteryLow))
	cmd.Println()

	cmd.Println(bold("USB-C VBUS"))
	cmd.Printf("  Voltage:           %d mV\n", data.vbus.Millivolts)
	cmd.Printf("  Current:           %d mA\n", data.vbus.Milliamps)
	cmd.Printf("  Power:             %d mW\n", data.vbus.Milliwatts)
	cmd.Println()

	cmd.Println(bold("Cell voltages"))
	for i, mv := range data.cells.Millivolts {
		cmd.Printf("  Cell %d:            %d mV\n", i+1, mv)
	}
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of the UPS HAT",
		Long:    `Get battery, power, communication, VBUS, and cell voltage status.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchStatusData(apiClient())
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}
			renderStatus(cmd, data)
			return nil
		},
	}
}
