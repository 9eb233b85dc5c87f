package client

import (
	"encoding/json"

	pkgerrors "github.com/pkg/errors"

	"github.com/hat-tools/upshat/pkg/types"
)

// getJSON fetches path and decodes the daemon's JSON reply into T.
func getJSON[T any](c *Client, path string) (T, error) {
	var v T
	body, err := c.Get(path)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return v, pkgerrors.Wrapf(err, "failed to decode response from %s", path)
	}
	return v, nil
}

func (c *Client) GetBatteryState() (*types.BatteryState, error) {
	st, err := getJSON[*types.BatteryState](c, "/battery")
	return st, pkgerrors.Wrapf(err, "failed to get battery state")
}

func (c *Client) GetPowerState() (*types.PowerState, error) {
	st, err := getJSON[*types.PowerState](c, "/power")
	return st, pkgerrors.Wrapf(err, "failed to get power state")
}

func (c *Client) GetCellVoltage() (*types.CellVoltage, error) {
	cv, err := getJSON[*types.CellVoltage](c, "/cells")
	return cv, pkgerrors.Wrapf(err, "failed to get cell voltages")
}

func (c *Client) GetVBus() (*types.VBusState, error) {
	st, err := getJSON[*types.VBusState](c, "/vbus")
	return st, pkgerrors.Wrapf(err, "failed to get USB-C VBUS state")
}

func (c *Client) GetCommunicationState() (*types.CommunicationState, error) {
	st, err := getJSON[*types.CommunicationState](c, "/communication")
	return st, pkgerrors.Wrapf(err, "failed to get communication state")
}

func (c *Client) GetSoftwareRevision() (types.SoftwareRevision, error) {
	rev, err := getJSON[types.SoftwareRevision](c, "/revision")
	return rev, pkgerrors.Wrapf(err, "failed to get software revision")
}

func (c *Client) GetBatteryLow() (bool, error) {
	low, err := getJSON[bool](c, "/battery-low")
	return low, pkgerrors.Wrapf(err, "failed to get battery-low status")
}

func (c *Client) GetPowerOffPending() (bool, error) {
	pending, err := getJSON[bool](c, "/power-off-pending")
	return pending, pkgerrors.Wrapf(err, "failed to get power-off status")
}

// ForcePowerOff arms the hardware power-off. The daemon's reply is a human
// readable confirmation. There is no API to cancel.
func (c *Client) ForcePowerOff() (string, error) {
	ret, err := c.Put("/power-off", "")
	return ret, pkgerrors.Wrapf(err, "failed to arm power-off")
}

func (c *Client) GetVersion() (string, error) {
	v, err := getJSON[string](c, "/version")
	return v, pkgerrors.Wrapf(err, "failed to get daemon version")
}
