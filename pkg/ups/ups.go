// Package ups is the register protocol core for the UPS HAT: it reads raw
// register state from the hat's BQ4050 gas gauge and IP2368 charge controller
// over the bus, decodes it into typed telemetry, tracks per-chip link health,
// and exposes the one control operation the hardware offers, a delayed
// non-cancelable power-off.
//
// The package performs no logging; every failure is a return value. Callers
// that want tracing wrap the Transport.
package ups

import (
	"fmt"
	"sync"

	"github.com/hat-tools/upshat/pkg/i2c"
	"github.com/hat-tools/upshat/pkg/types"
)

// Defaults for Options fields left zero.
const (
	// DefaultLowVoltageThresholdMillivolts is the pack-level low-battery
	// cutoff: 4 cells × 3400 mV. The hardware cuts out around 3.2 V/cell;
	// 3.4 V leaves enough headroom to run a host shutdown sequence.
	DefaultLowVoltageThresholdMillivolts uint16 = 4 * 3400
	// DefaultMaxReadAttempts bounds retries of a single register read.
	DefaultMaxReadAttempts = 3
	// DefaultLostThreshold is the consecutive-failure count at which a chip
	// link is considered lost.
	DefaultLostThreshold = 3
)

// Options are construction-time parameters of the core. The zero value gets
// the documented defaults.
type Options struct {
	// Address is the controller's 7-bit bus address.
	Address uint8
	// LowVoltageThresholdMillivolts is the inclusive pack voltage at or
	// below which IsBatteryLow reports true.
	LowVoltageThresholdMillivolts uint16
	// MaxReadAttempts bounds attempts per register read. No backoff between
	// attempts; the bus's own clocking is the only pacing.
	MaxReadAttempts int
	// DegradedReadAttempts, when non-zero, replaces MaxReadAttempts for
	// chips whose link is already degraded or lost, so a dead chip wastes
	// less bus time.
	DegradedReadAttempts int
	// LostThreshold is the consecutive-failure count for ok -> lost.
	LostThreshold int
}

func (o Options) withDefaults() Options {
	if o.Address == 0 {
		o.Address = DefaultAddress
	}
	if o.LowVoltageThresholdMillivolts == 0 {
		o.LowVoltageThresholdMillivolts = DefaultLowVoltageThresholdMillivolts
	}
	if o.MaxReadAttempts <= 0 {
		o.MaxReadAttempts = DefaultMaxReadAttempts
	}
	if o.LostThreshold <= 0 {
		o.LostThreshold = DefaultLostThreshold
	}
	return o
}

// UPS is the single entry point to the hat. It exclusively owns the bus
// transport; a mutex is held for the whole of each operation so multi-register
// snapshots never interleave between concurrent callers.
type UPS struct {
	mu       sync.Mutex
	bus      i2c.Transport
	opts     Options
	comm     *commMonitor
	powerOff PowerOffState
}

// New wraps an open bus transport. The transport handle belongs to the
// returned UPS from here on.
func New(bus i2c.Transport, opts Options) *UPS {
	opts = opts.withDefaults()
	return &UPS{
		bus:  bus,
		opts: opts,
		comm: newCommMonitor(opts.LostThreshold),
	}
}

// Close releases the bus transport.
func (u *UPS) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.bus.Close()
}

// readBlock performs one logical register read with bounded retries, feeding
// the outcome into the link monitor. Callers must hold u.mu.
func (u *UPS) readBlock(b Block) ([]byte, error) {
	attempts := u.opts.MaxReadAttempts
	if u.opts.DegradedReadAttempts > 0 && u.comm.state(b.Chip) != types.LinkOk {
		attempts = u.opts.DegradedReadAttempts
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		data, err := u.bus.ReadBlock(u.opts.Address, b.Reg, b.Length)
		if err == nil && len(data) != b.Length {
			err = fmt.Errorf("short read: got %d bytes, want %d", len(data), b.Length)
		}
		if err == nil {
			u.comm.recordSuccess(b.Chip)
			return data, nil
		}
		lastErr = err
	}

	u.comm.recordFailure(b.Chip)
	return nil, &TransportError{Chip: b.Chip, Reg: b.Reg, Attempts: attempts, Err: lastErr}
}

// GetBatteryState reads and decodes the aggregate battery snapshot from the
// gas gauge.
func (u *UPS) GetBatteryState() (*types.BatteryState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	data, err := u.readBlock(batteryBlock)
	if err != nil {
		return nil, err
	}
	return decodeBatteryState(data)
}

// GetPowerState reads and decodes the charger / USB-C input state.
func (u *UPS) GetPowerState() (*types.PowerState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	data, err := u.readBlock(chargingBlock)
	if err != nil {
		return nil, err
	}
	return decodePowerState(data[0])
}

// GetCellVoltage reads the per-cell voltages. The result always carries
// exactly four readings; if the block read fails, the whole call fails.
func (u *UPS) GetCellVoltage() (*types.CellVoltage, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	data, err := u.readBlock(cellBlock)
	if err != nil {
		return nil, err
	}
	return decodeCellVoltage(data)
}

// GetUSBCVBus reads voltage, current, and power of the USB-C VBUS rail.
func (u *UPS) GetUSBCVBus() (*types.VBusState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	data, err := u.readBlock(vbusBlock)
	if err != nil {
		return nil, err
	}
	return decodeVBus(data)
}

// GetSoftwareRevision reads the firmware revision of the UPS microcontroller.
func (u *UPS) GetSoftwareRevision() (types.SoftwareRevision, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	data, err := u.readBlock(revisionBlock)
	if err != nil {
		return types.SoftwareRevision{}, err
	}
	return decodeRevision(data[0]), nil
}

// GetCommunicationState reports per-chip link health. Unlike every other
// operation it never fails: its whole purpose is to describe failures. The
// host-side monitor view is merged with a best-effort read of the
// controller's own link status register; a chip the controller reports as
// unreachable is degraded even if the host's own transactions still succeed.
func (u *UPS) GetCommunicationState() *types.CommunicationState {
	u.mu.Lock()
	defer u.mu.Unlock()

	st := &types.CommunicationState{
		FuelGauge: u.comm.state(ChipFuelGauge),
		Charger:   u.comm.state(ChipCharger),
	}

	if data, err := u.readBlock(commBlock); err == nil {
		b := data[0]
		if b&commFuelGaugeBit == 0 && st.FuelGauge == types.LinkOk {
			st.FuelGauge = types.LinkDegraded
		}
		if b&commChargerBit == 0 && st.Charger == types.LinkOk {
			st.Charger = types.LinkDegraded
		}
	}

	return st
}
