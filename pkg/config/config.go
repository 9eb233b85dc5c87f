// Package config holds the daemon's construction-time tuning: thresholds,
// retry bounds, and bus location. Nothing here is runtime-mutable through the
// API; the daemon re-reads the file on SIGHUP.
package config

import "time"

type Config interface {
	// LowVoltageThresholdMillivolts is the inclusive pack voltage at or
	// below which the battery is considered low.
	LowVoltageThresholdMillivolts() int
	// MaxReadAttempts bounds attempts per register read.
	MaxReadAttempts() int
	// DegradedReadAttempts, when non-zero, replaces MaxReadAttempts once a
	// chip link is degraded.
	DegradedReadAttempts() int
	// LostThreshold is the consecutive-failure count after which a chip
	// link is reported lost.
	LostThreshold() int
	// PollInterval is the watch loop period.
	PollInterval() time.Duration
	// PowerOffOnLowBattery makes the watch loop arm the hardware power-off
	// when the pack is low while discharging.
	PowerOffOnLowBattery() bool
	// AllowNonRootAccess opens the daemon socket to non-root users.
	AllowNonRootAccess() bool
	// I2CDevicePath is the i2c-dev node the UPS HAT sits on.
	I2CDevicePath() string
	// I2CAddress is the controller's 7-bit bus address.
	I2CAddress() uint8

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
