package types

import "fmt"

// ChargingState says whether the pack is being charged at all.
type ChargingState int

const (
	// ChargingUnknown is the zero value; a successful decode never produces it.
	ChargingUnknown ChargingState = iota
	// NotCharging means the pack is idle or discharging.
	NotCharging
	// Charging means USB-C power is present and flowing into the pack.
	Charging
	// ChargeFault means the charger gave up (safety timer expired).
	ChargeFault
)

func (s ChargingState) String() string {
	switch s {
	case NotCharging:
		return "not charging"
	case Charging:
		return "charging"
	case ChargeFault:
		return "fault"
	default:
		return "unknown"
	}
}

// ChargerActivity is the charge phase the IP2368 is currently in.
type ChargerActivity int

const (
	ActivityStandby ChargerActivity = iota
	ActivityTrickle
	ActivityConstantCurrent
	ActivityConstantVoltage
	ActivityChargePending
	ActivityFull
	ActivityTimeout
)

func (a ChargerActivity) String() string {
	switch a {
	case ActivityStandby:
		return "standby"
	case ActivityTrickle:
		return "trickle charge"
	case ActivityConstantCurrent:
		return "constant current"
	case ActivityConstantVoltage:
		return "constant voltage"
	case ActivityChargePending:
		return "charge pending"
	case ActivityFull:
		return "charge full"
	case ActivityTimeout:
		return "charge timeout"
	default:
		return fmt.Sprintf("invalid(%d)", int(a))
	}
}

// InputState says whether USB-C input power is present on the connector.
type InputState int

const (
	// NoInput means no power source is attached.
	NoInput InputState = iota
	// InputPresent means input power is attached and accepted.
	InputPresent
	// InputUnstable means input power is detected but the charger has not
	// committed to it yet.
	InputUnstable
)

func (s InputState) String() string {
	switch s {
	case NoInput:
		return "no input"
	case InputPresent:
		return "present"
	case InputUnstable:
		return "unstable"
	default:
		return "unknown"
	}
}

// PowerDelivery is the negotiated USB-C Power Delivery mode.
type PowerDelivery int

const (
	// PDNone means no PD contract (plain 5 V input or no input at all).
	PDNone PowerDelivery = iota
	// PDFixed means a fixed-voltage PD contract was negotiated.
	PDFixed
	// PDProgrammable is a PPS contract. The current controller firmware only
	// reports fixed contracts, so this value is reserved.
	PDProgrammable
)

func (d PowerDelivery) String() string {
	switch d {
	case PDNone:
		return "none"
	case PDFixed:
		return "fixed"
	case PDProgrammable:
		return "programmable (PPS)"
	default:
		return "unknown"
	}
}

// LinkState is the coarse health of one chip link as seen from the host.
type LinkState int

const (
	// LinkOk means the last transaction with the chip succeeded.
	LinkOk LinkState = iota
	// LinkDegraded means at least one recent transaction failed.
	LinkDegraded
	// LinkLost means transactions have failed consecutively past the
	// configured threshold.
	LinkLost
)

func (s LinkState) String() string {
	switch s {
	case LinkOk:
		return "ok"
	case LinkDegraded:
		return "degraded"
	case LinkLost:
		return "lost"
	default:
		return "unknown"
	}
}

// SoftwareRevision is the firmware revision of the UPS microcontroller.
type SoftwareRevision struct {
	Major uint8 `json:"major"`
	Minor uint8 `json:"minor"`
}

func (r SoftwareRevision) String() string {
	return fmt.Sprintf("v%d.%d", r.Major, r.Minor)
}
