package types

// Telemetry structs shared between the daemon, client, and CLI. All values are
// decoded fresh from the UPS controller on every request; nothing here is a
// cache.

// BatteryState is an aggregate snapshot of the battery pack reported by the
// BQ4050 gas gauge.
//
// A negative Milliamps value means the pack is discharging; a positive value
// means USB-C power is present and the pack is charging.
// RemainingRuntimeMinutes is defined as 0 while charging, and
// TimeToFullMinutes is defined as 0 while discharging; only the one that
// matches the current direction is meaningful.
type BatteryState struct {
	Millivolts                     uint16 `json:"millivolts"`
	Milliamps                      int16  `json:"milliamps"`
	RemainingPercent               uint16 `json:"remaining_percent"`
	RemainingCapacityMilliamphours uint16 `json:"remaining_capacity_milliamphours"`
	RemainingRuntimeMinutes        uint16 `json:"remaining_runtime_minutes"`
	TimeToFullMinutes              uint16 `json:"time_to_full_minutes"`
}

// PowerState is the composite charger / USB-C input state reported by the
// IP2368 charge controller.
type PowerState struct {
	ChargingState     ChargingState   `json:"charging_state"`
	ChargerActivity   ChargerActivity `json:"charger_activity"`
	USBCInputState    InputState      `json:"usbc_input_state"`
	USBCPowerDelivery PowerDelivery   `json:"usbc_power_delivery"`
}

// CellVoltage holds the voltage of each of the four battery cells, in pack
// position order. The array is always exactly four entries.
type CellVoltage struct {
	Millivolts [4]uint16 `json:"millivolts"`
}

// VBusState holds voltage, current, and power readings for the USB-C VBUS
// rail. Milliwatts is reported by the controller but reconciled against
// Millivolts×Milliamps during decode.
type VBusState struct {
	Millivolts uint16 `json:"millivolts"`
	Milliamps  uint16 `json:"milliamps"`
	Milliwatts uint16 `json:"milliwatts"`
}

// CommunicationState reports the health of the UPS controller's links to its
// two on-board chips. One chip's loss never hides the other's state.
type CommunicationState struct {
	FuelGauge LinkState `json:"fuel_gauge"`
	Charger   LinkState `json:"charger"`
}
