package ups

import "fmt"

// Chip identifies which on-board microcontroller a register belongs to. Every
// transaction goes through the UPS controller at its single bus address; the
// chip attribution drives per-chip link accounting, since the controller
// relays fuel-gauge and charger registers from two independent chips.
type Chip int

const (
	// ChipController is the UPS microcontroller itself.
	ChipController Chip = iota
	// ChipFuelGauge is the BQ4050 gas gauge.
	ChipFuelGauge
	// ChipCharger is the IP2368 charge / power-delivery controller.
	ChipCharger
)

func (c Chip) String() string {
	switch c {
	case ChipController:
		return "controller"
	case ChipFuelGauge:
		return "bq4050"
	case ChipCharger:
		return "ip2368"
	default:
		return "unknown"
	}
}

// DefaultAddress is the 7-bit bus address of the UPS controller.
const DefaultAddress uint8 = 0x2d

// Block is a readable group of related registers on one chip.
type Block struct {
	Chip   Chip
	Reg    uint8
	Length int
}

// Field is one named physical quantity inside a Block. Raw counts are
// little-endian, Width bytes wide, multiplied by Scale to reach Unit.
// Scaled values outside [Min, Max] are decode anomalies.
type Field struct {
	Name   string
	Offset int
	Width  int
	Signed bool
	Scale  int64
	Unit   string
	Min    int64
	Max    int64
}

// Register blocks of the UPS HAT controller. Addresses and layouts follow the
// controller's command set; the charging and VBUS blocks are relayed from the
// IP2368, the battery and cell blocks from the BQ4050.
var (
	revisionBlock = Block{Chip: ChipController, Reg: 0x00, Length: 1}
	powerOffBlock = Block{Chip: ChipController, Reg: 0x01, Length: 1}
	chargingBlock = Block{Chip: ChipCharger, Reg: 0x02, Length: 1}
	commBlock     = Block{Chip: ChipController, Reg: 0x03, Length: 1}
	vbusBlock     = Block{Chip: ChipCharger, Reg: 0x10, Length: 6}
	batteryBlock  = Block{Chip: ChipFuelGauge, Reg: 0x20, Length: 12}
	cellBlock     = Block{Chip: ChipFuelGauge, Reg: 0x30, Length: 8}
)

// Bits of the charging status block.
const (
	chargingActivityMask = 0b111
	chargingInputBit     = 1 << 5
	chargingPDBit        = 1 << 6
	chargingChargingBit  = 1 << 7
)

// Bits of the communication status block: set means the controller can talk
// to that chip.
const (
	commChargerBit   = 1 << 0
	commFuelGaugeBit = 1 << 1
)

// Fields of the battery block. The gauge reports everything in base units
// already, so all scales are 1; the scale column is still authoritative
// should a future firmware change the resolution.
var (
	fieldPackMillivolts = Field{Name: "battery.millivolts", Offset: 0, Width: 2, Scale: 1, Unit: "mV", Min: 0, Max: 30000}
	fieldPackMilliamps  = Field{Name: "battery.milliamps", Offset: 2, Width: 2, Signed: true, Scale: 1, Unit: "mA", Min: -20000, Max: 20000}
	fieldPercent        = Field{Name: "battery.remaining_percent", Offset: 4, Width: 2, Scale: 1, Unit: "%", Min: 0, Max: 100}
	fieldCapacity       = Field{Name: "battery.remaining_capacity", Offset: 6, Width: 2, Scale: 1, Unit: "mAh", Min: 0, Max: 65535}
	fieldRuntime        = Field{Name: "battery.remaining_runtime", Offset: 8, Width: 2, Scale: 1, Unit: "min", Min: 0, Max: 65535}
	fieldTimeToFull     = Field{Name: "battery.time_to_full", Offset: 10, Width: 2, Scale: 1, Unit: "min", Min: 0, Max: 65535}
)

// Fields of the VBUS block.
var (
	fieldVBusMillivolts = Field{Name: "vbus.millivolts", Offset: 0, Width: 2, Scale: 1, Unit: "mV", Min: 0, Max: 30000}
	fieldVBusMilliamps  = Field{Name: "vbus.milliamps", Offset: 2, Width: 2, Scale: 1, Unit: "mA", Min: 0, Max: 10000}
	fieldVBusMilliwatts = Field{Name: "vbus.milliwatts", Offset: 4, Width: 2, Scale: 1, Unit: "mW", Min: 0, Max: 65535}
)

// Fields of the cell voltage block, one per cell in pack position order.
var cellFields = [4]Field{
	{Name: "cells.cell_1", Offset: 0, Width: 2, Scale: 1, Unit: "mV", Min: 0, Max: 5000},
	{Name: "cells.cell_2", Offset: 2, Width: 2, Scale: 1, Unit: "mV", Min: 0, Max: 5000},
	{Name: "cells.cell_3", Offset: 4, Width: 2, Scale: 1, Unit: "mV", Min: 0, Max: 5000},
	{Name: "cells.cell_4", Offset: 6, Width: 2, Scale: 1, Unit: "mV", Min: 0, Max: 5000},
}

// catalog binds every block to its fields for init-time validation.
var catalog = []struct {
	Block  Block
	Fields []Field
}{
	{revisionBlock, nil},
	{powerOffBlock, nil},
	{chargingBlock, nil},
	{commBlock, nil},
	{vbusBlock, []Field{fieldVBusMillivolts, fieldVBusMilliamps, fieldVBusMilliwatts}},
	{batteryBlock, []Field{fieldPackMillivolts, fieldPackMilliamps, fieldPercent, fieldCapacity, fieldRuntime, fieldTimeToFull}},
	{cellBlock, cellFields[:]},
}

// A malformed catalog is a programming defect, so it panics at package load
// rather than surfacing at runtime.
func init() {
	if err := validateCatalog(); err != nil {
		panic(err)
	}
}

func validateCatalog() error {
	seen := map[uint8]Chip{}
	for _, entry := range catalog {
		b := entry.Block
		if prev, ok := seen[b.Reg]; ok {
			return fmt.Errorf("ups: register 0x%02x declared for both %s and %s", b.Reg, prev, b.Chip)
		}
		seen[b.Reg] = b.Chip
		if b.Length <= 0 {
			return fmt.Errorf("ups: register 0x%02x has length %d", b.Reg, b.Length)
		}
		for _, f := range entry.Fields {
			switch f.Width {
			case 1, 2, 4:
			default:
				return fmt.Errorf("ups: field %s has width %d, want 1, 2 or 4", f.Name, f.Width)
			}
			if f.Offset < 0 || f.Offset+f.Width > b.Length {
				return fmt.Errorf("ups: field %s [%d:%d] does not fit register 0x%02x of length %d",
					f.Name, f.Offset, f.Offset+f.Width, b.Reg, b.Length)
			}
			if f.Min > f.Max {
				return fmt.Errorf("ups: field %s has empty valid range [%d, %d]", f.Name, f.Min, f.Max)
			}
		}
	}
	return nil
}
