package ups

import (
	"github.com/hat-tools/upshat/pkg/types"
)

// Decode routines are pure functions of raw block bytes plus catalog metadata;
// they perform no I/O.

// decodeField assembles, sign-extends, and scales one field from a block read,
// then checks it against the field's valid physical range.
func decodeField(data []byte, f Field) (int64, error) {
	var raw int64
	for i := f.Width - 1; i >= 0; i-- {
		raw = raw<<8 | int64(data[f.Offset+i])
	}
	if f.Signed {
		switch f.Width {
		case 1:
			raw = int64(int8(raw))
		case 2:
			raw = int64(int16(raw))
		case 4:
			raw = int64(int32(raw))
		}
	}
	v := raw * f.Scale
	if v < f.Min || v > f.Max {
		return 0, &DecodeAnomaly{Field: f.Name, Unit: f.Unit, Value: v, Min: f.Min, Max: f.Max}
	}
	return v, nil
}

// decodeBatteryState decodes the 12-byte battery block. Runtime minutes are
// defined as 0 while charging (current >= 0) and time-to-full as 0 while
// discharging; the gauge's extrapolations are only meaningful in the matching
// direction.
func decodeBatteryState(data []byte) (*types.BatteryState, error) {
	mv, err := decodeField(data, fieldPackMillivolts)
	if err != nil {
		return nil, err
	}
	ma, err := decodeField(data, fieldPackMilliamps)
	if err != nil {
		return nil, err
	}
	pct, err := decodeField(data, fieldPercent)
	if err != nil {
		return nil, err
	}
	capacity, err := decodeField(data, fieldCapacity)
	if err != nil {
		return nil, err
	}

	st := &types.BatteryState{
		Millivolts:                     uint16(mv),
		Milliamps:                      int16(ma),
		RemainingPercent:               uint16(pct),
		RemainingCapacityMilliamphours: uint16(capacity),
	}

	if ma < 0 {
		runtime, err := decodeField(data, fieldRuntime)
		if err != nil {
			return nil, err
		}
		st.RemainingRuntimeMinutes = uint16(runtime)
	} else {
		ttf, err := decodeField(data, fieldTimeToFull)
		if err != nil {
			return nil, err
		}
		st.TimeToFullMinutes = uint16(ttf)
	}

	return st, nil
}

// decodePowerState decodes the charging status byte relayed from the IP2368.
func decodePowerState(b byte) (*types.PowerState, error) {
	activity, err := decodeChargerActivity(b & chargingActivityMask)
	if err != nil {
		return nil, err
	}

	inputPresent := b&chargingInputBit != 0
	pdNegotiated := b&chargingPDBit != 0
	charging := b&chargingChargingBit != 0

	st := &types.PowerState{ChargerActivity: activity}

	switch {
	case charging:
		st.ChargingState = types.Charging
	case activity == types.ActivityTimeout:
		st.ChargingState = types.ChargeFault
	default:
		st.ChargingState = types.NotCharging
	}

	switch {
	case !inputPresent:
		st.USBCInputState = types.NoInput
	case activity == types.ActivityChargePending:
		// Input detected but the charger has not committed to drawing from it.
		st.USBCInputState = types.InputUnstable
	default:
		st.USBCInputState = types.InputPresent
	}

	if inputPresent && pdNegotiated {
		st.USBCPowerDelivery = types.PDFixed
	} else {
		st.USBCPowerDelivery = types.PDNone
	}

	return st, nil
}

func decodeChargerActivity(v byte) (types.ChargerActivity, error) {
	switch v {
	case 0b000:
		return types.ActivityStandby, nil
	case 0b001:
		return types.ActivityTrickle, nil
	case 0b010:
		return types.ActivityConstantCurrent, nil
	case 0b011:
		return types.ActivityConstantVoltage, nil
	case 0b100:
		return types.ActivityChargePending, nil
	case 0b101:
		return types.ActivityFull, nil
	case 0b110:
		return types.ActivityTimeout, nil
	default:
		return 0, &DecodeAnomaly{Field: "power.charger_activity", Value: int64(v), Min: 0b000, Max: 0b110}
	}
}

// decodeCellVoltage decodes the 8-byte cell block into exactly four readings.
func decodeCellVoltage(data []byte) (*types.CellVoltage, error) {
	var cv types.CellVoltage
	for i, f := range cellFields {
		mv, err := decodeField(data, f)
		if err != nil {
			return nil, err
		}
		cv.Millivolts[i] = uint16(mv)
	}
	return &cv, nil
}

// decodeVBus decodes the 6-byte VBUS block and reconciles the reported power
// against voltage×current. The controller samples the three values
// independently, so the check allows 10% plus a 250 mW floor before calling
// the reading implausible.
func decodeVBus(data []byte) (*types.VBusState, error) {
	mv, err := decodeField(data, fieldVBusMillivolts)
	if err != nil {
		return nil, err
	}
	ma, err := decodeField(data, fieldVBusMilliamps)
	if err != nil {
		return nil, err
	}
	mw, err := decodeField(data, fieldVBusMilliwatts)
	if err != nil {
		return nil, err
	}

	computed := mv * ma / 1000
	tolerance := computed/10 + 250
	diff := mw - computed
	if diff < 0 {
		diff = -diff
	}
	if diff > tolerance {
		return nil, &DecodeAnomaly{
			Field: fieldVBusMilliwatts.Name,
			Unit:  fieldVBusMilliwatts.Unit,
			Value: mw,
			Min:   computed - tolerance,
			Max:   computed + tolerance,
		}
	}

	return &types.VBusState{
		Millivolts: uint16(mv),
		Milliamps:  uint16(ma),
		Milliwatts: uint16(mw),
	}, nil
}

// decodeRevision decodes the packed firmware revision byte: major version in
// the high nibble, minor in the low.
func decodeRevision(b byte) types.SoftwareRevision {
	return types.SoftwareRevision{Major: b >> 4, Minor: b & 0x0f}
}
