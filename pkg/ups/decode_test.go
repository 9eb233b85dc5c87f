package ups

import (
	"errors"
	"testing"

	"github.com/hat-tools/upshat/pkg/types"
)

func TestDecodeField(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		field   Field
		want    int64
		anomaly bool
	}{
		{
			name:  "unsigned word",
			data:  []byte{0x98, 0x3a},
			field: Field{Name: "f", Width: 2, Scale: 1, Max: 65535},
			want:  15000,
		},
		{
			name:  "unsigned word at offset",
			data:  []byte{0x00, 0x00, 0x64, 0x00},
			field: Field{Name: "f", Offset: 2, Width: 2, Scale: 1, Max: 100},
			want:  100,
		},
		{
			name:  "signed word negative",
			data:  []byte{0x24, 0xfa},
			field: Field{Name: "f", Width: 2, Signed: true, Scale: 1, Min: -20000, Max: 20000},
			want:  -1500,
		},
		{
			name:  "signed byte negative",
			data:  []byte{0xff},
			field: Field{Name: "f", Width: 1, Signed: true, Scale: 1, Min: -128, Max: 127},
			want:  -1,
		},
		{
			name:  "signed dword",
			data:  []byte{0xfe, 0xff, 0xff, 0xff},
			field: Field{Name: "f", Width: 4, Signed: true, Scale: 1, Min: -10, Max: 10},
			want:  -2,
		},
		{
			name:  "scale applied",
			data:  []byte{0x0a, 0x00},
			field: Field{Name: "f", Width: 2, Scale: 25, Unit: "mV", Max: 1000},
			want:  250,
		},
		{
			name:    "above max is an anomaly",
			data:    []byte{0xff, 0x00},
			field:   Field{Name: "f", Width: 2, Scale: 1, Max: 100},
			anomaly: true,
		},
		{
			name:    "below min is an anomaly",
			data:    []byte{0x9c, 0xff},
			field:   Field{Name: "f", Width: 2, Signed: true, Scale: 1, Min: 0, Max: 100},
			anomaly: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeField(tt.data, tt.field)
			if tt.anomaly {
				var anomaly *DecodeAnomaly
				if !errors.As(err, &anomaly) {
					t.Fatalf("decodeField() error = %v, want DecodeAnomaly", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeField() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("decodeField() = %d, want %d", got, tt.want)
			}
		})
	}
}

// batteryBytes builds a 12-byte battery block from field values.
func batteryBytes(mv uint16, ma int16, pct, capacity, runtime, ttf uint16) []byte {
	le := func(v uint16) (byte, byte) { return byte(v), byte(v >> 8) }
	var b [12]byte
	b[0], b[1] = le(mv)
	b[2], b[3] = le(uint16(ma))
	b[4], b[5] = le(pct)
	b[6], b[7] = le(capacity)
	b[8], b[9] = le(runtime)
	b[10], b[11] = le(ttf)
	return b[:]
}

func TestDecodeBatteryState(t *testing.T) {
	t.Run("discharging reports runtime, zeroes time-to-full", func(t *testing.T) {
		st, err := decodeBatteryState(batteryBytes(15000, -1500, 75, 4500, 120, 999))
		if err != nil {
			t.Fatalf("decodeBatteryState() error = %v", err)
		}
		want := &types.BatteryState{
			Millivolts:                     15000,
			Milliamps:                      -1500,
			RemainingPercent:               75,
			RemainingCapacityMilliamphours: 4500,
			RemainingRuntimeMinutes:        120,
			TimeToFullMinutes:              0,
		}
		if *st != *want {
			t.Errorf("decodeBatteryState() = %+v, want %+v", st, want)
		}
	})

	t.Run("charging reports time-to-full, zeroes runtime", func(t *testing.T) {
		st, err := decodeBatteryState(batteryBytes(16000, 2000, 80, 4800, 999, 45))
		if err != nil {
			t.Fatalf("decodeBatteryState() error = %v", err)
		}
		if st.RemainingRuntimeMinutes != 0 {
			t.Errorf("RemainingRuntimeMinutes = %d, want 0 while charging", st.RemainingRuntimeMinutes)
		}
		if st.TimeToFullMinutes != 45 {
			t.Errorf("TimeToFullMinutes = %d, want 45", st.TimeToFullMinutes)
		}
	})

	t.Run("zero current counts as charging direction", func(t *testing.T) {
		st, err := decodeBatteryState(batteryBytes(16000, 0, 80, 4800, 999, 0))
		if err != nil {
			t.Fatalf("decodeBatteryState() error = %v", err)
		}
		if st.RemainingRuntimeMinutes != 0 {
			t.Errorf("RemainingRuntimeMinutes = %d, want 0 at current >= 0", st.RemainingRuntimeMinutes)
		}
	})

	t.Run("percent 100 from raw 0x64 0x00", func(t *testing.T) {
		st, err := decodeBatteryState(batteryBytes(16800, 100, 0x0064, 5000, 0, 10))
		if err != nil {
			t.Fatalf("decodeBatteryState() error = %v", err)
		}
		if st.RemainingPercent != 100 {
			t.Errorf("RemainingPercent = %d, want 100", st.RemainingPercent)
		}
	})

	t.Run("percent 255 is an anomaly, not a clamped value", func(t *testing.T) {
		_, err := decodeBatteryState(batteryBytes(16800, 100, 0x00ff, 5000, 0, 10))
		var anomaly *DecodeAnomaly
		if !errors.As(err, &anomaly) {
			t.Fatalf("decodeBatteryState() error = %v, want DecodeAnomaly", err)
		}
		if anomaly.Field != fieldPercent.Name {
			t.Errorf("anomaly field = %s, want %s", anomaly.Field, fieldPercent.Name)
		}
		if anomaly.Value != 255 {
			t.Errorf("anomaly value = %d, want 255", anomaly.Value)
		}
	})
}

func TestDecodePowerState(t *testing.T) {
	tests := []struct {
		name    string
		b       byte
		want    types.PowerState
		anomaly bool
	}{
		{
			name: "fast charging on PD",
			b:    0b1110_0010, // charging, PD, input, constant current
			want: types.PowerState{
				ChargingState:     types.Charging,
				ChargerActivity:   types.ActivityConstantCurrent,
				USBCInputState:    types.InputPresent,
				USBCPowerDelivery: types.PDFixed,
			},
		},
		{
			name: "on battery",
			b:    0b0000_0000,
			want: types.PowerState{
				ChargingState:     types.NotCharging,
				ChargerActivity:   types.ActivityStandby,
				USBCInputState:    types.NoInput,
				USBCPowerDelivery: types.PDNone,
			},
		},
		{
			name: "input detected but not committed",
			b:    0b0010_0100, // input, charge pending
			want: types.PowerState{
				ChargingState:     types.NotCharging,
				ChargerActivity:   types.ActivityChargePending,
				USBCInputState:    types.InputUnstable,
				USBCPowerDelivery: types.PDNone,
			},
		},
		{
			name: "safety timer expired",
			b:    0b0010_0110, // input, timeout
			want: types.PowerState{
				ChargingState:     types.ChargeFault,
				ChargerActivity:   types.ActivityTimeout,
				USBCInputState:    types.InputPresent,
				USBCPowerDelivery: types.PDNone,
			},
		},
		{
			name:    "invalid activity bits",
			b:       0b0000_0111,
			anomaly: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := decodePowerState(tt.b)
			if tt.anomaly {
				var anomaly *DecodeAnomaly
				if !errors.As(err, &anomaly) {
					t.Fatalf("decodePowerState() error = %v, want DecodeAnomaly", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodePowerState() error = %v", err)
			}
			if *st != tt.want {
				t.Errorf("decodePowerState() = %+v, want %+v", st, tt.want)
			}
		})
	}
}

func TestDecodeCellVoltage(t *testing.T) {
	data := []byte{0xa6, 0x0e, 0xa8, 0x0e, 0xa4, 0x0e, 0xa7, 0x0e}
	cv, err := decodeCellVoltage(data)
	if err != nil {
		t.Fatalf("decodeCellVoltage() error = %v", err)
	}
	want := [4]uint16{3750, 3752, 3748, 3751}
	if cv.Millivolts != want {
		t.Errorf("decodeCellVoltage() = %v, want %v", cv.Millivolts, want)
	}
}

func TestDecodeCellVoltageAnomaly(t *testing.T) {
	// Cell 3 reads 0xffff, far above any plausible cell voltage.
	data := []byte{0xa6, 0x0e, 0xa8, 0x0e, 0xff, 0xff, 0xa7, 0x0e}
	_, err := decodeCellVoltage(data)
	var anomaly *DecodeAnomaly
	if !errors.As(err, &anomaly) {
		t.Fatalf("decodeCellVoltage() error = %v, want DecodeAnomaly", err)
	}
	if anomaly.Field != "cells.cell_3" {
		t.Errorf("anomaly field = %s, want cells.cell_3", anomaly.Field)
	}
}

func vbusBytes(mv, ma, mw uint16) []byte {
	return []byte{byte(mv), byte(mv >> 8), byte(ma), byte(ma >> 8), byte(mw), byte(mw >> 8)}
}

func TestDecodeVBus(t *testing.T) {
	t.Run("consistent reading", func(t *testing.T) {
		st, err := decodeVBus(vbusBytes(9000, 2000, 18000))
		if err != nil {
			t.Fatalf("decodeVBus() error = %v", err)
		}
		if st.Millivolts != 9000 || st.Milliamps != 2000 || st.Milliwatts != 18000 {
			t.Errorf("decodeVBus() = %+v", st)
		}
	})

	t.Run("rounding slack is tolerated", func(t *testing.T) {
		if _, err := decodeVBus(vbusBytes(5000, 900, 4700)); err != nil {
			t.Fatalf("decodeVBus() error = %v, want nil within tolerance", err)
		}
	})

	t.Run("reported power contradicting V*I is an anomaly", func(t *testing.T) {
		_, err := decodeVBus(vbusBytes(9000, 2000, 30000))
		var anomaly *DecodeAnomaly
		if !errors.As(err, &anomaly) {
			t.Fatalf("decodeVBus() error = %v, want DecodeAnomaly", err)
		}
	})
}

func TestDecodeRevision(t *testing.T) {
	rev := decodeRevision(0x12)
	if rev.Major != 1 || rev.Minor != 2 {
		t.Errorf("decodeRevision(0x12) = %+v, want v1.2", rev)
	}
	if rev.String() != "v1.2" {
		t.Errorf("String() = %q, want v1.2", rev.String())
	}
}
