package ups

import (
	"errors"
	"testing"

	"github.com/hat-tools/upshat/pkg/i2c"
	"github.com/hat-tools/upshat/pkg/types"
)

// healthyMock returns a mock bus prefilled with a plausible full register set:
// pack at 15 V discharging at 1.5 A, four healthy cells, 9 V PD input absent.
func healthyMock() *i2c.Mock {
	return i2c.NewMockPrefilled(DefaultAddress, map[uint8][]byte{
		0x00: {0x12},
		0x01: {0x00},
		0x02: {0b0000_0000},
		0x03: {0b0000_0011},
		0x10: vbusBytes(0, 0, 0),
		0x20: batteryBytes(15000, -1500, 75, 4500, 120, 0),
		0x30: {0xa6, 0x0e, 0xa8, 0x0e, 0xa4, 0x0e, 0xa7, 0x0e},
	})
}

func TestGetBatteryState(t *testing.T) {
	u := New(healthyMock(), Options{})

	st, err := u.GetBatteryState()
	if err != nil {
		t.Fatalf("GetBatteryState() error = %v", err)
	}
	if st.Millivolts != 15000 || st.Milliamps != -1500 || st.RemainingPercent != 75 {
		t.Errorf("GetBatteryState() = %+v", st)
	}
	if st.RemainingRuntimeMinutes != 120 {
		t.Errorf("RemainingRuntimeMinutes = %d, want 120", st.RemainingRuntimeMinutes)
	}
}

func TestGetCellVoltageAlwaysFourReadings(t *testing.T) {
	u := New(healthyMock(), Options{})

	cv, err := u.GetCellVoltage()
	if err != nil {
		t.Fatalf("GetCellVoltage() error = %v", err)
	}
	if len(cv.Millivolts) != 4 {
		t.Fatalf("got %d cell readings, want 4", len(cv.Millivolts))
	}
	for i, mv := range cv.Millivolts {
		if mv == 0 {
			t.Errorf("cell %d reads 0 mV", i+1)
		}
	}
}

func TestGetCellVoltageFailsWhole(t *testing.T) {
	mock := healthyMock()
	mock.FailAlways(DefaultAddress, cellBlock.Reg)
	u := New(mock, Options{})

	_, err := u.GetCellVoltage()
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("GetCellVoltage() error = %v, want TransportError", err)
	}
	if te.Chip != ChipFuelGauge {
		t.Errorf("TransportError.Chip = %v, want fuel gauge", te.Chip)
	}
}

func TestReadBlockRetriesThenSucceeds(t *testing.T) {
	mock := healthyMock()
	// Two transient failures; the third attempt inside one logical read
	// must succeed without surfacing an error.
	mock.FailTimes(DefaultAddress, batteryBlock.Reg, 2)
	u := New(mock, Options{MaxReadAttempts: 3})

	if _, err := u.GetBatteryState(); err != nil {
		t.Fatalf("GetBatteryState() error = %v, want retry to absorb transient failures", err)
	}

	// The transient failures were absorbed inside one successful logical
	// read, so the link is still ok.
	comm := u.GetCommunicationState()
	if comm.FuelGauge != types.LinkOk {
		t.Errorf("fuel gauge link = %v, want ok", comm.FuelGauge)
	}
}

func TestReadBlockExhaustsRetries(t *testing.T) {
	mock := healthyMock()
	mock.FailTimes(DefaultAddress, batteryBlock.Reg, 3)
	u := New(mock, Options{MaxReadAttempts: 3})

	_, err := u.GetBatteryState()
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("GetBatteryState() error = %v, want TransportError", err)
	}
	if te.Attempts != 3 {
		t.Errorf("TransportError.Attempts = %d, want 3", te.Attempts)
	}
}

func TestShortReadIsTransportError(t *testing.T) {
	mock := healthyMock()
	mock.Prefill(DefaultAddress, batteryBlock.Reg, []byte{0x98, 0x3a}) // 2 of 12 bytes
	u := New(mock, Options{})

	_, err := u.GetBatteryState()
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("GetBatteryState() error = %v, want TransportError", err)
	}
}

func TestGetCommunicationStateChargerLost(t *testing.T) {
	mock := healthyMock()
	mock.FailAlways(DefaultAddress, chargingBlock.Reg)
	mock.FailAlways(DefaultAddress, vbusBlock.Reg)
	u := New(mock, Options{})

	// Three consecutive failed logical calls against charger registers,
	// with fuel gauge reads interleaved and healthy.
	for i := 0; i < 3; i++ {
		if _, err := u.GetPowerState(); err == nil {
			t.Fatal("GetPowerState() succeeded, want failure")
		}
		if _, err := u.GetBatteryState(); err != nil {
			t.Fatalf("GetBatteryState() error = %v", err)
		}
	}

	comm := u.GetCommunicationState()
	if comm.Charger != types.LinkLost {
		t.Errorf("charger link = %v, want lost", comm.Charger)
	}
	if comm.FuelGauge != types.LinkOk {
		t.Errorf("fuel gauge link = %v, want ok", comm.FuelGauge)
	}
}

func TestGetCommunicationStateNeverFails(t *testing.T) {
	mock := healthyMock()
	mock.FailAlways(DefaultAddress, commBlock.Reg)
	u := New(mock, Options{})

	// Even with the controller's own status register unreachable the call
	// reports the monitor's view.
	comm := u.GetCommunicationState()
	if comm.FuelGauge != types.LinkOk || comm.Charger != types.LinkOk {
		t.Errorf("GetCommunicationState() = %+v, want ok/ok", comm)
	}
}

func TestGetCommunicationStateControllerView(t *testing.T) {
	mock := healthyMock()
	// The controller reports its link to the fuel gauge as down even
	// though host-side transactions still work.
	mock.Prefill(DefaultAddress, commBlock.Reg, []byte{0b0000_0001})
	u := New(mock, Options{})

	comm := u.GetCommunicationState()
	if comm.FuelGauge != types.LinkDegraded {
		t.Errorf("fuel gauge link = %v, want degraded from controller's report", comm.FuelGauge)
	}
	if comm.Charger != types.LinkOk {
		t.Errorf("charger link = %v, want ok", comm.Charger)
	}
}

func TestDegradedReadAttempts(t *testing.T) {
	mock := healthyMock()
	mock.FailAlways(DefaultAddress, vbusBlock.Reg)
	u := New(mock, Options{MaxReadAttempts: 3, DegradedReadAttempts: 1})

	// First failed call degrades the charger link after 3 attempts.
	_, err := u.GetUSBCVBus()
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("GetUSBCVBus() error = %v, want TransportError", err)
	}
	if te.Attempts != 3 {
		t.Errorf("first call attempts = %d, want 3", te.Attempts)
	}

	// Once degraded, the reduced bound applies.
	_, err = u.GetUSBCVBus()
	if !errors.As(err, &te) {
		t.Fatalf("GetUSBCVBus() error = %v, want TransportError", err)
	}
	if te.Attempts != 1 {
		t.Errorf("degraded call attempts = %d, want 1", te.Attempts)
	}
}

func TestGetPowerState(t *testing.T) {
	mock := healthyMock()
	mock.Prefill(DefaultAddress, chargingBlock.Reg, []byte{0b1110_0010})
	u := New(mock, Options{})

	st, err := u.GetPowerState()
	if err != nil {
		t.Fatalf("GetPowerState() error = %v", err)
	}
	if st.ChargingState != types.Charging || st.USBCPowerDelivery != types.PDFixed {
		t.Errorf("GetPowerState() = %+v", st)
	}
}

func TestGetSoftwareRevision(t *testing.T) {
	u := New(healthyMock(), Options{})

	rev, err := u.GetSoftwareRevision()
	if err != nil {
		t.Fatalf("GetSoftwareRevision() error = %v", err)
	}
	if rev.String() != "v1.2" {
		t.Errorf("GetSoftwareRevision() = %s, want v1.2", rev)
	}
}

func TestCatalogValidates(t *testing.T) {
	if err := validateCatalog(); err != nil {
		t.Fatalf("validateCatalog() error = %v", err)
	}
}
