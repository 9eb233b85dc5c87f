package ups

import (
	"testing"

	"github.com/hat-tools/upshat/pkg/types"
)

func TestCommMonitorTransitions(t *testing.T) {
	m := newCommMonitor(3)

	if got := m.state(ChipCharger); got != types.LinkOk {
		t.Fatalf("initial state = %v, want ok", got)
	}

	m.recordFailure(ChipCharger)
	if got := m.state(ChipCharger); got != types.LinkDegraded {
		t.Fatalf("after 1 failure = %v, want degraded", got)
	}

	m.recordFailure(ChipCharger)
	if got := m.state(ChipCharger); got != types.LinkDegraded {
		t.Fatalf("after 2 failures = %v, want degraded", got)
	}

	m.recordFailure(ChipCharger)
	if got := m.state(ChipCharger); got != types.LinkLost {
		t.Fatalf("after 3 failures = %v, want lost", got)
	}

	// One chip's trouble never leaks into the other's accounting.
	if got := m.state(ChipFuelGauge); got != types.LinkOk {
		t.Fatalf("fuel gauge state = %v, want ok", got)
	}

	m.recordSuccess(ChipCharger)
	if got := m.state(ChipCharger); got != types.LinkOk {
		t.Fatalf("after success = %v, want ok", got)
	}
}

func TestCommMonitorSuccessResetsMidway(t *testing.T) {
	m := newCommMonitor(3)

	m.recordFailure(ChipFuelGauge)
	m.recordFailure(ChipFuelGauge)
	m.recordSuccess(ChipFuelGauge)
	m.recordFailure(ChipFuelGauge)
	m.recordFailure(ChipFuelGauge)

	// The intervening success reset the streak; only two consecutive
	// failures have accumulated since.
	if got := m.state(ChipFuelGauge); got != types.LinkDegraded {
		t.Fatalf("state = %v, want degraded", got)
	}
}
