package ups

import "github.com/hat-tools/upshat/pkg/types"

// commMonitor tracks per-chip link health from transaction outcomes. One
// failed logical read (after retries) counts as one failure; any success
// resets the chip to ok. The state is advisory and never gates a call.
type commMonitor struct {
	lostThreshold int
	failures      map[Chip]int
}

func newCommMonitor(lostThreshold int) *commMonitor {
	return &commMonitor{
		lostThreshold: lostThreshold,
		failures:      map[Chip]int{},
	}
}

func (m *commMonitor) recordSuccess(chip Chip) {
	m.failures[chip] = 0
}

func (m *commMonitor) recordFailure(chip Chip) {
	m.failures[chip]++
}

func (m *commMonitor) state(chip Chip) types.LinkState {
	switch n := m.failures[chip]; {
	case n == 0:
		return types.LinkOk
	case n < m.lostThreshold:
		return types.LinkDegraded
	default:
		return types.LinkLost
	}
}
