package ups

// PowerOffState is the host-side view of the delayed power-off sequence. The
// transition out of Idle is one-way: the controller times the cut itself and
// offers no protocol to cancel it, so nothing in this package ever returns
// the state to Idle.
type PowerOffState int

const (
	// PowerOffIdle means no power-off has been requested this session.
	PowerOffIdle PowerOffState = iota
	// PowerOffArmed means the controller accepted the command and will cut
	// power after its own 30-second timer.
	PowerOffArmed
	// PowerOffCompleted is documentation only: power is cut before the host
	// could ever observe it.
	PowerOffCompleted
)

func (s PowerOffState) String() string {
	switch s {
	case PowerOffIdle:
		return "idle"
	case PowerOffArmed:
		return "armed"
	case PowerOffCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// powerOffValue arms the power-off when written to the command register and
// flags a pending power-off when read back.
const powerOffValue uint8 = 0x55

// ForcePowerOff arms the controller's 30-second power-off timer and returns
// the resulting state. The cut is unclean and unconditional; once this
// returns PowerOffArmed there is no way to cancel. Calling again while armed
// is a no-op that reports the armed state without issuing a second write.
func (u *UPS) ForcePowerOff() (PowerOffState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.powerOff != PowerOffIdle {
		return u.powerOff, nil
	}

	if err := u.bus.WriteByte(u.opts.Address, powerOffBlock.Reg, powerOffValue); err != nil {
		u.comm.recordFailure(ChipController)
		return u.powerOff, &TransportError{Chip: ChipController, Reg: powerOffBlock.Reg, Attempts: 1, Err: err}
	}

	u.comm.recordSuccess(ChipController)
	u.powerOff = PowerOffArmed
	return u.powerOff, nil
}
