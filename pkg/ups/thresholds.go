package ups

// Derived boolean conditions. Both re-read live state on every call; nothing
// is memoized.

// IsBatteryLow reports whether the pack voltage is at or below the configured
// low-voltage threshold. The boundary is inclusive: a pack sitting exactly at
// the threshold is low.
func (u *UPS) IsBatteryLow() (bool, error) {
	st, err := u.GetBatteryState()
	if err != nil {
		return false, err
	}
	return st.Millivolts <= u.opts.LowVoltageThresholdMillivolts, nil
}

// IsPowerOffPending reports whether a power-off is coming: either this
// process armed one, or the controller reports one pending (it arms its own
// shutdown at the hardware low-voltage cutoff), whichever happened first.
func (u *UPS) IsPowerOffPending() (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	data, err := u.readBlock(powerOffBlock)
	if err != nil {
		// The local armed state is authoritative even when the chip cannot
		// be reached anymore.
		if u.powerOff == PowerOffArmed {
			return true, nil
		}
		return false, err
	}

	return u.powerOff == PowerOffArmed || data[0] == powerOffValue, nil
}
