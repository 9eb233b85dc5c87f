package daemon

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hat-tools/upshat/pkg/types"
)

// watchLoop periodically polls the hat and raises log-level alarms: a low
// pack, a chip link going lost, and optionally an automatic hardware
// power-off when the pack is low while discharging. It keeps no history;
// every tick looks at live state only.
func watchLoop(ctx context.Context) {
	var lastComm types.CommunicationState
	wasLow := false

	for {
		// Re-read the interval each tick so a SIGHUP reload takes effect.
		select {
		case <-ctx.Done():
			return
		case <-time.After(conf.PollInterval()):
		}

		comm := upsConn.GetCommunicationState()
		if comm.FuelGauge != lastComm.FuelGauge {
			logLinkChange("bq4050", lastComm.FuelGauge, comm.FuelGauge)
		}
		if comm.Charger != lastComm.Charger {
			logLinkChange("ip2368", lastComm.Charger, comm.Charger)
		}
		lastComm = *comm

		st, err := upsConn.GetBatteryState()
		if err != nil {
			logrus.WithError(err).Warn("watch loop: battery state unavailable")
			continue
		}

		low, err := upsConn.IsBatteryLow()
		if err != nil {
			logrus.WithError(err).Warn("watch loop: battery-low check failed")
			continue
		}

		if low && !wasLow {
			logrus.WithFields(logrus.Fields{
				"millivolts": st.Millivolts,
				"percent":    st.RemainingPercent,
			}).Warn("battery is low")
		}
		wasLow = low

		if low && st.Milliamps < 0 && conf.PowerOffOnLowBattery() {
			state, err := upsConn.ForcePowerOff()
			if err != nil {
				logrus.WithError(err).Error("failed to arm low-battery power-off")
				continue
			}
			// ForcePowerOff is one-way, so later ticks reaching this
			// branch only re-observe the armed state.
			logrus.Warnf("low battery while discharging: power-off %s", state)
		}
	}
}

func logLinkChange(chip string, from, to types.LinkState) {
	entry := logrus.WithFields(logrus.Fields{
		"chip": chip,
		"from": from.String(),
		"to":   to.String(),
	})
	if to == types.LinkOk {
		entry.Info("chip link recovered")
	} else {
		entry.Warn("chip link state changed")
	}
}
