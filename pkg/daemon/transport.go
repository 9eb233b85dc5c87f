package daemon

import (
	"github.com/sirupsen/logrus"

	"github.com/hat-tools/upshat/pkg/i2c"
)

// tracingTransport wraps the bus with trace logging. The core itself never
// logs, so this is the one place bus traffic becomes visible.
type tracingTransport struct {
	inner i2c.Transport
}

var _ i2c.Transport = tracingTransport{}

func (t tracingTransport) ReadBlock(addr uint8, reg uint8, length int) ([]byte, error) {
	data, err := t.inner.ReadBlock(addr, reg, length)
	entry := logrus.WithFields(logrus.Fields{
		"addr": addr,
		"reg":  reg,
		"len":  length,
	})
	if err != nil {
		entry.WithError(err).Trace("i2c read failed")
		return nil, err
	}
	entry.WithField("data", data).Trace("i2c read")
	return data, nil
}

func (t tracingTransport) WriteByte(addr uint8, reg uint8, value uint8) error {
	err := t.inner.WriteByte(addr, reg, value)
	entry := logrus.WithFields(logrus.Fields{
		"addr": addr,
		"reg":  reg,
		"val":  value,
	})
	if err != nil {
		entry.WithError(err).Trace("i2c write failed")
		return err
	}
	entry.Trace("i2c write")
	return nil
}

func (t tracingTransport) Close() error {
	return t.inner.Close()
}
