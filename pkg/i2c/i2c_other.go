//go:build !linux

package i2c

import "errors"

var errNoImplementation = errors.New("i2c is only supported on linux")

// Bus is a placeholder on non-Linux platforms; every operation fails.
type Bus struct{}

var _ Transport = (*Bus)(nil)

func Open(path string) (*Bus, error) {
	return nil, errNoImplementation
}

func (b *Bus) Close() error {
	return errNoImplementation
}

func (b *Bus) ReadBlock(addr uint8, reg uint8, length int) ([]byte, error) {
	return nil, errNoImplementation
}

func (b *Bus) WriteByte(addr uint8, reg uint8, value uint8) error {
	return errNoImplementation
}
