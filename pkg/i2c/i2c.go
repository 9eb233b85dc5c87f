// Package i2c provides the byte-level bus transport the UPS core consumes:
// addressed register reads and writes against a 7-bit I2C peripheral, using
// the register-pointer convention (write the register address, then read or
// write data). On Linux it drives the kernel i2c-dev interface directly.
package i2c

// DefaultDevicePath is the i2c-dev node the UPS HAT sits on for a stock
// Raspberry Pi.
const DefaultDevicePath = "/dev/i2c-1"

// Transport is the bus capability consumed by pkg/ups. Implementations must
// fail with an error rather than returning partial data; retry policy belongs
// to the caller.
type Transport interface {
	// ReadBlock reads length bytes from register reg of the device at the
	// 7-bit address addr.
	ReadBlock(addr uint8, reg uint8, length int) ([]byte, error)
	// WriteByte writes a single byte to register reg of the device at addr.
	WriteByte(addr uint8, reg uint8, value uint8) error
	// Close releases the underlying device handle.
	Close() error
}
