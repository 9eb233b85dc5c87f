//go:build linux

package i2c

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

// Bus is a Transport backed by a Linux i2c-dev character device. Reads use a
// combined write-pointer/read I2C_RDWR transaction so the register pointer and
// the data phase share one bus arbitration.
type Bus struct {
	f *os.File
}

var _ Transport = (*Bus)(nil)

// Open opens the i2c-dev node at path, e.g. /dev/i2c-1.
func Open(path string) (*Bus, error) {
	f, err := os.OpenFile(path, syscall.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening i2c device %s: %w", path, err)
	}
	return &Bus{f: f}, nil
}

func (b *Bus) Close() error {
	return b.f.Close()
}

func (b *Bus) ReadBlock(addr uint8, reg uint8, length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("i2c: invalid read length %d", length)
	}
	buf := make([]byte, length)
	msgs := []i2cMsg{
		{
			addr: uint16(addr),
			len:  1,
			buf:  uintptr(unsafe.Pointer(&reg)),
		},
		{
			addr:  uint16(addr),
			flags: i2cMRead,
			len:   uint16(length),
			buf:   uintptr(unsafe.Pointer(&buf[0])),
		},
	}
	if err := b.transfer(msgs); err != nil {
		return nil, fmt.Errorf("i2c: read reg 0x%02x at 0x%02x: %w", reg, addr, err)
	}
	return buf, nil
}

func (b *Bus) WriteByte(addr uint8, reg uint8, value uint8) error {
	buf := []byte{reg, value}
	msgs := []i2cMsg{
		{
			addr: uint16(addr),
			len:  uint16(len(buf)),
			buf:  uintptr(unsafe.Pointer(&buf[0])),
		},
	}
	if err := b.transfer(msgs); err != nil {
		return fmt.Errorf("i2c: write reg 0x%02x at 0x%02x: %w", reg, addr, err)
	}
	return nil
}

const (
	i2cRdwr  = 0x0707
	i2cMRead = 0x0001
)

type i2cMsg struct {
	addr    uint16
	flags   uint16
	len     uint16
	padding uint16
	buf     uintptr
}

type i2cRdwrIoctlData struct {
	msgs  uintptr
	nmsgs uint32
}

func (b *Bus) transfer(msgs []i2cMsg) error {
	data := i2cRdwrIoctlData{
		msgs:  uintptr(unsafe.Pointer(&msgs[0])),
		nmsgs: uint32(len(msgs)),
	}
	_, _, errno := syscall.Syscall(
		syscall.SYS_IOCTL,
		b.f.Fd(),
		uintptr(i2cRdwr),
		uintptr(unsafe.Pointer(&data)),
	)
	if errno != 0 {
		return errno
	}
	return nil
}
