package i2c

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNoAck is the failure a Mock injects, standing in for a device that does
// not acknowledge its address.
var ErrNoAck = errors.New("i2c: no acknowledgment from device")

// MockWrite records one write observed by a Mock.
type MockWrite struct {
	Addr  uint8
	Reg   uint8
	Value uint8
}

// Mock is an in-memory Transport for tests, prefilled with register contents
// and optionally rigged to fail specific registers.
type Mock struct {
	mu        sync.Mutex
	regs      map[uint16][]byte
	writes    []MockWrite
	failCount map[uint16]int
	failReads map[uint16]bool
}

var _ Transport = (*Mock)(nil)

// NewMock returns an empty mock bus. Reads of unknown registers fail.
func NewMock() *Mock {
	return &Mock{
		regs:      map[uint16][]byte{},
		failCount: map[uint16]int{},
		failReads: map[uint16]bool{},
	}
}

// NewMockPrefilled returns a mock bus with the given register contents at one
// device address.
func NewMockPrefilled(addr uint8, regs map[uint8][]byte) *Mock {
	m := NewMock()
	for reg, data := range regs {
		m.Prefill(addr, reg, data)
	}
	return m
}

func key(addr, reg uint8) uint16 {
	return uint16(addr)<<8 | uint16(reg)
}

// Prefill sets the bytes returned by future reads of (addr, reg).
func (m *Mock) Prefill(addr, reg uint8, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs[key(addr, reg)] = append([]byte(nil), data...)
}

// FailTimes makes the next n transactions on (addr, reg) fail with ErrNoAck.
func (m *Mock) FailTimes(addr, reg uint8, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failCount[key(addr, reg)] = n
}

// FailAlways makes every transaction on (addr, reg) fail with ErrNoAck until
// Prefill or FailTimes overrides it.
func (m *Mock) FailAlways(addr, reg uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failReads[key(addr, reg)] = true
}

// Recover clears a FailAlways on (addr, reg).
func (m *Mock) Recover(addr, reg uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failReads, key(addr, reg))
	delete(m.failCount, key(addr, reg))
}

// Writes returns every write observed so far, in order.
func (m *Mock) Writes() []MockWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockWrite(nil), m.writes...)
}

func (m *Mock) failPending(k uint16) bool {
	if m.failReads[k] {
		return true
	}
	if m.failCount[k] > 0 {
		m.failCount[k]--
		return true
	}
	return false
}

func (m *Mock) ReadBlock(addr uint8, reg uint8, length int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(addr, reg)
	if m.failPending(k) {
		return nil, ErrNoAck
	}
	data, ok := m.regs[k]
	if !ok {
		return nil, fmt.Errorf("i2c: mock has no register 0x%02x at 0x%02x", reg, addr)
	}
	if length > len(data) {
		// Short read: hand back what the device has, callers must notice.
		length = len(data)
	}
	return append([]byte(nil), data[:length]...), nil
}

func (m *Mock) WriteByte(addr uint8, reg uint8, value uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(addr, reg)
	if m.failPending(k) {
		return ErrNoAck
	}
	m.writes = append(m.writes, MockWrite{Addr: addr, Reg: reg, Value: value})
	m.regs[k] = []byte{value}
	return nil
}

func (m *Mock) Close() error {
	return nil
}
