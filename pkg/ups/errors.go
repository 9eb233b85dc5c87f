package ups

import "fmt"

// TransportError reports a bus transaction that still failed after every
// allowed attempt. It is distinct from DecodeAnomaly: the chip could not be
// talked to at all.
type TransportError struct {
	Chip     Chip
	Reg      uint8
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ups: %s register 0x%02x unreachable after %d attempt(s): %v",
		e.Chip, e.Reg, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeAnomaly reports a successfully-read register whose value falls outside
// the physically valid range for its field. The chip answered, but what it
// said is implausible; callers can tell this apart from a transport failure.
type DecodeAnomaly struct {
	Field string
	Unit  string
	Value int64
	Min   int64
	Max   int64
}

func (e *DecodeAnomaly) Error() string {
	if e.Unit == "" {
		return fmt.Sprintf("ups: %s value %d outside valid range [%d, %d]",
			e.Field, e.Value, e.Min, e.Max)
	}
	return fmt.Sprintf("ups: %s value %d %s outside valid range [%d, %d]",
		e.Field, e.Value, e.Unit, e.Min, e.Max)
}
