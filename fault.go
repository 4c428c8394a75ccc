// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

import "fmt"

// FaultKind classifies architectural fault conditions. Configuration errors
// are not faults; they are plain errors returned before a run starts.
//
type FaultKind uint8

// Fault kinds.
const (
	// FaultDecode marks an illegal or unsupported instruction encoding.
	FaultDecode FaultKind = iota + 1
	// FaultMisaligned marks a word or half-word access to an address not
	// meeting its alignment requirement. Depending on AlignPolicy it is
	// either a warning or a hard fault.
	FaultMisaligned
	// FaultOutOfBounds marks an access beyond memory capacity. Always fatal.
	FaultOutOfBounds
)

func (k FaultKind) String() string {
	switch k {
	case FaultDecode:
		return "decode fault"
	case FaultMisaligned:
		return "misaligned access"
	case FaultOutOfBounds:
		return "out-of-bounds access"
	}
	return "unknown fault"
}

// A Fault records an architectural fault condition against the instruction
// that caused it. PC is the program-counter value of that instruction, Addr
// the offending byte address for memory faults, Cycle the clock cycle at
// which the engine recorded it.
//
type Fault struct {
	Kind    FaultKind
	PC      Word
	Addr    Word
	Cycle   uint64
	Warning bool
}

func (f *Fault) Error() string {
	sev := ""
	if f.Warning {
		sev = " (warning)"
	}
	switch f.Kind {
	case FaultDecode:
		return fmt.Sprintf("%v%s at pc=0x%08x", f.Kind, sev, uint32(f.PC))
	default:
		return fmt.Sprintf("%v%s at pc=0x%08x addr=0x%08x", f.Kind, sev, uint32(f.PC), uint32(f.Addr))
	}
}
