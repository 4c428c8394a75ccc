// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Memory is the unified byte-addressable store shared by instructions and
// data. Multi-byte values are little-endian. Word accesses require 4-byte
// alignment and half-word accesses 2-byte alignment; what a violation does
// depends on the AlignPolicy the memory was built with. Accesses beyond
// capacity are always out-of-bounds faults.
//
// Memory reads are side-effect free; the engines rely on this during the
// evaluate phase.
//
type Memory struct {
	data  []byte
	align AlignPolicy
}

// NewMemory returns a zeroed memory of the given byte capacity.
//
func NewMemory(size int, align AlignPolicy) (*Memory, error) {
	if size <= 0 || size%4 != 0 {
		return nil, errors.Errorf("memory size %d must be a positive multiple of 4", size)
	}
	return &Memory{data: make([]byte, size), align: align}, nil
}

// Size returns the capacity in bytes.
//
func (m *Memory) Size() int { return len(m.data) }

// Load copies image into memory starting at base.
//
func (m *Memory) Load(image []byte, base Word) error {
	if int64(base)+int64(len(image)) > int64(len(m.data)) {
		return errors.Errorf("image of %d bytes at base %#x exceeds memory of %d bytes",
			len(image), uint32(base), len(m.data))
	}
	copy(m.data[base:], image)
	return nil
}

// Bytes copies n bytes starting at addr.
//
func (m *Memory) Bytes(addr Word, n int) ([]byte, error) {
	if n < 0 || int64(addr)+int64(n) > int64(len(m.data)) {
		return nil, errors.Errorf("read of %d bytes at %#x exceeds memory of %d bytes",
			n, uint32(addr), len(m.data))
	}
	out := make([]byte, n)
	copy(out, m.data[addr:])
	return out, nil
}

// check validates an access of the given size. It returns a nil fault for a
// legal access, a warning fault for a tolerated misalignment, and a hard
// fault otherwise. The engines treat any non-warning fault as ending the
// offending instruction.
func (m *Memory) check(addr Word, size Word) *Fault {
	if int64(addr)+int64(size) > int64(len(m.data)) {
		return &Fault{Kind: FaultOutOfBounds, Addr: addr}
	}
	if addr%size != 0 {
		return &Fault{Kind: FaultMisaligned, Addr: addr, Warning: m.align == AlignWarn}
	}
	return nil
}

// ReadWord reads the 32-bit value at addr. On a misalignment tolerated by
// the policy, the returned value is the byte-wise read and the fault is a
// warning.
//
func (m *Memory) ReadWord(addr Word) (Word, *Fault) {
	f := m.check(addr, 4)
	if f != nil && !f.Warning {
		return 0, f
	}
	return Word(binary.LittleEndian.Uint32(m.data[addr:])), f
}

// ReadHalf reads the 16-bit value at addr.
//
func (m *Memory) ReadHalf(addr Word) (uint16, *Fault) {
	f := m.check(addr, 2)
	if f != nil && !f.Warning {
		return 0, f
	}
	return binary.LittleEndian.Uint16(m.data[addr:]), f
}

// ReadByte reads the byte at addr. Byte accesses have no alignment
// constraint.
//
func (m *Memory) ReadByte(addr Word) (byte, *Fault) {
	if f := m.check(addr, 1); f != nil {
		return 0, f
	}
	return m.data[addr], nil
}

// WriteWord stores the 32-bit value v at addr.
//
func (m *Memory) WriteWord(addr Word, v Word) *Fault {
	f := m.check(addr, 4)
	if f != nil && !f.Warning {
		return f
	}
	binary.LittleEndian.PutUint32(m.data[addr:], uint32(v))
	return f
}

// WriteHalf stores the low 16 bits of v at addr.
//
func (m *Memory) WriteHalf(addr Word, v Word) *Fault {
	f := m.check(addr, 2)
	if f != nil && !f.Warning {
		return f
	}
	binary.LittleEndian.PutUint16(m.data[addr:], uint16(v))
	return f
}

// WriteByte stores the low 8 bits of v at addr.
//
func (m *Memory) WriteByte(addr Word, v Word) *Fault {
	if f := m.check(addr, 1); f != nil {
		return f
	}
	m.data[addr] = byte(v)
	return nil
}
