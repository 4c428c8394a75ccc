// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

import (
	"github.com/pkg/errors"
)

// A Word is the machine's fixed 32-bit unit. All register and memory-word
// values are Words; arithmetic wraps modulo 2^32.
//
type Word uint32

// Signed reinterprets w as a two's-complement integer.
//
func (w Word) Signed() int32 { return int32(w) }

// ErrHalted is returned by Step once the core has retired a halt
// instruction or hit a fatal fault.
//
var ErrHalted = errors.New("core is halted")

// A Core is a runnable CPU model. The two implementations, single-cycle and
// pipelined, share the register file, memory, decoder and ALU components
// and differ only in their stage orchestration.
//
// A Core is not safe for concurrent use; the whole concurrency story is the
// single-threaded cycle loop.
//
type Core interface {
	// Load places a flat byte image (machine code plus initial data) into
	// memory starting at base. Producing the image is the caller's business;
	// the core never interprets object formats.
	Load(image []byte, base Word) error

	// Step advances the simulation by exactly one clock cycle. It returns
	// ErrHalted if the core has already stopped, or the fault that stopped
	// the run if the cycle hit a fatal condition.
	Step() error

	// Run advances the simulation until a halt instruction retires, a fatal
	// fault occurs, or maxCycles complete. A maxCycles of 0 means the limit
	// configured at construction. Hitting the limit is not an error; the
	// final state remains inspectable either way.
	Run(maxCycles uint64) error

	// ReadRegister returns the value of general-purpose register x0..x31.
	ReadRegister(index int) (Word, error)

	// ReadMemory copies n bytes of memory starting at addr.
	ReadMemory(addr Word, n int) ([]byte, error)

	// MemSize returns the memory capacity in bytes.
	MemSize() int

	// PC returns the address of the next instruction to fetch.
	PC() Word

	// Cycles returns the number of completed clock cycles.
	Cycles() uint64

	// Retired returns the number of retired (non-bubble) instructions.
	Retired() uint64

	// Halted reports whether the core has stopped, either by retiring a
	// halt instruction or through a fatal fault.
	Halted() bool

	// LastFault returns the most recent fault recorded against the run, or
	// nil. Warnings are recorded here too; Halted tells them apart.
	LastFault() *Fault
}

// New builds a Core for the given configuration.
//
func New(cfg Config) (Core, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	switch cfg.Model {
	case ModelSingleCycle:
		return newSingleCycle(cfg)
	case ModelPipelined:
		return newPipelined(cfg)
	}
	return nil, errors.Errorf("unknown execution model %d", cfg.Model)
}
