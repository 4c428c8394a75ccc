// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

import "github.com/pkg/errors"

// ModelKind selects the execution model.
//
type ModelKind uint8

// Execution models.
const (
	// ModelSingleCycle retires one instruction per clock cycle.
	ModelSingleCycle ModelKind = iota
	// ModelPipelined overlaps up to five instructions in a classic
	// IF/ID/EX/MEM/WB pipeline.
	ModelPipelined
)

// FaultPolicy decides what a Decode Fault or a hard Misaligned Access does
// to the run. The policy is fixed per core and applied uniformly, never per
// instruction. Out-of-bounds accesses are always fatal regardless of
// policy.
//
type FaultPolicy uint8

// Fault policies.
const (
	// FaultHalt stops the run at the cycle the fault is recorded.
	FaultHalt FaultPolicy = iota
	// FaultSquash records the fault, turns the offending instruction into
	// a bubble for its remaining stages, and lets the run continue.
	FaultSquash
)

// AlignPolicy decides the severity of a misaligned word/half-word access.
//
type AlignPolicy uint8

// Alignment policies.
const (
	// AlignFault treats misaligned accesses as hard faults, subject to the
	// configured FaultPolicy.
	AlignFault AlignPolicy = iota
	// AlignWarn performs the access byte-wise and records the condition as
	// a warning; execution continues.
	AlignWarn
)

// Default construction parameters, matching the reference machine.
const (
	DefaultMemSize   = 8 * 1024
	DefaultMaxCycles = 1_000_000
)

// Config holds the model construction parameters. The zero value is not
// usable; start from DefaultConfig.
//
type Config struct {
	// MemSize is the memory capacity in bytes. Must be a positive multiple
	// of 4.
	MemSize int
	// ResetPC is the address of the first instruction fetched. Must be
	// word-aligned and within memory.
	ResetPC Word
	// Model selects single-cycle or pipelined execution.
	Model ModelKind
	// MaxCycles bounds Run when the caller passes 0.
	MaxCycles uint64
	// Faults is the uniform fault policy (see FaultPolicy).
	Faults FaultPolicy
	// Align is the misaligned-access severity (see AlignPolicy).
	Align AlignPolicy
	// Trace, if non-nil, is invoked once per completed cycle with a
	// snapshot of the pipeline state. The core never depends on it being
	// set.
	Trace TraceFunc
}

// DefaultConfig returns the reference configuration: 8 KiB of memory, reset
// PC 0, pipelined model, hard alignment faults that halt the run.
//
func DefaultConfig() Config {
	return Config{
		MemSize:   DefaultMemSize,
		Model:     ModelPipelined,
		MaxCycles: DefaultMaxCycles,
	}
}

func (c Config) validate() error {
	if c.MemSize <= 0 {
		return errors.Errorf("config: memory size %d must be positive", c.MemSize)
	}
	if c.MemSize%4 != 0 {
		return errors.Errorf("config: memory size %d must be a multiple of 4", c.MemSize)
	}
	if c.ResetPC%4 != 0 {
		return errors.Errorf("config: reset PC %#x must be word-aligned", uint32(c.ResetPC))
	}
	if int64(c.ResetPC) >= int64(c.MemSize) {
		return errors.Errorf("config: reset PC %#x outside memory of %d bytes", uint32(c.ResetPC), c.MemSize)
	}
	if c.MaxCycles == 0 {
		return errors.New("config: max cycle count must be positive")
	}
	return nil
}
