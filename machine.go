// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

import "github.com/pkg/errors"

// machine is the architectural state shared by both execution models:
// register file, memory, CSR file, PC and the counters. The engines own it
// exclusively for the run's lifetime; nothing here is safe for concurrent
// mutation.
type machine struct {
	cfg  Config
	regs RegFile
	mem  *Memory
	csrs *CSRFile

	pc      Word
	cycles  uint64
	retired uint64
	halted  bool
	fault   *Fault
}

func newMachine(cfg Config) (machine, error) {
	mem, err := NewMemory(cfg.MemSize, cfg.Align)
	if err != nil {
		return machine{}, errors.Wrap(err, "build memory")
	}
	return machine{
		cfg:  cfg,
		mem:  mem,
		csrs: NewCSRFile(),
		pc:   cfg.ResetPC,
	}, nil
}

// Load implements Core.
func (m *machine) Load(image []byte, base Word) error {
	return m.mem.Load(image, base)
}

// ReadRegister implements Core.
func (m *machine) ReadRegister(index int) (Word, error) {
	if index < 0 || index >= NumRegs {
		return 0, errors.Errorf("register index %d out of range", index)
	}
	return m.regs.Read(uint8(index)), nil
}

// ReadMemory implements Core.
func (m *machine) ReadMemory(addr Word, n int) ([]byte, error) {
	return m.mem.Bytes(addr, n)
}

// MemSize implements Core.
func (m *machine) MemSize() int { return m.mem.Size() }

// PC implements Core.
func (m *machine) PC() Word { return m.pc }

// Cycles implements Core.
func (m *machine) Cycles() uint64 { return m.cycles }

// Retired implements Core.
func (m *machine) Retired() uint64 { return m.retired }

// Halted implements Core.
func (m *machine) Halted() bool { return m.halted }

// LastFault implements Core.
func (m *machine) LastFault() *Fault { return m.fault }

// record stamps a fault with the current cycle and remembers it as the
// run's last fault.
func (m *machine) record(f *Fault) *Fault {
	f.Cycle = m.cycles
	m.fault = f
	return f
}

// warn records a warning-severity fault without affecting execution.
func (m *machine) warn(f *Fault) { m.record(f) }

// fatal reports whether f must stop the run under the configured policy.
// Out-of-bounds accesses are always fatal; warnings never are.
func (m *machine) fatal(f *Fault) bool {
	if f.Warning {
		return false
	}
	return f.Kind == FaultOutOfBounds || m.cfg.Faults == FaultHalt
}

// freshFault returns the last fault only if it was recorded during the
// cycle that just committed.
func (m *machine) freshFault() *Fault {
	if m.fault != nil && m.fault.Cycle+1 == m.cycles {
		return m.fault
	}
	return nil
}

// loadValue reads a sub-word or word value and extends it to a full Word
// per the instruction's width and signedness.
func (m *machine) loadValue(in Instr, addr Word) (Word, *Fault) {
	switch in.MemWidth {
	case 1:
		b, fault := m.mem.ReadByte(addr)
		if fault != nil && !fault.Warning {
			return 0, fault
		}
		if in.Unsigned {
			return Word(b), fault
		}
		return Word(int32(int8(b))), fault
	case 2:
		h, fault := m.mem.ReadHalf(addr)
		if fault != nil && !fault.Warning {
			return 0, fault
		}
		if in.Unsigned {
			return Word(h), fault
		}
		return Word(int32(int16(h))), fault
	default:
		return m.mem.ReadWord(addr)
	}
}

// run drives step until halt, fatal fault or the cycle budget runs out.
func (m *machine) run(maxCycles uint64, step func() error) error {
	if maxCycles == 0 {
		maxCycles = m.cfg.MaxCycles
	}
	limit := m.cycles + maxCycles
	for !m.halted && m.cycles < limit {
		if err := step(); err != nil {
			if errors.Is(err, ErrHalted) {
				return nil
			}
			return err
		}
	}
	return nil
}
