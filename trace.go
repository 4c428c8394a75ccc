// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

import (
	"github.com/go-logr/logr"
)

// Pipeline stage names, in program order.
const (
	StageIF  = "IF"
	StageID  = "ID"
	StageEX  = "EX"
	StageMEM = "MEM"
	StageWB  = "WB"
)

// A StageState is the snapshot of one pipeline stage at the end of a cycle.
// An invalid entry is a bubble.
//
type StageState struct {
	Name  string
	Valid bool
	PC    Word
	Raw   uint32
	Asm   string
}

// A CycleState is the per-cycle snapshot passed to the trace hook. For the
// single-cycle model Stages holds a single entry for the instruction that
// retired. The snapshot is owned by the callee; the engine never reads it
// back.
//
type CycleState struct {
	Cycle  uint64
	PC     Word
	Stages []StageState
	Fault  *Fault // fault recorded this cycle, if any
}

// A TraceFunc receives a snapshot after every completed cycle. It must not
// call back into the core.
//
type TraceFunc func(*CycleState)

// LogTracer adapts a logr.Logger into a TraceFunc, logging one line per
// cycle at V(1) with the in-flight instruction of every stage.
//
func LogTracer(log logr.Logger) TraceFunc {
	return func(s *CycleState) {
		kv := make([]any, 0, 2*len(s.Stages)+4)
		kv = append(kv, "pc", uint32(s.PC))
		for _, st := range s.Stages {
			asm := "-"
			if st.Valid {
				asm = st.Asm
			}
			kv = append(kv, st.Name, asm)
		}
		if s.Fault != nil {
			kv = append(kv, "fault", s.Fault.Error())
		}
		log.V(1).Info("cycle", append([]any{"n", s.Cycle}, kv...)...)
	}
}
