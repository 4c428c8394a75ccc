// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package rv32sim provides an instruction-level, cycle-accurate simulator for
the RV32I base instruction set.

Two execution models are available behind a single Run API: a single-cycle
model in which one instruction fully retires per clock, and a five-stage
pipelined model (fetch, decode, execute, memory, write-back) with hazard
detection, data forwarding and branch flushing. For any well-formed program
both models produce the same final architectural state; they differ only in
cycle counts.

Each simulated clock cycle runs in two strict phases: an evaluate phase in
which every stage computes its outputs from the pre-cycle latch contents,
and a commit phase in which all register, memory, latch and PC mutations
are applied atomically. This discipline makes every run bit-for-bit
reproducible.
*/
package rv32sim
