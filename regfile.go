// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

// NumRegs is the number of general-purpose registers.
const NumRegs = 32

// A RegFile holds the 32 general-purpose registers x0..x31. Register x0 is
// hardwired to zero: it always reads as zero and writes to it are
// discarded. Indices are guaranteed in range by the decoder (5-bit fields).
//
type RegFile struct {
	r [NumRegs]Word
}

// Read returns the value of register i.
//
func (rf *RegFile) Read(i uint8) Word {
	return rf.r[i]
}

// Write sets register i to v. Writing x0 is a no-op.
//
func (rf *RegFile) Write(i uint8, v Word) {
	if i != 0 {
		rf.r[i] = v
	}
}
