package rv32sim_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	sim "github.com/rv32sim/rv32sim"
	"github.com/rv32sim/rv32sim/rvasm"
)

// runScenario executes image on both models and verifies that their final
// architectural states agree before returning them for further checks.
func runScenario(image []byte) (single, pipe sim.Core) {
	for _, model := range []sim.ModelKind{sim.ModelSingleCycle, sim.ModelPipelined} {
		cfg := sim.DefaultConfig()
		cfg.Model = model
		core, err := sim.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(core.Load(image, 0)).To(Succeed())
		Expect(core.Run(0)).To(Succeed())
		Expect(core.Halted()).To(BeTrue(), "program must halt within the cycle budget")
		if model == sim.ModelSingleCycle {
			single = core
		} else {
			pipe = core
		}
	}
	for i := 0; i < sim.NumRegs; i++ {
		s, _ := single.ReadRegister(i)
		p, _ := pipe.ReadRegister(i)
		Expect(p).To(Equal(s), "register x%d", i)
	}
	sm, _ := single.ReadMemory(0, sim.DefaultMemSize)
	pm, _ := pipe.ReadMemory(0, sim.DefaultMemSize)
	Expect(pm).To(Equal(sm), "memory images")
	Expect(pipe.Retired()).To(Equal(single.Retired()), "retired counts")
	return single, pipe
}

func reg(core sim.Core, i int) sim.Word {
	v, err := core.ReadRegister(i)
	Expect(err).NotTo(HaveOccurred())
	return v
}

func memWord(core sim.Core, addr sim.Word) uint32 {
	b, err := core.ReadMemory(addr, 4)
	Expect(err).NotTo(HaveOccurred())
	return binary.LittleEndian.Uint32(b)
}

// sumProgram adds the integers 1..n into a0 and stores the result at
// address 256.
func sumProgram(n int32) []byte {
	return rvasm.Program(
		rvasm.Addi(rvasm.A0, rvasm.X0, 0),
		rvasm.Addi(rvasm.T0, rvasm.X0, 1),
		rvasm.Addi(rvasm.T1, rvasm.X0, n),
		rvasm.Add(rvasm.A0, rvasm.A0, rvasm.T0), // loop
		rvasm.Addi(rvasm.T0, rvasm.T0, 1),
		rvasm.Bge(rvasm.T1, rvasm.T0, -8),
		rvasm.Sw(rvasm.A0, rvasm.X0, 256),
		rvasm.Ecall(),
	)
}

// factorialProgram computes n! into a0. RV32I has no multiply, so each
// acc*i step is an inner loop of repeated addition.
func factorialProgram(n int32) []byte {
	return rvasm.Program(
		rvasm.Addi(rvasm.A0, rvasm.X0, 1), //  0: acc := 1
		rvasm.Addi(rvasm.T0, rvasm.X0, 2), //  4: i := 2
		rvasm.Addi(rvasm.A1, rvasm.X0, n), //  8:
		rvasm.Blt(rvasm.A1, rvasm.T0, 36), // 12: while i <= n
		rvasm.Addi(rvasm.T1, rvasm.X0, 0), // 16: tmp := 0
		rvasm.Addi(rvasm.T2, rvasm.X0, 0), // 20: j := 0
		rvasm.Add(rvasm.T1, rvasm.T1, rvasm.A0), // 24: tmp += acc
		rvasm.Addi(rvasm.T2, rvasm.T2, 1),       // 28: until j == i
		rvasm.Blt(rvasm.T2, rvasm.T0, -8),       // 32:
		rvasm.Add(rvasm.A0, rvasm.T1, rvasm.X0), // 36: acc := tmp
		rvasm.Addi(rvasm.T0, rvasm.T0, 1),       // 40: i++
		rvasm.Jal(rvasm.X0, -32),                // 44: back to 12
		rvasm.Ecall(),                           // 48:
	)
}

// sortImage builds a compare-and-swap bubble sort over the n words stored
// at dataBase, followed by the initial array contents.
func sortImage(values []int32, dataBase int32) []byte {
	var ws []uint32
	n := len(values)
	for pass := 0; pass < n-1; pass++ {
		for j := 0; j < n-1-pass; j++ {
			lo := dataBase + 4*int32(j)
			ws = append(ws,
				rvasm.Lw(rvasm.T0, rvasm.X0, lo),
				rvasm.Lw(rvasm.T1, rvasm.X0, lo+4),
				rvasm.Bge(rvasm.T1, rvasm.T0, 12), // already ordered
				rvasm.Sw(rvasm.T1, rvasm.X0, lo),
				rvasm.Sw(rvasm.T0, rvasm.X0, lo+4),
			)
		}
	}
	ws = append(ws, rvasm.Ecall())

	prog := rvasm.Program(ws...)
	image := make([]byte, int(dataBase)+4*n)
	copy(image, prog)
	for i, v := range values {
		binary.LittleEndian.PutUint32(image[int(dataBase)+4*i:], uint32(v))
	}
	return image
}

var _ = Describe("reference programs", func() {
	It("sums the integers 1..10", func() {
		single, pipe := runScenario(sumProgram(10))
		Expect(reg(single, 10)).To(Equal(sim.Word(55)))
		Expect(memWord(pipe, 256)).To(Equal(uint32(55)))
	})

	It("computes 7! by repeated addition", func() {
		single, _ := runScenario(factorialProgram(7))
		Expect(reg(single, 10)).To(Equal(sim.Word(5040)))
	})

	It("computes 10! by repeated addition", func() {
		_, pipe := runScenario(factorialProgram(10))
		Expect(reg(pipe, 10)).To(Equal(sim.Word(3628800)))
	})

	It("bubble-sorts nine words in memory", func() {
		values := []int32{9, 3, 7, 1, 8, 2, 6, 4, 5}
		const base = 1024 // past the program, within the 12-bit offset reach
		_, pipe := runScenario(sortImage(values, base))

		var sum uint32
		prev := uint32(0)
		for i := 0; i < len(values); i++ {
			v := memWord(pipe, sim.Word(base+4*i))
			Expect(v).To(BeNumerically(">=", prev), "element %d out of order", i)
			prev = v
			sum += v
		}
		Expect(sum).To(Equal(uint32(45)))
	})

	It("is cycle-reproducible across runs", func() {
		_, a := runScenario(factorialProgram(7))
		_, b := runScenario(factorialProgram(7))
		Expect(a.Cycles()).To(Equal(b.Cycles()))
	})
})
