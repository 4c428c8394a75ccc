// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

// Command rv32sim runs a flat RV32I binary image on the single-cycle or
// pipelined CPU model and prints the final architectural state. With no
// image argument it runs a small built-in demo program.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-logr/logr/funcr"

	"github.com/rv32sim/rv32sim"
	"github.com/rv32sim/rv32sim/rvasm"
)

func main() {
	model := flag.String("model", "pipelined", "execution model: single or pipelined")
	memSize := flag.Int("mem", rv32sim.DefaultMemSize, "memory size in bytes")
	maxCycles := flag.Uint64("max-cycles", rv32sim.DefaultMaxCycles, "cycle budget")
	base := flag.Uint("base", 0, "load address of the image")
	trace := flag.Bool("trace", false, "log per-cycle pipeline occupancy")
	flag.Parse()

	cfg := rv32sim.DefaultConfig()
	cfg.MemSize = *memSize
	cfg.MaxCycles = *maxCycles
	switch *model {
	case "single":
		cfg.Model = rv32sim.ModelSingleCycle
	case "pipelined":
		cfg.Model = rv32sim.ModelPipelined
	default:
		log.Fatalf("unknown model %q", *model)
	}
	if *trace {
		logger := funcr.New(func(prefix, args string) {
			fmt.Fprintln(os.Stderr, args)
		}, funcr.Options{Verbosity: 1})
		cfg.Trace = rv32sim.LogTracer(logger)
	}

	image := demoProgram()
	if flag.NArg() > 0 {
		var err error
		image, err = os.ReadFile(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
	}

	core, err := rv32sim.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := core.Load(image, rv32sim.Word(*base)); err != nil {
		log.Fatal(err)
	}
	if err := core.Run(0); err != nil {
		log.Fatal(err)
	}
	report(core)
}

// demoProgram sums the integers 1..10 into a0 and halts.
func demoProgram() []byte {
	return rvasm.Program(
		rvasm.Addi(rvasm.A0, rvasm.Zero, 0), // acc
		rvasm.Addi(rvasm.T0, rvasm.Zero, 1), // i
		rvasm.Addi(rvasm.T1, rvasm.Zero, 10),
		rvasm.Add(rvasm.A0, rvasm.A0, rvasm.T0), // loop
		rvasm.Addi(rvasm.T0, rvasm.T0, 1),
		rvasm.Bge(rvasm.T1, rvasm.T0, -8),
		rvasm.Ecall(),
	)
}

func report(core rv32sim.Core) {
	fmt.Printf("halted=%v cycles=%d retired=%d pc=0x%08x\n",
		core.Halted(), core.Cycles(), core.Retired(), uint32(core.PC()))
	if f := core.LastFault(); f != nil {
		fmt.Printf("fault: %v\n", f)
	}
	for i := 0; i < rv32sim.NumRegs; i++ {
		v, _ := core.ReadRegister(i)
		fmt.Printf("%-5s 0x%08x", rv32sim.RegName(uint8(i)), uint32(v))
		if i%4 == 3 {
			fmt.Println()
		} else {
			fmt.Print("  ")
		}
	}
}
