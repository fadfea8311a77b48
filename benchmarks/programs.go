// Package benchmarks provides a small corpus of Universal Machine
// programs used to exercise the interpreter end to end and to
// measure its raw instruction throughput.
package benchmarks

import (
	"github.com/sarchlab/umvm/vm"
	"github.com/sarchlab/umvm/word"
)

// Program is one benchmark: a word stream plus an optional register
// setup hook and the exit code (register 0 at halt) a correct
// interpreter must produce.
type Program struct {
	Name         string
	Description  string
	Words        []uint32
	Setup        func(*vm.Registers)
	ExpectedExit uint32 // the value of register 0 once the program halts
}

func threeReg(op word.Op, a, b, c uint8) uint32 {
	return uint32(op)<<28 | uint32(a)<<6 | uint32(b)<<3 | uint32(c)
}

// GetMicrobenchmarks returns the standard set of microbenchmarks.
// Each targets a specific interpreter hot path. They are unrolled,
// straight-line instruction sequences rather than loops: the
// Universal Machine has no loop opcode of its own (a loop is built
// from load-program jumping back into the same array), so a
// representative microbenchmark for raw dispatch throughput is more
// simply expressed unrolled.
func GetMicrobenchmarks() []Program {
	return []Program{
		arithmeticSequential(),
		dependencyChain(),
		heapChurn(),
		condMoveMix(),
	}
}

func arithmeticSequential() Program {
	var words []uint32
	for i := 0; i < 20; i++ {
		words = append(words, threeReg(word.OpAdd, 0, 0, 1))
	}
	words = append(words, threeReg(word.OpHalt, 0, 0, 0))

	return Program{
		Name:        "arithmetic_sequential",
		Description: "20 sequential adds into r0 (r0 = r0 + r1) - measures dispatch throughput",
		Words:       words,
		Setup: func(r *vm.Registers) {
			r.Write(1, 1)
		},
		ExpectedExit: 20,
	}
}

func dependencyChain() Program {
	var words []uint32
	for i := 0; i < 20; i++ {
		words = append(words, threeReg(word.OpAdd, 0, 0, 1))
	}
	words = append(words, threeReg(word.OpHalt, 0, 0, 0))

	return Program{
		Name:        "dependency_chain",
		Description: "20 dependent adds (r0 = r0 + r1) - measures register read-after-write cost",
		Words:       words,
		Setup: func(r *vm.Registers) {
			r.Write(0, 0)
			r.Write(1, 1)
		},
		ExpectedExit: 20,
	}
}

// heapChurn allocates and abandons arrays repeatedly to exercise the
// free-list reuse path (spec.md §4.4) under load.
func heapChurn() Program {
	var words []uint32
	for i := 0; i < 16; i++ {
		words = append(words,
			threeReg(word.OpAlloc, 0, 2, 3),   // r2 <- alloc(r3)
			threeReg(word.OpAbandon, 0, 0, 2), // free(r2)
		)
	}
	words = append(words, threeReg(word.OpHalt, 0, 0, 0))

	return Program{
		Name:        "heap_churn",
		Description: "16 rounds of allocate+abandon - measures free-list reuse cost",
		Words:       words,
		Setup: func(r *vm.Registers) {
			r.Write(3, 4)
		},
		ExpectedExit: 0,
	}
}

func condMoveMix() Program {
	var words []uint32
	for i := 0; i < 20; i++ {
		words = append(words, threeReg(word.OpCondMove, 0, 1, 2))
	}
	words = append(words, threeReg(word.OpHalt, 0, 0, 0))

	return Program{
		Name:        "cond_move_mix",
		Description: "20 conditional moves, condition always true",
		Words:       words,
		Setup: func(r *vm.Registers) {
			r.Write(1, 7)
			r.Write(2, 1)
		},
		ExpectedExit: 7,
	}
}
