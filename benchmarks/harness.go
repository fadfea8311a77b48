package benchmarks

import (
	"time"

	"github.com/sarchlab/umvm/vm"
)

// Result holds the outcome of running one Program to completion.
type Result struct {
	Name                string
	Description         string
	InstructionsExecuted uint64
	Elapsed             time.Duration
	Passed              bool
}

// InstructionsPerSecond is the program's raw dispatch throughput.
func (r Result) InstructionsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.InstructionsExecuted) / r.Elapsed.Seconds()
}

// Run executes p to completion (or to a fatal error) and reports its
// throughput and whether it produced the expected exit value.
func Run(p Program) Result {
	m := vm.NewMachine(p.Words)
	if p.Setup != nil {
		p.Setup(m.Registers())
	}

	start := time.Now()
	_, err := m.Run()
	elapsed := time.Since(start)

	return Result{
		Name:                 p.Name,
		Description:          p.Description,
		InstructionsExecuted: m.InstructionCount(),
		Elapsed:              elapsed,
		Passed:               err == nil && m.Registers().Read(0) == p.ExpectedExit,
	}
}

// RunAll runs every program in progs and returns their results in
// order.
func RunAll(progs []Program) []Result {
	results := make([]Result, len(progs))
	for i, p := range progs {
		results[i] = Run(p)
	}
	return results
}
