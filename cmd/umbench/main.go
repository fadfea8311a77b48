// Command umbench runs the Universal Machine microbenchmark corpus
// and reports each program's dispatch throughput.
//
// Usage:
//
//	go run ./cmd/umbench [-csv]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/umvm/benchmarks"
)

func main() {
	csvOutput := flag.Bool("csv", false, "output results as CSV")
	flag.Parse()

	results := benchmarks.RunAll(benchmarks.GetMicrobenchmarks())

	if *csvOutput {
		printCSV(results)
		return
	}
	printResults(results)
}

func printResults(results []benchmarks.Result) {
	fmt.Println("um Microbenchmark Harness")
	fmt.Println("=========================")
	fmt.Println("")

	failed := 0
	for _, r := range results {
		status := "ok"
		if !r.Passed {
			status = "FAILED"
			failed++
		}
		fmt.Printf("%-24s %-8s %10d instrs  %12.0f instr/s  %s\n",
			r.Name, status, r.InstructionsExecuted, r.InstructionsPerSecond(), r.Description)
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n%d benchmark(s) did not produce the expected result\n", failed)
		os.Exit(1)
	}
}

func printCSV(results []benchmarks.Result) {
	fmt.Println("name,passed,instructions,elapsed_ns,instructions_per_second")
	for _, r := range results {
		fmt.Printf("%s,%v,%d,%d,%.0f\n",
			r.Name, r.Passed, r.InstructionsExecuted, r.Elapsed.Nanoseconds(), r.InstructionsPerSecond())
	}
}
