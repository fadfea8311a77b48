// Command um runs a Universal Machine program image.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/umvm/image"
	"github.com/sarchlab/umvm/vm"
)

var (
	decodeCache = flag.Bool("decode-cache", false, "enable the optional decoded-instruction cache")
	maxInstr    = flag.Uint64("max-instructions", 0, "stop after this many instructions (0 = no limit)")
)

func main() {
	flag.Parse()

	r, err := openSource()
	if err != nil {
		fmt.Fprintf(os.Stderr, "um: %v\n", err)
		os.Exit(1)
	}
	defer r.Close()

	words, err := image.Load(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "um: %v\n", err)
		os.Exit(1)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	opts := []vm.Option{
		vm.WithIO(vm.NewStreamIO(os.Stdin, out)),
	}
	if *decodeCache {
		opts = append(opts, vm.WithDecodeCache())
	}
	if *maxInstr > 0 {
		opts = append(opts, vm.WithMaxInstructions(*maxInstr))
	}

	m := vm.NewMachine(words, opts...)

	code, err := m.Run()
	out.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "um: %v\n", err)
	}
	os.Exit(code)
}

// openSource returns the program image source: the file named by the
// single positional argument, or standard input if none was given.
func openSource() (*os.File, error) {
	if flag.NArg() < 1 {
		return os.Stdin, nil
	}
	f, err := os.Open(flag.Arg(0))
	if err != nil {
		return nil, fmt.Errorf("opening program image: %w", err)
	}
	return f, nil
}
