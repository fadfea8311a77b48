// Command umvm is a stub entry point for the Universal Machine
// interpreter.
//
// For the full CLI, use: go run ./cmd/um
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("umvm - Universal Machine interpreter")
	fmt.Println("")
	fmt.Println("Usage: um [options] <program.um>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -decode-cache       Enable the optional decoded-instruction cache")
	fmt.Println("  -max-instructions   Stop after this many instructions (0 = no limit)")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/um' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: you provided arguments. Use 'go run ./cmd/um' instead.")
	}
}
