// Package image loads a Universal Machine program image: a raw byte
// stream, packed big-endian into 32-bit words, that becomes the
// initial contents of array 0 (spec.md §6). This is deliberately kept
// outside the core (vm package) — spec.md lists the program loader as
// an external collaborator, not part of the interpreter proper.
package image

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Load reads r to completion and packs it into a slice of 32-bit
// words, most-significant byte first within each 4-byte group. A
// byte count that is not a multiple of 4 is a malformed image.
func Load(r io.Reader) ([]uint32, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading program image: %w", err)
	}
	return Parse(data)
}

// Parse packs a byte slice into 32-bit words, as Load does, without
// requiring an io.Reader.
func Parse(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("malformed image: length %d is not a multiple of 4", len(data))
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(data[i*4 : i*4+4])
	}
	return words, nil
}
