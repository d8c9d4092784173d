// Package random provides seed generation and seeded sources for matches.
//
// Seeds come from crypto/rand; everything downstream of a seed is
// deterministic so a match can be replayed from its recorded seed.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ResolveSeed returns the requested seed, or a fresh one when none is given.
func ResolveSeed(requested *int64) (int64, error) {
	if requested != nil {
		return *requested, nil
	}
	return NewSeed()
}

// New returns a deterministic generator for the given seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}
