package drive

import "math/rand/v2"

// RandSource yields uniform numbers in [0, 1). Tests inject deterministic sources.
type RandSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand uses the process-wide generator.
func DefaultRand() RandSource { return globalRand{} }

// SeededRand returns a reproducible source.
func SeededRand(seed uint64) RandSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
