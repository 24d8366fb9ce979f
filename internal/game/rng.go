package game

import (
	"math/rand"
	"time"
)

// Rand is the single source of randomness for question building: left/right
// placement and deck shuffling. Tests supply a fixed sequence to assert
// exact layouts.
type Rand interface {
	Float64() float64
}

// DefaultRand returns a time-seeded source for production use.
func DefaultRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
