// Package tuning holds the knobs of the series engine. A Config is passed
// explicitly to the operations that honour it; there is no global state.
package tuning

import (
	"fmt"
	"runtime"

	apperrors "github.com/agbru/symcalc/internal/errors"
)

const (
	// DefaultMultiplicationBlockSize is the number of terms of each operand
	// a worker handles per block during series multiplication.
	DefaultMultiplicationBlockSize uint = 256
	// MinMultiplicationBlockSize and MaxMultiplicationBlockSize bound the
	// accepted block sizes.
	MinMultiplicationBlockSize uint = 16
	MaxMultiplicationBlockSize uint = 4096
)

// Config tunes series arithmetic.
type Config struct {
	// ParallelMemorySet sweeps and clears large term tables with several
	// goroutines.
	ParallelMemorySet bool
	// MultiplicationBlockSize is the block edge of the multiplication
	// loops, in terms.
	MultiplicationBlockSize uint
	// Workers caps the goroutines used by multiplication. Zero or less
	// means GOMAXPROCS.
	Workers int
}

// Default returns the default tuning.
func Default() Config {
	return Config{
		ParallelMemorySet:       true,
		MultiplicationBlockSize: DefaultMultiplicationBlockSize,
		Workers:                 runtime.GOMAXPROCS(0),
	}
}

// SetMultiplicationBlockSize changes the block size, rejecting values
// outside [MinMultiplicationBlockSize, MaxMultiplicationBlockSize] with a
// domain error.
func (c *Config) SetMultiplicationBlockSize(n uint) error {
	if err := validateBlockSize(n); err != nil {
		return err
	}
	c.MultiplicationBlockSize = n
	return nil
}

// Validate checks every field.
func (c Config) Validate() error {
	return validateBlockSize(c.MultiplicationBlockSize)
}

// EffectiveWorkers resolves Workers against GOMAXPROCS.
func (c Config) EffectiveWorkers() int {
	if c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

func (c Config) String() string {
	return fmt.Sprintf("block=%d workers=%d parallel-memory=%t", c.MultiplicationBlockSize, c.EffectiveWorkers(), c.ParallelMemorySet)
}

func validateBlockSize(n uint) error {
	if n < MinMultiplicationBlockSize || n > MaxMultiplicationBlockSize {
		return apperrors.Domainf("multiplication block size %d outside [%d, %d]", n, MinMultiplicationBlockSize, MaxMultiplicationBlockSize)
	}
	return nil
}
