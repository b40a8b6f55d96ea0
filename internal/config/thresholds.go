package config

import "runtime"

// Block size resolution chain (highest priority first):
//   1. CLI flag (-block-size)
//   2. Environment variable (SYMCALC_BLOCK_SIZE)
//   3. Cached calibration profile (~/.symcalc_calibration.json)
//   4. Adaptive hardware estimation (this file)

// ApplyAdaptiveTuning fills the block size from a hardware estimate when it
// was left at its zero default. User-specified values are preserved.
func ApplyAdaptiveTuning(cfg AppConfig) AppConfig {
	if cfg.BlockSize == 0 {
		cfg.BlockSize = EstimateOptimalBlockSize()
	}
	return cfg
}

// EstimateOptimalBlockSize provides a heuristic estimate of the best
// multiplication block size without running benchmarks.
//
// More workers share the same product space, so smaller blocks balance
// better; with few cores larger blocks amortize the per-block bookkeeping.
func EstimateOptimalBlockSize() uint {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 2:
		return 1024
	case numCPU <= 4:
		return 512
	case numCPU <= 16:
		return 256
	default:
		return 128
	}
}
