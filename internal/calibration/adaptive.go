// This file implements adaptive block size generation based on hardware characteristics.

package calibration

import (
	"runtime"

	"github.com/agbru/symcalc/internal/config"
)

// GenerateBlockSizes generates the multiplication block sizes to benchmark
// based on the number of available CPU cores.
//
// With many cores the work split matters more than per-block overhead, so
// the candidate list extends toward smaller blocks; with few cores it
// extends toward larger ones.
func GenerateBlockSizes() []uint {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 2:
		return []uint{128, 256, 512, 1024, 2048, 4096}
	case numCPU <= 8:
		return []uint{64, 128, 256, 512, 1024, 2048}
	default:
		return []uint{16, 32, 64, 128, 256, 512, 1024}
	}
}

// GenerateQuickBlockSizes generates a smaller set for quick auto-calibration
// at startup.
func GenerateQuickBlockSizes() []uint {
	est := config.EstimateOptimalBlockSize()
	sizes := []uint{est}
	if half := est / 2; half >= 16 {
		sizes = append([]uint{half}, sizes...)
	}
	if double := est * 2; double <= 4096 {
		sizes = append(sizes, double)
	}
	return sizes
}

// EstimateOptimalBlockSize delegates to config.EstimateOptimalBlockSize.
func EstimateOptimalBlockSize() uint { return config.EstimateOptimalBlockSize() }
