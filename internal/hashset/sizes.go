package hashset

import (
	"math"
	"math/bits"
	"slices"

	apperrors "github.com/agbru/symcalc/internal/errors"
)

// sizeClassTable holds the legal bucket counts. Past the first entries each
// class roughly doubles the previous one and is a prime, which keeps the
// modulo reduction well spread.
var sizeClassTable = [...]uint64{
	0, 1, 3, 5, 11, 23, 53, 97, 193, 389, 769, 1543, 3079, 6151, 12289,
	24593, 49157, 98317, 196613, 393241, 786433, 1572869, 3145739, 6291469,
	12582917, 25165843, 50331653, 100663319, 201326611, 402653189,
	805306457, 1610612741, 3221225473,
	// 64-bit only.
	6442450939, 12884901893, 25769803799, 51539607551, 103079215111,
	206158430209, 412316860441, 824633720831,
}

// numSizeClasses is 41 on 64-bit platforms and 33 on 32-bit ones.
const numSizeClasses = 33 + 8*(bits.UintSize/64)

func sizeClasses() []uint64 { return sizeClassTable[:numSizeClasses] }

// sizeFromHint returns the smallest size class >= n.
func sizeFromHint(n int) (int, error) {
	classes := sizeClasses()
	if n < 0 {
		n = 0
	}
	i, _ := slices.BinarySearch(classes, uint64(n))
	if i == len(classes) || classes[i] > math.MaxInt {
		return 0, apperrors.Allocationf("%d buckets exceed the largest size class %d", n, classes[len(classes)-1])
	}
	return int(classes[i]), nil
}

// sizeIndex returns the position of n in the size class table, or -1 when n
// is not a size class.
func sizeIndex(n int) int {
	i, found := slices.BinarySearch(sizeClasses(), uint64(n))
	if !found {
		return -1
	}
	return i
}
