package service

import (
	"fmt"
	"math"
)

// maxClockMinutes is the first value whose hour count no longer fits an int64.
const maxClockMinutes = 60 * float64(math.MaxInt64)

// MinutesToClock renders minutes since midnight as zero-padded HH:MM.
// Hours are not wrapped at 24, so 1500 becomes "25:00". Negative,
// non-finite and out-of-range inputs return ErrInvalidMinutes.
func MinutesToClock(m float64) (string, error) {
	if m < 0 || math.IsNaN(m) || math.IsInf(m, 0) || m >= maxClockMinutes {
		return "", fmt.Errorf("%w: %v", ErrInvalidMinutes, m)
	}
	hours := int64(m / 60)
	minutes := int64(math.Mod(m, 60))
	return fmt.Sprintf("%02d:%02d", hours, minutes), nil
}
