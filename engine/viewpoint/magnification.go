package viewpoint

import (
	"math"

	"github.com/Carmen-Shannon/oxy-terrain/common"
)

// MagFactors is the fixed, monotonically increasing table of magnification factors.
// Index 0 is the widest view.
var MagFactors = [...]float64{
	0.5, 0.75, 1, 1.5, 2, 3, 4, 5, 6, 8, 10, 12, 15, 20, 25, 30, 40, 50, 60, 80, 100,
}

// DefaultMagIndex addresses the 1x magnification factor.
const DefaultMagIndex = 2

// ClampMagIndex limits i to a valid MagFactors index.
func ClampMagIndex(i int) int {
	return common.Clamp(i, 0, len(MagFactors)-1)
}

// MagFactor returns the magnification factor for index i, clamping out-of-range indices.
//
// Parameters:
//   - i: the magnification index
//
// Returns:
//   - float64: the factor at the clamped index
func MagFactor(i int) float64 {
	return MagFactors[ClampMagIndex(i)]
}

// MagIndexFor returns the index of the table entry closest to factor.
//
// Parameters:
//   - factor: the requested magnification
//
// Returns:
//   - int: the nearest table index
func MagIndexFor(factor float64) int {
	best := 0
	for i, f := range MagFactors {
		if math.Abs(f-factor) < math.Abs(MagFactors[best]-factor) {
			best = i
		}
	}
	return best
}
