// Package dimen implements dimensions and units.
package dimen

import (
	"fmt"
	"math"
)

// Dimen is a dimension type.
// Values are in scaled big points.
type Dimen int32

// Some pre-defined dimensions
const (
	Zero Dimen = 0
	SP   Dimen = 1       // scaled point = BP / 65536
	BP   Dimen = 65536   // big point (PDF) = 1/72 inch
	PX   Dimen = 65536   // "pixels"
	PT   Dimen = 65291   // printers point 1/72.27 inch
	MM   Dimen = 185771  // millimeters
	CM   Dimen = 1857710 // centimeters
	IN   Dimen = 4718592 // inch
)

// Infinity is the largest possible dimension.
const Infinity = math.MaxInt32

// Stringer implementation.
func (d Dimen) String() string {
	return fmt.Sprintf("%dsp", int32(d))
}

// Points returns a dimension in big (PDF) points.
func (d Dimen) Points() float64 {
	return float64(d) / float64(BP)
}

// DU is a dimension in design space, i.e. font units. Shapers and fonts
// live in design space; conversion to page space happens at drawing time.
type DU int32

// Scaled converts a design-space dimension to page space, given the
// em-size of the font and its units-per-em.
func (du DU) Scaled(em Dimen, unitsPerEm int32) Dimen {
	if unitsPerEm == 0 {
		return 0
	}
	return Dimen(int64(du) * int64(em) / int64(unitsPerEm))
}

// Min returns the smaller of two dimensions.
func Min(a, b Dimen) Dimen {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two dimensions.
func Max(a, b Dimen) Dimen {
	if a > b {
		return a
	}
	return b
}
