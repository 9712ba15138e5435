package coil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Length is a distance in nanometres.
type Length int64

const (
	Nanometer  Length = 1
	Micrometer        = 1000 * Nanometer
	Millimeter        = 1000 * Micrometer
)

// MM converts millimetres to a Length, rounding to the nearest nanometre.
func MM(mm float64) Length {
	return Length(math.Round(mm * float64(Millimeter)))
}

// Millimeters returns l in millimetres.
func (l Length) Millimeters() float64 {
	return float64(l) / float64(Millimeter)
}

// String formats l in millimetres with no trailing zeros (e.g. "0.25").
// The conversion is exact; no floating point is involved.
func (l Length) String() string {
	sign := ""
	v := int64(l)
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := v / int64(Millimeter)
	frac := v % int64(Millimeter)
	if frac == 0 {
		return sign + strconv.FormatInt(whole, 10)
	}
	fs := strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
	return sign + strconv.FormatInt(whole, 10) + "." + fs
}

func minLength(a, b Length) Length {
	if a < b {
		return a
	}
	return b
}
