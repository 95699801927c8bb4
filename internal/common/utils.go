package common

import (
	"math"
	"strconv"
)

// Round1 rounds to one decimal place, matching the precision used for
// chart values and export annotations.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatMM renders a millimeter value with one decimal, e.g. "35.5".
func FormatMM(v float64) string {
	return strconv.FormatFloat(Round1(v), 'f', 1, 64)
}
