package convert

import (
	"math"
	"strconv"
)

// sizeUnits extends past MB so every int has a unit.
var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatSize renders a byte count with a 1024-based unit, e.g. "1.5 KB".
//
// The value is rounded to two decimals and printed without trailing zeros.
// Zero (and any negative count) renders as "0B".
func FormatSize(n int) string {
	if n <= 0 {
		return "0B"
	}

	i := 0
	for v := n; v >= 1024 && i < len(sizeUnits)-1; v /= 1024 {
		i++
	}

	v := float64(n) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
