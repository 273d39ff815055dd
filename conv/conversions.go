package conv

import (
	"fmt"
	"math"
	"strconv"
)

// ByteCountDecimal formats byte sizes in a human readable way.
// Shamelessly stolen from http://programming.guide/go/formatting-byte-size-to-human-readable-format.html
func ByteCountDecimal(z int64) string {
	n := int64(math.Abs(float64(z)))
	const unit = 1000
	if n < unit {
		return fmt.Sprintf("%d b", z)
	}
	div, exp := int64(unit), 0
	for n := n / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	var neg string
	if z < 0 {
		neg = "-"
	}
	return fmt.Sprintf("%s%.1f%cb", neg, float64(n)/float64(div), "kMGTPE"[exp])
}

// FormatValue renders an indicator value.
// Integral values keep one decimal (174790340 => "174790340.0"), others use the shortest
// representation that reads back to the same float.
func FormatValue(f float64) string {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return strconv.FormatFloat(f, 'f', -1, 64)
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', 1, 64)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
