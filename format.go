package calc

import (
	"math"
	"strconv"
)

// FormatNumber formats v with at most digits significant digits, switching to
// exponent notation for very large or small magnitudes. A negative digits
// uses the fewest digits that represent v exactly.
func FormatNumber(v float64, digits int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == 0:
		// Includes negative zero.
		return "0"
	}
	return strconv.FormatFloat(v, 'g', digits, 64)
}

// Format formats v for display with the environment's digits setting.
func (env *Env) Format(v float64) string {
	return FormatNumber(v, env.digits)
}
