package calc

import (
	"errors"
	"math"
	"math/big"
	"sort"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// builtin describes a function that may be called by name.
type builtin struct {
	// kind is the node kind the call produces.
	kind nodeKind
	// args is the number of comma-separated arguments in the call.
	args int
}

// funcs is the set of function names. The lexer produces TokenFunc exactly for
// these names, and the parser builds calls exactly from them.
var funcs = map[string]builtin{
	"sin":   {nodeSin, 1},
	"cos":   {nodeCos, 1},
	"tan":   {nodeTan, 1},
	"asin":  {nodeAsin, 1},
	"acos":  {nodeAcos, 1},
	"atan":  {nodeAtan, 1},
	"exp":   {nodeExp, 1},
	"ln":    {nodeLn, 1},
	"log10": {nodeLog10, 1},
	"sqrt":  {nodeSqrt, 1},
	"abs":   {nodeAbs, 1},
	"fact":  {nodeFact, 1},
	"log":   {nodeLogBase, 2},
	"pow":   {nodePow, 2},
}

// Funcs returns the sorted names of the builtin functions.
func Funcs() []string {
	r := make([]string, 0, len(funcs))
	for k := range funcs {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// funcName returns the call name used to format a node of kind k, or the empty
// string if k is formatted as an operator.
func funcName(k nodeKind) string {
	switch k {
	case nodeSin:
		return "sin"
	case nodeCos:
		return "cos"
	case nodeTan:
		return "tan"
	case nodeAsin:
		return "asin"
	case nodeAcos:
		return "acos"
	case nodeAtan:
		return "atan"
	case nodeExp:
		return "exp"
	case nodeLn:
		return "ln"
	case nodeLog10:
		return "log10"
	case nodeLogBase:
		return "log"
	case nodeSqrt:
		return "sqrt"
	default:
		return ""
	}
}

// Exponentials of arguments above expMax overflow float64, and those below
// expMin underflow to 0. Only arguments between them are computed with
// extended precision.
var (
	expMax = math.Log(math.MaxFloat64)
	expMin = math.Log(math.SmallestNonzeroFloat64)
)

// bigf converts x to a big.Float with precision prec. x must not be NaN.
func bigf(x float64, prec uint) *big.Float {
	return new(big.Float).SetPrec(prec).SetFloat64(x)
}

// extended computes f with prec bits of precision and rounds the result to
// float64. If f panics with big.ErrNaN, the result is fallback().
func extended(prec uint, fallback func() float64, f func(z *big.Float) *big.Float) (r float64) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		err, _ := p.(error)
		if err != nil && errors.As(err, &big.ErrNaN{}) {
			r = fallback()
			return
		}
		panic(p)
	}()
	z := new(big.Float).SetPrec(prec)
	r, _ = f(z).Float64()
	return r
}

func special(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}

func expf(x float64, prec uint) float64 {
	if special(x) || x > expMax || x < expMin {
		return math.Exp(x)
	}
	return extended(prec, func() float64 { return math.Exp(x) }, func(z *big.Float) *big.Float {
		return bigfloat.Exp(z, bigf(x, prec))
	})
}

// lnf computes the natural logarithm of x > 0.
func lnf(x float64, prec uint) float64 {
	if special(x) || x == 1 {
		return math.Log(x)
	}
	return extended(prec, func() float64 { return math.Log(x) }, func(z *big.Float) *big.Float {
		return bigfloat.Log(z, bigf(x, prec))
	})
}

// logf computes the logarithm of x > 0 in base b > 0, b != 1.
func logf(x, b float64, prec uint) float64 {
	fallback := func() float64 { return math.Log(x) / math.Log(b) }
	if x == 1 {
		return 0
	}
	if special(x) || special(b) {
		return fallback()
	}
	return extended(prec, fallback, func(z *big.Float) *big.Float {
		d := bigfloat.Log(new(big.Float).SetPrec(prec), bigf(b, prec))
		bigfloat.Log(z, bigf(x, prec))
		return z.Quo(z, d)
	})
}

// powf computes x^y. The caller checks that x is non-negative or y is an
// integer.
func powf(x, y float64, prec uint) float64 {
	if x <= 0 || x == 1 || y == 0 || special(x) || special(y) {
		return math.Pow(x, y)
	}
	if t := y * math.Log(x); t > expMax || t < expMin {
		return math.Pow(x, y)
	}
	return extended(prec, func() float64 { return math.Pow(x, y) }, func(z *big.Float) *big.Float {
		return bigfloat.Pow(z, bigf(x, prec), bigf(y, prec))
	})
}

// factorial computes the product of 1 through floor(x) for x >= 0.
func factorial(x float64) float64 {
	if special(x) {
		return x
	}
	n := math.Floor(x)
	r := 1.0
	for i := 2.0; i <= n; i++ {
		r *= i
		if math.IsInf(r, 1) {
			break
		}
	}
	return r
}

// isInt reports whether x is an integer.
func isInt(x float64) bool {
	return x == math.Trunc(x) && !math.IsInf(x, 0)
}

// Names of the builtin constants.
const (
	ConstPi      = "pi"
	ConstE       = "e"
	ConstDeg2Rad = "deg2rad"
	ConstRad2Deg = "rad2deg"
)

// Constants returns the names of the constants every Env starts with.
func Constants() []string {
	return []string{ConstPi, ConstE, ConstDeg2Rad, ConstRad2Deg}
}

// constants computes the builtin constants with prec bits of precision.
func constants(prec uint) map[string]float64 {
	pi := bigfloat.Pi(new(big.Float).SetPrec(prec))
	e := bigfloat.Exp(new(big.Float).SetPrec(prec), bigf(1, prec))
	deg := bigf(180, prec)
	d2r := new(big.Float).SetPrec(prec).Quo(pi, deg)
	r2d := new(big.Float).SetPrec(prec).Quo(deg, pi)
	m := make(map[string]float64, 4)
	m[ConstPi], _ = pi.Float64()
	m[ConstE], _ = e.Float64()
	m[ConstDeg2Rad], _ = d2r.Float64()
	m[ConstRad2Deg], _ = r2d.Float64()
	return m
}

// DomainError is an error returned when an operation is applied to arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the operation.
	Func string
}

func (err *DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}
