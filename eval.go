package calc

import (
	"math"
	"sort"
)

// Env is a variable environment for evaluating expressions. It maps each
// defined name to a value and to a reference node, and it tracks the set of
// names that survive Clear. An Env is not safe for concurrent use.
type Env struct {
	vals map[string]float64
	refs map[string]*node
	keep map[string]bool
	// prec is the precision in bits of extended-precision computations.
	prec uint
	// digits is the number of significant digits Format produces, or -1 for
	// the fewest that represent a value exactly.
	digits int
}

// Var is a variable name and its value.
type Var struct {
	Name  string
	Value float64
}

// EnvOption is an option used when creating an environment.
type EnvOption interface {
	envOption()
}

type (
	varopt struct {
		name string
		val  float64
	}
	varsopt   map[string]float64
	precopt   uint
	digitsopt int
)

func (varopt) envOption()    {}
func (varsopt) envOption()   {}
func (precopt) envOption()   {}
func (digitsopt) envOption() {}

// SetVar assigns a variable in the environment. It is not preserved.
func SetVar(name string, val float64) EnvOption {
	return varopt{name, val}
}

// SetVars assigns any number of variables in the environment.
func SetVars(vars map[string]float64) EnvOption {
	return varsopt(vars)
}

// Prec sets the precision in bits used for exponentials, logarithms, powers,
// and the builtin constants. Values are always rounded to float64 afterward.
// Precisions below MinPrec, including 0, are raised to MinPrec.
func Prec(prec uint) EnvOption {
	return precopt(prec)
}

// Digits sets the number of significant digits Format produces. A negative
// value means the fewest digits that represent a value exactly. The default
// is 15.
func Digits(n int) EnvOption {
	return digitsopt(n)
}

// MinPrec is the lowest precision in bits an Env computes with. It is also
// the default.
const MinPrec = 64

const (
	defaultPrec   = MinPrec
	defaultDigits = 15
)

// NewEnv creates an environment holding the builtin constants, each of them
// preserved.
func NewEnv(opts ...EnvOption) *Env {
	env := Env{
		vals:   make(map[string]float64),
		refs:   make(map[string]*node),
		keep:   make(map[string]bool),
		prec:   defaultPrec,
		digits: defaultDigits,
	}
	env.apply(opts, true)
	for name, v := range constants(env.prec) {
		env.Assign(name, v)
		env.keep[name] = true
	}
	env.apply(opts, false)
	return &env
}

// apply applies options. If settings is true, only precision and digits are
// applied; otherwise only variables are.
func (env *Env) apply(opts []EnvOption, settings bool) {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			if !settings {
				env.Assign(opt.name, opt.val)
			}
		case varsopt:
			if !settings {
				for k, v := range opt {
					env.Assign(k, v)
				}
			}
		case precopt:
			if settings {
				env.prec = uint(opt)
				if env.prec < MinPrec {
					env.prec = MinPrec
				}
			}
		case digitsopt:
			if settings {
				env.digits = int(opt)
			}
		default:
			panic("calc: unknown option type")
		}
	}
}

// Clone creates an independent copy of an environment and applies options to
// it. Changing the precision of the copy does not recompute existing values.
func (env *Env) Clone(opts ...EnvOption) *Env {
	n := Env{
		vals:   make(map[string]float64, len(env.vals)),
		refs:   make(map[string]*node, len(env.refs)),
		keep:   make(map[string]bool, len(env.keep)),
		prec:   env.prec,
		digits: env.digits,
	}
	for k, v := range env.vals {
		n.vals[k] = v
	}
	for k, v := range env.refs {
		n.refs[k] = v.clone()
	}
	for k := range env.keep {
		n.keep[k] = true
	}
	n.apply(opts, true)
	n.apply(opts, false)
	return &n
}

// Prec returns the precision of extended-precision computations.
func (env *Env) Prec() uint {
	return env.prec
}

// Eval evaluates an expression. If an error occurs, e.g. a missing variable
// definition or an operand outside an operation's domain, then the result is
// 0 and the error is a *NameError or *DomainError.
func (env *Env) Eval(e *Expr) (float64, error) {
	return e.n.eval(env)
}

// Assign sets the value of a variable, defining it if necessary.
func (env *Env) Assign(name string, v float64) {
	env.vals[name] = v
	env.refs[name] = &node{kind: nodeName, name: name}
}

// SetValue changes the value of a defined variable. If name is not defined,
// the result is a *NameError and env is unchanged.
func (env *Env) SetValue(name string, v float64) error {
	if _, ok := env.vals[name]; !ok {
		return &NameError{Name: name}
	}
	env.vals[name] = v
	return nil
}

// Lookup returns the value of a variable and whether it is defined.
func (env *Env) Lookup(name string) (float64, bool) {
	v, ok := env.vals[name]
	return v, ok
}

// Ref returns an expression referring to a defined variable, suitable for
// building into other expressions. Each call returns a new copy.
func (env *Env) Ref(name string) (*Expr, error) {
	n := env.refs[name]
	if n == nil {
		return nil, &NameError{Name: name}
	}
	return newExpr(n.clone()), nil
}

// Clear removes every variable except those that are preserved.
func (env *Env) Clear() {
	keep := make(map[string]float64, len(env.keep))
	for name := range env.keep {
		if v, ok := env.vals[name]; ok {
			keep[name] = v
		}
	}
	env.vals = make(map[string]float64, len(keep))
	env.refs = make(map[string]*node, len(keep))
	for name, v := range keep {
		env.Assign(name, v)
	}
}

// Preserve marks a defined variable to survive Clear. If name is not defined,
// the result is a *NameError.
func (env *Env) Preserve(name string) error {
	if _, ok := env.vals[name]; !ok {
		return &NameError{Name: name}
	}
	env.keep[name] = true
	return nil
}

// Unpreserve makes a variable no longer survive Clear. The variable itself is
// unaffected until the next Clear.
func (env *Env) Unpreserve(name string) {
	delete(env.keep, name)
}

// IsPreserved reports whether a name survives Clear.
func (env *Env) IsPreserved(name string) bool {
	return env.keep[name]
}

// Preserved returns the sorted names that survive Clear.
func (env *Env) Preserved() []string {
	r := make([]string, 0, len(env.keep))
	for k := range env.keep {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Vars returns every defined variable, sorted by name.
func (env *Env) Vars() []Var {
	r := make([]Var, 0, len(env.vals))
	for k, v := range env.vals {
		r = append(r, Var{Name: k, Value: v})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Name < r[j].Name })
	return r
}

// EvalString is a shortcut to parse an expression and evaluate it in a new
// environment. Assignments are evaluated but not stored.
func EvalString(src string, opts ...EnvOption) (float64, error) {
	e, _, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return NewEnv(opts...).Eval(e)
}

// eval computes the value of the tree rooted at n.
func (n *node) eval(env *Env) (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.val, nil
	case nodeName:
		v, ok := env.vals[n.name]
		if !ok {
			return 0, &NameError{Name: n.name}
		}
		return v, nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow, nodeLogBase:
		l, err := n.left.eval(env)
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval(env)
		if err != nil {
			return 0, err
		}
		return n.binary(env, l, r)
	case nodeNeg, nodePlus, nodeAbs, nodeFact,
		nodeSin, nodeCos, nodeTan, nodeAsin, nodeAcos, nodeAtan,
		nodeExp, nodeLn, nodeLog10, nodeSqrt:
		x, err := n.left.eval(env)
		if err != nil {
			return 0, err
		}
		return n.unary(env, x)
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
}

func (n *node) unary(env *Env, x float64) (float64, error) {
	switch n.kind {
	case nodeNeg:
		return -x, nil
	case nodePlus:
		return x, nil
	case nodeAbs:
		return math.Abs(x), nil
	case nodeFact:
		if x < 0 {
			return 0, &DomainError{X: x, Func: "!"}
		}
		return factorial(x), nil
	case nodeSin:
		return math.Sin(x), nil
	case nodeCos:
		return math.Cos(x), nil
	case nodeTan:
		return math.Tan(x), nil
	case nodeAsin:
		return math.Asin(x), nil
	case nodeAcos:
		return math.Acos(x), nil
	case nodeAtan:
		return math.Atan(x), nil
	case nodeExp:
		return expf(x, env.prec), nil
	case nodeLn:
		if x <= 0 {
			return 0, &DomainError{X: x, Func: "ln"}
		}
		return lnf(x, env.prec), nil
	case nodeLog10:
		if x <= 0 {
			return 0, &DomainError{X: x, Func: "log10"}
		}
		return logf(x, 10, env.prec), nil
	case nodeSqrt:
		if x < 0 {
			return 0, &DomainError{X: x, Func: "sqrt"}
		}
		return math.Sqrt(x), nil
	default:
		panic("calc: invalid unary node " + n.kind.String())
	}
}

func (n *node) binary(env *Env, l, r float64) (float64, error) {
	switch n.kind {
	case nodeAdd:
		return l + r, nil
	case nodeSub:
		return l - r, nil
	case nodeMul:
		return l * r, nil
	case nodeDiv:
		if r == 0 {
			return 0, &DomainError{X: r, Arg: 2, Func: "/"}
		}
		return l / r, nil
	case nodePow:
		if l < 0 && !isInt(r) {
			return 0, &DomainError{X: l, Arg: 1, Func: "^"}
		}
		return powf(l, r, env.prec), nil
	case nodeLogBase:
		if r <= 0 || r == 1 {
			return 0, &DomainError{X: r, Arg: 2, Func: "log"}
		}
		if l <= 0 {
			return 0, &DomainError{X: l, Arg: 1, Func: "log"}
		}
		return logf(l, r, env.prec), nil
	default:
		panic("calc: invalid binary node " + n.kind.String())
	}
}
