package calc

// ResultKind is the kind of action a line performed.
type ResultKind int8

const (
	// ResultValue is an expression that was evaluated.
	ResultValue ResultKind = iota
	// ResultAssign is an expression that was evaluated and assigned.
	ResultAssign
	// ResultPreserve is a preserve command.
	ResultPreserve
	// ResultRemove is a remove command.
	ResultRemove
)

// Result describes the outcome of executing a line.
type Result struct {
	Kind ResultKind
	// Name is the variable assigned, preserved, or removed.
	Name string
	// Value is the value of the expression, or the current value of a
	// preserved variable.
	Value float64
}

// Exec executes one line of input: a "preserve name" or "remove name"
// command, an assignment "name = expr", or an expression. An assignment is
// stored only after its expression evaluates successfully, so a failing line
// never changes env.
func (env *Env) Exec(line string) (Result, error) {
	toks, err := Tokenize(line)
	if err != nil {
		return Result{}, err
	}
	p := NewParser(toks)
	name, ok, err := p.Preserve()
	if err != nil {
		return Result{}, err
	}
	if ok {
		if err := env.Preserve(name); err != nil {
			return Result{}, err
		}
		return Result{Kind: ResultPreserve, Name: name, Value: env.vals[name]}, nil
	}
	name, ok, err = p.Remove()
	if err != nil {
		return Result{}, err
	}
	if ok {
		env.Unpreserve(name)
		return Result{Kind: ResultRemove, Name: name}, nil
	}
	e, target, err := p.Parse()
	if err != nil {
		return Result{}, err
	}
	v, err := env.Eval(e)
	if err != nil {
		return Result{}, err
	}
	if target == "" {
		return Result{Kind: ResultValue, Value: v}, nil
	}
	env.Assign(target, v)
	return Result{Kind: ResultAssign, Name: target, Value: v}, nil
}
