package calc

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum:
		if n.val != m.val {
			return n, m
		}
	case nodeName:
		if n.name != m.name {
			return n, m
		}
	default:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	}
	return nil, nil
}

// shares reports whether any node in the tree rooted at n is also in the tree
// rooted at m.
func (n *node) shares(m *node) bool {
	seen := make(map[*node]bool)
	var walk func(*node)
	walk = func(x *node) {
		if x == nil {
			return
		}
		seen[x] = true
		walk(x.left)
		walk(x.right)
	}
	walk(n)
	var find func(*node) bool
	find = func(x *node) bool {
		if x == nil {
			return false
		}
		return seen[x] || find(x.left) || find(x.right)
	}
	return find(m)
}

func mustParse(t *testing.T, src string) (*Expr, string) {
	t.Helper()
	e, target, err := Parse(src)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", src, err)
	}
	return e, target
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(x)", "x"},
		{"multi", "((((x))))", "x"},

		{"add", "x+y", "((x)+(y))"},
		{"sub", "x-y", "((x)-(y))"},
		{"mul", "x*y", "((x)*(y))"},
		{"div", "x/y", "((x)/(y))"},
		{"pow", "x^y", "((x)^(y))"},
		{"powcall", "pow(x, y)", "x^y"},
		{"abscall", "abs(x)", "|x|"},
		{"factcall", "fact(x)", "x!"},

		{"add4", "w+x+y+z", "((w+x)+y)+z"},
		{"sub4", "w-x-y-z", "((w-x)-y)-z"},
		{"mul4", "w*x*y*z", "((w*x)*y)*z"},
		{"div4", "w/x/y/z", "((w/x)/y)/z"},
		{"pow4", "w^x^y^z", "w^(x^(y^z))"},
		{"addsub", "w+x-y+z", "((w+x)-y)+z"},
		{"muldiv", "w*x/y*z", "((w*x)/y)*z"},

		{"desc", "w^x*y+z", "((w^x)*y)+z"},
		{"asc", "w+x*y^z", "w+(x*(y^z))"},
		{"descasc", "w^x*y+z+a*b^c", "(((w^x)*y)+z)+a*(b^c)"},
		{"ascdesc", "w+x*y^z^a*b+c", "w+((x*(y^(z^a)))*b)+c"},
		{"negneg", "--x", "-(-x)"},
		{"negsub", "-x-x", "(-x)-x"},
		{"negpow", "-x^y", "(-x)^y"},
		{"powneg", "x^-1", "x^(-1)"},
		{"pownegpow", "x^-y^-z", "x^((-y)^(-z))"},
		{"plusplus", "++x", "+(+x)"},
		{"fact2", "x!!", "(x!)!"},
		{"negfact", "-x!", "-(x!)"},
		{"powfact", "x^y!", "x^(y!)"},
		{"factpow", "x!^y", "(x!)^y"},
		{"absexpr", "|x - y| * z", "(|(x - y)|) * z"},
		{"absabs", "||x||", "|(|x|)|"},
		{"absmul", "|x|*|y|", "(|x|)*(|y|)"},
		{"callexpr", "sqrt(x + y) * 2", "(sqrt((x + y))) * 2"},
		{"log", "log(x + 1, y)", "log((x + 1), (y))"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, _ := mustParse(t, c.a)
			b, _ := mustParse(t, c.b)
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	num := func(v float64) *node { return &node{kind: nodeNum, name: fmt.Sprint(v), val: v} }
	name := func(s string) *node { return &node{kind: nodeName, name: s} }
	cases := []struct {
		src    string
		target string
		n      *node
	}{
		{"2", "", num(2)},
		{".5", "", num(0.5)},
		{"1.", "", num(1)},
		{"x = 1", "x", num(1)},
		{"y=x+1", "y", &node{kind: nodeAdd, left: name("x"), right: num(1)}},
		{"-5!", "", &node{kind: nodeNeg, left: &node{kind: nodeFact, left: num(5)}}},
		{"2^3^2", "", &node{kind: nodePow, left: num(2), right: &node{kind: nodePow, left: num(3), right: num(2)}}},
		{"+x", "", &node{kind: nodePlus, left: name("x")}},
		{"log(8, 2)", "", &node{kind: nodeLogBase, left: num(8), right: num(2)}},
		{"log10(x)", "", &node{kind: nodeLog10, left: name("x")}},
		{"ln(x)", "", &node{kind: nodeLn, left: name("x")}},
		{"sin(cos(tan(x)))", "", &node{kind: nodeSin, left: &node{kind: nodeCos, left: &node{kind: nodeTan, left: name("x")}}}},
		{"asin(acos(atan(x)))", "", &node{kind: nodeAsin, left: &node{kind: nodeAcos, left: &node{kind: nodeAtan, left: name("x")}}}},
		{"exp(sqrt(x))", "", &node{kind: nodeExp, left: &node{kind: nodeSqrt, left: name("x")}}},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			e, target := mustParse(t, c.src)
			if target != c.target {
				t.Errorf("wrong assignment target: want %q, got %q", c.target, target)
			}
			if d, f := e.n.diff(c.n); d != nil || f != nil {
				t.Errorf("mismatched AST: want %v, got %v (differs at %v vs %v)", c.n, e.n, f, d)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src string
		err interface{}
		col int
	}{
		{"", new(*EmptyExpressionError), 1},
		{"1 +", new(*EmptyExpressionError), 4},
		{"()", new(*EmptyExpressionError), 2},
		{"sin()", new(*EmptyExpressionError), 5},
		{"(1", new(*BracketError), 3},
		{"(1 2)", new(*BracketError), 4},
		{"|1", new(*BracketError), 3},
		{"|1)", new(*BracketError), 3},
		{"sin 1", new(*CallError), 5},
		{"sin(1", new(*CallError), 6},
		{"sin(1, 2)", new(*CallError), 6},
		{"log(8)", new(*CallError), 6},
		{"pow(2 3)", new(*CallError), 7},
		{"1 2", new(*SyntaxError), 3},
		{"(1))", new(*SyntaxError), 4},
		{"*2", new(*SyntaxError), 1},
		{"2 = x", new(*SyntaxError), 3},
		{"x + y = 2", new(*SyntaxError), 7},
		{"x = y = 2", new(*SyntaxError), 7},
		{"sin = 2", new(*SyntaxError), 5},
		{"1 + preserve", new(*SyntaxError), 5},
		{"1.2.3", new(*NumberError), 1},
		{"2 * .", new(*NumberError), 5},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			e, target, err := Parse(c.src)
			if err == nil {
				t.Fatalf("%q parsed without error as %v (target %q)", c.src, e, target)
			}
			if e != nil || target != "" {
				t.Errorf("%q gave non-zero results %v, %q with error", c.src, e, target)
			}
			if !errors.As(err, c.err) {
				t.Fatalf("%q gave %#v, want %T", c.src, err, reflect.ValueOf(c.err).Elem().Interface())
			}
			var ie InputError
			if !errors.As(err, &ie) {
				t.Fatalf("%q gave %#v, which is not an InputError", c.src, err)
			}
			if ie.Pos() != c.col {
				t.Errorf("%q gave error at %d, want %d: %v", c.src, ie.Pos(), c.col, err)
			}
			_, isNum := err.(*NumberError)
			if IsSyntax(err) == isNum {
				t.Errorf("%q: IsSyntax(%v) = %t", c.src, err, IsSyntax(err))
			}
		})
	}
}

func TestParseUnknownFunc(t *testing.T) {
	toks := []Token{{TokenFunc, "cbrt", 1}, {TokenOpen, "(", 5}, {TokenNum, "8", 6}, {TokenClose, ")", 7}}
	_, _, err := NewParser(toks).Parse()
	var ne *NameError
	if !errors.As(err, &ne) {
		t.Fatalf("want NameError, got %#v", err)
	}
	if ne.Name != "cbrt" {
		t.Errorf("wrong name %q", ne.Name)
	}
}

func TestParseHandBuiltNumbers(t *testing.T) {
	for _, s := range []string{"inf", "1e3", "0x10", "", "nan"} {
		toks := []Token{{TokenNum, s, 1}}
		_, _, err := NewParser(toks).Parse()
		var ne *NumberError
		if !errors.As(err, &ne) {
			t.Errorf("%q: want NumberError, got %#v", s, err)
		}
	}
}

func TestParseHugeNumber(t *testing.T) {
	src := "1" + strings.Repeat("0", 400)
	e, _ := mustParse(t, src)
	if e.n.kind != nodeNum || !math.IsInf(e.n.val, 1) {
		t.Errorf("%d-digit literal parsed as %v", len(src), e.n)
	}
}

func TestCommands(t *testing.T) {
	cases := []struct {
		src      string
		preserve string
		remove   string
		err      bool
	}{
		{"preserve x", "x", "", false},
		{"remove x", "", "x", false},
		{"  preserve   longer_name  ", "longer_name", "", false},
		{"x + 1", "", "", false},
		{"preserve", "", "", true},
		{"preserve x y", "", "", true},
		{"preserve 1", "", "", true},
		{"preserve sin", "", "", true},
		{"x preserve", "", "", true},
		{"preserve remove", "", "", true},
		{"remove", "", "", true},
		{"remove (x)", "", "", true},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			toks, err := Tokenize(c.src)
			if err != nil {
				t.Fatalf("failed to tokenize %q: %v", c.src, err)
			}
			p := NewParser(toks)
			pn, pok, perr := p.Preserve()
			rn, rok, rerr := p.Remove()
			if c.err {
				if perr == nil && rerr == nil {
					t.Fatalf("%q gave no error", c.src)
				}
				for _, err := range []error{perr, rerr} {
					var se *SyntaxError
					if err != nil && !errors.As(err, &se) {
						t.Errorf("%q gave %#v, want SyntaxError", c.src, err)
					}
				}
				return
			}
			if perr != nil || rerr != nil {
				t.Fatalf("%q gave errors %v, %v", c.src, perr, rerr)
			}
			if pn != c.preserve || pok != (c.preserve != "") {
				t.Errorf("%q: Preserve gave %q, %t", c.src, pn, pok)
			}
			if rn != c.remove || rok != (c.remove != "") {
				t.Errorf("%q: Remove gave %q, %t", c.src, rn, rok)
			}
		})
	}
}

func TestNewParserAddsEnd(t *testing.T) {
	p := NewParser([]Token{{TokenNum, "12", 1}, {TokenPlus, "+", 3}})
	_, _, err := p.Parse()
	var ee *EmptyExpressionError
	if !errors.As(err, &ee) {
		t.Fatalf("want EmptyExpressionError, got %#v", err)
	}
	if ee.Col != 4 {
		t.Errorf("end at %d, want 4", ee.Col)
	}
}

func TestParserReuse(t *testing.T) {
	toks, err := Tokenize("x = 1 + 2")
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(toks)
	a, ta, err := p.Parse()
	if err != nil {
		t.Fatal(err)
	}
	b, tb, err := p.Parse()
	if err != nil {
		t.Fatal(err)
	}
	if ta != tb || ta != "x" {
		t.Errorf("targets %q and %q", ta, tb)
	}
	if d, e := a.n.diff(b.n); d != nil || e != nil {
		t.Errorf("reparse gave %v, first gave %v", b, a)
	}
}

func TestVars(t *testing.T) {
	cases := []struct {
		src  string
		vars []string
	}{
		{"1", []string{}},
		{"x", []string{"x"}},
		{"y = x + x", []string{"x"}},
		{"b * a + log(c, a)", []string{"a", "b", "c"}},
	}
	for _, c := range cases {
		e, _ := mustParse(t, c.src)
		if v := e.Vars(); !reflect.DeepEqual(v, c.vars) && !(len(v) == 0 && len(c.vars) == 0) {
			t.Errorf("%q gave wrong variables: want %q, got %q", c.src, c.vars, v)
		}
	}
}

func TestClone(t *testing.T) {
	srcs := []string{
		"1", "x", "-x", "+x", "|x|", "x!", "x+y", "x-y", "x*y", "x/y", "x^y",
		"sin(x)", "cos(x)", "tan(x)", "asin(x)", "acos(x)", "atan(x)",
		"exp(x)", "ln(x)", "log10(x)", "log(x, y)", "sqrt(x)",
		"-(sin(x)^2 + cos(y)!) / |log(x, 2) - 1|",
	}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			e, _ := mustParse(t, src)
			c := e.Clone()
			if d, f := e.n.diff(c.n); d != nil || f != nil {
				t.Errorf("clone %v differs from %v", c, e)
			}
			if e.n.shares(c.n) {
				t.Errorf("clone of %v shares nodes with the original", e)
			}
			if !reflect.DeepEqual(e.Vars(), c.Vars()) {
				t.Errorf("clone has vars %q, original %q", c.Vars(), e.Vars())
			}
		})
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		src, want string
	}{
		{"1", "1"},
		{"x+y*z", "(x + [y * z])"},
		{"-x!", "(-[x!])"},
		{"|x - 1|", "|[x - 1]|"},
		{"log(x, 2) ^ y", "(log[x, 2] ^ y)"},
		{"sqrt(2)", "sqrt(2)"},
	}
	for _, c := range cases {
		e, _ := mustParse(t, c.src)
		if s := e.String(); s != c.want {
			t.Errorf("%q formats as %q, want %q", c.src, s, c.want)
		}
	}
}
