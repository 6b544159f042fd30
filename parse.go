package calc

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// Line = Command | name '=' Sum | Sum
// Command = 'preserve' name | 'remove' name
// Sum = Product { ('+' | '-') Product }
// Product = Power { ('*' | '/') Power }
// Power = Unary [ '^' Power ]
// Unary = '-' Unary | '+' Unary | Primary { '!' }
// Primary = num | name | '|' Sum '|' | '(' Sum ')' | func '(' Sum ')' | func2 '(' Sum ',' Sum ')'

// Expr is a parsed expression that can be evaluated in an Env.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the sorted list of variable names used in the expression.
	names []string
}

func newExpr(n *node) *Expr {
	m := make(map[string]bool)
	n.names(m)
	e := Expr{n: n, names: make([]string, 0, len(m))}
	for k := range m {
		e.names = append(e.names, k)
	}
	sort.Strings(e.names)
	return &e
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	return e.n.String()
}

// Clone returns a deep copy of the expression. The copy shares no nodes with
// e; variables in it are still looked up when it is evaluated.
func (e *Expr) Clone() *Expr {
	return &Expr{n: e.n.clone(), names: e.Vars()}
}

// Parser parses one line of tokens. A Parser is not safe for concurrent use.
type Parser struct {
	toks []Token
	// cur is the index of the current token. It only moves forward.
	cur int
	// target is the name being assigned, or the empty string.
	target string
}

// NewParser creates a parser over a token sequence as produced by Tokenize.
// If the sequence does not end with a TokenEnd, one is added.
func NewParser(tokens []Token) *Parser {
	toks := make([]Token, len(tokens), len(tokens)+1)
	copy(toks, tokens)
	if len(toks) == 0 || toks[len(toks)-1].Kind != TokenEnd {
		pos := 1
		if len(toks) > 0 {
			last := toks[len(toks)-1]
			pos = last.Pos + len([]rune(last.Text))
		}
		toks = append(toks, Token{Kind: TokenEnd, Pos: pos})
	}
	return &Parser{toks: toks}
}

// Parse is a shortcut to tokenize and parse a line.
func Parse(src string) (*Expr, string, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, "", err
	}
	return NewParser(toks).Parse()
}

// Parse parses the tokens as an expression, optionally preceded by an
// assignment "name =". The second result is the assignment target, or the
// empty string if the line is not an assignment.
func (p *Parser) Parse() (*Expr, string, error) {
	p.cur, p.target = 0, ""
	n, err := p.parseAssignment()
	if err != nil {
		return nil, "", err
	}
	if tok := p.curr(); tok.Kind != TokenEnd {
		return nil, "", unexpected(tok)
	}
	return newExpr(n), p.target, nil
}

// Preserve recognizes a "preserve name" command. If the line does not contain
// the keyword, the result is "", false, nil. If it does but the line is not
// exactly the keyword followed by a variable name, the error is a
// *SyntaxError.
func (p *Parser) Preserve() (string, bool, error) {
	return p.command(TokenPreserve)
}

// Remove recognizes a "remove name" command in the same way as Preserve.
func (p *Parser) Remove() (string, bool, error) {
	return p.command(TokenRemove)
}

func (p *Parser) command(kind TokenKind) (string, bool, error) {
	at := -1
	for i, tok := range p.toks {
		if tok.Kind == kind {
			at = i
			break
		}
	}
	if at < 0 {
		return "", false, nil
	}
	if at != 0 || len(p.toks) != 3 || p.toks[1].Kind != TokenVar {
		kw := p.toks[at]
		return "", false, &SyntaxError{Col: kw.Pos, Token: kw.Text, Msg: "use " + kw.Text + " variable"}
	}
	return p.toks[1].Text, true, nil
}

// curr returns the current token.
func (p *Parser) curr() Token {
	return p.toks[p.cur]
}

// prev returns the token before the current one.
func (p *Parser) prev() Token {
	if p.cur == 0 {
		return p.toks[0]
	}
	return p.toks[p.cur-1]
}

// advance moves to the next token. It never moves past the final TokenEnd.
func (p *Parser) advance() {
	if p.cur < len(p.toks)-1 {
		p.cur++
	}
}

func (p *Parser) parseAssignment() (*node, error) {
	eq := -1
	for i, tok := range p.toks {
		if tok.Kind == TokenAssign {
			eq = i
			break
		}
	}
	if eq < 0 {
		return p.parseSum()
	}
	if len(p.toks) < 2 || p.toks[0].Kind != TokenVar || p.toks[1].Kind != TokenAssign {
		tok := p.toks[eq]
		return nil, &SyntaxError{Col: tok.Pos, Token: tok.Text, Msg: "use variable = expression"}
	}
	p.target = p.toks[0].Text
	p.cur = 2
	return p.parseSum()
}

func (p *Parser) parseSum() (*node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		var kind nodeKind
		switch p.curr().Kind {
		case TokenPlus:
			kind = nodeAdd
		case TokenMinus:
			kind = nodeSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = &node{kind: kind, left: left, right: right}
	}
}

func (p *Parser) parseProduct() (*node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		var kind nodeKind
		switch p.curr().Kind {
		case TokenMul:
			kind = nodeMul
		case TokenDiv:
			kind = nodeDiv
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &node{kind: kind, left: left, right: right}
	}
}

// parsePower parses a right-associative exponentiation: a^b^c is a^(b^c).
func (p *Parser) parsePower() (*node, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.curr().Kind != TokenPow {
		return base, nil
	}
	p.advance()
	exp, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return &node{kind: nodePow, left: base, right: exp}, nil
}

// parseUnary parses prefix signs and postfix factorials. Signs wrap
// everything after them, so -5! is -(5!).
func (p *Parser) parseUnary() (*node, error) {
	var kind nodeKind
	switch p.curr().Kind {
	case TokenMinus:
		kind = nodeNeg
	case TokenPlus:
		kind = nodePlus
	}
	if kind != nodeNone {
		p.advance()
		n, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &node{kind: kind, left: n}, nil
	}
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.curr().Kind == TokenFact {
		p.advance()
		n = &node{kind: nodeFact, left: n}
	}
	return n, nil
}

func (p *Parser) parsePrimary() (*node, error) {
	tok := p.curr()
	switch tok.Kind {
	case TokenNum:
		v, err := parseNum(tok)
		if err != nil {
			return nil, err
		}
		p.advance()
		return &node{kind: nodeNum, name: tok.Text, val: v}, nil
	case TokenVar:
		p.advance()
		return &node{kind: nodeName, name: tok.Text}, nil
	case TokenAbs:
		p.advance()
		n, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if err := p.closing(tok.Text, TokenAbs); err != nil {
			return nil, err
		}
		return &node{kind: nodeAbs, left: n}, nil
	case TokenOpen:
		p.advance()
		n, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if err := p.closing(tok.Text, TokenClose); err != nil {
			return nil, err
		}
		return n, nil
	case TokenFunc:
		return p.parseCall()
	case TokenEnd:
		return nil, &EmptyExpressionError{Col: tok.Pos}
	case TokenClose, TokenComma:
		return nil, &EmptyExpressionError{Col: tok.Pos, End: tok.Text}
	default:
		return nil, unexpected(tok)
	}
}

// closing consumes the close bracket matching left.
func (p *Parser) closing(left string, kind TokenKind) error {
	end := p.curr()
	if end.Kind != kind {
		return &BracketError{Col: end.Pos, Left: left, Right: end.Text}
	}
	p.advance()
	return nil
}

// parseCall parses name(arg) or name(arg, arg).
func (p *Parser) parseCall() (*node, error) {
	p.advance()
	name := p.prev().Text
	fn, ok := funcs[name]
	if !ok {
		return nil, &NameError{Name: name}
	}
	if err := p.want(name, TokenOpen); err != nil {
		return nil, err
	}
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	var right *node
	if fn.args == 2 {
		if err := p.want(name, TokenComma); err != nil {
			return nil, err
		}
		right, err = p.parseSum()
		if err != nil {
			return nil, err
		}
	}
	if err := p.want(name, TokenClose); err != nil {
		return nil, err
	}
	return &node{kind: fn.kind, left: left, right: right}, nil
}

// want consumes a token of the given kind as part of a call to fn.
func (p *Parser) want(fn string, kind TokenKind) error {
	tok := p.curr()
	if tok.Kind != kind {
		return &CallError{Col: tok.Pos, Func: fn, Want: wantText[kind]}
	}
	p.advance()
	return nil
}

var wantText = map[TokenKind]string{
	TokenOpen:  "(",
	TokenComma: ",",
	TokenClose: ")",
}

// unexpected returns an error for a token that cannot appear where it is.
func unexpected(tok Token) error {
	if tok.Kind == TokenEnd {
		return &EmptyExpressionError{Col: tok.Pos}
	}
	return &SyntaxError{Col: tok.Pos, Token: tok.Text}
}

// parseNum converts the text of a numeric literal. Literals too large for
// float64 become infinity.
func parseNum(tok Token) (float64, error) {
	// The lexer only produces digits and dots, but hand-built tokens might
	// hold anything ParseFloat accepts, like "inf" or "1e3".
	if tok.Text == "" || strings.Trim(tok.Text, "0123456789.") != "" {
		return 0, &NumberError{Col: tok.Pos, Text: tok.Text}
	}
	v, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return v, nil
		}
		return 0, &NumberError{Col: tok.Pos, Text: tok.Text}
	}
	return v, nil
}
