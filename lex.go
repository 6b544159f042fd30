package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a lexical token scanned from an input line.
type Token struct {
	// Kind is the kind of the token.
	Kind TokenKind
	// Text is the literal text of the token: a numeric literal, a name, or
	// the punctuation character.
	Text string
	// Pos is the 1-based rune column at which the token begins.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the kind of a Token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenNum is a numeric literal. Its text is not validated by the lexer.
	TokenNum
	// TokenVar is a variable name.
	TokenVar
	// TokenFunc is the name of a builtin function.
	TokenFunc
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenPow
	TokenOpen
	TokenClose
	TokenAssign
	TokenComma
	// TokenAbs is the | which both opens and closes an absolute value.
	TokenAbs
	// TokenFact is the postfix factorial operator !.
	TokenFact
	// TokenEnd terminates every token sequence.
	TokenEnd
	// TokenPreserve and TokenRemove are the command keywords.
	TokenPreserve
	TokenRemove
)

var tokenKindNames = [...]string{
	TokenNone:     "None",
	TokenNum:      "Num",
	TokenVar:      "Var",
	TokenFunc:     "Func",
	TokenPlus:     "Plus",
	TokenMinus:    "Minus",
	TokenMul:      "Mul",
	TokenDiv:      "Div",
	TokenPow:      "Pow",
	TokenOpen:     "Open",
	TokenClose:    "Close",
	TokenAssign:   "Assign",
	TokenComma:    "Comma",
	TokenAbs:      "Abs",
	TokenFact:     "Fact",
	TokenEnd:      "End",
	TokenPreserve: "Preserve",
	TokenRemove:   "Remove",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// punctuation maps each single-rune token to its kind.
var punctuation = map[rune]TokenKind{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenMul,
	'/': TokenDiv,
	'^': TokenPow,
	'(': TokenOpen,
	')': TokenClose,
	'=': TokenAssign,
	',': TokenComma,
	'|': TokenAbs,
	'!': TokenFact,
}

// Command keywords.
const (
	KeywordPreserve = "preserve"
	KeywordRemove   = "remove"
)

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. The first time EOF is reached,
// the result is an End token with a nil error. Subsequent calls return an
// empty token with io.EOF.
func (l *lexer) next() (Token, error) {
	if l.eof {
		return Token{}, io.EOF
	}
	defer l.buf.Reset()
	tok := Token{Pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.Kind = TokenEnd
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.Pos++
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.Text = l.buf.String()
			tok.Kind = TokenNum
			return tok, nil
		case unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.Text = l.buf.String()
			tok.Kind = identKind(tok.Text)
			return tok, nil
		default:
			if k, ok := punctuation[r]; ok {
				tok.Text = string(r)
				tok.Kind = k
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error()
		}
	}
}

// scanNum scans a maximal run of digits and dots. Whether the result is a
// valid number is decided by the parser.
func (l *lexer) scanNum() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if ('0' <= r && r <= '9') || r == '.' {
			l.buf.WriteRune(r)
			continue
		}
		l.unreadRune()
		return nil
	}
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

// identKind classifies an identifier.
func identKind(name string) TokenKind {
	if _, ok := funcs[name]; ok {
		return TokenFunc
	}
	switch name {
	case KeywordPreserve:
		return TokenPreserve
	case KeywordRemove:
		return TokenRemove
	default:
		return TokenVar
	}
}

func (l *lexer) error() error {
	return &LexError{
		Text: l.buf.String(),
		Col:  l.rune - 1,
	}
}

// Tokenize scans a line of input into tokens. The result always ends with a
// TokenEnd token. The first unrecognized character stops scanning with a
// *LexError.
func Tokenize(src string) ([]Token, error) {
	return TokenizeReader(strings.NewReader(src))
}

// TokenizeReader is like Tokenize, but it scans from a reader until EOF.
func TokenizeReader(src io.RuneScanner) ([]Token, error) {
	scan := lex(src)
	var toks []Token
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEnd {
			return toks, nil
		}
	}
}

// LexError indicates a character that cannot begin any token. It implements
// InputError.
type LexError struct {
	// Text is the unrecognized character.
	Text string
	// Col is the 1-based column of the unrecognized character.
	Col int
}

func (err *LexError) Error() string {
	return "invalid token at column " + strconv.Itoa(err.Col) + ": " + strconv.Quote(err.Text)
}

func (err *LexError) Pos() int {
	return err.Col
}
