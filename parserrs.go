package calc

import (
	"errors"
	"strconv"
)

// SyntaxError is an error indicating a token that does not fit the grammar at
// its position. It implements InputError.
type SyntaxError struct {
	// Col is the position of the token.
	Col int
	// Token is the text of the offending token, if any.
	Token string
	// Msg describes what was expected.
	Msg string
}

func (err *SyntaxError) Error() string {
	if err.Msg == "" {
		return errpos(err.Col, "unexpected token "+strconv.Quote(err.Token))
	}
	return errpos(err.Col, err.Msg)
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// BracketError is an error indicating a parenthesis or absolute value bar
// with no closing partner. It implements InputError.
type BracketError struct {
	// Col is the position of the token found instead of the close bracket.
	Col int
	// Left is the opening bracket.
	Left string
	// Right is the token found instead of the closing bracket, or the empty
	// string at the end of input.
	Right string
}

func (err *BracketError) Error() string {
	want := closer(err.Left)
	if err.Right == "" {
		return errpos(err.Col, "expected closing "+want+" at end")
	}
	return errpos(err.Col, "expected closing "+want+", not "+strconv.Quote(err.Right))
}

func (err *BracketError) Pos() int {
	return err.Col
}

func closer(left string) string {
	if left == "(" {
		return ")"
	}
	return left
}

// CallError is an error indicating a function call that is not shaped as
// name(arg) or name(arg, arg). It implements InputError.
type CallError struct {
	// Col is the position of the token where the call went wrong.
	Col int
	// Func is the function name that was called.
	Func string
	// Want is the token that was expected.
	Want string
}

func (err *CallError) Error() string {
	return errpos(err.Col, "expected "+err.Want+" in call to "+err.Func)
}

func (err *CallError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating a missing subexpression, as in
// "2 +" or "()". It implements InputError.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression, or the empty string at
	// the end of input.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// NumberError is an error indicating a numeric literal that is not a valid
// number, such as "1.2.3". It implements InputError.
type NumberError struct {
	// Col is the position of the literal.
	Col int
	// Text is the literal.
	Text string
}

func (err *NumberError) Error() string {
	return errpos(err.Col, "invalid number "+strconv.Quote(err.Text))
}

func (err *NumberError) Pos() int {
	return err.Col
}

// NameError is an error from a lookup for a variable that is not defined.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// malformed input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*NumberError)(nil)
	_ InputError = (*LexError)(nil)
)

// IsSyntax reports whether err is or wraps an error describing input that does
// not follow the grammar: a *SyntaxError, *BracketError, *CallError, or
// *EmptyExpressionError.
func IsSyntax(err error) bool {
	var (
		s *SyntaxError
		b *BracketError
		c *CallError
		e *EmptyExpressionError
	)
	return errors.As(err, &s) || errors.As(err, &b) || errors.As(err, &c) || errors.As(err, &e)
}
