package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/zephyrtronium/calc"
)

// session executes lines against one environment.
type session struct {
	env *calc.Env
	// echo prints the parse tree of each expression before its result.
	echo bool
}

// handle executes one line and writes its output to w. It returns false if
// the line ends the session. A line that fails to execute is reported through
// the error and changes nothing.
func (s *session) handle(w io.Writer, line string) (bool, error) {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return true, nil
	case "exit", "quit":
		return false, nil
	case "help":
		fmt.Fprintln(w, helpText)
		return true, nil
	case "vars":
		for _, v := range s.env.Vars() {
			fmt.Fprintf(w, "%s = %s\n", v.Name, s.env.Format(v.Value))
		}
		return true, nil
	case "preserved":
		fmt.Fprintln(w, strings.Join(s.env.Preserved(), " "))
		return true, nil
	case "clear":
		s.env.Clear()
		fmt.Fprintln(w, "Variables cleared.")
		return true, nil
	}
	if s.echo {
		if e, _, err := calc.Parse(line); err == nil {
			fmt.Fprintf(w, "%v : ", e)
		}
	}
	r, err := s.env.Exec(line)
	if err != nil {
		if s.echo {
			fmt.Fprintln(w)
		}
		return true, err
	}
	switch r.Kind {
	case calc.ResultValue:
		fmt.Fprintf(w, "%s = %s\n", line, s.env.Format(r.Value))
	case calc.ResultAssign:
		fmt.Fprintf(w, "%s = %s\n", r.Name, s.env.Format(r.Value))
	case calc.ResultPreserve:
		fmt.Fprintf(w, "%s = %s preserved\n", r.Name, s.env.Format(r.Value))
	case calc.ResultRemove:
		fmt.Fprintf(w, "%s will be removed on clear\n", r.Name)
	}
	return true, nil
}

// run executes a line and reports any error to w. It returns false if the
// line ends the session; ok is false if the line failed.
func (s *session) run(w io.Writer, line string) (more, ok bool) {
	more, err := s.handle(w, line)
	if err != nil {
		fmt.Fprintln(w, "Error:", err)
		return more, false
	}
	return more, true
}

const helpText = `BASIC OPERATIONS:
  + - * /             arithmetic
  ^                   exponentiation, right associative (2^3^2 = 512)
  !                   factorial (5! = 120)
  ( )                 grouping
  | |                 absolute value

VARIABLES:
  x = 5               assign a value to a variable
  y = x * 2 + 3       use variables in expressions
  preserve x          keep x when variables are cleared
  remove x            stop keeping x

FUNCTIONS:
  sin cos tan         trigonometric functions, in radians
  asin acos atan      inverse trigonometric functions
  exp ln log10        exponential and logarithms
  log(x, b)           logarithm of x in base b
  pow(x, y)           x^y
  sqrt abs fact       square root, absolute value, factorial

COMMANDS:
  help                show this message
  vars                list all variables
  preserved           list preserved variables
  clear               remove all variables that are not preserved
  exit, quit          leave the calculator

CONSTANTS:
  pi e deg2rad rad2deg  preserved unless removed`
