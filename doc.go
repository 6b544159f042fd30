// Package calc implements an interactive calculator for real-valued
// arithmetic expressions.
//
// A line of input is scanned by Tokenize, parsed by a Parser into an Expr (and
// possibly an assignment target), and evaluated against an Env holding the
// session's variables. "2^3^2" is "2^(3^2)", "-5!" is "-(5!)", and "|x - 1|"
// is an absolute value. Functions always take bracketed arguments, e.g.
// "sqrt(2)" or "log(8, 2)".
//
// An Env starts with the constants pi, e, deg2rad, and rad2deg. Clear removes
// every variable except those marked with Preserve; "preserve x" and
// "remove x" lines do the same through Exec.
//
package calc
