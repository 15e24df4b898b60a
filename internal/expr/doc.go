// Package expr compiles textual arithmetic expressions in one free
// variable x into evaluable form.
//
// The grammar covers numbers, the variable x, parentheses, unary +/-,
// the binary operators + - * / ^ (with ^ as right-associative power),
// a fixed table of named functions (sin, cos, exp, log, sqrt, ...), and
// the constants pi and e.
//
// Compile parses the source once into an AST; Eval walks that AST per
// point. Callers that evaluate at many points pay the parse cost once.
// Source text is NFC-normalized before lexing so that equal-looking
// inputs compile and fingerprint identically.
package expr
