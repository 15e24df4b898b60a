package expr

import (
	"fmt"
	"math"
)

// EvalError reports that a compiled expression is undefined at a point.
type EvalError struct {
	// X is the point of evaluation.
	X float64

	// Message describes which subexpression went non-finite.
	Message string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluate expression at x=%g: %s", e.X, e.Message)
}

// Eval evaluates the expression at x.
//
// A non-finite result (NaN or ±Inf, e.g. log of a negative number or
// division by zero) returns an *EvalError rather than the raw float, so
// callers never see partial garbage.
func (e *Expr) Eval(x float64) (float64, error) {
	y := e.root.eval(x)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, &EvalError{X: x, Message: "result is not finite"}
	}
	return y, nil
}

// node is an AST node. eval may return NaN/Inf for points outside the
// expression's domain; the root-level Eval converts those to errors.
type node interface {
	eval(x float64) float64
}

type numberNode struct {
	val float64
}

func (n *numberNode) eval(float64) float64 { return n.val }

type varNode struct{}

func (n *varNode) eval(x float64) float64 { return x }

type negNode struct {
	operand node
}

func (n *negNode) eval(x float64) float64 { return -n.operand.eval(x) }

type binaryNode struct {
	op    tokenKind
	left  node
	right node
}

func (n *binaryNode) eval(x float64) float64 {
	l := n.left.eval(x)
	r := n.right.eval(x)
	switch n.op {
	case tokPlus:
		return l + r
	case tokMinus:
		return l - r
	case tokStar:
		return l * r
	case tokSlash:
		return l / r
	case tokCaret:
		return math.Pow(l, r)
	}
	return math.NaN()
}

type callNode struct {
	name string
	fn   function
	args []node
}

func (n *callNode) eval(x float64) float64 {
	switch n.fn.arity {
	case 1:
		return n.fn.f1(n.args[0].eval(x))
	case 2:
		return n.fn.f2(n.args[0].eval(x), n.args[1].eval(x))
	}
	return math.NaN()
}

// function describes an entry in the fixed function table.
type function struct {
	arity int
	f1    func(float64) float64
	f2    func(float64, float64) float64
}

// constants are the named constants usable in expressions.
var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// functions is the fixed function table. The set is closed: expressions
// cannot call anything outside it.
var functions = map[string]function{
	"sin":   {arity: 1, f1: math.Sin},
	"cos":   {arity: 1, f1: math.Cos},
	"tan":   {arity: 1, f1: math.Tan},
	"asin":  {arity: 1, f1: math.Asin},
	"acos":  {arity: 1, f1: math.Acos},
	"atan":  {arity: 1, f1: math.Atan},
	"exp":   {arity: 1, f1: math.Exp},
	"log":   {arity: 1, f1: math.Log},
	"log2":  {arity: 1, f1: math.Log2},
	"log10": {arity: 1, f1: math.Log10},
	"sqrt":  {arity: 1, f1: math.Sqrt},
	"abs":   {arity: 1, f1: math.Abs},
	"floor": {arity: 1, f1: math.Floor},
	"ceil":  {arity: 1, f1: math.Ceil},
	"pow":   {arity: 2, f2: math.Pow},
	"min":   {arity: 2, f2: math.Min},
	"max":   {arity: 2, f2: math.Max},
}
