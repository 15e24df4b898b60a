package expr

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// CompileError reports a problem found while compiling an expression.
type CompileError struct {
	// Pos is the byte offset of the offending token in the normalized
	// source.
	Pos int

	// Token is the offending token text, if any.
	Token string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("compile expression: %s at offset %d (near %q)", e.Message, e.Pos, e.Token)
	}
	return fmt.Sprintf("compile expression: %s at offset %d", e.Message, e.Pos)
}

// Expr is a compiled expression in the free variable x.
// Compile once, evaluate at any number of points. Expr is immutable and
// safe for concurrent evaluation.
type Expr struct {
	src  string
	root node
}

// Source returns the NFC-normalized source text the expression was
// compiled from.
func (e *Expr) Source() string {
	return e.src
}

// Compile parses src into an evaluable expression.
// Returns a *CompileError identifying the offending token on failure.
func Compile(src string) (*Expr, error) {
	normalized := norm.NFC.String(src)

	toks, err := lex(normalized)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	root, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, &CompileError{
			Pos:     tok.pos,
			Token:   tok.text,
			Message: fmt.Sprintf("dangling input starting at %s", tok.describe()),
		}
	}
	return &Expr{src: normalized, root: root}, nil
}

// parser is a Pratt parser over the token stream.
type parser struct {
	toks []token
	idx  int
}

func (p *parser) peek() token {
	return p.toks[p.idx]
}

func (p *parser) next() token {
	t := p.toks[p.idx]
	if t.kind != tokEOF {
		p.idx++
	}
	return t
}

// Binding powers. Higher binds tighter. Power is right-associative, so
// its right-hand side is parsed at its own level rather than one above.
const (
	bpAdd = 10 // + -
	bpMul = 20 // * /
	bpNeg = 30 // unary minus
	bpPow = 40 // ^
)

func (p *parser) parseExpr(minBP int) (node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		var bp int
		switch op.kind {
		case tokPlus, tokMinus:
			bp = bpAdd
		case tokStar, tokSlash:
			bp = bpMul
		case tokCaret:
			bp = bpPow
		default:
			return left, nil
		}
		if bp < minBP {
			return left, nil
		}
		p.next()

		nextBP := bp + 1
		if op.kind == tokCaret {
			nextBP = bp // right-associative
		}
		right, err := p.parseExpr(nextBP)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op.kind, left: left, right: right}
	}
}

func (p *parser) parsePrefix() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return &numberNode{val: tok.num}, nil

	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(tok)
		}
		return p.parseName(tok)

	case tokMinus:
		operand, err := p.parseExpr(bpNeg)
		if err != nil {
			return nil, err
		}
		return &negNode{operand: operand}, nil

	case tokPlus:
		// Unary plus is a no-op.
		return p.parseExpr(bpNeg)

	case tokLParen:
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &CompileError{
				Pos:     closing.pos,
				Token:   closing.text,
				Message: fmt.Sprintf("expected ')', found %s", closing.describe()),
			}
		}
		return inner, nil

	case tokEOF:
		msg := "unexpected end of expression"
		if tok.pos == 0 {
			msg = "empty expression"
		}
		return nil, &CompileError{
			Pos:     tok.pos,
			Message: msg,
		}

	default:
		return nil, &CompileError{
			Pos:     tok.pos,
			Token:   tok.text,
			Message: fmt.Sprintf("unexpected %s", tok.describe()),
		}
	}
}

// parseName resolves a bare identifier: the free variable or a constant.
func (p *parser) parseName(tok token) (node, error) {
	if tok.text == "x" {
		return &varNode{}, nil
	}
	if val, ok := constants[tok.text]; ok {
		return &numberNode{val: val}, nil
	}
	if _, ok := functions[tok.text]; ok {
		return nil, &CompileError{
			Pos:     tok.pos,
			Token:   tok.text,
			Message: fmt.Sprintf("%s is a function and needs arguments", tok.text),
		}
	}
	return nil, &CompileError{
		Pos:     tok.pos,
		Token:   tok.text,
		Message: fmt.Sprintf("unknown identifier %q (the variable is x)", tok.text),
	}
}

// parseCall parses a function application. The opening parenthesis has
// been peeked but not consumed.
func (p *parser) parseCall(name token) (node, error) {
	fn, ok := functions[name.text]
	if !ok {
		return nil, &CompileError{
			Pos:     name.pos,
			Token:   name.text,
			Message: fmt.Sprintf("unknown function %q", name.text),
		}
	}
	p.next() // consume '('

	var args []node
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if closing := p.next(); closing.kind != tokRParen {
		return nil, &CompileError{
			Pos:     closing.pos,
			Token:   closing.text,
			Message: fmt.Sprintf("expected ')' closing call to %s, found %s", name.text, closing.describe()),
		}
	}
	if len(args) != fn.arity {
		return nil, &CompileError{
			Pos:     name.pos,
			Token:   name.text,
			Message: fmt.Sprintf("%s takes %d argument(s), got %d", name.text, fn.arity, len(args)),
		}
	}
	return &callNode{name: name.text, fn: fn, args: args}, nil
}
