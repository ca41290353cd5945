package main

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
)

// Arithmetic expression grammar: +, -, *, / with the usual precedence,
// parentheses and unary minus.

type Expression struct {
	Left *Term     `parser:"@@"`
	Rest []*OpTerm `parser:"@@*"`
}

type OpTerm struct {
	Op   string `parser:"@(\"+\" | \"-\")"`
	Term *Term  `parser:"@@"`
}

type Term struct {
	Left *Factor     `parser:"@@"`
	Rest []*OpFactor `parser:"@@*"`
}

type OpFactor struct {
	Op     string  `parser:"@(\"*\" | \"/\")"`
	Factor *Factor `parser:"@@"`
}

type Factor struct {
	Number *float64    `parser:"  @(Float | Int)"`
	Sub    *Expression `parser:"| \"(\" @@ \")\""`
	Neg    *Factor     `parser:"| \"-\" @@"`
}

var exprParser = participle.MustBuild[Expression]()

func (e *Expression) Eval() (float64, error) {
	v, err := e.Left.Eval()
	if err != nil {
		return 0, err
	}
	for _, op := range e.Rest {
		r, err := op.Term.Eval()
		if err != nil {
			return 0, err
		}
		switch op.Op {
		case "+":
			v += r
		case "-":
			v -= r
		}
	}
	return v, nil
}

func (t *Term) Eval() (float64, error) {
	v, err := t.Left.Eval()
	if err != nil {
		return 0, err
	}
	for _, op := range t.Rest {
		r, err := op.Factor.Eval()
		if err != nil {
			return 0, err
		}
		switch op.Op {
		case "*":
			v *= r
		case "/":
			if r == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			v /= r
		}
	}
	return v, nil
}

func (f *Factor) Eval() (float64, error) {
	switch {
	case f.Number != nil:
		return *f.Number, nil
	case f.Sub != nil:
		return f.Sub.Eval()
	case f.Neg != nil:
		v, err := f.Neg.Eval()
		return -v, err
	}
	return 0, fmt.Errorf("empty factor")
}

// evaluate parses and evaluates one expression. This is the computation the
// demo memoizes, keyed by the expression text.
func evaluate(text string) (float64, error) {
	ast, err := exprParser.ParseString("", text)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", text, err)
	}
	return ast.Eval()
}
