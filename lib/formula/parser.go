package formula

import (
	"fmt"
	"strconv"
	"unicode"
)

// The accepted grammar is deliberately tiny: decimal numbers, named
// variables, the four arithmetic operators and parentheses. Formulas are
// supplied by class managers, so everything else is rejected at parse time.
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = "-" unary | primary
//	primary = number | variable | "(" expr ")"

type parser struct {
	input []rune
	pos   int
}

func parse(input string) (node, error) {
	p := &parser{input: []rune(input)}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidFormula, string(p.input[p.pos]), p.pos)
	}
	return root, nil
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *parser) peek() (rune, bool) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		c, ok := p.peek()
		if !ok || (c != '+' && c != '-') {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: byte(c), left: left, right: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		c, ok := p.peek()
		if !ok || (c != '*' && c != '/') {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: byte(c), left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	c, ok := p.peek()
	if ok && c == '-' {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	c, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of formula", ErrInvalidFormula)
	}

	switch {
	case c == '(':
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c, ok = p.peek()
		if !ok || c != ')' {
			return nil, fmt.Errorf("%w: missing closing parenthesis", ErrInvalidFormula)
		}
		p.pos++
		return inner, nil

	case unicode.IsDigit(c):
		return p.parseNumber()

	case unicode.IsLetter(c) || c == '_':
		return p.parseVariable(), nil

	default:
		return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidFormula, string(c), p.pos)
	}
}

func (p *parser) parseNumber() (node, error) {
	start := p.pos
	seenDot := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
			p.pos++
			continue
		}
		if !unicode.IsDigit(c) {
			break
		}
		p.pos++
	}
	value, err := strconv.ParseFloat(string(p.input[start:p.pos]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad number %q", ErrInvalidFormula, string(p.input[start:p.pos]))
	}
	return &numberNode{value: value}, nil
}

func (p *parser) parseVariable() node {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		p.pos++
	}
	return &variableNode{name: string(p.input[start:p.pos])}
}
