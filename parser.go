// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapespec

import "strconv"

// parseDimSpec parses one whitespace-separated chunk of a spec: an
// anonymous, variadic or broadcastable dimension form, or a full arithmetic
// expression.
func parseDimSpec(spec string, chunk span) (DimExpr, *SyntaxError) {
	switch spec[chunk.start] {
	case '_':
		return parseAnonDim(spec, chunk)
	case '*':
		return parseVariadicDim(spec, chunk)
	case '#':
		return parseBroadcastDim(spec, chunk)
	case '.':
		if spec[chunk.start:chunk.end] == "..." {
			return &VariadicDim{Anonymous: true}, nil
		}
		return nil, syntaxErrorf(spec, chunk.start, `unexpected ".", expected "..."`)
	default:
		return parseExprChunk(spec, chunk)
	}
}

// parseAnonDim parses "_" and "_name".
func parseAnonDim(spec string, chunk span) (DimExpr, *SyntaxError) {
	i := chunk.start + 1
	if i == chunk.end {
		return &SingleDim{Anonymous: true}, nil
	}
	name, i, err := scanName(spec, i, chunk.end)
	if err != nil {
		return nil, err
	}
	if err := requireChunkEnd(spec, i, chunk); err != nil {
		return nil, err
	}
	return &SingleDim{Name: name, Anonymous: true}, nil
}

// parseVariadicDim parses "*name", "*_", "*_name" and "*#name".
func parseVariadicDim(spec string, chunk span) (DimExpr, *SyntaxError) {
	i := chunk.start + 1
	if i == chunk.end {
		return nil, syntaxErrorf(spec, i, "expected a dimension name")
	}
	switch spec[i] {
	case '_':
		if i+1 == chunk.end {
			return &VariadicDim{Anonymous: true}, nil
		}
		name, end, err := scanName(spec, i+1, chunk.end)
		if err != nil {
			return nil, err
		}
		if err := requireChunkEnd(spec, end, chunk); err != nil {
			return nil, err
		}
		return &VariadicDim{Name: name, Anonymous: true}, nil
	case '#':
		name, end, err := scanName(spec, i+1, chunk.end)
		if err != nil {
			return nil, err
		}
		if err := requireChunkEnd(spec, end, chunk); err != nil {
			return nil, err
		}
		return &VariadicDim{Name: name, Broadcastable: true}, nil
	default:
		name, end, err := scanName(spec, i, chunk.end)
		if err != nil {
			return nil, err
		}
		if err := requireChunkEnd(spec, end, chunk); err != nil {
			return nil, err
		}
		return &VariadicDim{Name: name}, nil
	}
}

// parseBroadcastDim parses "#name", "#int" and "#*name".
func parseBroadcastDim(spec string, chunk span) (DimExpr, *SyntaxError) {
	i := chunk.start + 1
	if i == chunk.end {
		return nil, syntaxErrorf(spec, i, "expected a dimension name, integer or variadic dimension")
	}
	switch {
	case spec[i] == '*':
		name, end, err := scanName(spec, i+1, chunk.end)
		if err != nil {
			return nil, err
		}
		if err := requireChunkEnd(spec, end, chunk); err != nil {
			return nil, err
		}
		return &VariadicDim{Name: name, Broadcastable: true}, nil
	case isDigit(spec[i]):
		start := i
		for i < chunk.end && isDigit(spec[i]) {
			i++
		}
		value, atoiErr := strconv.Atoi(spec[start:i])
		if atoiErr != nil {
			return nil, syntaxErrorf(spec, start, "integer literal %q out of range", spec[start:i])
		}
		if err := requireChunkEnd(spec, i, chunk); err != nil {
			return nil, err
		}
		return &IntDim{Value: value, Broadcastable: true}, nil
	default:
		name, end, err := scanName(spec, i, chunk.end)
		if err != nil {
			return nil, err
		}
		if err := requireChunkEnd(spec, end, chunk); err != nil {
			return nil, err
		}
		return &SingleDim{Name: name, Broadcastable: true}, nil
	}
}

// parseExprChunk tokenizes and parses one arithmetic-expression chunk,
// requiring the expression to consume the whole chunk.
func parseExprChunk(spec string, chunk span) (DimExpr, *SyntaxError) {
	tokens, err := tokenize(spec, chunk)
	if err != nil {
		return nil, err
	}
	p := &parser{spec: spec, tokens: tokens}
	dim, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.current().kind != tokenEOF {
		return nil, p.unexpected("end of dimension expression")
	}
	return dim, nil
}

// parser is a recursive-descent parser over one expression chunk, with one
// parse function per precedence level (sums < products < unary < powers <
// atoms). Sums and products are right-recursive, so "a-b-c" parses as
// "a-(b-c)".
type parser struct {
	spec   string
	tokens []token
	pos    int
}

func (p *parser) current() token { return p.tokens[p.pos] }

func (p *parser) advance() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

// peek returns the token after the current one, or the final tokenEOF.
func (p *parser) peek() token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

// unexpected reports the current token as unexpected, when want was expected.
func (p *parser) unexpected(want string) *SyntaxError {
	t := p.current()
	if t.kind == tokenEOF {
		return syntaxErrorf(p.spec, t.pos, "unexpected end of spec, expected %s", want)
	}
	return syntaxErrorf(p.spec, t.pos, "unexpected %q, expected %s", t.text, want)
}

// parseExpr parses sums: expr = term | term ("+"|"-") expr.
func (p *parser) parseExpr() (DimExpr, *SyntaxError) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	t := p.current()
	if t.kind == tokenOp && (t.text == "+" || t.text == "-") {
		p.advance()
		right, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &BinaryOpDim{Op: symbolToOperator[t.text], Left: left, Right: right}, nil
	}
	return left, nil
}

// parseTerm parses products: term = unary | unary ("*"|"/"|"//"|"%") term.
func (p *parser) parseTerm() (DimExpr, *SyntaxError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	t := p.current()
	if t.kind == tokenOp {
		switch t.text {
		case "*", "/", "//", "%":
			p.advance()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			return &BinaryOpDim{Op: symbolToOperator[t.text], Left: left, Right: right}, nil
		}
	}
	return left, nil
}

// parseUnary parses prefix negation: unary = power | "-" unary. Only "-" is
// supported, not "+" or "~".
func (p *parser) parseUnary() (DimExpr, *SyntaxError) {
	t := p.current()
	if t.kind == tokenOp && t.text == "-" {
		p.advance()
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NegDim{Child: child}, nil
	}
	return p.parsePower()
}

// parsePower parses exponentiation: power = atom | atom "**" unary.
func (p *parser) parsePower() (DimExpr, *SyntaxError) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	t := p.current()
	if t.kind == tokenOp && t.text == "**" {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &BinaryOpDim{Op: symbolToOperator["**"], Left: left, Right: right}, nil
	}
	return left, nil
}

// parseAtom parses int literals, names, parenthesized expressions and
// function calls. Function names are contextual: "min" followed by "(" is a
// call, anywhere else it is an ordinary dimension name.
func (p *parser) parseAtom() (DimExpr, *SyntaxError) {
	t := p.current()
	switch t.kind {
	case tokenInt:
		p.advance()
		value, err := strconv.Atoi(t.text)
		if err != nil {
			return nil, syntaxErrorf(p.spec, t.pos, "integer literal %q out of range", t.text)
		}
		return &IntDim{Value: value}, nil
	case tokenName:
		if _, isFunc := reducers[t.text]; isFunc && p.peek().kind == tokenOpen {
			return p.parseFuncCall()
		}
		p.advance()
		return &SingleDim{Name: t.text}, nil
	case tokenOpen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.current().kind != tokenClose {
			return nil, p.unexpected(`")"`)
		}
		p.advance()
		return inner, nil
	default:
		return nil, p.unexpected("a dimension expression")
	}
}

// parseFuncCall parses FUNC "(" arg_list ")". The argument list is either a
// single variadic dim ("min(*b)"), at least two expressions ("min(a,b)"), or
// a mix of both ("sum(a,*b)"). A single non-variadic argument ("min(a)") is
// invalid.
func (p *parser) parseFuncCall() (DimExpr, *SyntaxError) {
	name := p.advance() // The function name.
	p.advance()         // The opening parenthesis, already checked by parseAtom.
	var args []DimExpr
	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.current().kind != tokenComma {
			break
		}
		p.advance()
	}
	if p.current().kind != tokenClose {
		return nil, p.unexpected(`"," or ")"`)
	}
	p.advance()
	if len(args) == 1 {
		if _, isVariadic := args[0].(*VariadicDim); !isVariadic {
			return nil, syntaxErrorf(p.spec, name.pos,
				"%s() takes a single variadic argument or at least two arguments", name.text)
		}
	}
	return &FuncDim{Name: name.text, Args: args}, nil
}

// parseArg parses one function-call argument: an expression or a variadic
// dim ("*" NAME).
func (p *parser) parseArg() (DimExpr, *SyntaxError) {
	t := p.current()
	if t.kind == tokenOp && t.text == "*" {
		p.advance()
		nameTok := p.current()
		if nameTok.kind != tokenName {
			return nil, p.unexpected("a dimension name")
		}
		p.advance()
		return &VariadicDim{Name: nameTok.text}, nil
	}
	return p.parseExpr()
}
