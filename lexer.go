// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapespec

import "unicode/utf8"

// tokenKind of the tokens produced by tokenize for expression chunks.
type tokenKind int

const (
	tokenInt tokenKind = iota
	tokenName
	tokenOp
	tokenOpen
	tokenClose
	tokenComma
	tokenEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int // Byte offset into the full spec string.
}

// span is one whitespace-separated dim-spec chunk of a spec string.
type span struct {
	start, end int
}

func isSpace(c byte) bool    { return c == ' ' || c == '\t' }
func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isLetter(c byte) bool   { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isNameChar(c byte) bool { return isLetter(c) || isDigit(c) || c == '_' }

// splitSpec splits a spec into its whitespace-separated dim-spec chunks.
// Dim-specs are separated by runs of spaces and tabs; leading whitespace is
// allowed, trailing whitespace and whitespace-only specs are not. The empty
// spec is valid and has no chunks.
func splitSpec(spec string) ([]span, *SyntaxError) {
	var chunks []span
	i := 0
	for i < len(spec) && isSpace(spec[i]) {
		i++
	}
	if i == len(spec) && len(spec) > 0 {
		return nil, syntaxErrorf(spec, i, "spec contains only whitespace")
	}
	for i < len(spec) {
		start := i
		for i < len(spec) && !isSpace(spec[i]) {
			i++
		}
		chunks = append(chunks, span{start: start, end: i})
		sep := i
		for sep < len(spec) && isSpace(spec[sep]) {
			sep++
		}
		if sep > i && sep == len(spec) {
			return nil, syntaxErrorf(spec, i, "trailing whitespace")
		}
		i = sep
	}
	return chunks, nil
}

// scanName scans a dimension name at spec[i:end]: a letter followed by
// letters, digits or underscores.
func scanName(spec string, i, end int) (name string, newPos int, err *SyntaxError) {
	if i >= end || !isLetter(spec[i]) {
		return "", i, syntaxErrorf(spec, i, "expected a dimension name")
	}
	start := i
	for i < end && isNameChar(spec[i]) {
		i++
	}
	return spec[start:i], i, nil
}

// requireChunkEnd verifies a dim-spec form consumed its whole chunk.
func requireChunkEnd(spec string, i int, chunk span) *SyntaxError {
	if i == chunk.end {
		return nil
	}
	r, _ := utf8.DecodeRuneInString(spec[i:chunk.end])
	return syntaxErrorf(spec, i, "unexpected character %q", r)
}

// tokenize scans one expression chunk into tokens, with positions relative
// to the full spec string. A tokenEOF marking the end of the chunk is always
// appended.
func tokenize(spec string, chunk span) ([]token, *SyntaxError) {
	var tokens []token
	i := chunk.start
	for i < chunk.end {
		c := spec[i]
		switch {
		case isDigit(c):
			start := i
			for i < chunk.end && isDigit(spec[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenInt, text: spec[start:i], pos: start})
		case isLetter(c):
			start := i
			for i < chunk.end && isNameChar(spec[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenName, text: spec[start:i], pos: start})
		case c == '(':
			tokens = append(tokens, token{kind: tokenOpen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenClose, text: ")", pos: i})
			i++
		case c == ',':
			tokens = append(tokens, token{kind: tokenComma, text: ",", pos: i})
			i++
		case c == '+' || c == '-' || c == '%':
			tokens = append(tokens, token{kind: tokenOp, text: string(c), pos: i})
			i++
		case c == '*' || c == '/':
			// Longest match: "**" and "//" win over "*" and "/".
			text := spec[i : i+1]
			if i+1 < chunk.end && spec[i+1] == c {
				text = spec[i : i+2]
			}
			tokens = append(tokens, token{kind: tokenOp, text: text, pos: i})
			i += len(text)
		default:
			r, _ := utf8.DecodeRuneInString(spec[i:chunk.end])
			return nil, syntaxErrorf(spec, i, "unexpected character %q", r)
		}
	}
	tokens = append(tokens, token{kind: tokenEOF, pos: chunk.end})
	return tokens, nil
}
