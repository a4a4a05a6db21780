// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package tokenizer turns source text into a token stream: P1 of the
// compiler frontend.
package tokenizer

import (
	"strconv"
	"strings"

	"github.com/hashicorp/gitql/internal/diagnostic"
	"github.com/hashicorp/gitql/internal/scanner"
	"github.com/hashicorp/gitql/internal/token"
)

// Tokenize scans src into an ordered token list, or returns the first
// diagnostic encountered.
func Tokenize(src string) ([]token.Token, *diagnostic.Diagnostic) {
	s := scanner.New(src)
	var tokens []token.Token

	for {
		if diag := skipWhitespaceAndComments(s); diag != nil {
			return nil, diag
		}
		start := s.Off()
		r := s.Shift()

		switch {
		case r == scanner.RuneEOF:
			tokens = append(tokens, token.Token{Kind: token.EOF, Span: span(start, s.Off())})
			return tokens, nil

		case scanner.IsIdentStart(r):
			s.Backup()
			tokens = append(tokens, consumeIdentifier(s))

		case scanner.IsBacktick(r):
			tk, diag := consumeBacktickIdentifier(s, start)
			if diag != nil {
				return nil, diag
			}
			tokens = append(tokens, tk)

		case r == '@':
			tk, diag := consumeGlobalVariable(s, start)
			if diag != nil {
				return nil, diag
			}
			tokens = append(tokens, tk)

		case scanner.IsDigit(r):
			s.Backup()
			tk, diag := consumeNumber(s, start)
			if diag != nil {
				return nil, diag
			}
			tokens = append(tokens, tk)

		case r == '"':
			tk, diag := consumeString(s, start)
			if diag != nil {
				return nil, diag
			}
			tokens = append(tokens, tk)

		default:
			s.Backup()
			tk, diag := consumeSymbol(s, start)
			if diag != nil {
				return nil, diag
			}
			tokens = append(tokens, tk)
		}
	}
}

func span(start, end int) diagnostic.Span { return diagnostic.Span{Start: start, End: end} }

func skipWhitespaceAndComments(s *scanner.Scanner) *diagnostic.Diagnostic {
	for {
		s.Some(scanner.IsSpace)

		if s.PeekN(2) == "--" {
			s.Shift()
			s.Shift()
			for {
				r := s.Shift()
				if r == '\n' || r == scanner.RuneEOF {
					break
				}
			}
			continue
		}

		if s.PeekN(2) == "/*" {
			start := s.Off()
			s.Shift()
			s.Shift()
			closed := false
			for {
				r := s.Shift()
				if r == scanner.RuneEOF {
					break
				}
				if r == '*' && s.Peek() == '/' {
					s.Shift()
					closed = true
					break
				}
			}
			if !closed {
				return diagnostic.Error("C style comment must end with */").
					WithLocation(span(start, s.Off())).
					AddHelp("Add */ at the end of the comment")
			}
			continue
		}
		break
	}
	return nil
}

func consumeIdentifier(s *scanner.Scanner) token.Token {
	start := s.Off()
	s.Some(scanner.IsIdentContinue)
	literal := strings.ToLower(s.Buf(start))
	if kind, ok := token.Keywords[literal]; ok {
		return token.Token{Kind: kind, Literal: literal, Span: span(start, s.Off())}
	}
	return token.Token{Kind: token.Symbol, Literal: literal, Span: span(start, s.Off())}
}

func consumeBacktickIdentifier(s *scanner.Scanner, start int) (token.Token, *diagnostic.Diagnostic) {
	contentStart := s.Off()
	for {
		r := s.Shift()
		if r == scanner.RuneEOF {
			return token.Token{}, diagnostic.Error("Unterminated backticks").
				WithLocation(span(start, s.Off())).
				AddHelp("Add a closing backtick ` at the end of the identifier")
		}
		if r == '`' {
			break
		}
	}
	literal := s.Buf(contentStart)
	literal = strings.TrimSuffix(literal, "`")
	return token.Token{Kind: token.Symbol, Literal: literal, Span: span(start, s.Off())}, nil
}

func consumeGlobalVariable(s *scanner.Scanner, start int) (token.Token, *diagnostic.Diagnostic) {
	if !scanner.IsLetter(s.Peek()) {
		return token.Token{}, diagnostic.Error("Expect Global variable name to start with alphabetic character").
			WithLocation(span(start, s.Off()))
	}
	nameStart := s.Off()
	s.Some(scanner.IsIdentContinue)
	literal := "@" + s.Buf(nameStart)
	return token.Token{Kind: token.GlobalVariable, Literal: literal, Span: span(start, s.Off())}, nil
}

func consumeNumber(s *scanner.Scanner, start int) (token.Token, *diagnostic.Diagnostic) {
	switch prefix := s.PeekN(2); prefix {
	case "0x", "0X":
		s.Shift()
		s.Shift()
		return consumeRadixNumber(s, start, scanner.IsHexDigit, 16, "hex", "0x")
	case "0b", "0B":
		s.Shift()
		s.Shift()
		return consumeRadixNumber(s, start, scanner.IsBinaryDigit, 2, "binary", "0b")
	case "0o", "0O":
		s.Shift()
		s.Shift()
		return consumeRadixNumber(s, start, scanner.IsOctalDigit, 8, "octal", "0o")
	}

	s.Some(scanner.IsDigit)
	isFloat := false
	// a lone '.' isn't part of the number (e.g. BETWEEN's `..`); only
	// consume it when a digit follows.
	if next := s.PeekN(2); len(next) == 2 && next[0] == '.' && next[1] >= '0' && next[1] <= '9' {
		s.Shift()
		isFloat = true
		s.Some(scanner.IsDigit)
	}

	literal := s.Buf(start)
	if isFloat {
		return token.Token{Kind: token.Float, Literal: literal, Span: span(start, s.Off())}, nil
	}
	return token.Token{Kind: token.Integer, Literal: literal, Span: span(start, s.Off())}, nil
}

func consumeRadixNumber(s *scanner.Scanner, start int, digit scanner.CheckFn, base int, name, prefix string) (token.Token, *diagnostic.Diagnostic) {
	digitsStart := s.Off()
	s.Some(scanner.Or(digit, scanner.Eq('_')))
	raw := s.Buf(digitsStart)
	digits := strings.ReplaceAll(raw, "_", "")
	if digits == "" {
		return token.Token{}, diagnostic.Error("Missing digits after the %q prefix", prefix).
			WithLocation(span(start, s.Off())).
			AddHelp("Expect at least one " + name + " digit after the prefix " + prefix)
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return token.Token{}, diagnostic.Error("Invalid %s literal %q", name, raw).WithLocation(span(start, s.Off()))
	}
	return token.Token{Kind: token.Integer, Literal: strconv.FormatInt(n, 10), Span: span(start, s.Off())}, nil
}

func consumeString(s *scanner.Scanner, start int) (token.Token, *diagnostic.Diagnostic) {
	contentStart := s.Off()
	for {
		r := s.Shift()
		if r == scanner.RuneEOF {
			return token.Token{}, diagnostic.Error("Unterminated string").
				WithLocation(span(start, s.Off())).
				AddHelp(`Add a closing double quote " at the end of the string`)
		}
		if r == '"' {
			break
		}
	}
	literal := s.Buf(contentStart)
	literal = strings.TrimSuffix(literal, `"`)
	return token.Token{Kind: token.String, Literal: literal, Span: span(start, s.Off())}, nil
}

func consumeSymbol(s *scanner.Scanner, start int) (token.Token, *diagnostic.Diagnostic) {
	r := s.Shift()
	mk := func(k token.Kind, lit string) (token.Token, *diagnostic.Diagnostic) {
		return token.Token{Kind: k, Literal: lit, Span: span(start, s.Off())}, nil
	}

	switch r {
	case '(':
		return mk(token.LeftParen, "(")
	case ')':
		return mk(token.RightParen, ")")
	case ',':
		return mk(token.Comma, ",")
	case ';':
		return mk(token.Semicolon, ";")
	case '+':
		return mk(token.Plus, "+")
	case '-':
		return mk(token.Minus, "-")
	case '*':
		return mk(token.Star, "*")
	case '/':
		return mk(token.Slash, "/")
	case '%':
		return mk(token.Percentage, "%")
	case '^':
		return mk(token.LogicalXor, "^")
	case '.':
		if s.Peek() == '.' {
			s.Shift()
			return mk(token.DotDot, "..")
		}
		return mk(token.Dot, ".")
	case '=':
		if s.Peek() == '=' {
			s.Shift()
			return mk(token.Equal, "==")
		}
		return mk(token.Equal, "=")
	case '!':
		if s.Peek() == '=' {
			s.Shift()
			return mk(token.BangEqual, "!=")
		}
		return mk(token.Bang, "!")
	case ':':
		if s.Peek() == '=' {
			s.Shift()
			return mk(token.ColonEqual, ":=")
		}
		return token.Token{}, diagnostic.Error("Expect `=` after `:`").WithLocation(span(start, s.Off()))
	case '<':
		switch s.Peek() {
		case '=':
			s.Shift()
			if s.Peek() == '>' {
				s.Shift()
				return mk(token.NullSafeEqual, "<=>")
			}
			return mk(token.LessEqual, "<=")
		case '>':
			// quirk: `<>` tokenizes as BangEqual (semantic !=).
			s.Shift()
			return mk(token.BangEqual, "<>")
		case '<':
			s.Shift()
			return mk(token.BitwiseLeftShift, "<<")
		default:
			return mk(token.Less, "<")
		}
	case '>':
		switch s.Peek() {
		case '=':
			s.Shift()
			return mk(token.GreaterEqual, ">=")
		case '>':
			s.Shift()
			return mk(token.BitwiseRightShift, ">>")
		default:
			return mk(token.Greater, ">")
		}
	case '|':
		if s.Peek() == '|' {
			s.Shift()
			return mk(token.LogicalOr, "||")
		}
		return mk(token.BitwiseOr, "|")
	case '&':
		if s.Peek() == '&' {
			s.Shift()
			return mk(token.LogicalAnd, "&&")
		}
		return mk(token.BitwiseAnd, "&")
	default:
		return token.Token{}, diagnostic.Error("Unexpected character %q", string(r)).
			WithLocation(span(start, s.Off()))
	}
}
