// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package syntax

import (
	"fmt"
)

const (
	maxSrcLen = 0x7FFFFFFF // (2**31)-1
)

type TokenKind uint8

const (
	T_EOF TokenKind = iota

	T_SPACE

	T_EQ
	T_SEMICOLON
	T_OPEN_CURL
	T_CLOSE_CURL
	T_OPEN_SQUARE
	T_CLOSE_SQUARE

	T_NUMBER
	T_SYMBOL
	T_STRING

	T_OTHER
)

func (k TokenKind) String() string {
	switch k {
	case T_EOF:
		return "EOF"
	case T_SPACE:
		return "SPACE"
	case T_EQ:
		return "EQ"
	case T_SEMICOLON:
		return "SEMICOLON"
	case T_OPEN_CURL:
		return "OPEN_CURL"
	case T_CLOSE_CURL:
		return "CLOSE_CURL"
	case T_OPEN_SQUARE:
		return "OPEN_SQUARE"
	case T_CLOSE_SQUARE:
		return "CLOSE_SQUARE"
	case T_NUMBER:
		return "NUMBER"
	case T_SYMBOL:
		return "SYMBOL"
	case T_STRING:
		return "STRING"
	case T_OTHER:
		return "OTHER"
	default:
		return fmt.Sprintf("TokenKind(%d)", uint8(k))
	}
}

func sigilKind(c uint8) TokenKind {
	switch c {
	case '=':
		return T_EQ
	case ';':
		return T_SEMICOLON
	case '{':
		return T_OPEN_CURL
	case '}':
		return T_CLOSE_CURL
	case '[':
		return T_OPEN_SQUARE
	case ']':
		return T_CLOSE_SQUARE
	}
	return T_OTHER
}

func isSpace(c uint8) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c uint8) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c uint8) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSymbolChar(c uint8) bool {
	return isLetter(c) || isDigit(c) || c == '_' || c == '.' || c == '(' || c == ')'
}

func checkSource(src []uint8) error {
	if len(src) > maxSrcLen {
		return errSourceTooLong(len(src))
	}
	for ii, c := range src {
		if (c < 0x20 && !isSpace(c)) || c == 0x7F {
			return errForbiddenControlCharacter(uint32(ii), c)
		}
	}
	return nil
}

// The scan functions return the length of the atom at the start of src, or
// zero if src does not begin with one.

func scanSpace(src []uint8) int {
	n := 0
	for n < len(src) && isSpace(src[n]) {
		n++
	}
	return n
}

func scanSymbol(src []uint8) int {
	n := 0
	for n < len(src) && isSymbolChar(src[n]) {
		n++
	}
	return n
}

func scanDigits(src []uint8) int {
	n := 0
	for n < len(src) && isDigit(src[n]) {
		n++
	}
	return n
}

// number = '-'? digit+ ('.' digit+)?
func scanNumber(src []uint8) int {
	n := 0
	if n < len(src) && src[n] == '-' {
		n++
	}
	digits := scanDigits(src[n:])
	if digits == 0 {
		return 0
	}
	n += digits
	if n < len(src) && src[n] == '.' {
		if frac := scanDigits(src[n+1:]); frac > 0 {
			n += 1 + frac
		}
	}
	return n
}

// string = '"' (not '"')+ '"'
//
// A quote with no closing quote returns -1.
func scanString(src []uint8) int {
	if len(src) == 0 || src[0] != '"' {
		return 0
	}
	for ii := 1; ii < len(src); ii++ {
		if src[ii] == '"' {
			if ii == 1 {
				return 0
			}
			return ii + 1
		}
	}
	return -1
}

// peekToken classifies the input at src for diagnostics, preferring the
// same alternatives a field value would.
func peekToken(src []uint8) (TokenKind, []uint8) {
	if len(src) == 0 {
		return T_EOF, nil
	}
	if n := scanSpace(src); n > 0 {
		return T_SPACE, src[:n]
	}
	if n := scanNumber(src); n > 0 {
		return T_NUMBER, src[:n]
	}
	if n := scanSymbol(src); n > 0 {
		return T_SYMBOL, src[:n]
	}
	if n := scanString(src); n > 0 {
		return T_STRING, src[:n]
	}
	return sigilKind(src[0]), src[:1]
}
