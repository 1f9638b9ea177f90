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
	"bytes"
	"fmt"
	"strings"
)

type Error struct {
	code    uint32
	message string
	span    Span
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Span() Span {
	return err.span
}

// Render returns the source line containing the error followed by a line
// with a caret under the failing column.
func (err *Error) Render(src []uint8) string {
	pos := int(err.span.start)
	if pos > len(src) {
		pos = len(src)
	}
	lineStart := bytes.LastIndexByte(src[:pos], '\n') + 1
	lineEnd := len(src)
	if idx := bytes.IndexByte(src[pos:], '\n'); idx >= 0 {
		lineEnd = pos + idx
	}
	line := strings.TrimSuffix(string(src[lineStart:lineEnd]), "\r")

	var buf strings.Builder
	buf.WriteString(line)
	buf.WriteByte('\n')
	for _, c := range src[lineStart:pos] {
		// keep tabs so the caret lines up in a terminal
		if c == '\t' {
			buf.WriteByte('\t')
		} else {
			buf.WriteByte(' ')
		}
	}
	buf.WriteByte('^')
	return buf.String()
}

// Line returns the 1-based line and column of the error's start.
func (err *Error) Line(src []uint8) (line, column int) {
	return Position(src, err.span.start)
}

// Position converts a byte offset into a 1-based line and column. Offsets
// past the end of src are clamped.
func Position(src []uint8, offset uint32) (line, column int) {
	pos := int(offset)
	if pos > len(src) {
		pos = len(src)
	}
	line = bytes.Count(src[:pos], []byte{'\n'}) + 1
	column = pos - (bytes.LastIndexByte(src[:pos], '\n') + 1) + 1
	return line, column
}

func errSourceTooLong(srcLen int) error {
	return &Error{
		code: 1000,
		message: fmt.Sprintf(
			"Source file size (%d bytes) exceeds maximum (%d bytes)",
			srcLen, maxSrcLen,
		),
		span: Span{0, maxSrcLen},
	}
}

func errForbiddenControlCharacter(start uint32, c byte) error {
	return &Error{
		code:    1001,
		message: fmt.Sprintf("Forbidden control character U+%04X", c),
		span:    Span{start, 1},
	}
}

func errStringUnterminated(start, tokenLen uint32) *Error {
	return &Error{
		code:    1002,
		message: "Unterminated string literal",
		span:    Span{start, tokenLen},
	}
}

func describeFound(src []uint8, start uint32) (string, Span) {
	kind, token := peekToken(src[start:])
	span := Span{start, uint32(len(token))}
	switch kind {
	case T_EOF:
		return "EOF", span
	case T_STRING, T_OTHER:
		return fmt.Sprintf("%q", token), span
	}
	return fmt.Sprintf("%s %q", kind, token), span
}

func errExpectedSigil(src []uint8, start uint32, want uint8) *Error {
	found, span := describeFound(src, start)
	return &Error{
		code:    2000,
		message: fmt.Sprintf("Expected '%c', found %s", want, found),
		span:    span,
	}
}

func errExpectedKeyword(src []uint8, start uint32, keyword string) *Error {
	found, span := describeFound(src, start)
	return &Error{
		code:    2001,
		message: fmt.Sprintf("Expected keyword %q, found %s", keyword, found),
		span:    span,
	}
}

func errExpectedSymbol(src []uint8, start uint32) *Error {
	found, span := describeFound(src, start)
	return &Error{
		code:    2002,
		message: fmt.Sprintf("Expected symbol, found %s", found),
		span:    span,
	}
}

func errExpectedNumber(src []uint8, start uint32) *Error {
	found, span := describeFound(src, start)
	return &Error{
		code:    2003,
		message: fmt.Sprintf("Expected number, found %s", found),
		span:    span,
	}
}

func errExpectedString(src []uint8, start uint32) *Error {
	found, span := describeFound(src, start)
	return &Error{
		code:    2004,
		message: fmt.Sprintf("Expected string, found %s", found),
		span:    span,
	}
}

func errExpectedValue(src []uint8, start uint32) *Error {
	found, span := describeFound(src, start)
	return &Error{
		code:    2005,
		message: fmt.Sprintf("Expected number, symbol, or string, found %s", found),
		span:    span,
	}
}

func errExpectedDeclaration(src []uint8, start uint32) *Error {
	found, span := describeFound(src, start)
	return &Error{
		code:    2006,
		message: fmt.Sprintf("Expected declaration, found %s", found),
		span:    span,
	}
}

func errNestingTooDeep(src []uint8, start uint32, maxDepth int) *Error {
	_, span := describeFound(src, start)
	return &Error{
		code:    2007,
		message: fmt.Sprintf("Message nesting exceeds maximum depth (%d)", maxDepth),
		span:    span,
	}
}
