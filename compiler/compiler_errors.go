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

package compiler

import (
	"fmt"

	"go.pbsl.org/pbsl"
	"go.pbsl.org/pbsl/syntax"
)

type Error struct {
	code    uint32
	message string
	path    string
	span    syntax.Span
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

// Path is the schema file the error was found in.
func (err *Error) Path() string {
	return err.path
}

func (err *Error) Span() syntax.Span {
	return err.span
}

func errDuplicateSymbol(name, prevPath string, span syntax.Span) *Error {
	return &Error{
		code:    3000,
		message: fmt.Sprintf("Type '%s' is already declared in %q", name, prevPath),
		span:    span,
	}
}

func errInvalidFieldNumber(name, number string, span syntax.Span) *Error {
	return &Error{
		code: 3001,
		message: fmt.Sprintf(
			"Field '%s' has invalid number %s (must be an integer in [1, %d])",
			name, number, pbsl.MaxFieldNumber,
		),
		span: span,
	}
}

func errUnresolvedType(typeName, fieldName string, span syntax.Span) *Error {
	return &Error{
		code:    3002,
		message: fmt.Sprintf("Type '%s' of field '%s' not found", typeName, fieldName),
		span:    span,
	}
}

func errValueCycle(path []string, span syntax.Span) *Error {
	cycle := path[0]
	for _, name := range path[1:] {
		cycle += " -> " + name
	}
	return &Error{
		code:    3003,
		message: fmt.Sprintf("Message contains itself by value (%s)", cycle),
		span:    span,
	}
}

func errInvalidIdentifier(name, native string, span syntax.Span) *Error {
	return &Error{
		code:    3004,
		message: fmt.Sprintf("Name '%s' does not map to a valid identifier (%q)", name, native),
		span:    span,
	}
}

func errDuplicateFieldName(name, native string, span syntax.Span) *Error {
	return &Error{
		code:    3005,
		message: fmt.Sprintf("Field '%s' conflicts with an earlier field named %q", name, native),
		span:    span,
	}
}

func errDuplicateFieldNumber(name string, tag uint32, span syntax.Span) *Error {
	return &Error{
		code:    3006,
		message: fmt.Sprintf("Field '%s' reuses field number %d", name, tag),
		span:    span,
	}
}

func errInvalidEnumValue(name, value string, span syntax.Span) *Error {
	return &Error{
		code: 3007,
		message: fmt.Sprintf(
			"Enum value '%s' = %s is neither an int32 nor an earlier value name",
			name, value,
		),
		span: span,
	}
}

func errDuplicateEnumValue(name, native, prevPath string, span syntax.Span) *Error {
	return &Error{
		code: 3008,
		message: fmt.Sprintf(
			"Enum value '%s' maps to %q, which is already declared in %q",
			name, native, prevPath,
		),
		span: span,
	}
}
