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

	"go.pbsl.org/pbsl/syntax"
)

type Warning struct {
	code    uint32
	message string
	path    string
	span    syntax.Span
}

func (w *Warning) String() string {
	return fmt.Sprintf("W%d: %s", w.code, w.message)
}

func (w *Warning) Code() uint32 {
	return w.code
}

func (w *Warning) Message() string {
	return w.message
}

func (w *Warning) Path() string {
	return w.path
}

func (w *Warning) Span() syntax.Span {
	return w.span
}

func warnUnresolvedType(typeName, fieldName string, span syntax.Span) *Warning {
	return &Warning{
		code: 4000,
		message: fmt.Sprintf(
			"Type '%s' of field '%s' not found, assuming message",
			typeName, fieldName,
		),
		span: span,
	}
}

// warnOrderNotConverged is reported when sibling ordering hits its swap
// limit. Any two siblings that refer to each other reach it, including
// through repeated fields, since the scan does not look at field labels.
func warnOrderNotConverged(scope string, swaps int) *Warning {
	if scope == "" {
		scope = "top level"
	}
	return &Warning{
		code: 4001,
		message: fmt.Sprintf(
			"Declaration order in %s did not settle after %d swaps",
			scope, swaps,
		),
	}
}
