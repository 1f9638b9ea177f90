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

package pbsl

import (
	"fmt"
)

// Error is a decode failure. Errors compare equal under [errors.Is] when
// their codes match, so callers can test against the exported sentinels.
type Error struct {
	code    uint32
	message string
	offset  uint32
}

var _ error = (*Error)(nil)

var (
	ErrTruncated        = &Error{code: 5000, message: "unexpected end of input"}
	ErrVarintOverflow   = &Error{code: 5001, message: "malformed varint"}
	ErrTagOutOfRange    = &Error{code: 5002, message: "field number out of range"}
	ErrWireTypeMismatch = &Error{code: 5003, message: "wire type mismatch"}
	ErrUnknownField     = &Error{code: 5004, message: "unknown field"}
)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s (offset %d)", err.code, err.message, err.offset)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

// Offset is the position in the input at which decoding failed.
func (err *Error) Offset() uint32 {
	return err.offset
}

func (err *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.code == err.code
}

// UnknownFieldError is returned by generated decoders when a tag names a
// field the message does not declare.
func UnknownFieldError(tag Tag) error {
	return &Error{
		code:    ErrUnknownField.code,
		message: fmt.Sprintf("unknown field number %d (wire type %s)", tag.Field, tag.Type),
		offset:  tag.offset,
	}
}

func errTruncated(offset, want, have int) error {
	return &Error{
		code: ErrTruncated.code,
		message: fmt.Sprintf(
			"unexpected end of input: need %d bytes, have %d",
			want, have,
		),
		offset: uint32(offset),
	}
}

func errVarintOverflow(offset, maxLen int) error {
	return &Error{
		code:    ErrVarintOverflow.code,
		message: fmt.Sprintf("varint exceeds %d bytes", maxLen),
		offset:  uint32(offset),
	}
}

func errTagOutOfRange(offset int) error {
	return &Error{
		code: ErrTagOutOfRange.code,
		message: fmt.Sprintf(
			"tag encodes a field number above %d",
			MaxFieldNumber,
		),
		offset: uint32(offset),
	}
}

func errWireTypeMismatch(tag Tag, want WireType) error {
	return &Error{
		code: ErrWireTypeMismatch.code,
		message: fmt.Sprintf(
			"field %d has wire type %s, expected %s",
			tag.Field, tag.Type, want,
		),
		offset: tag.offset,
	}
}
