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

// Package pbsl is the runtime support library linked by generated decoders.
//
// Decoded string and []byte fields alias the input buffer. The buffer must
// not be modified while a decoded value is in use.
package pbsl

import (
	"encoding/binary"
	"fmt"
)

const (
	// MaxFieldNumber is the largest field number a two-byte tag can carry.
	MaxFieldNumber uint32 = 2047

	maxVarint32Len = 5
	maxVarint64Len = 10

	tagPadding uint16 = 0xFFFF
)

type WireType uint8

const (
	VarInt          WireType = 0
	Fixed64         WireType = 1
	LengthDelimited WireType = 2
	StartGroup      WireType = 3
	EndGroup        WireType = 4
	Fixed32         WireType = 5
)

func (wt WireType) String() string {
	switch wt {
	case VarInt:
		return "VarInt"
	case Fixed64:
		return "Fixed64"
	case LengthDelimited:
		return "LengthDelimited"
	case StartGroup:
		return "StartGroup"
	case EndGroup:
		return "EndGroup"
	case Fixed32:
		return "Fixed32"
	default:
		return fmt.Sprintf("WireType(%d)", uint8(wt))
	}
}

// Tag is the (field number, wire type) pair prefixing each encoded field.
type Tag struct {
	Field uint32
	Type  WireType

	offset uint32
}

// Expect reports a wire type mismatch if the tag's type is not wt.
func (t Tag) Expect(wt WireType) error {
	if t.Type == wt {
		return nil
	}
	return errWireTypeMismatch(t, wt)
}

// Offset returns the position of the tag's first byte in the input.
func (t Tag) Offset() uint32 {
	return t.offset
}

// Decoder is implemented by every generated message type.
type Decoder interface {
	Decode(data []byte) error
}

// Decode allocates a T and decodes data into it.
func Decode[T any, PtrT interface {
	*T
	Decoder
}](data []byte) (*T, error) {
	msg := PtrT(new(T))
	if err := msg.Decode(data); err != nil {
		return nil, err
	}
	return (*T)(msg), nil
}

func leUint32(buf []uint8) uint32 {
	return binary.LittleEndian.Uint32(buf)
}

func leUint64(buf []uint8) uint64 {
	return binary.LittleEndian.Uint64(buf)
}

func leUint16(buf []uint8) uint16 {
	return binary.LittleEndian.Uint16(buf)
}
