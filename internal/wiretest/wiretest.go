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

// Package wiretest builds wire-format payloads for decoder tests.
package wiretest

import (
	"encoding/binary"
	"math"

	"go.pbsl.org/pbsl"
)

// Buffer accumulates an encoded payload. Methods return the receiver so
// fields can be chained.
type Buffer struct {
	buf []byte
}

func New() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Bytes() []byte {
	return b.buf
}

func (b *Buffer) Raw(p ...byte) *Buffer {
	b.buf = append(b.buf, p...)
	return b
}

func (b *Buffer) Tag(field uint32, wt pbsl.WireType) *Buffer {
	b.buf = AppendTag(b.buf, field, wt)
	return b
}

// Padding appends the two-byte end-of-stream sentinel.
func (b *Buffer) Padding() *Buffer {
	b.buf = append(b.buf, 0xFF, 0xFF)
	return b
}

func (b *Buffer) Varint(v uint64) *Buffer {
	b.buf = AppendVarint(b.buf, v)
	return b
}

func (b *Buffer) VarintField(field uint32, v uint64) *Buffer {
	return b.Tag(field, pbsl.VarInt).Varint(v)
}

// Int32Field sign-extends v to 64 bits, as protobuf encoders do.
func (b *Buffer) Int32Field(field uint32, v int32) *Buffer {
	return b.VarintField(field, uint64(int64(v)))
}

func (b *Buffer) Int64Field(field uint32, v int64) *Buffer {
	return b.VarintField(field, uint64(v))
}

func (b *Buffer) Sint32Field(field uint32, v int32) *Buffer {
	return b.VarintField(field, uint64(EncodeZigZag32(v)))
}

func (b *Buffer) Sint64Field(field uint32, v int64) *Buffer {
	return b.VarintField(field, EncodeZigZag64(v))
}

func (b *Buffer) BoolField(field uint32, v bool) *Buffer {
	if v {
		return b.VarintField(field, 1)
	}
	return b.VarintField(field, 0)
}

func (b *Buffer) Fixed32Field(field uint32, v uint32) *Buffer {
	b.Tag(field, pbsl.Fixed32)
	b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
	return b
}

func (b *Buffer) Fixed64Field(field uint32, v uint64) *Buffer {
	b.Tag(field, pbsl.Fixed64)
	b.buf = binary.LittleEndian.AppendUint64(b.buf, v)
	return b
}

func (b *Buffer) FloatField(field uint32, v float32) *Buffer {
	return b.Fixed32Field(field, math.Float32bits(v))
}

func (b *Buffer) DoubleField(field uint32, v float64) *Buffer {
	return b.Fixed64Field(field, math.Float64bits(v))
}

func (b *Buffer) BytesField(field uint32, v []byte) *Buffer {
	b.Tag(field, pbsl.LengthDelimited)
	b.buf = AppendVarint(b.buf, uint64(len(v)))
	b.buf = append(b.buf, v...)
	return b
}

func (b *Buffer) StringField(field uint32, v string) *Buffer {
	return b.BytesField(field, []byte(v))
}

// MessageField encodes a nested message built by fn.
func (b *Buffer) MessageField(field uint32, fn func(*Buffer)) *Buffer {
	nested := New()
	fn(nested)
	return b.BytesField(field, nested.buf)
}

// AppendTag uses the one-byte form for fields 1 to 15 and the two-byte
// form above that. Field numbers above [pbsl.MaxFieldNumber] panic.
func AppendTag(buf []byte, field uint32, wt pbsl.WireType) []byte {
	if field > pbsl.MaxFieldNumber {
		panic("wiretest: field number out of range")
	}
	v := field<<3 | uint32(wt&0x7)
	if field < 16 {
		return append(buf, byte(v))
	}
	return append(buf, byte(v&0x7F)|0x80, byte(v>>7))
}

func AppendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

func EncodeZigZag32(v int32) uint32 {
	return uint32(v<<1) ^ uint32(v>>31)
}

func EncodeZigZag64(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}
