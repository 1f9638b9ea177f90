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
	"math"
	"unsafe"
)

// Cursor reads wire-format values from a caller-owned buffer. Every read is
// bounds-checked; reading past the end returns an [ErrTruncated] error.
type Cursor struct {
	buf []uint8
	pos int
	eof bool
}

func NewCursor(buf []uint8) *Cursor {
	return &Cursor{buf: buf}
}

// EOF reports whether the input is exhausted, either because every byte
// has been read or because a padding tag was seen.
func (c *Cursor) EOF() bool {
	return c.eof || c.pos >= len(c.buf)
}

func (c *Cursor) Offset() int {
	return c.pos
}

func (c *Cursor) Remaining() int {
	if c.eof {
		return 0
	}
	return len(c.buf) - c.pos
}

func (c *Cursor) take(n int) ([]uint8, error) {
	if n < 0 || n > len(c.buf)-c.pos {
		return nil, errTruncated(c.pos, n, len(c.buf)-c.pos)
	}
	buf := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return buf, nil
}

// ReadTag reads a one- or two-byte tag. The two-byte word 0xFFFF marks
// end-of-stream padding: the cursor is put at EOF and the zero tag is
// returned.
func (c *Cursor) ReadTag() (Tag, error) {
	start := c.pos
	if c.pos >= len(c.buf) {
		return Tag{}, errTruncated(start, 1, 0)
	}
	b0 := c.buf[c.pos]
	if b0&0x80 == 0 {
		c.pos++
		return Tag{
			Field:  uint32(b0 >> 3),
			Type:   WireType(b0 & 0x7),
			offset: uint32(start),
		}, nil
	}

	if len(c.buf)-c.pos < 2 {
		return Tag{}, errTruncated(start, 2, len(c.buf)-c.pos)
	}
	word := leUint16(c.buf[c.pos:])
	if word == tagPadding {
		c.eof = true
		return Tag{offset: uint32(start)}, nil
	}
	if word&0x8000 != 0 {
		return Tag{}, errTagOutOfRange(start)
	}
	c.pos += 2
	return Tag{
		Field:  uint32(((word & 0x7F) | ((word & 0xFF00) >> 1)) >> 3),
		Type:   WireType(word & 0x7),
		offset: uint32(start),
	}, nil
}

func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadVarint64()
	return int32(v), err
}

func (c *Cursor) ReadInt64() (int64, error) {
	v, err := c.ReadVarint64()
	return int64(v), err
}

func (c *Cursor) ReadUint32() (uint32, error) {
	return c.ReadVarint32()
}

func (c *Cursor) ReadUint64() (uint64, error) {
	return c.ReadVarint64()
}

func (c *Cursor) ReadSint32() (int32, error) {
	v, err := c.ReadVarint32()
	return DecodeZigZag32(v), err
}

func (c *Cursor) ReadSint64() (int64, error) {
	v, err := c.ReadVarint64()
	return DecodeZigZag64(v), err
}

func (c *Cursor) ReadBool() (bool, error) {
	v, err := c.ReadVarint64()
	return v != 0, err
}

// ReadEnum reads an enum value with int32 semantics, accepting both the
// five-byte and the sign-extended ten-byte encodings of negative values.
func (c *Cursor) ReadEnum() (int32, error) {
	return c.ReadInt32()
}

func (c *Cursor) ReadFixed32() (uint32, error) {
	buf, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return leUint32(buf), nil
}

func (c *Cursor) ReadFixed64() (uint64, error) {
	buf, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return leUint64(buf), nil
}

func (c *Cursor) ReadSfixed32() (int32, error) {
	v, err := c.ReadFixed32()
	return int32(v), err
}

func (c *Cursor) ReadSfixed64() (int64, error) {
	v, err := c.ReadFixed64()
	return int64(v), err
}

func (c *Cursor) ReadFloat() (float32, error) {
	v, err := c.ReadFixed32()
	return math.Float32frombits(v), err
}

func (c *Cursor) ReadDouble() (float64, error) {
	v, err := c.ReadFixed64()
	return math.Float64frombits(v), err
}

// ReadLengthDelimited reads a 32-bit varint length and returns exactly that
// many following bytes. The result aliases the cursor's buffer and has its
// capacity clipped, so appending to it never overwrites later input.
func (c *Cursor) ReadLengthDelimited() ([]uint8, error) {
	start := c.pos
	n, err := c.ReadVarint32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(len(c.buf)-c.pos) {
		have := len(c.buf) - c.pos
		c.pos = start
		return nil, errTruncated(start, int(n), have)
	}
	return c.take(int(n))
}

func (c *Cursor) ReadBytes() ([]uint8, error) {
	return c.ReadLengthDelimited()
}

// ReadString returns a string sharing memory with the input buffer.
func (c *Cursor) ReadString() (string, error) {
	buf, err := c.ReadLengthDelimited()
	if err != nil || len(buf) == 0 {
		return "", err
	}
	return unsafe.String(unsafe.SliceData(buf), len(buf)), nil
}
