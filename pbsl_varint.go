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

// ReadVarint32 reads at most five base-128 groups. Bits beyond the low 32
// are discarded.
func (c *Cursor) ReadVarint32() (uint32, error) {
	v, err := c.readVarint(maxVarint32Len)
	return uint32(v), err
}

// ReadVarint64 reads at most ten base-128 groups.
func (c *Cursor) ReadVarint64() (uint64, error) {
	return c.readVarint(maxVarint64Len)
}

func (c *Cursor) readVarint(maxLen int) (uint64, error) {
	start := c.pos
	var v uint64
	for ii := 0; ii < maxLen; ii++ {
		if c.pos >= len(c.buf) {
			have := c.pos - start
			c.pos = start
			return 0, errTruncated(start, have+1, have)
		}
		b := c.buf[c.pos]
		c.pos++
		v |= uint64(b&0x7F) << (7 * ii)
		if b&0x80 == 0 {
			return v, nil
		}
	}
	c.pos = start
	return 0, errVarintOverflow(start, maxLen)
}

func DecodeZigZag32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

func DecodeZigZag64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}
