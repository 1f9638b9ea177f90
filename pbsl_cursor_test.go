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

package pbsl_test

import (
	"math"
	"testing"

	"go.pbsl.org/pbsl"
	"go.pbsl.org/pbsl/internal/testutil"
	"go.pbsl.org/pbsl/internal/wiretest"
)

func TestReadTag(t *testing.T) {
	t.Parallel()

	wireTypes := []pbsl.WireType{
		pbsl.VarInt,
		pbsl.Fixed64,
		pbsl.LengthDelimited,
		pbsl.Fixed32,
	}
	for field := uint32(1); field <= pbsl.MaxFieldNumber; field++ {
		for _, wt := range wireTypes {
			buf := wiretest.AppendTag(nil, field, wt)
			if field < 16 {
				testutil.ExpectEq(t, 1, len(buf))
			} else {
				testutil.ExpectEq(t, 2, len(buf))
			}

			c := pbsl.NewCursor(buf)
			tag, err := c.ReadTag()
			testutil.AssertNoError(t, err)
			testutil.ExpectEq(t, field, tag.Field)
			testutil.ExpectEq(t, wt, tag.Type)
			testutil.ExpectTrue(t, c.EOF())
		}
	}
}

func TestReadTagPadding(t *testing.T) {
	t.Parallel()

	buf := wiretest.New().
		VarintField(1, 7).
		Padding().
		Raw(0x01, 0x02, 0x03).
		Bytes()
	c := pbsl.NewCursor(buf)

	tag, err := c.ReadTag()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, uint32(1), tag.Field)
	_, err = c.ReadVarint64()
	testutil.AssertNoError(t, err)
	testutil.ExpectFalse(t, c.EOF())

	tag, err = c.ReadTag()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, uint32(0), tag.Field)
	testutil.ExpectEq(t, pbsl.VarInt, tag.Type)
	testutil.ExpectTrue(t, c.EOF())
	testutil.ExpectEq(t, 0, c.Remaining())
}

func TestReadTagOutOfRange(t *testing.T) {
	t.Parallel()

	// field 2048, wire type 0
	c := pbsl.NewCursor([]byte{0x80, 0x80})
	_, err := c.ReadTag()
	testutil.AssertErrorIs(t, err, pbsl.ErrTagOutOfRange)
	testutil.ExpectEq(t, 0, c.Offset())
}

func TestReadTagTruncated(t *testing.T) {
	t.Parallel()

	for _, buf := range [][]byte{{}, {0x80}} {
		c := pbsl.NewCursor(buf)
		_, err := c.ReadTag()
		testutil.AssertErrorIs(t, err, pbsl.ErrTruncated)
	}
}

func TestTagExpect(t *testing.T) {
	t.Parallel()

	c := pbsl.NewCursor(wiretest.New().Fixed32Field(3, 1).Bytes())
	tag, err := c.ReadTag()
	testutil.AssertNoError(t, err)
	testutil.ExpectNoError(t, tag.Expect(pbsl.Fixed32))

	err = tag.Expect(pbsl.VarInt)
	testutil.AssertErrorIs(t, err, pbsl.ErrWireTypeMismatch)
	testutil.ExpectEq(t,
		"E5003: field 3 has wire type Fixed32, expected VarInt (offset 0)",
		err.Error(),
	)
}

func TestReadScalars(t *testing.T) {
	t.Parallel()

	buf := wiretest.New().
		Int32Field(1, -3).
		Int64Field(2, math.MinInt64).
		VarintField(3, math.MaxUint32).
		VarintField(4, math.MaxUint64).
		Sint32Field(5, math.MinInt32).
		Sint64Field(6, math.MinInt64).
		BoolField(7, true).
		VarintField(8, 1).
		Fixed32Field(9, 0xDEADBEEF).
		Fixed64Field(10, 0x0123456789ABCDEF).
		Fixed32Field(11, uint32(0xFFFFFFFE)).
		Fixed64Field(12, uint64(0xFFFFFFFFFFFFFFFE)).
		FloatField(13, 1.5).
		DoubleField(14, -2.25).
		StringField(15, "hello").
		BytesField(16, []byte{0x00, 0xFF}).
		Bytes()
	c := pbsl.NewCursor(buf)

	next := func(field uint32, wt pbsl.WireType) {
		t.Helper()
		tag, err := c.ReadTag()
		testutil.AssertNoError(t, err)
		testutil.ExpectEq(t, field, tag.Field)
		testutil.AssertNoError(t, tag.Expect(wt))
	}

	next(1, pbsl.VarInt)
	i32, err := c.ReadInt32()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, int32(-3), i32)

	next(2, pbsl.VarInt)
	i64, err := c.ReadInt64()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, int64(math.MinInt64), i64)

	next(3, pbsl.VarInt)
	u32, err := c.ReadUint32()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, uint32(math.MaxUint32), u32)

	next(4, pbsl.VarInt)
	u64, err := c.ReadUint64()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, uint64(math.MaxUint64), u64)

	next(5, pbsl.VarInt)
	s32, err := c.ReadSint32()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, int32(math.MinInt32), s32)

	next(6, pbsl.VarInt)
	s64, err := c.ReadSint64()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, int64(math.MinInt64), s64)

	next(7, pbsl.VarInt)
	b, err := c.ReadBool()
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, b)

	next(8, pbsl.VarInt)
	enum, err := c.ReadEnum()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, int32(1), enum)

	next(9, pbsl.Fixed32)
	f32, err := c.ReadFixed32()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, uint32(0xDEADBEEF), f32)

	next(10, pbsl.Fixed64)
	f64, err := c.ReadFixed64()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, uint64(0x0123456789ABCDEF), f64)

	next(11, pbsl.Fixed32)
	sf32, err := c.ReadSfixed32()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, int32(-2), sf32)

	next(12, pbsl.Fixed64)
	sf64, err := c.ReadSfixed64()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, int64(-2), sf64)

	next(13, pbsl.Fixed32)
	flt, err := c.ReadFloat()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, float32(1.5), flt)

	next(14, pbsl.Fixed64)
	dbl, err := c.ReadDouble()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, -2.25, dbl)

	next(15, pbsl.LengthDelimited)
	str, err := c.ReadString()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "hello", str)

	next(16, pbsl.LengthDelimited)
	raw, err := c.ReadBytes()
	testutil.AssertNoError(t, err)
	testutil.ExpectBytesEq(t, []byte{0x00, 0xFF}, raw)

	testutil.ExpectTrue(t, c.EOF())
}

func TestReadStringAliasesInput(t *testing.T) {
	t.Parallel()

	buf := wiretest.New().StringField(1, "abc").Bytes()
	c := pbsl.NewCursor(buf)
	_, err := c.ReadTag()
	testutil.AssertNoError(t, err)
	str, err := c.ReadString()
	testutil.AssertNoError(t, err)

	buf[len(buf)-1] = 'z'
	testutil.ExpectEq(t, "abz", str)
}

func TestReadBytesCapacity(t *testing.T) {
	t.Parallel()

	buf := wiretest.New().
		BytesField(1, []byte{1, 2}).
		VarintField(2, 9).
		Bytes()
	c := pbsl.NewCursor(buf)
	_, err := c.ReadTag()
	testutil.AssertNoError(t, err)
	raw, err := c.ReadBytes()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 2, cap(raw))

	_ = append(raw, 0xAA)
	tag, err := c.ReadTag()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, uint32(2), tag.Field)
}

func TestReadLengthDelimitedTruncated(t *testing.T) {
	t.Parallel()

	buf := wiretest.New().Varint(10).Raw(1, 2, 3).Bytes()
	c := pbsl.NewCursor(buf)
	_, err := c.ReadLengthDelimited()
	testutil.AssertErrorIs(t, err, pbsl.ErrTruncated)
	testutil.ExpectEq(t, 0, c.Offset())
}

func TestReadFixedTruncated(t *testing.T) {
	t.Parallel()

	c := pbsl.NewCursor([]byte{1, 2, 3})
	_, err := c.ReadFixed32()
	testutil.AssertErrorIs(t, err, pbsl.ErrTruncated)

	c = pbsl.NewCursor([]byte{1, 2, 3, 4, 5, 6, 7})
	_, err = c.ReadDouble()
	testutil.AssertErrorIs(t, err, pbsl.ErrTruncated)
}

type pair struct {
	a, b uint64
}

func (p *pair) Decode(data []byte) error {
	c := pbsl.NewCursor(data)
	for !c.EOF() {
		tag, err := c.ReadTag()
		if err != nil {
			return err
		}
		switch tag.Field {
		case 1:
			if p.a, err = c.ReadUint64(); err != nil {
				return err
			}
		case 2:
			if p.b, err = c.ReadUint64(); err != nil {
				return err
			}
		default:
			if !c.EOF() {
				return pbsl.UnknownFieldError(tag)
			}
			return nil
		}
	}
	return nil
}

func TestDecode(t *testing.T) {
	t.Parallel()

	got, err := pbsl.Decode[pair](wiretest.New().
		VarintField(1, 300).
		VarintField(2, 1).
		Bytes())
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, pair{300, 1}, *got)

	_, err = pbsl.Decode[pair](wiretest.New().VarintField(3, 1).Bytes())
	testutil.AssertErrorIs(t, err, pbsl.ErrUnknownField)
}
