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

package testpb_test

import (
	"math"
	"os"
	"testing"

	"go.pbsl.org/pbsl"
	"go.pbsl.org/pbsl/codegen"
	"go.pbsl.org/pbsl/compiler"
	"go.pbsl.org/pbsl/internal/testpb"
	"go.pbsl.org/pbsl/internal/testutil"
	"go.pbsl.org/pbsl/internal/wiretest"
	"go.pbsl.org/pbsl/syntax"
)

func TestGeneratedCodeIsCurrent(t *testing.T) {
	t.Parallel()
	src, err := os.ReadFile("testpb.proto")
	testutil.AssertNoError(t, err)
	file, err := syntax.Parse(syntax.StripComments(src))
	testutil.AssertNoError(t, err)

	result := compiler.Compile([]compiler.Source{{Path: "testpb.proto", File: file}})
	for _, err := range result.Errors {
		testutil.AssertNoError(t, err)
	}
	testutil.ExpectEq(t, 0, len(result.Warnings))

	out, err := codegen.Generate(result.Files[0], codegen.WithPackage("testpb"))
	testutil.AssertNoError(t, err)

	decls, err := os.ReadFile(codegen.DeclarationsName("testpb"))
	testutil.AssertNoError(t, err)
	defs, err := os.ReadFile(codegen.DefinitionsName("testpb"))
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, string(decls), string(out.Declarations))
	testutil.ExpectNoDiff(t, string(defs), string(out.Definitions))
}

func TestDecodePoint(t *testing.T) {
	t.Parallel()
	data := wiretest.New().
		Int32Field(1, 150).
		Int32Field(2, -1).
		Bytes()
	testutil.ExpectEq(t, 14, len(data))

	point, err := pbsl.Decode[testpb.Point](data)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, testpb.Point{X: 150, Y: -1}, *point)
}

func TestDecodePointNegativeInt32(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
	}{
		{"five_byte", []byte{0x08, 0x05, 0x10, 0xFD, 0xFF, 0xFF, 0xFF, 0x0F}},
		{"sign_extended", wiretest.New().Int32Field(1, 5).Int32Field(2, -3).Bytes()},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			point, err := pbsl.Decode[testpb.Point](test.data)
			testutil.AssertNoError(t, err)
			testutil.ExpectEq(t, testpb.Point{X: 5, Y: -3}, *point)
		})
	}
	testutil.ExpectEq(t, 13, len(tests[1].data))
}

func TestDecodeEmptyInput(t *testing.T) {
	t.Parallel()
	point, err := pbsl.Decode[testpb.Point](nil)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, testpb.Point{}, *point)
}

func TestDecodePadding(t *testing.T) {
	t.Parallel()
	data := wiretest.New().
		Int32Field(1, 7).
		Padding().
		Raw(0xDE, 0xAD).
		Bytes()

	var point testpb.Point
	testutil.AssertNoError(t, point.Decode(data))
	testutil.ExpectEq(t, int32(7), point.X)
}

func TestDecodeUnknownField(t *testing.T) {
	t.Parallel()
	data := wiretest.New().
		Int32Field(3, 1).
		Int32Field(1, 2).
		Bytes()

	var point testpb.Point
	err := point.Decode(data)
	testutil.AssertErrorIs(t, err, pbsl.ErrUnknownField)
	testutil.ExpectMatch(t, `unknown field number 3`, err.Error())

	// A tag at the very end of the input is not followed by anything the
	// decoder would have to skip.
	data = wiretest.New().
		Int32Field(1, 2).
		Tag(9, pbsl.VarInt).
		Bytes()
	testutil.AssertNoError(t, point.Decode(data))
}

func TestDecodeWireTypeMismatch(t *testing.T) {
	t.Parallel()
	data := wiretest.New().StringField(1, "x").Bytes()

	var point testpb.Point
	err := point.Decode(data)
	testutil.AssertErrorIs(t, err, pbsl.ErrWireTypeMismatch)
	testutil.ExpectErrorCode[*pbsl.Error](t, 5003, err)
}

func TestDecodeTruncated(t *testing.T) {
	t.Parallel()
	data := wiretest.New().Int32Field(1, 300).Bytes()

	var point testpb.Point
	err := point.Decode(data[:len(data)-1])
	testutil.AssertErrorIs(t, err, pbsl.ErrTruncated)
}

func TestDecodePalette(t *testing.T) {
	t.Parallel()
	data := wiretest.New().
		Int32Field(1, int32(testpb.Color_BLUE)).
		StringField(2, "sky").
		StringField(2, "").
		StringField(2, "ocean").
		Int32Field(3, int32(testpb.Color_GREEN)).
		Int32Field(3, int32(testpb.Color_RED)).
		Int32Field(3, -1).
		Bytes()

	palette, err := pbsl.Decode[testpb.Palette](data)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, testpb.Color_BLUE, palette.Primary)
	testutil.ExpectSliceEq(t, []string{"sky", "", "ocean"}, palette.Names)
	testutil.ExpectSliceEq(t, []testpb.Color{
		testpb.Color_GREEN,
		testpb.Color_RED,
		testpb.Color(-1),
	}, palette.Colors)
}

func TestDecodeSelfReferentialChain(t *testing.T) {
	t.Parallel()

	var link func(b *wiretest.Buffer, depth int32)
	link = func(b *wiretest.Buffer, depth int32) {
		b.Int32Field(1, depth)
		if depth < 5 {
			b.MessageField(2, func(next *wiretest.Buffer) {
				link(next, depth+1)
			})
		}
	}
	buf := wiretest.New()
	link(buf, 1)

	chain, err := pbsl.Decode[testpb.Chain](buf.Bytes())
	testutil.AssertNoError(t, err)

	depth := int32(0)
	for node := chain; node != nil; node = node.Next {
		depth++
		testutil.ExpectEq(t, depth, node.Depth)
	}
	testutil.ExpectEq(t, int32(5), depth)
}

func TestDecodeAllScalars(t *testing.T) {
	t.Parallel()
	raw := []byte{0x00, 0xFF, 0x10}
	data := wiretest.New().
		MessageField(1, func(b *wiretest.Buffer) {
			b.StringField(1, "label").
				Fixed32Field(2, 0xCAFEBABE).
				Fixed64Field(3, uint64(math.MaxUint64)). // -1 as sfixed64
				FloatField(4, 0.5).
				BoolField(5, true).
				VarintField(6, math.MaxUint64).
				Sint64Field(7, math.MinInt64).
				Int64Field(8, -42).
				VarintField(9, math.MaxUint32).
				Fixed64Field(10, 1<<40).
				Fixed32Field(11, uint32(0xFFFFFFFE)). // -2 as sfixed32
				BytesField(12, raw).
				DoubleField(13, math.Pi)
		}).
		MessageField(2, func(b *wiretest.Buffer) {
			b.Int32Field(1, 1).Int32Field(2, 2)
		}).
		MessageField(2, func(b *wiretest.Buffer) {
			b.Int32Field(1, 3).Int32Field(2, 4)
		}).
		Bytes()

	a, err := pbsl.Decode[testpb.A](data)
	testutil.AssertNoError(t, err)

	b := a.Inner
	testutil.ExpectEq(t, "label", b.Label)
	testutil.ExpectEq(t, uint32(0xCAFEBABE), b.Checksum)
	testutil.ExpectEq(t, int64(-1), b.Offset)
	testutil.ExpectEq(t, float32(0.5), b.Ratio)
	testutil.ExpectTrue(t, b.Ok)
	testutil.ExpectEq(t, uint64(math.MaxUint64), b.Big)
	testutil.ExpectEq(t, int64(math.MinInt64), b.Delta)
	testutil.ExpectEq(t, int64(-42), b.Signed)
	testutil.ExpectEq(t, uint32(math.MaxUint32), b.Small)
	testutil.ExpectEq(t, uint64(1<<40), b.Stamp)
	testutil.ExpectEq(t, int32(-2), b.Shift)
	testutil.ExpectBytesEq(t, raw, b.Raw)
	testutil.ExpectEq(t, math.Pi, b.Precise)

	testutil.ExpectSliceEq(t, []testpb.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}, a.Points)
}

func TestDecodeMergesSingularMessage(t *testing.T) {
	t.Parallel()
	data := wiretest.New().
		MessageField(1, func(b *wiretest.Buffer) {
			b.StringField(1, "first").BoolField(5, true)
		}).
		MessageField(1, func(b *wiretest.Buffer) {
			b.StringField(1, "second")
		}).
		Bytes()

	a, err := pbsl.Decode[testpb.A](data)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "second", a.Inner.Label)
	testutil.ExpectTrue(t, a.Inner.Ok)
}

func TestDecodeNestedError(t *testing.T) {
	t.Parallel()
	data := wiretest.New().
		MessageField(2, func(b *wiretest.Buffer) {
			b.Int32Field(7, 1).Int32Field(1, 1)
		}).
		Bytes()

	_, err := pbsl.Decode[testpb.A](data)
	testutil.AssertErrorIs(t, err, pbsl.ErrUnknownField)
}
