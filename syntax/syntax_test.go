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

package syntax_test

import (
	"testing"

	"go.pbsl.org/pbsl/internal/testutil"
	"go.pbsl.org/pbsl/syntax"
)

const addressBook = `import "google/protobuf/descriptor.proto";
import "common.proto";

option optimize_for = SPEED;

enum PhoneType {
	MOBILE = 0;
	HOME = 1 [deprecated = true];
	WORK = 2;
}

message Person {
	option (custom.name) = "person";
	required string name = 1;
	optional int32 id = 2 [default = -1];
	REPEATED .common.Email email = 3;

	message PhoneNumber {
		required string number = 1;
		optional PhoneType type = 2;
	}

	repeated PhoneNumber phones = 4;
	Person manager = 5;
}

extend Person {
	optional bool vip = 100;
}
`

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	file, err := syntax.Parse([]byte(addressBook))
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, addressBook, syntax.Unparse(file))

	span := file.Span()
	testutil.ExpectEq(t, uint32(0), span.Start())
	testutil.ExpectEq(t, uint32(len(addressBook)), span.Len())
}

func TestParseDecls(t *testing.T) {
	t.Parallel()

	file, err := syntax.Parse([]byte(addressBook))
	testutil.AssertNoError(t, err)

	var kinds []string
	for decl := range file.Decls() {
		switch decl := decl.(type) {
		case *syntax.Import:
			kinds = append(kinds, "import:"+decl.Path().Text())
		case *syntax.Option:
			kinds = append(kinds, "option:"+decl.Name().Text())
		case *syntax.Enum:
			kinds = append(kinds, "enum:"+decl.Name().Text())
		case *syntax.Message:
			kinds = append(kinds, "message:"+decl.Name().Text())
		case *syntax.Extend:
			kinds = append(kinds, "extend:"+decl.Name().Text())
		}
	}
	testutil.ExpectSliceEq(t, []string{
		"import:google/protobuf/descriptor.proto",
		"import:common.proto",
		"option:optimize_for",
		"enum:PhoneType",
		"message:Person",
		"extend:Person",
	}, kinds)
}

func TestParseEnum(t *testing.T) {
	t.Parallel()

	enum, err := syntax.NewParseOptions().ParseEnum([]byte(
		"enum PhoneType { MOBILE = 0; HOME = 1 [deprecated = true]; }",
	))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "PhoneType", enum.Name().Text())

	values := enum.Values()
	if len(values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(values))
	}
	testutil.ExpectEq(t, "MOBILE", values[0].Name().Text())
	testutil.ExpectEq(t, "0", values[0].Value().Text())
	testutil.ExpectEq(t, syntax.ValueNumber, values[0].Value().Kind())
	testutil.ExpectTrue(t, values[0].Option() == nil)

	opt := values[1].Option()
	testutil.ExpectEq(t, "deprecated", opt.Name().Text())
	testutil.ExpectEq(t, "true", opt.Value().Text())
	testutil.ExpectEq(t, syntax.ValueSymbol, opt.Value().Kind())
}

func TestParseField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src    string
		rule   string
		typ    string
		name   string
		number string
		option string
	}{
		{"int32 x = 1;", "", "int32", "x", "1", ""},
		{"optional int32 id = 2 [default = -1];", "optional", "int32", "id", "2", "default"},
		{"REPEATED .common.Email email=3;", "REPEATED", ".common.Email", "email", "3", ""},
		{"required\tstring\nname = 10 ;", "required", "string", "name", "10", ""},
		{"optionalFoo bar = 4;", "", "optionalFoo", "bar", "4", ""},
	}
	for _, test := range tests {
		field, err := syntax.NewParseOptions().ParseField([]byte(test.src))
		testutil.AssertNoError(t, err)
		if test.rule == "" {
			testutil.ExpectTrue(t, field.Rule() == nil)
		} else {
			testutil.ExpectEq(t, test.rule, field.Rule().Get())
		}
		testutil.ExpectEq(t, test.typ, field.Type().Text())
		testutil.ExpectEq(t, test.name, field.Name().Text())
		testutil.ExpectEq(t, test.number, field.Number().Text())
		if test.option == "" {
			testutil.ExpectTrue(t, field.Option() == nil)
		} else {
			testutil.ExpectEq(t, test.option, field.Option().Name().Text())
		}
	}
}

func TestParseValueKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		kind syntax.ValueKind
		text string
	}{
		{"option a = 1.5;", syntax.ValueNumber, "1.5"},
		{"option a = -3;", syntax.ValueNumber, "-3"},
		{"option a = SPEED;", syntax.ValueSymbol, "SPEED"},
		{`option a = "x y";`, syntax.ValueString, "x y"},
	}
	for _, test := range tests {
		opt, err := syntax.NewParseOptions().ParseOption([]byte(test.src))
		testutil.AssertNoError(t, err)
		testutil.ExpectEq(t, test.kind, opt.Value().Kind())
		testutil.ExpectEq(t, test.text, opt.Value().Text())
	}
}

func TestParseMessageBacktracking(t *testing.T) {
	t.Parallel()

	// "message" and "enum" are valid type names when the declaration
	// alternative fails.
	msg, err := syntax.NewParseOptions().ParseMessage([]byte(
		"message M { message m = 1; enum e = 2; option o = 3; option x = y; }",
	))
	testutil.AssertNoError(t, err)

	var got []string
	for decl := range msg.Decls() {
		switch decl := decl.(type) {
		case *syntax.Field:
			got = append(got, "field:"+decl.Type().Text()+":"+decl.Name().Text())
		case *syntax.Option:
			got = append(got, "option:"+decl.Name().Text())
		}
	}
	testutil.ExpectSliceEq(t, []string{
		"field:message:m",
		"field:enum:e",
		"option:o",
		"option:x",
	}, got)
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"", "  \n\t\r\n"} {
		file, err := syntax.Parse([]byte(src))
		testutil.AssertNoError(t, err)
		count := 0
		for range file.Decls() {
			count++
		}
		testutil.ExpectEq(t, 0, count)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		code    uint32
		message string
		start   uint32
	}{
		{
			name:    "missing semicolon",
			src:     "message A {\n\tint32 x = 1\n}\n",
			code:    2000,
			message: "Expected ';', found CLOSE_CURL \"}\"",
			start:   25,
		},
		{
			name:    "missing field number",
			src:     "message A { int32 x = ; }",
			code:    2003,
			message: "Expected number, found SEMICOLON \";\"",
			start:   22,
		},
		{
			name:    "unknown declaration",
			src:     "message A {}\nservice S {}\n",
			code:    2006,
			message: "Expected declaration, found SYMBOL \"service\"",
			start:   13,
		},
		{
			name:    "empty enum",
			src:     "enum E {}",
			code:    2002,
			message: "Expected symbol, found CLOSE_CURL \"}\"",
			start:   8,
		},
		{
			name:    "unterminated string",
			src:     "import \"a.proto;\n",
			code:    1002,
			message: "Unterminated string literal",
			start:   7,
		},
		{
			name:    "unclosed message",
			src:     "message A { int32 x = 1;",
			code:    2000,
			message: "Expected '}', found EOF",
			start:   24,
		},
		{
			name:    "two field options",
			src:     "message A { int32 x = 1 [a = 1] [b = 2]; }",
			code:    2000,
			message: "Expected ';', found OPEN_SQUARE \"[\"",
			start:   32,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := syntax.Parse([]byte(test.src))
			testutil.AssertError(t, err)
			parseErr := err.(*syntax.Error)
			testutil.ExpectEq(t, test.code, parseErr.Code())
			testutil.ExpectEq(t, test.message, parseErr.Message())
			span := parseErr.Span()
			testutil.ExpectEq(t, test.start, span.Start())
		})
	}
}

func TestErrorRender(t *testing.T) {
	t.Parallel()

	src := []byte("message A {\n\tint32 x = 1\n}\n")
	_, err := syntax.Parse(src)
	testutil.AssertError(t, err)
	parseErr := err.(*syntax.Error)

	testutil.ExpectEq(t, "}\n^", parseErr.Render(src))
	line, column := parseErr.Line(src)
	testutil.ExpectEq(t, 3, line)
	testutil.ExpectEq(t, 1, column)

	src = []byte("message A {\n\tint32 x = ;\n}\n")
	_, err = syntax.Parse(src)
	testutil.AssertError(t, err)
	testutil.ExpectEq(t, "\tint32 x = ;\n\t          ^", err.(*syntax.Error).Render(src))
}

func TestMaxDepth(t *testing.T) {
	t.Parallel()

	src := []byte("message A { message B { message C { } } }")
	_, err := syntax.Parse(src, syntax.MaxDepth(3))
	testutil.AssertNoError(t, err)

	_, err = syntax.Parse(src, syntax.MaxDepth(2))
	testutil.AssertError(t, err)
	testutil.ExpectEq(t, uint32(2007), err.(*syntax.Error).Code())
}

func TestWalk(t *testing.T) {
	t.Parallel()

	file, err := syntax.Parse([]byte(addressBook))
	testutil.AssertNoError(t, err)

	var fields []string
	syntax.Walk(file, func(node syntax.Node) bool {
		if field, ok := node.(*syntax.Field); ok {
			fields = append(fields, field.Name().Text())
		}
		return true
	})
	testutil.ExpectSliceEq(t, []string{
		"name", "id", "email", "number", "type", "phones", "manager", "vip",
	}, fields)
}

func TestParseTree(t *testing.T) {
	t.Parallel()
	file, err := syntax.Parse([]byte("message A {\n\tint32 x = 1;\n}\n"))
	testutil.AssertNoError(t, err)

	expect := `file 0+28
	message 0+27
		keyword 0+7 "message"
		space 7+1 " "
		symbol 8+1 "A"
		space 9+1 " "
		sigil 10+1 "{"
		space 11+2 "\n\t"
		field 13+12
			symbol 13+5 "int32"
			space 18+1 " "
			symbol 19+1 "x"
			space 20+1 " "
			sigil 21+1 "="
			space 22+1 " "
			number 23+1 "1"
			sigil 24+1 ";"
		space 25+1 "\n"
		sigil 26+1 "}"
	space 27+1 "\n"
`
	testutil.ExpectNoDiff(t, expect, testutil.DumpTree(file))
}
