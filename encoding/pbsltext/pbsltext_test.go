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

package pbsltext_test

import (
	"errors"
	"testing"

	"go.pbsl.org/pbsl/encoding/pbsltext"
	"go.pbsl.org/pbsl/internal/testutil"
	"go.pbsl.org/pbsl/schema"
)

func TestEncode(t *testing.T) {
	t.Parallel()
	file := &schema.File{
		Name: "misc",
		Path: "dir/misc.proto",
		Imports: []*schema.Import{
			{File: "google/protobuf/any.proto"},
			{File: "other.proto"},
		},
		Options: []schema.Option{
			{Name: "go_package", Value: "a \"b\"\tc", ValueKind: schema.ValueString},
			{Name: "optimize_for", Value: "SPEED", ValueKind: schema.ValueSymbol},
		},
		Enums: []*schema.Enum{{
			Name:       "Mode",
			NativeName: "Mode",
			Values: []*schema.Field{
				{Name: "ON", Number: "1", NativeName: "Mode_ON"},
				{
					Name:       "ALSO_ON",
					Number:     "ON",
					NativeName: "Mode_ALSO_ON",
					Options:    []schema.Option{{Name: "deprecated", Value: "true", ValueKind: schema.ValueSymbol}},
				},
			},
		}},
		Messages: []*schema.Message{{
			Name:       "Empty",
			NativeName: "Empty",
		}},
		Extends: []*schema.Extend{{
			Name: "Empty",
			Fields: []*schema.Field{{
				Type:   schema.Type{Kind: schema.KindLookup, Name: "Mode"},
				Name:   "mode",
				Number: "100",
			}},
		}},
	}

	want := `file misc path="dir/misc.proto" {
	import "google/protobuf/any.proto" core
	import "other.proto"
	option go_package = "a \"b\"\tc"
	option optimize_for = SPEED
	enum Mode native=Mode {
		value ON = 1 native=Mode_ON
		value ALSO_ON = ON native=Mode_ALSO_ON [deprecated = true]
	}
	message Empty native=Empty {
	}
	extend Empty {
		field mode = 100 lookup Mode
	}
}
`
	testutil.ExpectNoDiff(t, want, pbsltext.Encode(file))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEncodeToError(t *testing.T) {
	t.Parallel()
	err := pbsltext.EncodeTo(failingWriter{}, &schema.File{Name: "a"})
	testutil.AssertError(t, err)
	testutil.ExpectEq(t, "disk full", err.Error())
}
