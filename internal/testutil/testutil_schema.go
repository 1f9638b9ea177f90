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

package testutil

import (
	"io/fs"
	"regexp"
	"testing"

	"github.com/goccy/go-json"

	"go.pbsl.org/pbsl/syntax"
)

// Diagnostic is an expected compiler error or warning, loaded from a
// testdata JSON file.
type Diagnostic struct {
	Code    uint32
	Message string
	Pattern *regexp.Regexp
	Path    string
	Span    *syntax.Span
}

// Reported is satisfied by compiler errors and warnings.
type Reported interface {
	Code() uint32
	Message() string
	Path() string
	Span() syntax.Span
}

// LoadDiagnostics reads a list of expectations stored under key, for
// example:
//
//	{"errors": [{"code": 3001, "message_pattern": "^Field", "span": {"start": 4, "len": 1}}]}
func LoadDiagnostics(t *testing.T, testdata fs.FS, jsonPath, key string) []*Diagnostic {
	t.Helper()

	jsonData, err := fs.ReadFile(testdata, jsonPath)
	if err != nil {
		t.Fatal(err)
	}

	type rawSpan struct {
		Start uint32 `json:"start"`
		Len   uint32 `json:"len"`
	}
	type rawDiagnostic struct {
		Code    uint32   `json:"code"`
		Message string   `json:"message"`
		Pattern string   `json:"message_pattern"`
		Path    string   `json:"path"`
		Span    *rawSpan `json:"span"`
	}

	var raw map[string][]rawDiagnostic
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		t.Fatal(err)
	}

	var out []*Diagnostic
	for _, item := range raw[key] {
		if item.Code == 0 {
			t.Fatalf("%s: diagnostic has no code", jsonPath)
		}
		diag := &Diagnostic{
			Code:    item.Code,
			Message: item.Message,
			Path:    item.Path,
		}
		if item.Pattern != "" {
			diag.Pattern = regexp.MustCompile(item.Pattern)
		}
		if item.Span != nil {
			span := syntax.NewSpan(item.Span.Start, item.Span.Len)
			diag.Span = &span
		}
		out = append(out, diag)
	}
	return out
}

// ExpectDiagnostics compares reported diagnostics against expectations in
// order. Path and span are only checked when the expectation sets them.
func ExpectDiagnostics[R Reported](t *testing.T, want []*Diagnostic, got []R) {
	t.Helper()
	for ii := 0; ii < max(len(want), len(got)); ii++ {
		if ii >= len(got) {
			t.Errorf("expected diagnostic code %d (%q)", want[ii].Code, want[ii].Message)
			continue
		}
		if ii >= len(want) {
			t.Errorf("unexpected diagnostic %q (code %d)", got[ii].Message(), got[ii].Code())
			continue
		}
		expect, diag := want[ii], got[ii]
		ExpectEq(t, expect.Code, diag.Code())
		if expect.Pattern != nil {
			ExpectMatch(t, expect.Pattern, diag.Message())
		} else if expect.Message != "" {
			ExpectEq(t, expect.Message, diag.Message())
		}
		if expect.Path != "" {
			ExpectEq(t, expect.Path, diag.Path())
		}
		if expect.Span != nil {
			ExpectEq(t, *expect.Span, diag.Span())
		}
	}
}
