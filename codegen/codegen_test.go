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

package codegen_test

import (
	"os"
	"path/filepath"
	"testing"

	"go.pbsl.org/pbsl/codegen"
	"go.pbsl.org/pbsl/compiler"
	"go.pbsl.org/pbsl/internal/testutil"
	"go.pbsl.org/pbsl/schema"
	"go.pbsl.org/pbsl/syntax"
)

func compileOne(t *testing.T, path, src string) *schema.File {
	t.Helper()
	file, err := syntax.Parse([]byte(src))
	testutil.AssertNoError(t, err)
	result := compiler.Compile([]compiler.Source{{Path: path, File: file}})
	for _, err := range result.Errors {
		testutil.ExpectNoError(t, err)
	}
	if len(result.Errors) > 0 {
		t.FailNow()
	}
	return result.Files[0]
}

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	testutil.AssertNoError(t, err)
	return string(data)
}

func TestGenerateGolden(t *testing.T) {
	t.Parallel()
	file := compileOne(t, "shapes.proto", readTestdata(t, "shapes.proto"))

	out, err := codegen.Generate(file, codegen.WithPackage("shapes"))
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, readTestdata(t, "shapes.pbsl.go.golden"), string(out.Declarations))
	testutil.ExpectNoDiff(t, readTestdata(t, "shapes_decode.pbsl.go.golden"), string(out.Definitions))
}

func TestGenerateWithoutMessages(t *testing.T) {
	t.Parallel()
	file := compileOne(t, "enums.proto", "enum E { A = 0; }")

	out, err := codegen.Generate(file)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, out.Definitions == nil)
	testutil.ExpectNoDiff(t, `// Code generated by pbsl. DO NOT EDIT.
// source: enums.proto

package pb

type E int32

const (
	E_A E = 0
)
`, string(out.Declarations))
}

func TestGenerateFieldlessMessages(t *testing.T) {
	t.Parallel()
	file := compileOne(t, "marker.proto", "message Marker { }")

	out, err := codegen.Generate(file, codegen.WithSourcePath("schemas/marker.proto"))
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, `// Code generated by pbsl. DO NOT EDIT.
// source: schemas/marker.proto

package pb

func (m *Marker) Decode(data []byte) error {
	return nil
}
`, string(out.Definitions))
}

func TestGenerateRuntimeImport(t *testing.T) {
	t.Parallel()
	file := compileOne(t, "m.proto", "message M { optional int32 x = 1; }")

	out, err := codegen.Generate(file, codegen.WithRuntimeImport("example.com/wire/runtime"))
	testutil.AssertNoError(t, err)
	testutil.ExpectMatch(t, `(?m)^import pbsl "example.com/wire/runtime"$`, string(out.Declarations))
	testutil.ExpectMatch(t, `(?m)^import pbsl "example.com/wire/runtime"$`, string(out.Definitions))

	out, err = codegen.Generate(file, codegen.WithRuntimeImport("example.com/vendored/pbsl"))
	testutil.AssertNoError(t, err)
	testutil.ExpectMatch(t, `(?m)^import "example.com/vendored/pbsl"$`, string(out.Declarations))
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()
	file := compileOne(t, "m.proto", "message M { optional int32 x = 1; }")
	_, err := codegen.Generate(file, codegen.WithPackage("not-a-package"))
	testutil.AssertError(t, err)
	testutil.ExpectMatch(t, `invalid package name`, err.Error())

	parsed, err := syntax.Parse([]byte("message N { optional Other o = 1; }"))
	testutil.AssertNoError(t, err)
	raw, errs := compiler.Normalize("n.proto", parsed)
	testutil.ExpectEq(t, 0, len(errs))
	_, err = codegen.Generate(raw)
	testutil.AssertError(t, err)
}

func TestArtifactNames(t *testing.T) {
	t.Parallel()
	testutil.ExpectEq(t, "person.pbsl.go", codegen.DeclarationsName("person"))
	testutil.ExpectEq(t, "person_decode.pbsl.go", codegen.DefinitionsName("person"))
}
