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

// Package codegen renders compiled schema files as Go source. Each file
// becomes a declaration artifact holding types and a definition artifact
// holding their Decode methods. Every file of one batch is generated into
// the same Go package, so cross-file references need no Go import.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"path"
	"path/filepath"
	"strings"

	"go.pbsl.org/pbsl/schema"
)

const (
	defaultPackage       = "pb"
	defaultRuntimeImport = "go.pbsl.org/pbsl"
)

type GenerateOption interface {
	apply(*GenerateOptions)
}

type generateOption func(*GenerateOptions)

func (f generateOption) apply(opts *GenerateOptions) { f(opts) }

type GenerateOptions struct {
	pkg           string
	runtimeImport string
	sourcePath    string
}

// WithPackage sets the Go package clause of generated files.
func WithPackage(name string) GenerateOption {
	return generateOption(func(opts *GenerateOptions) {
		opts.pkg = name
	})
}

// WithRuntimeImport sets the import path of the runtime library.
func WithRuntimeImport(importPath string) GenerateOption {
	return generateOption(func(opts *GenerateOptions) {
		opts.runtimeImport = importPath
	})
}

// WithSourcePath overrides the schema path named in the generated header.
func WithSourcePath(sourcePath string) GenerateOption {
	return generateOption(func(opts *GenerateOptions) {
		opts.sourcePath = sourcePath
	})
}

func NewGenerateOptions(opts ...GenerateOption) *GenerateOptions {
	generateOptions := &GenerateOptions{
		pkg:           defaultPackage,
		runtimeImport: defaultRuntimeImport,
	}
	for _, opt := range opts {
		opt.apply(generateOptions)
	}
	return generateOptions
}

// Output holds the generated artifacts of one schema file. Definitions is
// nil when the file declares no messages.
type Output struct {
	Declarations []byte
	Definitions  []byte
}

// DeclarationsName is the file name of the declaration artifact for a
// schema file with the given base name.
func DeclarationsName(base string) string {
	return base + ".pbsl.go"
}

// DefinitionsName is the file name of the definition artifact for a schema
// file with the given base name.
func DefinitionsName(base string) string {
	return base + "_decode.pbsl.go"
}

func Generate(file *schema.File, opts ...GenerateOption) (*Output, error) {
	return NewGenerateOptions(opts...).Generate(file)
}

func (opts *GenerateOptions) Generate(file *schema.File) (*Output, error) {
	if !token.IsIdentifier(opts.pkg) {
		return nil, fmt.Errorf("codegen: invalid package name %q", opts.pkg)
	}
	if err := checkResolved(file); err != nil {
		return nil, err
	}

	g := &generator{opts: opts, file: file}
	decls, err := g.render(DeclarationsName(file.Name), g.declarations)
	if err != nil {
		return nil, err
	}
	out := &Output{Declarations: decls}
	if len(file.Messages) > 0 {
		out.Definitions, err = g.render(DefinitionsName(file.Name), g.definitions)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// checkResolved rejects IR that has not been through the compiler.
func checkResolved(file *schema.File) error {
	for msg := range file.AllMessages() {
		if msg.NativeName == "" {
			return fmt.Errorf("codegen: message %q has no native name", msg.Name)
		}
		for _, field := range msg.Fields {
			if field.Type.Kind == schema.KindLookup || field.Type.Kind == schema.KindInvalid {
				return fmt.Errorf(
					"codegen: field %q of message %q has unresolved type %q",
					field.Name, msg.Name, field.Type.Name,
				)
			}
		}
	}
	return nil
}

type generator struct {
	opts   *GenerateOptions
	file   *schema.File
	buf    bytes.Buffer
	indent int
}

func (g *generator) line(s string) {
	if s != "" {
		g.buf.WriteString(strings.Repeat("\t", g.indent))
		g.buf.WriteString(s)
	}
	g.buf.WriteByte('\n')
}

func (g *generator) linef(format string, a ...any) {
	g.line(fmt.Sprintf(format, a...))
}

func (g *generator) render(name string, body func()) ([]byte, error) {
	g.buf.Reset()
	g.indent = 0
	body()
	formatted, err := format.Source(g.buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: formatting %s: %w", name, err)
	}
	return formatted, nil
}

func (g *generator) header() {
	g.line("// Code generated by pbsl. DO NOT EDIT.")
	source := g.opts.sourcePath
	if source == "" {
		source = g.file.Path
	}
	if source != "" {
		g.linef("// source: %s", filepath.ToSlash(source))
	}
	g.line("")
	g.linef("package %s", g.opts.pkg)
	g.line("")
}

// runtimeImport writes the import of the runtime library, aliased when
// the last path element is not "pbsl".
func (g *generator) runtimeImport() {
	importPath := g.opts.runtimeImport
	if path.Base(importPath) == "pbsl" {
		g.linef("import %q", importPath)
	} else {
		g.linef("import pbsl %q", importPath)
	}
	g.line("")
}

// importBase maps an imported schema path to the base name of its
// generated artifacts.
func importBase(importPath string) string {
	base := path.Base(filepath.ToSlash(importPath))
	return strings.TrimSuffix(base, path.Ext(base))
}

var scalarTypes = map[schema.Kind]string{
	schema.KindDouble:   "float64",
	schema.KindFloat:    "float32",
	schema.KindInt32:    "int32",
	schema.KindInt64:    "int64",
	schema.KindUint32:   "uint32",
	schema.KindUint64:   "uint64",
	schema.KindSint32:   "int32",
	schema.KindSint64:   "int64",
	schema.KindFixed32:  "uint32",
	schema.KindFixed64:  "uint64",
	schema.KindSfixed32: "int32",
	schema.KindSfixed64: "int64",
	schema.KindBool:     "bool",
	schema.KindString:   "string",
	schema.KindBytes:    "[]byte",
}

// elemType is the Go type of one value of the field, ignoring the rule.
func elemType(field *schema.Field) string {
	switch field.Type.Kind {
	case schema.KindMessage, schema.KindEnum:
		return field.NativeAbsoluteType
	case schema.KindMessagePointer:
		return "*" + field.NativeAbsoluteType
	}
	return scalarTypes[field.Type.Kind]
}

func goType(field *schema.Field) string {
	if field.Repeated() {
		return "[]" + elemType(field)
	}
	return elemType(field)
}
