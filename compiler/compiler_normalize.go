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

package compiler

import (
	"path/filepath"
	"strconv"
	"strings"

	"go.pbsl.org/pbsl"
	"go.pbsl.org/pbsl/schema"
	"go.pbsl.org/pbsl/syntax"
)

// Normalize converts a parse tree into IR. Field numbers are parsed here;
// every other literal is kept as source text.
func Normalize(path string, file *syntax.File) (*schema.File, []*Error) {
	n := &normalizer{path: path}
	out := &schema.File{
		Name: baseName(path),
		Path: path,
	}
	for decl := range file.Decls() {
		switch decl := decl.(type) {
		case *syntax.Import:
			out.Imports = append(out.Imports, &schema.Import{
				File: decl.Path().Text(),
				Span: decl.Span(),
			})
		case *syntax.Option:
			out.Options = append(out.Options, normalizeOption(decl.Name(), decl.Value()))
		case *syntax.Enum:
			out.Enums = append(out.Enums, n.enum(decl))
		case *syntax.Message:
			out.Messages = append(out.Messages, n.message(decl))
		case *syntax.Extend:
			extend := &schema.Extend{Name: decl.Name().Text()}
			for _, field := range decl.Fields() {
				extend.Fields = append(extend.Fields, newField(field))
			}
			out.Extends = append(out.Extends, extend)
		}
	}
	return out, n.errors
}

// baseName strips directories and the final extension: "a/b/person.proto"
// becomes "person".
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type normalizer struct {
	path   string
	errors []*Error
}

func (n *normalizer) err(err *Error) {
	err.path = n.path
	n.errors = append(n.errors, err)
}

func normalizeOption(name *syntax.Symbol, value syntax.Value) schema.Option {
	return schema.Option{
		Name:      name.Text(),
		Value:     value.Text(),
		ValueKind: schema.ValueKind(value.Kind()),
	}
}

func (n *normalizer) enum(node *syntax.Enum) *schema.Enum {
	enum := &schema.Enum{
		Name: node.Name().Text(),
		Span: node.Span(),
	}
	seen := make(map[string]struct{})
	for _, value := range node.Values() {
		field := &schema.Field{
			Type:   schema.Type{Kind: schema.KindEnumValue},
			Name:   value.Name().Text(),
			Number: value.Value().Text(),
			Span:   value.Span(),
		}
		if opt := value.Option(); opt != nil {
			field.Options = []schema.Option{normalizeOption(opt.Name(), opt.Value())}
		}
		if !validEnumValue(value.Value(), seen) {
			n.err(errInvalidEnumValue(field.Name, field.Number, value.Value().Span()))
		}
		seen[field.Name] = struct{}{}
		enum.Values = append(enum.Values, field)
	}
	return enum
}

// An enum value is an int32 literal or the name of an earlier value in the
// same enum, which makes it an alias.
func validEnumValue(value syntax.Value, seen map[string]struct{}) bool {
	switch value.Kind() {
	case syntax.ValueNumber:
		_, err := strconv.ParseInt(value.Text(), 10, 32)
		return err == nil
	case syntax.ValueSymbol:
		_, ok := seen[value.Text()]
		return ok
	}
	return false
}

func (n *normalizer) message(node *syntax.Message) *schema.Message {
	msg := &schema.Message{
		Name: node.Name().Text(),
		Span: node.Span(),
	}
	for decl := range node.Decls() {
		switch decl := decl.(type) {
		case *syntax.Option:
			msg.Options = append(msg.Options, normalizeOption(decl.Name(), decl.Value()))
		case *syntax.Message:
			msg.Messages = append(msg.Messages, n.message(decl))
		case *syntax.Enum:
			msg.Enums = append(msg.Enums, n.enum(decl))
		case *syntax.Field:
			msg.Fields = append(msg.Fields, n.field(decl))
		}
	}
	return msg
}

func (n *normalizer) field(node *syntax.Field) *schema.Field {
	field := newField(node)
	tag, err := strconv.ParseUint(field.Number, 10, 32)
	if err != nil || tag == 0 || tag > uint64(pbsl.MaxFieldNumber) {
		n.err(errInvalidFieldNumber(field.Name, field.Number, node.Number().Span()))
	} else {
		field.Tag = uint32(tag)
	}
	return field
}

// newField does not check the field number. Extension fields keep whatever
// number they were declared with.
func newField(node *syntax.Field) *schema.Field {
	field := &schema.Field{
		Name:   node.Name().Text(),
		Number: node.Number().Text(),
		Span:   node.Span(),
	}
	if rule := node.Rule(); rule != nil {
		field.Rule = schema.ParseRule(rule.Get())
	}

	typeName := node.Type().Text()
	if kind, ok := schema.ScalarKind(typeName); ok {
		field.Type = schema.Type{Kind: kind, Name: typeName}
	} else {
		field.Type = schema.Type{Kind: schema.KindLookup, Name: typeName}
	}

	if opt := node.Option(); opt != nil {
		field.Options = []schema.Option{normalizeOption(opt.Name(), opt.Value())}
	}
	return field
}
