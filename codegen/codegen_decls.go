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

package codegen

import (
	"go.pbsl.org/pbsl/schema"
)

func (g *generator) declarations() {
	g.header()
	if len(g.file.Messages) > 0 {
		g.runtimeImport()
	}

	refs := 0
	for _, imp := range g.file.Imports {
		if imp.IsCore() {
			continue
		}
		g.linef("// import %q → %s", imp.File, DeclarationsName(importBase(imp.File)))
		refs++
	}
	if refs > 0 {
		g.line("")
	}

	for _, enum := range g.file.Enums {
		g.enum(enum)
	}
	for _, msg := range g.file.Messages {
		g.message(msg)
	}
}

func (g *generator) enum(enum *schema.Enum) {
	g.linef("type %s int32", enum.NativeName)
	g.line("")
	g.line("const (")
	g.indent++
	natives := make(map[string]string, len(enum.Values))
	for _, value := range enum.Values {
		number := value.Number
		if native, ok := natives[value.Number]; ok {
			number = native
		}
		g.linef("%s %s = %s", value.NativeName, enum.NativeName, number)
		natives[value.Name] = value.NativeName
	}
	g.indent--
	g.line(")")
	g.line("")
}

// message writes nested declarations before the struct that uses them.
func (g *generator) message(msg *schema.Message) {
	for _, enum := range msg.Enums {
		g.enum(enum)
	}
	for _, child := range msg.Messages {
		g.message(child)
	}

	if len(msg.Fields) == 0 {
		g.linef("type %s struct{}", msg.NativeName)
	} else {
		g.linef("type %s struct {", msg.NativeName)
		g.indent++
		for _, field := range msg.Fields {
			g.linef("%s %s", field.NativeName, goType(field))
		}
		g.indent--
		g.line("}")
	}
	g.line("")
	g.linef("var _ pbsl.Decoder = (*%s)(nil)", msg.NativeName)
	g.line("")
}
