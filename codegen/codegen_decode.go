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

var readers = map[schema.Kind]string{
	schema.KindDouble:   "ReadDouble",
	schema.KindFloat:    "ReadFloat",
	schema.KindInt32:    "ReadInt32",
	schema.KindInt64:    "ReadInt64",
	schema.KindUint32:   "ReadUint32",
	schema.KindUint64:   "ReadUint64",
	schema.KindSint32:   "ReadSint32",
	schema.KindSint64:   "ReadSint64",
	schema.KindFixed32:  "ReadFixed32",
	schema.KindFixed64:  "ReadFixed64",
	schema.KindSfixed32: "ReadSfixed32",
	schema.KindSfixed64: "ReadSfixed64",
	schema.KindBool:     "ReadBool",
	schema.KindString:   "ReadString",
	schema.KindBytes:    "ReadBytes",
	schema.KindEnum:     "ReadEnum",
}

func (g *generator) definitions() {
	g.header()
	if g.file.HasFields() {
		g.runtimeImport()
	}
	for _, msg := range g.file.Messages {
		for m := range msg.PostOrder() {
			g.decode(m)
		}
	}
}

func (g *generator) decode(msg *schema.Message) {
	g.linef("func (m *%s) Decode(data []byte) error {", msg.NativeName)
	g.indent++
	if len(msg.Fields) == 0 {
		g.line("return nil")
		g.indent--
		g.line("}")
		g.line("")
		return
	}

	g.line("c := pbsl.NewCursor(data)")
	g.line("for !c.EOF() {")
	g.indent++
	g.line("tag, err := c.ReadTag()")
	g.returnIfErr()
	g.line("switch tag.Field {")
	for _, field := range msg.Fields {
		g.linef("case %d:", field.Tag)
		g.indent++
		g.linef("if err := tag.Expect(pbsl.%s); err != nil {", field.Type.Kind.WireType())
		g.indent++
		g.line("return err")
		g.indent--
		g.line("}")
		g.decodeField(field)
		g.indent--
	}
	g.line("default:")
	g.indent++
	g.line("if !c.EOF() {")
	g.indent++
	g.line("return pbsl.UnknownFieldError(tag)")
	g.indent--
	g.line("}")
	g.line("return nil")
	g.indent--
	g.line("}")
	g.indent--
	g.line("}")
	g.line("return nil")
	g.indent--
	g.line("}")
	g.line("")
}

func (g *generator) returnIfErr() {
	g.line("if err != nil {")
	g.indent++
	g.line("return err")
	g.indent--
	g.line("}")
}

func (g *generator) store(field *schema.Field, value string) {
	if field.Repeated() {
		g.linef("m.%s = append(m.%s, %s)", field.NativeName, field.NativeName, value)
	} else {
		g.linef("m.%s = %s", field.NativeName, value)
	}
}

func (g *generator) decodeField(field *schema.Field) {
	switch field.Type.Kind {
	case schema.KindMessage, schema.KindMessagePointer:
		g.line("buf, err := c.ReadLengthDelimited()")
		g.returnIfErr()
		switch {
		case field.Type.Kind == schema.KindMessagePointer:
			g.linef("v := new(%s)", field.NativeAbsoluteType)
		case field.Repeated():
			g.linef("var v %s", field.NativeAbsoluteType)
		default:
			// Repeated occurrences of a singular message merge.
			g.linef("if err := m.%s.Decode(buf); err != nil {", field.NativeName)
			g.indent++
			g.line("return err")
			g.indent--
			g.line("}")
			return
		}
		g.line("if err := v.Decode(buf); err != nil {")
		g.indent++
		g.line("return err")
		g.indent--
		g.line("}")
		g.store(field, "v")
	case schema.KindEnum:
		g.line("v, err := c.ReadEnum()")
		g.returnIfErr()
		g.store(field, field.NativeAbsoluteType+"(v)")
	default:
		g.linef("v, err := c.%s()", readers[field.Type.Kind])
		g.returnIfErr()
		g.store(field, "v")
	}
}
