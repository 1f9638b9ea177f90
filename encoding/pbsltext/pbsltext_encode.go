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

// Package pbsltext renders compiled schema files as indented text, one
// declaration per line.
package pbsltext

import (
	"fmt"
	"io"
	"strings"

	"go.pbsl.org/pbsl/schema"
)

func Encode(files ...*schema.File) string {
	var buf strings.Builder
	EncodeTo(&buf, files...)
	return buf.String()
}

func EncodeTo(w io.Writer, files ...*schema.File) error {
	e := encoder{w: w}
	for _, file := range files {
		if e.err != nil {
			break
		}
		e.visitFile(file)
	}
	return e.err
}

type encoder struct {
	w      io.Writer
	indent int
	err    error
}

func (e *encoder) line(s string) {
	if e.err != nil {
		return
	}
	if indent := strings.Repeat("\t", e.indent); indent != "" {
		if _, err := io.WriteString(e.w, indent); err != nil {
			e.err = err
			return
		}
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		e.err = err
		return
	}
	if _, err := io.WriteString(e.w, "\n"); err != nil {
		e.err = err
		return
	}
}

func (e *encoder) linef(format string, a ...any) {
	e.line(fmt.Sprintf(format, a...))
}

func (e *encoder) block(header string, body func()) {
	e.line(header + " {")
	e.indent += 1
	body()
	e.indent -= 1
	e.line("}")
}

func (e *encoder) visitFile(file *schema.File) {
	e.block(fmt.Sprintf("file %s path=%s", file.Name, quote(file.Path)), func() {
		for _, imp := range file.Imports {
			if imp.IsCore() {
				e.linef("import %s core", quote(imp.File))
			} else {
				e.linef("import %s", quote(imp.File))
			}
		}
		e.visitOptions(file.Options)
		for _, enum := range file.Enums {
			e.visitEnum(enum)
		}
		for _, msg := range file.Messages {
			e.visitMessage(msg)
		}
		for _, extend := range file.Extends {
			e.block("extend "+extend.Name, func() {
				for _, field := range extend.Fields {
					e.visitField(field)
				}
			})
		}
	})
}

func (e *encoder) visitOptions(options []schema.Option) {
	for _, opt := range options {
		e.linef("option %s", fmtOption(opt))
	}
}

func (e *encoder) visitEnum(enum *schema.Enum) {
	e.block(fmt.Sprintf("enum %s native=%s", enum.Name, enum.NativeName), func() {
		for _, value := range enum.Values {
			e.linef(
				"value %s = %s native=%s%s",
				value.Name, value.Number, value.NativeName,
				fmtFieldOptions(value.Options),
			)
		}
	})
}

func (e *encoder) visitMessage(msg *schema.Message) {
	e.block(fmt.Sprintf("message %s native=%s", msg.Name, msg.NativeName), func() {
		e.visitOptions(msg.Options)
		for _, field := range msg.Fields {
			e.visitField(field)
		}
		for _, enum := range msg.Enums {
			e.visitEnum(enum)
		}
		for _, child := range msg.Messages {
			e.visitMessage(child)
		}
	})
}

// field <name> = <number> [rule] <kind> [type name] native=<name> [type=<native type>]
func (e *encoder) visitField(field *schema.Field) {
	var buf strings.Builder
	fmt.Fprintf(&buf, "field %s = %s", field.Name, field.Number)
	if field.Rule != schema.RuleNone {
		fmt.Fprintf(&buf, " %s", field.Rule)
	}
	fmt.Fprintf(&buf, " %s", field.Type.Kind)
	if !field.Type.Kind.IsScalar() {
		fmt.Fprintf(&buf, " %s", field.Type.Name)
	}
	if field.NativeName != "" {
		fmt.Fprintf(&buf, " native=%s", field.NativeName)
	}
	if field.NativeAbsoluteType != "" {
		fmt.Fprintf(&buf, " type=%s", field.NativeAbsoluteType)
	}
	buf.WriteString(fmtFieldOptions(field.Options))
	e.line(buf.String())
}

func fmtFieldOptions(options []schema.Option) string {
	if len(options) == 0 {
		return ""
	}
	parts := make([]string, 0, len(options))
	for _, opt := range options {
		parts = append(parts, fmtOption(opt))
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

func fmtOption(opt schema.Option) string {
	if opt.ValueKind == schema.ValueString {
		return fmt.Sprintf("%s = %s", opt.Name, quote(opt.Value))
	}
	return fmt.Sprintf("%s = %s", opt.Name, opt.Value)
}

func quote(text string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for _, c := range text {
		if c == '\\' || c == '"' {
			buf.WriteByte('\\')
			buf.WriteRune(c)
			continue
		}
		if c == '\t' {
			buf.WriteString("\\t")
			continue
		}
		if c == '\n' {
			buf.WriteString("\\n")
			continue
		}
		if c < 0x20 || c == 0x7F {
			fmt.Fprintf(&buf, "\\x%02X", c)
			continue
		}
		buf.WriteRune(c)
	}
	buf.WriteByte('"')
	return buf.String()
}
