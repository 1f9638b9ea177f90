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
	"go/token"
	"strings"
	"unicode"

	"go.pbsl.org/pbsl/schema"
)

// nativeTypeName maps a schema type reference to a package-level Go
// identifier: a leading "." is dropped and scope dots become "_".
func nativeTypeName(name string) string {
	return strings.ReplaceAll(strings.TrimPrefix(name, "."), ".", "_")
}

// exportedName converts a field name to an exported Go identifier:
// "phone_number" becomes "PhoneNumber".
func exportedName(name string) string {
	var buf strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		buf.WriteRune(r)
	}
	if buf.Len() == 0 {
		return name
	}
	return buf.String()
}

// Pass 1: native names {{{

func (c *compiler) assignNames(file *schema.File) {
	for _, enum := range file.Enums {
		c.nameEnum(enum, "")
	}
	for _, msg := range file.Messages {
		c.nameMessage(msg, "")
	}
}

func (c *compiler) nameEnum(enum *schema.Enum, prefix string) {
	enum.NativeName = prefix + nativeTypeName(enum.Name)
	if !token.IsIdentifier(enum.NativeName) {
		c.err(errInvalidIdentifier(enum.Name, enum.NativeName, enum.Span))
	}
	c.registerType(&Symbol{
		Name: enum.NativeName,
		Kind: SymbolEnum,
		Path: c.path,
		Span: enum.Span,
	})

	for _, value := range enum.Values {
		name := value.Name
		if c.isReserved(name) {
			name += "_"
		}
		value.NativeName = enum.NativeName + "_" + name
		if !token.IsIdentifier(value.NativeName) {
			c.err(errInvalidIdentifier(value.Name, value.NativeName, value.Span))
		}
		c.registerValue(value)
	}
}

// A value's native name must be unique among the values and types of
// the batch.
func (c *compiler) registerValue(value *schema.Field) {
	if prev, dup := c.values[value.NativeName]; dup {
		c.err(errDuplicateEnumValue(value.Name, value.NativeName, prev, value.Span))
		return
	}
	if sym, dup := c.symbols.Lookup(value.NativeName); dup {
		c.err(errDuplicateEnumValue(value.Name, value.NativeName, sym.Path, value.Span))
		return
	}
	c.values[value.NativeName] = c.path
}

func (c *compiler) registerType(sym *Symbol) {
	if err := c.symbols.register(sym); err != nil {
		c.err(err)
		return
	}
	if prev, dup := c.values[sym.Name]; dup {
		c.err(errDuplicateSymbol(sym.Name, prev, sym.Span))
	}
}

func (c *compiler) nameMessage(msg *schema.Message, prefix string) {
	msg.NativeName = prefix + nativeTypeName(msg.Name)
	if !token.IsIdentifier(msg.NativeName) {
		c.err(errInvalidIdentifier(msg.Name, msg.NativeName, msg.Span))
	}
	c.registerType(&Symbol{
		Name:    msg.NativeName,
		Kind:    SymbolMessage,
		Path:    c.path,
		Span:    msg.Span,
		message: msg,
	})

	scope := msg.NativeName + "_"
	names := make(map[string]struct{}, len(msg.Fields))
	tags := make(map[uint32]struct{}, len(msg.Fields))
	for _, field := range msg.Fields {
		field.NativeName = c.fieldName(field.Name)
		if !token.IsIdentifier(field.NativeName) {
			c.err(errInvalidIdentifier(field.Name, field.NativeName, field.Span))
		}
		if _, dup := names[field.NativeName]; dup {
			c.err(errDuplicateFieldName(field.Name, field.NativeName, field.Span))
		}
		names[field.NativeName] = struct{}{}
		if field.Tag != 0 {
			if _, dup := tags[field.Tag]; dup {
				c.err(errDuplicateFieldNumber(field.Name, field.Tag, field.Span))
			}
			tags[field.Tag] = struct{}{}
		}

		if field.Type.Kind == schema.KindLookup {
			field.NativeAbsoluteType = nativeTypeName(field.Type.Name)
			field.NativeType = strings.TrimPrefix(field.NativeAbsoluteType, scope)
		}
	}

	for _, enum := range msg.Enums {
		c.nameEnum(enum, scope)
	}
	for _, child := range msg.Messages {
		c.nameMessage(child, scope)
	}
}

// fieldName never returns "Decode", which would collide with the
// generated method.
func (c *compiler) fieldName(name string) string {
	native := exportedName(name)
	if c.isReserved(name) || native == "Decode" {
		native += "_"
	}
	return native
}

// }}}

// Pass 2: type resolution {{{

func (c *compiler) resolveTypes(file *schema.File) {
	for _, msg := range file.Messages {
		c.resolveMessage(msg, nil)
	}
}

// scopes lists the native names of the enclosing messages, outermost first.
func (c *compiler) resolveMessage(msg *schema.Message, scopes []string) {
	scopes = append(scopes, msg.NativeName)
	for _, field := range msg.Fields {
		if field.Type.Kind != schema.KindLookup {
			continue
		}
		name, sym := c.lookup(field.Type.Name, scopes)
		switch {
		case name == msg.NativeName:
			field.Type.Kind = schema.KindMessagePointer
		case sym != nil:
			field.Type.Kind = sym.Kind.schemaKind()
		default:
			field.Type.Kind = schema.KindMessage
			if c.opts.strictTypes {
				c.err(errUnresolvedType(field.Type.Name, field.Name, field.Span))
			} else {
				c.warn(warnUnresolvedType(field.Type.Name, field.Name, field.Span))
			}
		}
		field.NativeAbsoluteType = name
		field.NativeType = strings.TrimPrefix(name, msg.NativeName+"_")
	}
	for _, child := range msg.Messages {
		c.resolveMessage(child, scopes)
	}
}

// lookup searches from the innermost scope outward. An absolute reference
// is only tried as written. If nothing matches, the unscoped native name is
// returned with a nil symbol.
func (c *compiler) lookup(typeName string, scopes []string) (string, *Symbol) {
	native := nativeTypeName(typeName)
	if !strings.HasPrefix(typeName, ".") {
		for ii := len(scopes) - 1; ii >= 0; ii-- {
			candidate := scopes[ii] + "_" + native
			if sym, ok := c.symbols.Lookup(candidate); ok {
				return candidate, sym
			}
		}
	}
	if sym, ok := c.symbols.Lookup(native); ok {
		return native, sym
	}
	return native, nil
}

// }}}
