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

// Package schema defines the intermediate representation produced by the
// compiler and consumed by code generators.
package schema

import (
	"fmt"
	"strings"

	"go.pbsl.org/pbsl"
	"go.pbsl.org/pbsl/syntax"
)

type Kind uint8

const (
	KindInvalid Kind = iota
	KindDouble
	KindFloat
	KindInt32
	KindInt64
	KindUint32
	KindUint64
	KindSint32
	KindSint64
	KindFixed32
	KindFixed64
	KindSfixed32
	KindSfixed64
	KindBool
	KindString
	KindBytes
	KindMessage
	KindMessagePointer
	KindEnum
	KindEnumValue
	KindLookup
)

var kindNames = [...]string{
	KindInvalid:        "invalid",
	KindDouble:         "double",
	KindFloat:          "float",
	KindInt32:          "int32",
	KindInt64:          "int64",
	KindUint32:         "uint32",
	KindUint64:         "uint64",
	KindSint32:         "sint32",
	KindSint64:         "sint64",
	KindFixed32:        "fixed32",
	KindFixed64:        "fixed64",
	KindSfixed32:       "sfixed32",
	KindSfixed64:       "sfixed64",
	KindBool:           "bool",
	KindString:         "string",
	KindBytes:          "bytes",
	KindMessage:        "message",
	KindMessagePointer: "message_pointer",
	KindEnum:           "enum",
	KindEnumValue:      "enum_value",
	KindLookup:         "lookup",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for ii, name := range kindNames {
		if name == string(text) {
			*k = Kind(ii)
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", text)
}

// ScalarKind looks up a builtin type name. Names outside the scalar table
// are references to user-declared types.
func ScalarKind(name string) (Kind, bool) {
	for k := KindDouble; k <= KindBytes; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return KindInvalid, false
}

func (k Kind) IsScalar() bool {
	return k >= KindDouble && k <= KindBytes
}

func (k Kind) IsMessage() bool {
	return k == KindMessage || k == KindMessagePointer
}

// WireType returns the wire type a decoder must see for a field of this
// kind.
func (k Kind) WireType() pbsl.WireType {
	switch k {
	case KindFloat, KindFixed32, KindSfixed32:
		return pbsl.Fixed32
	case KindDouble, KindFixed64, KindSfixed64:
		return pbsl.Fixed64
	case KindString, KindBytes, KindMessage, KindMessagePointer:
		return pbsl.LengthDelimited
	}
	return pbsl.VarInt
}

type Rule uint8

const (
	RuleNone Rule = iota
	RuleOptional
	RuleRequired
	RuleRepeated
)

func (r Rule) String() string {
	switch r {
	case RuleNone:
		return "none"
	case RuleOptional:
		return "optional"
	case RuleRequired:
		return "required"
	case RuleRepeated:
		return "repeated"
	}
	return fmt.Sprintf("Rule(%d)", uint8(r))
}

func (r Rule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rule) UnmarshalText(text []byte) error {
	if string(text) == "none" {
		*r = RuleNone
		return nil
	}
	rule := ParseRule(string(text))
	if rule == RuleNone {
		return fmt.Errorf("unknown rule %q", text)
	}
	*r = rule
	return nil
}

// ParseRule compares case-insensitively. Anything unrecognized is
// RuleNone.
func ParseRule(rule string) Rule {
	switch strings.ToLower(rule) {
	case "optional":
		return RuleOptional
	case "required":
		return RuleRequired
	case "repeated":
		return RuleRepeated
	}
	return RuleNone
}

type ValueKind uint8

const (
	ValueNumber ValueKind = iota + 1
	ValueSymbol
	ValueString
)

func (k ValueKind) String() string {
	switch k {
	case ValueNumber:
		return "number"
	case ValueSymbol:
		return "symbol"
	case ValueString:
		return "string"
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

func (k ValueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ValueKind) UnmarshalText(text []byte) error {
	for _, kind := range []ValueKind{ValueNumber, ValueSymbol, ValueString} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown value kind %q", text)
}

// Option is an untyped name/value pair. Value is the literal text.
type Option struct {
	Name      string    `json:"name" yaml:"name"`
	Value     string    `json:"value" yaml:"value"`
	ValueKind ValueKind `json:"value_kind" yaml:"value_kind"`
}

type Type struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Name string `json:"name" yaml:"name"`
}

type Field struct {
	Rule    Rule     `json:"rule" yaml:"rule"`
	Type    Type     `json:"type" yaml:"type"`
	Name    string   `json:"name" yaml:"name"`
	Number  string   `json:"number" yaml:"number"`
	Tag     uint32   `json:"tag,omitempty" yaml:"tag,omitempty"`
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`

	NativeName         string `json:"native_name" yaml:"native_name"`
	NativeType         string `json:"native_type,omitempty" yaml:"native_type,omitempty"`
	NativeAbsoluteType string `json:"native_absolute_type,omitempty" yaml:"native_absolute_type,omitempty"`

	Span syntax.Span `json:"-" yaml:"-"`
}

func (f *Field) Repeated() bool {
	return f.Rule == RuleRepeated
}

type Enum struct {
	Name       string   `json:"name" yaml:"name"`
	NativeName string   `json:"native_name" yaml:"native_name"`
	Values     []*Field `json:"values" yaml:"values"`

	Span syntax.Span `json:"-" yaml:"-"`
}

type Message struct {
	Name       string     `json:"name" yaml:"name"`
	NativeName string     `json:"native_name" yaml:"native_name"`
	Options    []Option   `json:"options,omitempty" yaml:"options,omitempty"`
	Fields     []*Field   `json:"fields,omitempty" yaml:"fields,omitempty"`
	Messages   []*Message `json:"messages,omitempty" yaml:"messages,omitempty"`
	Enums      []*Enum    `json:"enums,omitempty" yaml:"enums,omitempty"`

	Span syntax.Span `json:"-" yaml:"-"`
}

type Import struct {
	File string `json:"file" yaml:"file"`

	Span syntax.Span `json:"-" yaml:"-"`
}

// IsCore reports whether the import names a bundled well-known schema,
// which generated code never references.
func (i *Import) IsCore() bool {
	return strings.Contains(i.File, "google")
}

// Extend is recognized by the parser but takes no part in resolution or
// code generation.
type Extend struct {
	Name   string   `json:"name" yaml:"name"`
	Fields []*Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

type File struct {
	Name     string     `json:"name" yaml:"name"`
	Path     string     `json:"path" yaml:"path"`
	Options  []Option   `json:"options,omitempty" yaml:"options,omitempty"`
	Imports  []*Import  `json:"imports,omitempty" yaml:"imports,omitempty"`
	Enums    []*Enum    `json:"enums,omitempty" yaml:"enums,omitempty"`
	Messages []*Message `json:"messages,omitempty" yaml:"messages,omitempty"`
	Extends  []*Extend  `json:"extends,omitempty" yaml:"extends,omitempty"`
}
