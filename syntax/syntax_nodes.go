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

package syntax

import (
	"bytes"
	"iter"
	"strings"
)

type Span struct {
	start, len uint32
}

func NewSpan(start, len uint32) Span {
	return Span{start, len}
}

func (s *Span) Start() uint32 {
	return s.start
}

func (s *Span) End() uint32 {
	return s.start + s.len
}

func (s *Span) Len() uint32 {
	return s.len
}

type Node interface {
	Span() Span

	ChildNodes() iter.Seq[Node]

	privChildren() []Node

	UnparseTo(buf *bytes.Buffer)
}

// Unparse returns the exact source text a node was parsed from, including
// interior whitespace.
func Unparse(node Node) string {
	var buf bytes.Buffer
	node.UnparseTo(&buf)
	return buf.String()
}

func Walk(node Node, walkFn func(Node) bool) {
	if node == nil || !walkFn(node) {
		return
	}
	for _, child := range node.privChildren() {
		Walk(child, walkFn)
	}
	walkFn(nil)
}

func iterChildren(childNodes []Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, child := range childNodes {
			if !yield(child) {
				return
			}
		}
	}
}

type leafNode struct{}

func (*leafNode) ChildNodes() iter.Seq[Node] {
	return func(_yield func(Node) bool) {}
}

func (*leafNode) privChildren() []Node {
	return nil
}

type branchNode struct {
	span       Span
	childNodes []Node
}

func (n *branchNode) Span() Span {
	return n.span
}

func (n *branchNode) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *branchNode) privChildren() []Node {
	return n.childNodes
}

func (n *branchNode) UnparseTo(buf *bytes.Buffer) {
	for _, childNode := range n.childNodes {
		childNode.UnparseTo(buf)
	}
}

// Leaves {{{

type Space struct {
	leafNode
	raw   string
	start uint32
}

var _ Node = (*Space)(nil)

func (n *Space) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *Space) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

type Sigil struct {
	leafNode
	raw   uint8
	start uint32
}

var _ Node = (*Sigil)(nil)

func (n *Sigil) Span() Span {
	return Span{
		start: n.start,
		len:   1,
	}
}

func (n *Sigil) UnparseTo(buf *bytes.Buffer) {
	buf.WriteByte(n.raw)
}

type Keyword struct {
	leafNode
	raw   string
	start uint32
}

var _ Node = (*Keyword)(nil)

func (n *Keyword) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *Keyword) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

func (n *Keyword) Get() string {
	return n.raw
}

// ValueKind records which alternative of a field value matched.
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
	return "invalid"
}

// Value is a [*Number], [*Symbol], or [*String].
type Value interface {
	Node
	Kind() ValueKind
	Text() string
}

type Symbol struct {
	leafNode
	raw   string
	start uint32
}

var _ Value = (*Symbol)(nil)

func (n *Symbol) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *Symbol) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

func (n *Symbol) Kind() ValueKind {
	return ValueSymbol
}

func (n *Symbol) Text() string {
	return n.raw
}

// IsAbsolute reports whether the symbol is a fully qualified reference
// (leading dot).
func (n *Symbol) IsAbsolute() bool {
	return strings.HasPrefix(n.raw, ".")
}

type Number struct {
	leafNode
	raw   string
	start uint32
}

var _ Value = (*Number)(nil)

func (n *Number) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *Number) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

func (n *Number) Kind() ValueKind {
	return ValueNumber
}

func (n *Number) Text() string {
	return n.raw
}

func (n *Number) IsInteger() bool {
	return !strings.Contains(n.raw, ".")
}

type String struct {
	leafNode
	raw   string
	start uint32
}

var _ Value = (*String)(nil)

func (n *String) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *String) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

func (n *String) Kind() ValueKind {
	return ValueString
}

// Text returns the string contents without quotes. The dialect has no
// escape sequences.
func (n *String) Text() string {
	return n.raw[1 : len(n.raw)-1]
}

// }}}

type File struct {
	branchNode
	decls []Node
}

var _ Node = (*File)(nil)

// Decls yields top-level declarations in source order. Each is an [*Enum],
// [*Option], [*Message], [*Import], or [*Extend].
func (n *File) Decls() iter.Seq[Node] {
	return iterChildren(n.decls)
}

type Import struct {
	branchNode
	path *String
}

var _ Node = (*Import)(nil)

func (n *Import) Path() *String {
	return n.path
}

type Option struct {
	branchNode
	name  *Symbol
	value Value
}

var _ Node = (*Option)(nil)

func (n *Option) Name() *Symbol {
	return n.name
}

func (n *Option) Value() Value {
	return n.value
}

type FieldOption struct {
	branchNode
	name  *Symbol
	value Value
}

var _ Node = (*FieldOption)(nil)

func (n *FieldOption) Name() *Symbol {
	return n.name
}

func (n *FieldOption) Value() Value {
	return n.value
}

type Enum struct {
	branchNode
	name   *Symbol
	values []*EnumValue
}

var _ Node = (*Enum)(nil)

func (n *Enum) Name() *Symbol {
	return n.name
}

func (n *Enum) Values() []*EnumValue {
	return n.values
}

type EnumValue struct {
	branchNode
	name   *Symbol
	value  Value
	option *FieldOption
}

var _ Node = (*EnumValue)(nil)

func (n *EnumValue) Name() *Symbol {
	return n.name
}

func (n *EnumValue) Value() Value {
	return n.value
}

// Option returns nil if the value has no bracketed option.
func (n *EnumValue) Option() *FieldOption {
	return n.option
}

type Field struct {
	branchNode
	rule      *Keyword
	fieldType *Symbol
	name      *Symbol
	number    *Number
	option    *FieldOption
}

var _ Node = (*Field)(nil)

// Rule returns nil if the field has no optional/required/repeated prefix.
func (n *Field) Rule() *Keyword {
	return n.rule
}

func (n *Field) Type() *Symbol {
	return n.fieldType
}

func (n *Field) Name() *Symbol {
	return n.name
}

func (n *Field) Number() *Number {
	return n.number
}

func (n *Field) Option() *FieldOption {
	return n.option
}

type Message struct {
	branchNode
	name  *Symbol
	decls []Node
}

var _ Node = (*Message)(nil)

func (n *Message) Name() *Symbol {
	return n.name
}

// Decls yields the body in source order. Each is an [*Option], [*Message],
// [*Enum], or [*Field].
func (n *Message) Decls() iter.Seq[Node] {
	return iterChildren(n.decls)
}

type Extend struct {
	branchNode
	name   *Symbol
	fields []*Field
}

var _ Node = (*Extend)(nil)

func (n *Extend) Name() *Symbol {
	return n.name
}

func (n *Extend) Fields() []*Field {
	return n.fields
}
