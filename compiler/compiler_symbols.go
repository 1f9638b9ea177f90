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
	"iter"

	"go.pbsl.org/pbsl/schema"
	"go.pbsl.org/pbsl/syntax"
)

type SymbolKind uint8

const (
	SymbolEnum SymbolKind = iota + 1
	SymbolMessage
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolEnum:
		return "enum"
	case SymbolMessage:
		return "message"
	}
	return "invalid"
}

// schemaKind is the field kind a by-value reference to the symbol takes.
func (k SymbolKind) schemaKind() schema.Kind {
	if k == SymbolEnum {
		return schema.KindEnum
	}
	return schema.KindMessage
}

type Symbol struct {
	Name string
	Kind SymbolKind
	Path string
	Span syntax.Span

	message *schema.Message
}

// SymbolTable maps qualified native names to declarations. One table spans
// every file compiled together, so files may reference each other's types
// regardless of order. It is not safe for concurrent use.
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		symbols: make(map[string]*Symbol),
	}
}

func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

func (t *SymbolTable) Len() int {
	return len(t.order)
}

// All yields symbols in registration order.
func (t *SymbolTable) All() iter.Seq[*Symbol] {
	return func(yield func(*Symbol) bool) {
		for _, sym := range t.order {
			if !yield(sym) {
				return
			}
		}
	}
}

func (t *SymbolTable) register(sym *Symbol) *Error {
	if prev, ok := t.symbols[sym.Name]; ok {
		return errDuplicateSymbol(sym.Name, prev.Path, sym.Span)
	}
	t.symbols[sym.Name] = sym
	t.order = append(t.order, sym)
	return nil
}
