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

package schema

import (
	"iter"
)

// AllMessages yields every message in the file, parents before children.
func (f *File) AllMessages() iter.Seq[*Message] {
	return func(yield func(*Message) bool) {
		for _, msg := range f.Messages {
			if !msg.walk(yield) {
				return
			}
		}
	}
}

// AllEnums yields top-level enums followed by nested enums in message
// order.
func (f *File) AllEnums() iter.Seq[*Enum] {
	return func(yield func(*Enum) bool) {
		for _, enum := range f.Enums {
			if !yield(enum) {
				return
			}
		}
		for msg := range f.AllMessages() {
			for _, enum := range msg.Enums {
				if !yield(enum) {
					return
				}
			}
		}
	}
}

// HasFields reports whether any message in the file declares a field.
func (f *File) HasFields() bool {
	for msg := range f.AllMessages() {
		if len(msg.Fields) > 0 {
			return true
		}
	}
	return false
}

// Descendants yields the message itself and every nested message.
func (m *Message) Descendants() iter.Seq[*Message] {
	return func(yield func(*Message) bool) {
		m.walk(yield)
	}
}

// PostOrder yields nested messages before the messages containing them.
func (m *Message) PostOrder() iter.Seq[*Message] {
	return func(yield func(*Message) bool) {
		m.postOrder(yield)
	}
}

func (m *Message) walk(yield func(*Message) bool) bool {
	if !yield(m) {
		return false
	}
	for _, child := range m.Messages {
		if !child.walk(yield) {
			return false
		}
	}
	return true
}

func (m *Message) postOrder(yield func(*Message) bool) bool {
	for _, child := range m.Messages {
		if !child.postOrder(yield) {
			return false
		}
	}
	return yield(m)
}
