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
	"go.pbsl.org/pbsl/schema"
)

// orderMessages reorders one sibling list so that a message referencing a
// sibling (or anything nested in it) comes after that sibling. Whenever
// message i references sibling j > i the two are swapped and the scan
// restarts. Indirect and repeated references are not treated specially.
func (c *compiler) orderMessages(scope string, messages []*schema.Message) {
	provides := make([]map[string]struct{}, len(messages))
	for ii, msg := range messages {
		provides[ii] = declaredNames(msg)
	}

	limit := len(messages)*len(messages) + 1
	swaps := 0
	for ii := 0; ii < len(messages); ii++ {
		jj := forwardReference(messages[ii], provides, ii)
		if jj < 0 {
			continue
		}
		if swaps == limit {
			c.warn(warnOrderNotConverged(scope, swaps))
			break
		}
		messages[ii], messages[jj] = messages[jj], messages[ii]
		provides[ii], provides[jj] = provides[jj], provides[ii]
		swaps++
		ii = -1
	}

	for _, msg := range messages {
		c.orderMessages(msg.NativeName, msg.Messages)
	}
}

// declaredNames returns the native names of a message and every message and
// enum nested in it.
func declaredNames(msg *schema.Message) map[string]struct{} {
	names := make(map[string]struct{})
	for m := range msg.Descendants() {
		names[m.NativeName] = struct{}{}
		for _, enum := range m.Enums {
			names[enum.NativeName] = struct{}{}
		}
	}
	return names
}

// forwardReference returns the first sibling after position ii that a field
// of messages[ii] (or of a message nested in it) refers to, or -1.
func forwardReference(msg *schema.Message, provides []map[string]struct{}, ii int) int {
	for m := range msg.Descendants() {
		for _, field := range m.Fields {
			if field.NativeAbsoluteType == "" {
				continue
			}
			for jj := ii + 1; jj < len(provides); jj++ {
				if _, ok := provides[jj][field.NativeAbsoluteType]; ok {
					return jj
				}
			}
		}
	}
	return -1
}

// checkValueCycles rejects messages that contain themselves through
// singular by-value fields, which would have infinite size. Repeated and
// pointer fields break a cycle.
func (c *compiler) checkValueCycles(files []*schema.File) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*schema.Message]int)
	var stack []string

	var visit func(msg *schema.Message)
	visit = func(msg *schema.Message) {
		state[msg] = visiting
		stack = append(stack, msg.NativeName)
		for _, field := range msg.Fields {
			if field.Type.Kind != schema.KindMessage || field.Repeated() {
				continue
			}
			sym, ok := c.symbols.Lookup(field.NativeAbsoluteType)
			if !ok || sym.message == nil {
				continue
			}
			switch state[sym.message] {
			case unvisited:
				visit(sym.message)
			case visiting:
				cycle := append([]string{}, stack...)
				for len(cycle) > 0 && cycle[0] != sym.message.NativeName {
					cycle = cycle[1:]
				}
				cycle = append(cycle, sym.message.NativeName)
				c.err(errValueCycle(cycle, field.Span))
			}
		}
		stack = stack[:len(stack)-1]
		state[msg] = done
	}

	for _, file := range files {
		c.path = file.Path
		for msg := range file.AllMessages() {
			if state[msg] == unvisited {
				visit(msg)
			}
		}
	}
}
