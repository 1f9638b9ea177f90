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

package testutil

import (
	"fmt"
	"strings"

	"go.pbsl.org/pbsl/syntax"
)

// DumpTree renders a syntax tree with one node per line. Leaves show their
// source text; every node shows "start+len".
func DumpTree(node syntax.Node) string {
	var buf strings.Builder
	dumpTree(&buf, node, 0)
	return buf.String()
}

func dumpTree(buf *strings.Builder, node syntax.Node, indent int) {
	span := node.Span()
	buf.WriteString(strings.Repeat("\t", indent))
	fmt.Fprintf(buf, "%s %d+%d", nodeName(node), span.Start(), span.Len())

	switch node.(type) {
	case *syntax.Space, *syntax.Sigil, *syntax.Keyword,
		*syntax.Symbol, *syntax.Number, *syntax.String:
		fmt.Fprintf(buf, " %q", syntax.Unparse(node))
	}
	buf.WriteString("\n")

	for child := range node.ChildNodes() {
		dumpTree(buf, child, indent+1)
	}
}

// nodeName converts the Go type name to kebab case: "*syntax.EnumValue"
// becomes "enum-value".
func nodeName(node syntax.Node) string {
	ty := fmt.Sprintf("%T", node)
	var nameBuf strings.Builder
	for ii, c := range strings.TrimPrefix(ty, "*syntax.") {
		if c >= 'A' && c <= 'Z' {
			if ii > 0 {
				nameBuf.WriteRune('-')
			}
			nameBuf.WriteRune(c + ('a' - 'A'))
		} else {
			nameBuf.WriteRune(c)
		}
	}
	return nameBuf.String()
}
