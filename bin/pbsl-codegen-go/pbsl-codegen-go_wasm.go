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

package main

import (
	"math"
	"unsafe"

	"go.pbsl.org/pbsl/plugin"
)

// buffers keeps allocations reachable until the host is done with them.
var buffers = make(map[*uint8][]uint8)

//go:export pbsl_codegen_allocate
func pbslCodegenAllocate(len uint32) *uint8 {
	if len > math.MaxInt32 {
		return nil
	}
	buf := make([]uint8, int(len))
	if len == 0 {
		buf = make([]uint8, 1)
	}
	ptr := unsafe.SliceData(buf)
	buffers[ptr] = buf
	return ptr
}

//go:export pbsl_codegen_generate
func pbslCodegenGenerate(requestPtr *uint8, requestLen uint32) uint64 {
	request := unsafe.Slice(requestPtr, requestLen)
	delete(buffers, requestPtr)

	response := plugin.Handle(request, plugin.GenerateGo)
	responsePtr := unsafe.SliceData(response)
	buffers[responsePtr] = response
	return uint64(uintptr(unsafe.Pointer(responsePtr)))<<32 | uint64(len(response))
}
