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

// Command pbsl-codegen-go is the Go generator packaged as a plugin. Built
// with TinyGo for WebAssembly it serves the plugin ABI; run natively it
// reads one JSON request from stdin and writes the response to stdout.
package main

//go:generate go run ../../internal/build -output=pbsl-codegen-go.wasm .

import (
	"io"
	"log"
	"os"

	"go.pbsl.org/pbsl/plugin"
)

func main() {
	request, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("ReadAll(stdin): %v", err)
	}
	if _, err := os.Stdout.Write(plugin.Handle(request, plugin.GenerateGo)); err != nil {
		log.Fatal(err)
	}
}
