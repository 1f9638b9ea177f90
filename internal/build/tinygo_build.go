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

// Command build compiles a generator plugin to WebAssembly with TinyGo.
//
//	go run ./internal/build -output=pbsl-codegen-go.wasm ./bin/pbsl-codegen-go
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

var (
	output   = flag.String("output", "", "path of the .wasm file to write")
	chdir    = flag.String("chdir", "", "directory to run tinygo in")
	tinygo   = flag.String("tinygo", "tinygo", "tinygo executable")
	target   = flag.String("target", "wasip1", "tinygo build target")
	wasmOpt  = flag.String("wasm-opt", "", "wasm-opt executable, if not on $PATH")
	buildTag = flag.String("tags", "", "extra build tags")
)

func main() {
	flag.Parse()
	if *output == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: build -output=FILE.wasm [flags] PACKAGE")
		os.Exit(2)
	}
	pwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	tinygoPath, err := exec.LookPath(*tinygo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	tinygoArgs := []string{"build"}
	tinygoArgs = append(tinygoArgs, "-o="+filepath.Join(pwd, *output))
	tinygoArgs = append(tinygoArgs, "-target="+*target, "-buildmode=c-shared", "-no-debug")
	if *buildTag != "" {
		tinygoArgs = append(tinygoArgs, "-tags="+*buildTag)
	}
	tinygoArgs = append(tinygoArgs, flag.Args()...)

	cmd := exec.Command(tinygoPath, tinygoArgs...)
	cmd.Env = os.Environ()
	if *wasmOpt != "" {
		cmd.Env = append(cmd.Env, "WASMOPT="+filepath.Join(pwd, *wasmOpt))
	}
	cmd.Dir = filepath.Join(pwd, *chdir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
