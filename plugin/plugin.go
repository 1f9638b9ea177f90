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

// Package plugin runs code generators compiled to WebAssembly.
//
// A plugin module exports two functions:
//
//	pbsl_codegen_allocate(len u32) -> ptr u32
//	pbsl_codegen_generate(ptr u32, len u32) -> u64
//
// The host allocates a buffer in plugin memory, writes a JSON [Request]
// into it, and calls pbsl_codegen_generate. The result packs the address
// of a JSON [Response] in its high 32 bits and the length in its low 32
// bits.
package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.pbsl.org/pbsl/schema"
)

const (
	ExportAllocate = "pbsl_codegen_allocate"
	ExportGenerate = "pbsl_codegen_generate"

	// PathEnv lists directories searched for plugins, separated by the
	// OS path list separator.
	PathEnv = "PBSL_PLUGIN_PATH"
)

type Request struct {
	Files         []*schema.File    `json:"files"`
	Package       string            `json:"package"`
	RuntimeImport string            `json:"runtime_import,omitempty"`
	Options       map[string]string `json:"options,omitempty"`
}

// OutputFile is one generated file. Path holds the components of a path
// relative to the output directory.
type OutputFile struct {
	Path    []string `json:"path"`
	Content string   `json:"content"`
}

type Response struct {
	Files []OutputFile `json:"files,omitempty"`
	Error string       `json:"error,omitempty"`
}

// Locate resolves a plugin name to a file. A name containing a path
// separator is used as is; otherwise "pbsl-codegen-<name>.wasm" is looked
// up in each directory of searchPath, falling back to $PBSL_PLUGIN_PATH.
func Locate(name, searchPath string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) || strings.HasSuffix(name, ".wasm") {
		if _, err := os.Stat(name); err != nil {
			return "", err
		}
		return name, nil
	}
	if searchPath == "" {
		searchPath = os.Getenv(PathEnv)
	}
	if searchPath == "" {
		return "", fmt.Errorf("no plugin search path set, use --plugin-path or $%s", PathEnv)
	}
	basename := fmt.Sprintf("pbsl-codegen-%s.wasm", name)
	for _, dir := range filepath.SplitList(searchPath) {
		if dir == "" {
			continue
		}
		pluginPath := filepath.Join(dir, basename)
		if _, err := os.Stat(pluginPath); err == nil {
			return pluginPath, nil
		}
	}
	return "", fmt.Errorf("codegen plugin %s not found in plugin path", basename)
}

// OutPath joins validated path components under outDir. Components may not
// be empty, "." or "..", absolute, or contain a separator.
func OutPath(outDir string, parts []string) (string, error) {
	if len(parts) == 0 {
		return "", fmt.Errorf("invalid output path %q: empty", parts)
	}
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("invalid output path %q: bad path component %q", parts, part)
		}
		if part[0] == '/' || filepath.IsAbs(part) {
			return "", fmt.Errorf("invalid output path %q: absolute path component %q", parts, part)
		}
		if strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("invalid output path %q: component %q contains a separator", parts, part)
		}
	}
	return filepath.Join(append([]string{outDir}, parts...)...), nil
}

// WriteFiles validates every path before writing anything.
func WriteFiles(outDir string, files []OutputFile) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("plugin did not generate any output files")
	}
	paths := make([]string, 0, len(files))
	for _, file := range files {
		outPath, err := OutPath(outDir, file.Path)
		if err != nil {
			return nil, err
		}
		paths = append(paths, outPath)
	}
	for ii, file := range files {
		if err := os.MkdirAll(filepath.Dir(paths[ii]), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(paths[ii], []byte(file.Content), 0o644); err != nil {
			return nil, err
		}
	}
	return paths, nil
}
