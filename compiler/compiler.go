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
	"go.pbsl.org/pbsl/syntax"
)

var defaultReservedWords = []string{
	"template",
	"decode",
}

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	symbols     *SymbolTable
	reserved    map[string]struct{}
	strictTypes bool
}

// WithSymbolTable shares a table between calls. Names registered by an
// earlier call stay visible, and redeclaring them is an error.
func WithSymbolTable(symbols *SymbolTable) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.symbols = symbols
	})
}

// WithReservedWords adds field and enum value names that get a "_" suffix
// in generated code.
func WithReservedWords(words ...string) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		for _, word := range words {
			opts.reserved[word] = struct{}{}
		}
	})
}

// WithStrictTypes makes a reference to an undeclared type an error rather
// than a warning.
func WithStrictTypes() CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.strictTypes = true
	})
}

// Source is one parsed schema file of a batch.
type Source struct {
	Path string
	File *syntax.File
}

type CompileResult struct {
	Files    []*schema.File
	Errors   []*Error
	Warnings []*Warning
}

// Compile normalizes, resolves, and orders a batch of files. The files share
// one symbol table; type references are resolved only after every file has
// been named. If any error is reported, Files is nil.
func Compile(sources []Source, opts ...CompileOption) CompileResult {
	return NewCompileOptions(opts...).Compile(sources)
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{
		reserved: make(map[string]struct{}),
	}
	for _, word := range defaultReservedWords {
		compileOptions.reserved[word] = struct{}{}
	}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	return compileOptions
}

func (opts *CompileOptions) Compile(sources []Source) CompileResult {
	symbols := opts.symbols
	if symbols == nil {
		symbols = NewSymbolTable()
	}
	c := &compiler{
		opts:    opts,
		symbols: symbols,
		values:  make(map[string]string),
	}

	files := make([]*schema.File, 0, len(sources))
	for _, src := range sources {
		file, errs := Normalize(src.Path, src.File)
		c.path = src.Path
		for _, err := range errs {
			c.err(err)
		}
		files = append(files, file)
	}
	for _, file := range files {
		c.path = file.Path
		c.assignNames(file)
	}
	for _, file := range files {
		c.path = file.Path
		c.resolveTypes(file)
	}
	c.checkValueCycles(files)
	for _, file := range files {
		c.path = file.Path
		c.orderMessages("", file.Messages)
	}

	if len(c.errors) > 0 {
		return CompileResult{
			Errors:   c.errors,
			Warnings: c.warnings,
		}
	}
	return CompileResult{
		Files:    files,
		Warnings: c.warnings,
	}
}

type compiler struct {
	opts     *CompileOptions
	symbols  *SymbolTable
	path     string
	values   map[string]string // enum value native name -> path
	errors   []*Error
	warnings []*Warning
}

func (c *compiler) err(err *Error) {
	if err.path == "" {
		err.path = c.path
	}
	c.errors = append(c.errors, err)
}

func (c *compiler) warn(warning *Warning) {
	if warning.path == "" {
		warning.path = c.path
	}
	c.warnings = append(c.warnings, warning)
}

func (c *compiler) isReserved(name string) bool {
	_, ok := c.opts.reserved[name]
	return ok
}
