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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"go.pbsl.org/pbsl/compiler"
	"go.pbsl.org/pbsl/plugin"
	"go.pbsl.org/pbsl/schema"
	"go.pbsl.org/pbsl/syntax"
)

// errReported means diagnostics were already logged.
var errReported = errors.New("compilation failed")

type batch struct {
	sources map[string][]uint8
	files   []*schema.File
}

// compileBatch reads, parses, and compiles paths as one batch. Syntax
// errors stop at the first file that fails to parse. Diagnostics are
// logged; the returned error is errReported in that case.
func (env *cmdEnv) compileBatch(paths []string) (*batch, error) {
	b := &batch{sources: make(map[string][]uint8, len(paths))}
	sources := make([]compiler.Source, 0, len(paths))
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading schema: %w", err)
		}
		schemaPath := filepath.ToSlash(path)
		src := syntax.StripComments(raw)
		b.sources[schemaPath] = src

		parsed, err := syntax.Parse(src)
		if err != nil {
			var syntaxErr *syntax.Error
			if !errors.As(err, &syntaxErr) {
				return nil, err
			}
			line, column := syntaxErr.Line(src)
			env.log.Error().
				Str("file", schemaPath).
				Int("line", line).
				Int("column", column).
				Str("code", fmt.Sprintf("E%d", syntaxErr.Code())).
				Msg(syntaxErr.Message() + "\n" + syntaxErr.Render(src))
			return nil, errReported
		}
		sources = append(sources, compiler.Source{Path: schemaPath, File: parsed})
	}

	result := compiler.Compile(sources, env.compileOptions()...)
	for _, warning := range result.Warnings {
		env.diagnostic(env.log.Warn(), b.sources, "W", warning)
	}
	for _, err := range result.Errors {
		env.diagnostic(env.log.Error(), b.sources, "E", err)
	}
	if len(result.Errors) > 0 {
		return nil, errReported
	}
	b.files = result.Files
	return b, nil
}

func (env *cmdEnv) compileOptions() []compiler.CompileOption {
	var opts []compiler.CompileOption
	if len(env.cfg.ReservedWords) > 0 {
		opts = append(opts, compiler.WithReservedWords(env.cfg.ReservedWords...))
	}
	if env.cfg.StrictTypes {
		opts = append(opts, compiler.WithStrictTypes())
	}
	return opts
}

type diagnostic interface {
	Code() uint32
	Message() string
	Path() string
	Span() syntax.Span
}

func (env *cmdEnv) diagnostic(event *zerolog.Event, sources map[string][]uint8, prefix string, diag diagnostic) {
	span := diag.Span()
	line, column := syntax.Position(sources[diag.Path()], span.Start())
	event.
		Str("file", diag.Path()).
		Int("line", line).
		Int("column", column).
		Str("code", fmt.Sprintf("%s%d", prefix, diag.Code())).
		Msg(diag.Message())
}

// generate renders a compiled batch with the built-in Go generator, or
// with a WebAssembly plugin when one is configured, and writes the results
// under the output directory.
func (env *cmdEnv) generate(ctx context.Context, files []*schema.File) ([]string, error) {
	if env.cfg.Output == "" {
		return nil, fmt.Errorf("no output directory specified (set --output or output in %s)", defaultConfigPath)
	}
	req := &plugin.Request{
		Files:         files,
		Package:       env.cfg.Package,
		RuntimeImport: env.cfg.RuntimeImport,
	}

	var resp *plugin.Response
	var err error
	if env.cfg.Plugin == "" {
		resp, err = plugin.GenerateGo(req)
	} else {
		resp, err = env.runPlugin(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(env.cfg.Output, 0o755); err != nil {
		return nil, err
	}
	written, err := plugin.WriteFiles(env.cfg.Output, resp.Files)
	if err != nil {
		return nil, err
	}
	for _, path := range written {
		env.log.Debug().Str("path", path).Msg("wrote")
	}
	return written, nil
}

func (env *cmdEnv) runPlugin(ctx context.Context, req *plugin.Request) (*plugin.Response, error) {
	pluginPath, err := plugin.Locate(env.cfg.Plugin, env.cfg.PluginPath)
	if err != nil {
		return nil, err
	}
	env.log.Debug().Str("plugin", pluginPath).Msg("loading plugin")
	host, err := plugin.Load(ctx, pluginPath)
	if err != nil {
		return nil, err
	}
	defer host.Close(ctx)
	return host.Generate(ctx, req)
}
