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
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"go.pbsl.org/pbsl/encoding/pbsltext"
	"go.pbsl.org/pbsl/schema"
)

type cmdDump struct {
	format string
}

func (*cmdDump) help() *commandHelp {
	return &commandHelp{
		usage:   "dump [--format=json|yaml|text] FILE...",
		summary: "Print the compiled schema with resolved names",
		minArgs: 1,
	}
}

func (cmd *cmdDump) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.format, "format", "f", "text", "output format: json, yaml, or text")
}

func (cmd *cmdDump) run(ctx context.Context, env *cmdEnv, argv []string) int {
	switch cmd.format {
	case "json", "yaml", "text":
	default:
		env.log.Error().Msgf("unsupported dump format %q", cmd.format)
		return 1
	}

	b, err := env.compileBatch(argv)
	if err != nil {
		if !errors.Is(err, errReported) {
			env.log.Error().Err(err).Send()
		}
		return 1
	}
	if err := dump(env.stdout, cmd.format, b.files); err != nil {
		env.log.Error().Err(err).Send()
		return 1
	}
	return 0
}

func dump(w io.Writer, format string, files []*schema.File) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(files); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		return pbsltext.EncodeTo(w, files...)
	}
	return fmt.Errorf("unsupported dump format %q", format)
}
