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

	"github.com/spf13/pflag"
)

type cmdGenerate struct {
	outDir        string
	pkg           string
	runtimeImport string
	strictTypes   bool
	plugin        string
	pluginPath    string
}

func (*cmdGenerate) help() *commandHelp {
	return &commandHelp{
		usage:   "generate [flags] FILE...",
		summary: "Compile schema files and write Go decoders",
		minArgs: 1,
	}
}

func (cmd *cmdGenerate) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outDir, "output", "o", "", "directory to write generated files to")
	flags.StringVar(&cmd.pkg, "package", "", "Go package name of generated files")
	flags.StringVar(&cmd.runtimeImport, "runtime-import", "", "import path of the runtime library")
	flags.BoolVar(&cmd.strictTypes, "strict-types", false, "treat unknown field types as errors")
	flags.StringVar(&cmd.plugin, "plugin", "", "WebAssembly generator plugin, by name or path")
	flags.StringVar(&cmd.pluginPath, "plugin-path", "", "directories searched for plugins")
}

// apply overrides config values with flags that were set.
func (cmd *cmdGenerate) apply(env *cmdEnv) error {
	cfg := env.cfg
	if cmd.outDir != "" {
		cfg.Output = cmd.outDir
	}
	if cmd.pkg != "" {
		cfg.Package = cmd.pkg
	}
	if cmd.runtimeImport != "" {
		cfg.RuntimeImport = cmd.runtimeImport
	}
	if cmd.strictTypes {
		cfg.StrictTypes = true
	}
	if cmd.plugin != "" {
		cfg.Plugin = cmd.plugin
	}
	if cmd.pluginPath != "" {
		cfg.PluginPath = cmd.pluginPath
	}
	return cfg.Validate()
}

func (cmd *cmdGenerate) run(ctx context.Context, env *cmdEnv, argv []string) int {
	if err := cmd.apply(env); err != nil {
		env.log.Error().Err(err).Msg("invalid options")
		return 1
	}

	b, err := env.compileBatch(argv)
	if err != nil {
		if !errors.Is(err, errReported) {
			env.log.Error().Err(err).Send()
		}
		return 1
	}
	written, err := env.generate(ctx, b.files)
	if err != nil {
		env.log.Error().Err(err).Msg("code generation failed")
		return 1
	}
	env.log.Info().Int("files", len(written)).Str("output", env.cfg.Output).Msg("generated")
	return 0
}
