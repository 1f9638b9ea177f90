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

// Command pbsl compiles schema files into Go decoders.
package main

import (
	"context"
	stdflag "flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type command interface {
	help() *commandHelp
	flags(flags *pflag.FlagSet)
	run(ctx context.Context, env *cmdEnv, argv []string) int
}

type commandHelp struct {
	usage   string
	summary string
	minArgs int
}

// globalFlags are accepted by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

// cmdEnv is the state shared by a subcommand run: resolved configuration,
// a logger, and the streams to write results to.
type cmdEnv struct {
	cfg    *Config
	log    zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

func newEnv(globals *globalFlags, stdout, stderr io.Writer) (*cmdEnv, error) {
	cfg, err := LoadConfig(globals.configPath)
	if err != nil {
		return nil, err
	}
	level := resolveLogLevel(globals.logLevel, cfg.Log.Level)
	logger, err := newLogger(stderr, level)
	if err != nil {
		return nil, err
	}
	return &cmdEnv{
		cfg:    cfg,
		log:    logger,
		stdout: stdout,
		stderr: stderr,
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rc := runMain(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(rc)
}

func runMain(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rc := 0
	globals := &globalFlags{}

	pbslCmd := &cobra.Command{
		Use:           "pbsl [options] COMMAND",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	pbslCmd.SetArgs(args)
	pbslCmd.SetOut(stdout)
	pbslCmd.SetErr(stderr)
	pbslCmd.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(stderr, pbslCmd.UsageString())
		rc = 1
		return nil
	}

	persistent := pbslCmd.PersistentFlags()
	persistent.StringVar(&globals.configPath, "config", "", "config file (default ./pbsl.toml if present)")
	persistent.StringVar(&globals.logLevel, "log-level", "", "log level: debug, info, warn, error")

	commands := []command{
		&cmdGenerate{},
		&cmdDump{},
		&cmdWatch{},
	}
	for _, cmd := range commands {
		help := cmd.help()
		cobraCmd := &cobra.Command{
			Use:   help.usage,
			Short: help.summary,
			Args:  cobra.MinimumNArgs(help.minArgs),
			RunE: func(_ *cobra.Command, args []string) error {
				env, err := newEnv(globals, stdout, stderr)
				if err != nil {
					return err
				}
				rc = cmd.run(ctx, env, args)
				return nil
			},
		}
		pbslCmd.AddCommand(cobraCmd)
		cmd.flags(cobraCmd.Flags())
	}

	pbslCmd.Flags().AddGoFlagSet(stdflag.CommandLine)
	if _, err := pbslCmd.ExecuteContextC(ctx); err != nil {
		fmt.Fprintf(stderr, "pbsl: %v\n", err)
		return 1
	}
	return rc
}
