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
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
)

type cmdWatch struct {
	gen         cmdGenerate
	debounce    time.Duration
	metricsAddr string
}

func (*cmdWatch) help() *commandHelp {
	return &commandHelp{
		usage:   "watch [flags] DIR",
		summary: "Regenerate decoders whenever a schema under DIR changes",
		minArgs: 1,
	}
}

func (cmd *cmdWatch) flags(flags *pflag.FlagSet) {
	cmd.gen.flags(flags)
	flags.DurationVar(&cmd.debounce, "debounce", 0, "delay after the last change before rebuilding")
	flags.StringVar(&cmd.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
}

func (cmd *cmdWatch) run(ctx context.Context, env *cmdEnv, argv []string) int {
	if err := cmd.gen.apply(env); err != nil {
		env.log.Error().Err(err).Msg("invalid options")
		return 1
	}
	cfg := env.cfg
	if cmd.debounce > 0 {
		cfg.Watch.Debounce = cmd.debounce
	}
	if cmd.metricsAddr != "" {
		cfg.Watch.MetricsAddr = cmd.metricsAddr
	}
	matcher, err := cfg.Matcher()
	if err != nil {
		env.log.Error().Err(err).Send()
		return 1
	}
	root := argv[0]

	reg := prometheus.NewRegistry()
	metrics := newWatchMetrics(reg)
	if cfg.Watch.MetricsAddr != "" {
		srv := serveMetrics(env, cfg.Watch.MetricsAddr, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	w, err := newSchemaWatcher(root, matcher, cfg.Watch.Debounce, env.log, metrics)
	if err != nil {
		env.log.Error().Err(err).Str("root", root).Msg("failed to start watcher")
		return 1
	}

	rebuild := func() {
		env.rebuild(ctx, root, matcher, metrics)
	}
	rebuild()
	env.log.Info().Str("root", root).Dur("debounce", cfg.Watch.Debounce).Msg("watching")
	if err := w.Run(ctx, rebuild); err != nil {
		env.log.Error().Err(err).Send()
		return 1
	}
	return 0
}

// rebuild compiles every selected schema under root as one batch. Failures
// are logged and counted; the watcher keeps running.
func (env *cmdEnv) rebuild(ctx context.Context, root string, m *Matcher, metrics *watchMetrics) bool {
	start := time.Now()
	ok := env.rebuildOnce(ctx, root, m, metrics)
	metrics.duration.Observe(time.Since(start).Seconds())
	if ok {
		metrics.compiles.WithLabelValues("ok").Inc()
	} else {
		metrics.compiles.WithLabelValues("error").Inc()
	}
	return ok
}

func (env *cmdEnv) rebuildOnce(ctx context.Context, root string, m *Matcher, metrics *watchMetrics) bool {
	paths, err := scanSchemas(root, m)
	if err != nil {
		env.log.Error().Err(err).Msg("scanning schemas")
		return false
	}
	metrics.schemaFiles.Set(float64(len(paths)))
	if len(paths) == 0 {
		env.log.Warn().Str("root", root).Msg("no schema files matched")
		return true
	}

	b, err := env.compileBatch(paths)
	if err != nil {
		if !errors.Is(err, errReported) {
			env.log.Error().Err(err).Send()
		}
		return false
	}
	written, err := env.generate(ctx, b.files)
	if err != nil {
		env.log.Error().Err(err).Msg("code generation failed")
		return false
	}
	env.log.Info().Int("schemas", len(paths)).Int("files", len(written)).Msg("rebuilt")
	return true
}

func serveMetrics(env *cmdEnv, addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	env.log.Info().Str("addr", addr).Msg("metrics server starting")
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			env.log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return srv
}
