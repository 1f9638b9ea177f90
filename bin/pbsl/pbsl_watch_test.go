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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T, outDir string) (*cmdEnv, *bytes.Buffer) {
	t.Helper()
	var stderr bytes.Buffer
	logger, err := newLogger(&stderr, "debug")
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Output = outDir
	cfg.Exclude = []string{"vendor/**"}
	return &cmdEnv{
		cfg:    cfg,
		log:    logger,
		stdout: &bytes.Buffer{},
		stderr: &stderr,
	}, &stderr
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, result string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "result" && label.GetValue() == result {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestScanSchemas(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"b.proto":            "",
		"a.proto":            "",
		"api/v1/c.proto":     "",
		"api/v1/c.pbsl.go":   "",
		"vendor/dep.proto":   "",
		"notes/readme.txt":   "",
		"api/deep/d/e.proto": "",
	})
	cfg := DefaultConfig()
	cfg.Exclude = []string{"vendor/**"}
	m, err := cfg.Matcher()
	require.NoError(t, err)

	paths, err := scanSchemas(root, m)
	require.NoError(t, err)
	var rel []string
	for _, path := range paths {
		r, err := filepath.Rel(root, path)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{
		"a.proto",
		"api/deep/d/e.proto",
		"api/v1/c.proto",
		"b.proto",
	}, rel)
}

func TestRebuild(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	outDir := filepath.Join(root, "gen")
	env, stderr := testEnv(t, outDir)
	m, err := env.cfg.Matcher()
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	metrics := newWatchMetrics(reg)

	writeFiles(t, root, map[string]string{
		"a.proto": "message A {\n\tB b = 1;\n}\n",
		"b.proto": "message B {\n\tint32 v = 1;\n}\n",
	})
	require.True(t, env.rebuild(context.Background(), root, m, metrics), stderr.String())
	assert.FileExists(t, filepath.Join(outDir, "a.pbsl.go"))
	assert.FileExists(t, filepath.Join(outDir, "b_decode.pbsl.go"))
	assert.Equal(t, 1.0, counterValue(t, reg, "pbsl_compiles_total", "ok"))

	writeFiles(t, root, map[string]string{"b.proto": "message B {\n\tint32 v = 0;\n}\n"})
	assert.False(t, env.rebuild(context.Background(), root, m, metrics))
	assert.Contains(t, stderr.String(), "E3001")
	assert.Equal(t, 1.0, counterValue(t, reg, "pbsl_compiles_total", "error"))
}

func TestSchemaWatcher(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.proto": "message A {}\n"})
	cfg := DefaultConfig()
	m, err := cfg.Matcher()
	require.NoError(t, err)
	metrics := newWatchMetrics(prometheus.NewRegistry())

	w, err := newSchemaWatcher(root, m, 10*time.Millisecond, zerolog.Nop(), metrics)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rebuilds := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { rebuilds <- struct{}{} })
	}()

	// Non-schema files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.proto"), []byte("message A {}\n\n"), 0o644))
	select {
	case <-rebuilds:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after schema change")
	}

	// A schema in a new directory is picked up.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.proto"), []byte("message B {}\n"), 0o644))
	select {
	case <-rebuilds:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after schema added to new directory")
	}

	cancel()
	require.NoError(t, <-done)
}
