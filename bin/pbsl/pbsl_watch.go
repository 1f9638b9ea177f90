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
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// scanSchemas lists files under root selected by m, in lexical order.
func scanSchemas(root string, m *Matcher) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel != "." && m.Excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if m.Match(rel) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// schemaWatcher coalesces file system events under a root into calls to
// a rebuild function. Rebuilds never overlap.
type schemaWatcher struct {
	fs       *fsnotify.Watcher
	root     string
	match    *Matcher
	debounce time.Duration
	log      zerolog.Logger
	metrics  *watchMetrics

	mu      sync.Mutex
	timer   *time.Timer
	changed chan struct{}
}

func newSchemaWatcher(root string, m *Matcher, debounce time.Duration, log zerolog.Logger, metrics *watchMetrics) (*schemaWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &schemaWatcher{
		fs:       fsw,
		root:     root,
		match:    m,
		debounce: debounce,
		log:      log,
		metrics:  metrics,
		changed:  make(chan struct{}, 1),
	}
	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *schemaWatcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, err := filepath.Rel(w.root, path); err == nil && rel != "." && w.match.Excluded(rel) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

// Run calls rebuild after each burst of relevant events until ctx is
// done. The watcher is closed on return.
func (w *schemaWatcher) Run(ctx context.Context, rebuild func()) error {
	defer w.close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.changed:
			rebuild()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *schemaWatcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.log.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
				return
			}
			// files may have landed before the directory was watched
			w.schedule()
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || !w.match.Match(rel) {
		return
	}
	w.log.Debug().Str("path", rel).Str("op", event.Op.String()).Msg("schema changed")
	if w.metrics != nil {
		w.metrics.events.Inc()
	}
	w.schedule()
}

func (w *schemaWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.changed <- struct{}{}:
		default:
		}
	})
}

func (w *schemaWatcher) close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fs.Close()
}
