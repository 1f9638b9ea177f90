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
	"errors"
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
)

const defaultConfigPath = "pbsl.toml"

type Config struct {
	Output        string      `toml:"output"`
	Package       string      `toml:"package"`
	RuntimeImport string      `toml:"runtime_import"`
	ReservedWords []string    `toml:"reserved_words"`
	StrictTypes   bool        `toml:"strict_types"`
	Plugin        string      `toml:"plugin"`
	PluginPath    string      `toml:"plugin_path"`
	Include       []string    `toml:"include"`
	Exclude       []string    `toml:"exclude"`
	Watch         WatchConfig `toml:"watch"`
	Log           LogConfig   `toml:"log"`
}

type WatchConfig struct {
	Debounce    time.Duration `toml:"debounce"`
	MetricsAddr string        `toml:"metrics_addr"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Package:       "pb",
		RuntimeImport: "go.pbsl.org/pbsl",
		Include:       []string{"**/*.proto"},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads a TOML config file over the defaults. An empty path
// means ./pbsl.toml, which is optional; an explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Package == "" {
		return fmt.Errorf("package must not be empty")
	}
	if !token.IsIdentifier(cfg.Package) {
		return fmt.Errorf("package %q is not a valid Go identifier", cfg.Package)
	}
	if cfg.RuntimeImport == "" {
		return fmt.Errorf("runtime_import must not be empty")
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Log.Level != "" {
		if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	if _, err := cfg.Matcher(); err != nil {
		return err
	}
	return nil
}

// Matcher selects schema files by their slash-separated path relative to
// the watched root.
type Matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

func (cfg *Config) Matcher() (*Matcher, error) {
	m := &Matcher{}
	var err error
	if m.include, err = compileGlobs("include", cfg.Include); err != nil {
		return nil, err
	}
	if m.exclude, err = compileGlobs("exclude", cfg.Exclude); err != nil {
		return nil, err
	}
	return m, nil
}

// compileGlobs also matches a leading "**/" against files at the root, so
// "**/*.proto" selects "a.proto".
func compileGlobs(key string, patterns []string) ([]glob.Glob, error) {
	var out []glob.Glob
	for _, pattern := range patterns {
		variants := []string{pattern}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			variants = append(variants, rest)
		}
		for _, variant := range variants {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				return nil, fmt.Errorf("%s: invalid pattern %q: %w", key, pattern, err)
			}
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *Matcher) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, g := range m.exclude {
		if g.Match(rel) {
			return false
		}
	}
	for _, g := range m.include {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Excluded reports whether a directory can be skipped entirely.
func (m *Matcher) Excluded(relDir string) bool {
	relDir = filepath.ToSlash(relDir)
	for _, g := range m.exclude {
		if g.Match(relDir) || g.Match(relDir+"/") {
			return true
		}
	}
	return false
}
