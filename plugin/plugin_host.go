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

package plugin

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// 1 GiB of plugin memory.
const memoryLimitPages = 16384

// Host is an instantiated plugin. It is not safe for concurrent use.
type Host struct {
	runtime  wazero.Runtime
	module   api.Module
	allocate api.Function
	generate api.Function
}

// Load reads and instantiates the plugin at path.
func Load(ctx context.Context, path string) (*Host, error) {
	bin, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(ctx, bin)
}

// New instantiates a plugin from its WebAssembly binary. WASI is
// available so plugins built for wasip1 can run; their "_initialize"
// export is called instead of "_start".
func New(ctx context.Context, bin []byte) (*Host, error) {
	runtimeConfig := wazero.NewRuntimeConfigInterpreter().
		WithMemoryLimitPages(memoryLimitPages)
	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeConfig)

	host, err := instantiate(ctx, runtime, bin)
	if err != nil {
		runtime.Close(ctx)
		return nil, err
	}
	return host, nil
}

func instantiate(ctx context.Context, runtime wazero.Runtime, bin []byte) (*Host, error) {
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		return nil, err
	}
	compiled, err := runtime.CompileModule(ctx, bin)
	if err != nil {
		return nil, fmt.Errorf("plugin: compile: %w", err)
	}
	moduleConfig := wazero.NewModuleConfig().
		WithStartFunctions("_initialize").
		WithStderr(os.Stderr)
	module, err := runtime.InstantiateModule(ctx, compiled, moduleConfig)
	if err != nil {
		return nil, fmt.Errorf("plugin: instantiate: %w", err)
	}

	host := &Host{
		runtime:  runtime,
		module:   module,
		allocate: module.ExportedFunction(ExportAllocate),
		generate: module.ExportedFunction(ExportGenerate),
	}
	if host.allocate == nil {
		return nil, fmt.Errorf("plugin: missing export %q", ExportAllocate)
	}
	if host.generate == nil {
		return nil, fmt.Errorf("plugin: missing export %q", ExportGenerate)
	}
	if module.Memory() == nil {
		return nil, fmt.Errorf("plugin: module exports no memory")
	}
	return host, nil
}

func (h *Host) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}

// Generate sends one request to the plugin. A response carrying an error
// message is returned as an error.
func (h *Host) Generate(ctx context.Context, req *Request) (*Response, error) {
	requestBuf, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	results, err := h.allocate.Call(ctx, uint64(len(requestBuf)))
	if err != nil {
		return nil, fmt.Errorf("plugin: %s: %w", ExportAllocate, err)
	}
	requestPtr := uint32(results[0])
	if requestPtr == 0 {
		return nil, fmt.Errorf("plugin: failed to allocate %d bytes", len(requestBuf))
	}
	mem := h.module.Memory()
	if !mem.Write(requestPtr, requestBuf) {
		return nil, fmt.Errorf("plugin: request buffer at 0x%X is out of range", requestPtr)
	}

	results, err = h.generate.Call(ctx, uint64(requestPtr), uint64(len(requestBuf)))
	if err != nil {
		return nil, fmt.Errorf("plugin: %s: %w", ExportGenerate, err)
	}
	responsePtr := uint32(results[0] >> 32)
	responseLen := uint32(results[0])
	responseBuf, ok := mem.Read(responsePtr, responseLen)
	if !ok {
		return nil, fmt.Errorf("plugin: failed to read response message")
	}

	var response Response
	if err := json.Unmarshal(responseBuf, &response); err != nil {
		return nil, fmt.Errorf("plugin: malformed response: %w", err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("plugin: %s", response.Error)
	}
	return &response, nil
}
