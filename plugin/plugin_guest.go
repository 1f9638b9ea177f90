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
	"fmt"

	"github.com/goccy/go-json"

	"go.pbsl.org/pbsl/codegen"
)

// GenerateFunc produces output files for a request.
type GenerateFunc func(*Request) (*Response, error)

// Handle is the plugin side of the protocol: it decodes a JSON request,
// runs generate, and encodes the response. Failures are reported in the
// response's error field.
func Handle(request []byte, generate GenerateFunc) []byte {
	var req Request
	if err := json.Unmarshal(request, &req); err != nil {
		return errorResponse(fmt.Errorf("malformed request: %w", err))
	}
	resp, err := generate(&req)
	if err != nil {
		return errorResponse(err)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		return errorResponse(err)
	}
	return out
}

func errorResponse(err error) []byte {
	out, marshalErr := json.Marshal(&Response{Error: err.Error()})
	if marshalErr != nil {
		return []byte(`{"error":"failed to encode response"}`)
	}
	return out
}

// GenerateGo runs the built-in Go generator over every file of the
// request. It is what the bundled plugin binary serves.
func GenerateGo(req *Request) (*Response, error) {
	var opts []codegen.GenerateOption
	if req.Package != "" {
		opts = append(opts, codegen.WithPackage(req.Package))
	}
	if req.RuntimeImport != "" {
		opts = append(opts, codegen.WithRuntimeImport(req.RuntimeImport))
	}
	gen := codegen.NewGenerateOptions(opts...)

	resp := &Response{}
	for _, file := range req.Files {
		out, err := gen.Generate(file)
		if err != nil {
			return nil, err
		}
		resp.Files = append(resp.Files, OutputFile{
			Path:    []string{codegen.DeclarationsName(file.Name)},
			Content: string(out.Declarations),
		})
		if out.Definitions != nil {
			resp.Files = append(resp.Files, OutputFile{
				Path:    []string{codegen.DefinitionsName(file.Name)},
				Content: string(out.Definitions),
			})
		}
	}
	return resp, nil
}
