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

package syntax

import (
	"strings"
)

const defaultMaxDepth = 64

type ParseOption interface {
	apply(*ParseOptions)
}

type parseOptionFunc func(*ParseOptions)

func (fn parseOptionFunc) apply(opts *ParseOptions) {
	fn(opts)
}

// MaxDepth limits how deeply message declarations may nest.
func MaxDepth(depth int) ParseOption {
	return parseOptionFunc(func(opts *ParseOptions) {
		opts.maxDepth = depth
	})
}

func Parse(src []uint8, opts ...ParseOption) (*File, error) {
	return NewParseOptions(opts...).ParseFile(src)
}

type ParseOptions struct {
	maxDepth int
}

func NewParseOptions(opts ...ParseOption) *ParseOptions {
	parseOpts := &ParseOptions{
		maxDepth: defaultMaxDepth,
	}
	for _, opt := range opts {
		opt.apply(parseOpts)
	}
	return parseOpts
}

func (opts *ParseOptions) ParseFile(src []uint8) (*File, error) {
	return parseAll(opts, src, parseFile)
}

func (opts *ParseOptions) ParseMessage(src []uint8) (*Message, error) {
	return parseAll(opts, src, parseMessage)
}

func (opts *ParseOptions) ParseEnum(src []uint8) (*Enum, error) {
	return parseAll(opts, src, parseEnum)
}

func (opts *ParseOptions) ParseField(src []uint8) (*Field, error) {
	return parseAll(opts, src, parseField)
}

func (opts *ParseOptions) ParseOption(src []uint8) (*Option, error) {
	return parseAll(opts, src, parseOption)
}

// parser is shared by every context of one parse. It remembers the failure
// that reached furthest into the input, which is the one reported when no
// alternative matches.
type parser struct {
	src      []uint8
	opts     *ParseOptions
	depth    int
	farthest *Error
}

func (p *parser) record(err *Error) {
	if p.farthest == nil || err.span.start >= p.farthest.span.start {
		p.farthest = err
	}
}

func parseAll[T any, PtrT interface {
	*T
	Node
}](
	opts *ParseOptions,
	src []uint8,
	parseFn func(*parseCtx[T]) (PtrT, error),
) (*T, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	p := &parser{
		src:  src,
		opts: opts,
	}
	ctx := &parseCtx[T]{p: p}
	node, err := parseFn(ctx)
	if err == nil {
		ctx.space()
		if int(ctx.offset) != len(src) {
			ctx.fail(errExpectedDeclaration(src, ctx.offset))
			err = ctx.err
		}
	}
	if err != nil {
		return nil, p.farthest
	}
	return node, nil
}

type parseCtx[T any] struct {
	p          *parser
	start      uint32
	offset     uint32
	childNodes []Node
	err        error
}

func (ctx *parseCtx[T]) rest() []uint8 {
	return ctx.p.src[ctx.offset:]
}

func (ctx *parseCtx[T]) fail(err *Error) {
	if ctx.err != nil {
		return
	}
	ctx.p.record(err)
	ctx.err = err
}

func (ctx *parseCtx[T]) push(child Node, size int) {
	ctx.childNodes = append(ctx.childNodes, child)
	ctx.offset += uint32(size)
}

func (ctx *parseCtx[T]) atEOF() bool {
	return int(ctx.offset) == len(ctx.p.src)
}

// loop yields until an iteration fails or consumes no input.
func (ctx *parseCtx[T]) loop(yield func(struct{}) bool) {
	if ctx.err != nil {
		return
	}
	for {
		offset := ctx.offset
		if !yield(struct{}{}) {
			return
		}
		if ctx.err != nil {
			return
		}
		if offset == ctx.offset {
			return
		}
	}
}

func (ctx *parseCtx[T]) space() {
	if ctx.err != nil {
		return
	}
	if n := scanSpace(ctx.rest()); n > 0 {
		ctx.push(&Space{
			raw:   string(ctx.rest()[:n]),
			start: ctx.offset,
		}, n)
	}
}

func (ctx *parseCtx[T]) sigil(c uint8) {
	if ctx.err != nil {
		return
	}
	if !ctx.trySigil(c) {
		ctx.fail(errExpectedSigil(ctx.p.src, ctx.offset, c))
	}
}

func (ctx *parseCtx[T]) trySigil(c uint8) bool {
	if ctx.err != nil {
		return false
	}
	ctx.space()
	rest := ctx.rest()
	if len(rest) == 0 || rest[0] != c {
		return false
	}
	ctx.push(&Sigil{
		raw:   c,
		start: ctx.offset,
	}, 1)
	return true
}

// tryKeyword matches a whole symbol equal to one of the given words. The
// matched spelling is kept, so callers comparing case-insensitively still
// see the source text.
func (ctx *parseCtx[T]) tryKeyword(foldCase bool, words ...string) *Keyword {
	if ctx.err != nil {
		return nil
	}
	ctx.space()
	rest := ctx.rest()
	n := scanSymbol(rest)
	if n == 0 {
		return nil
	}
	token := string(rest[:n])
	for _, word := range words {
		if token == word || (foldCase && strings.EqualFold(token, word)) {
			keyword := &Keyword{
				raw:   token,
				start: ctx.offset,
			}
			ctx.push(keyword, n)
			return keyword
		}
	}
	return nil
}

func (ctx *parseCtx[T]) keyword(word string) {
	if ctx.err != nil {
		return
	}
	if ctx.tryKeyword(false, word) == nil {
		ctx.fail(errExpectedKeyword(ctx.p.src, ctx.offset, word))
	}
}

func (ctx *parseCtx[T]) symbol() *Symbol {
	if ctx.err != nil {
		return nil
	}
	ctx.space()
	rest := ctx.rest()
	n := scanSymbol(rest)
	if n == 0 {
		ctx.fail(errExpectedSymbol(ctx.p.src, ctx.offset))
		return nil
	}
	symbol := &Symbol{
		raw:   string(rest[:n]),
		start: ctx.offset,
	}
	ctx.push(symbol, n)
	return symbol
}

func (ctx *parseCtx[T]) number() *Number {
	if ctx.err != nil {
		return nil
	}
	ctx.space()
	rest := ctx.rest()
	n := scanNumber(rest)
	if n == 0 {
		ctx.fail(errExpectedNumber(ctx.p.src, ctx.offset))
		return nil
	}
	number := &Number{
		raw:   string(rest[:n]),
		start: ctx.offset,
	}
	ctx.push(number, n)
	return number
}

func (ctx *parseCtx[T]) str() *String {
	if ctx.err != nil {
		return nil
	}
	ctx.space()
	rest := ctx.rest()
	n := scanString(rest)
	if n < 0 {
		ctx.fail(errStringUnterminated(ctx.offset, uint32(len(rest))))
		return nil
	}
	if n == 0 {
		ctx.fail(errExpectedString(ctx.p.src, ctx.offset))
		return nil
	}
	str := &String{
		raw:   string(rest[:n]),
		start: ctx.offset,
	}
	ctx.push(str, n)
	return str
}

// value = number | symbol | string
func (ctx *parseCtx[T]) value() Value {
	if ctx.err != nil {
		return nil
	}
	ctx.space()
	rest := ctx.rest()
	if n := scanNumber(rest); n > 0 {
		return ctx.number()
	}
	if n := scanSymbol(rest); n > 0 {
		return ctx.symbol()
	}
	if n := scanString(rest); n != 0 {
		return ctx.str()
	}
	ctx.fail(errExpectedValue(ctx.p.src, ctx.offset))
	return nil
}

func (ctx *parseCtx[T]) enter() bool {
	if ctx.err != nil {
		return false
	}
	ctx.p.depth++
	if ctx.p.depth > ctx.p.opts.maxDepth {
		ctx.fail(errNestingTooDeep(ctx.p.src, ctx.offset, ctx.p.opts.maxDepth))
	}
	return true
}

func (ctx *parseCtx[T]) leave() {
	ctx.p.depth--
}

func (ctx *parseCtx[T]) finish(
	build func(span Span, childNodes []Node) *T,
) (*T, error) {
	if ctx.err != nil {
		return nil, ctx.err
	}
	span := Span{
		start: ctx.start,
		len:   ctx.offset - ctx.start,
	}
	return build(span, ctx.childNodes), nil
}

func runChild[P any, C any, PtrC interface {
	*C
	Node
}](
	ctx *parseCtx[P],
	parseChildFn func(*parseCtx[C]) (PtrC, error),
) (*C, error) {
	ctx.space()
	childCtx := &parseCtx[C]{
		p:      ctx.p,
		start:  ctx.offset,
		offset: ctx.offset,
	}
	child, err := parseChildFn(childCtx)
	if err != nil {
		return nil, err
	}
	ctx.childNodes = append(ctx.childNodes, child)
	ctx.offset = childCtx.offset
	return child, nil
}

// parseChild tries one alternative. On failure the input position is left
// unchanged so the next alternative starts from the same place.
func parseChild[P any, C any, PtrC interface {
	*C
	Node
}](
	ctx *parseCtx[P],
	parseChildFn func(*parseCtx[C]) (PtrC, error),
) (*C, bool) {
	if ctx.err != nil {
		return nil, false
	}
	child, err := runChild(ctx, parseChildFn)
	return child, err == nil
}

// requireChild parses a mandatory child; failure fails the parent.
func requireChild[P any, C any, PtrC interface {
	*C
	Node
}](
	ctx *parseCtx[P],
	parseChildFn func(*parseCtx[C]) (PtrC, error),
) *C {
	if ctx.err != nil {
		return nil
	}
	child, err := runChild(ctx, parseChildFn)
	if err != nil {
		ctx.err = err
		return nil
	}
	return child
}

// file = *(enum | option | message | import | extend)
func parseFile(ctx *parseCtx[File]) (*File, error) {
	var decls []Node
	for range ctx.loop {
		ctx.space()
		if ctx.atEOF() {
			break
		}
		if decl, ok := parseChild(ctx, parseEnum); ok {
			decls = append(decls, decl)
		} else if decl, ok := parseChild(ctx, parseOption); ok {
			decls = append(decls, decl)
		} else if decl, ok := parseChild(ctx, parseMessage); ok {
			decls = append(decls, decl)
		} else if decl, ok := parseChild(ctx, parseImport); ok {
			decls = append(decls, decl)
		} else if decl, ok := parseChild(ctx, parseExtend); ok {
			decls = append(decls, decl)
		} else {
			ctx.fail(errExpectedDeclaration(ctx.p.src, ctx.offset))
		}
	}

	return ctx.finish(func(span Span, childNodes []Node) *File {
		return &File{
			branchNode: branchNode{span, childNodes},
			decls:      decls,
		}
	})
}

// import = 'import' string ';'
func parseImport(ctx *parseCtx[Import]) (*Import, error) {
	ctx.keyword("import")
	path := ctx.str()
	ctx.sigil(';')

	return ctx.finish(func(span Span, childNodes []Node) *Import {
		return &Import{
			branchNode: branchNode{span, childNodes},
			path:       path,
		}
	})
}

// option = 'option' symbol '=' value ';'
func parseOption(ctx *parseCtx[Option]) (*Option, error) {
	ctx.keyword("option")
	name := ctx.symbol()
	ctx.sigil('=')
	value := ctx.value()
	ctx.sigil(';')

	return ctx.finish(func(span Span, childNodes []Node) *Option {
		return &Option{
			branchNode: branchNode{span, childNodes},
			name:       name,
			value:      value,
		}
	})
}

// field-options = '[' symbol '=' value ']'
func parseFieldOption(ctx *parseCtx[FieldOption]) (*FieldOption, error) {
	ctx.sigil('[')
	name := ctx.symbol()
	ctx.sigil('=')
	value := ctx.value()
	ctx.sigil(']')

	return ctx.finish(func(span Span, childNodes []Node) *FieldOption {
		return &FieldOption{
			branchNode: branchNode{span, childNodes},
			name:       name,
			value:      value,
		}
	})
}

// enum = 'enum' symbol '{' +(symbol '=' value [field-options] ';') '}'
func parseEnum(ctx *parseCtx[Enum]) (*Enum, error) {
	ctx.keyword("enum")
	name := ctx.symbol()
	ctx.sigil('{')

	var values []*EnumValue
	if value := requireChild(ctx, parseEnumValue); value != nil {
		values = append(values, value)
	}
	for range ctx.loop {
		if value, ok := parseChild(ctx, parseEnumValue); ok {
			values = append(values, value)
		}
	}
	ctx.sigil('}')

	return ctx.finish(func(span Span, childNodes []Node) *Enum {
		return &Enum{
			branchNode: branchNode{span, childNodes},
			name:       name,
			values:     values,
		}
	})
}

func parseEnumValue(ctx *parseCtx[EnumValue]) (*EnumValue, error) {
	name := ctx.symbol()
	ctx.sigil('=')
	value := ctx.value()
	option, _ := parseChild(ctx, parseFieldOption)
	ctx.sigil(';')

	return ctx.finish(func(span Span, childNodes []Node) *EnumValue {
		return &EnumValue{
			branchNode: branchNode{span, childNodes},
			name:       name,
			value:      value,
			option:     option,
		}
	})
}

// field = [rule] symbol symbol '=' number [field-options] ';'
func parseField(ctx *parseCtx[Field]) (*Field, error) {
	rule := ctx.tryKeyword(true, "optional", "required", "repeated")
	fieldType := ctx.symbol()
	name := ctx.symbol()
	ctx.sigil('=')
	number := ctx.number()
	option, _ := parseChild(ctx, parseFieldOption)
	ctx.sigil(';')

	return ctx.finish(func(span Span, childNodes []Node) *Field {
		return &Field{
			branchNode: branchNode{span, childNodes},
			rule:       rule,
			fieldType:  fieldType,
			name:       name,
			number:     number,
			option:     option,
		}
	})
}

// message = 'message' symbol '{' *(option | message | enum | field) '}'
func parseMessage(ctx *parseCtx[Message]) (*Message, error) {
	ctx.keyword("message")
	name := ctx.symbol()
	ctx.sigil('{')
	if ctx.enter() {
		defer ctx.leave()
	}

	var decls []Node
	for range ctx.loop {
		if decl, ok := parseChild(ctx, parseOption); ok {
			decls = append(decls, decl)
		} else if decl, ok := parseChild(ctx, parseMessage); ok {
			decls = append(decls, decl)
		} else if decl, ok := parseChild(ctx, parseEnum); ok {
			decls = append(decls, decl)
		} else if decl, ok := parseChild(ctx, parseField); ok {
			decls = append(decls, decl)
		}
	}
	ctx.sigil('}')

	return ctx.finish(func(span Span, childNodes []Node) *Message {
		return &Message{
			branchNode: branchNode{span, childNodes},
			name:       name,
			decls:      decls,
		}
	})
}

// extend = 'extend' symbol '{' *field '}'
func parseExtend(ctx *parseCtx[Extend]) (*Extend, error) {
	ctx.keyword("extend")
	name := ctx.symbol()
	ctx.sigil('{')

	var fields []*Field
	for range ctx.loop {
		if field, ok := parseChild(ctx, parseField); ok {
			fields = append(fields, field)
		}
	}
	ctx.sigil('}')

	return ctx.finish(func(span Span, childNodes []Node) *Extend {
		return &Extend{
			branchNode: branchNode{span, childNodes},
			name:       name,
			fields:     fields,
		}
	})
}
