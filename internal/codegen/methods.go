package codegen

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mark3labs/swagger2sdk/internal/spec"
)

// TypeScript names referenced by generated signatures.
const (
	UnknownParamsObject = "UnknownParamsObject"
	AxiosRequestConfig  = "AxiosRequestConfig"
	OperationResponse   = "OperationResponse"
	anyType             = "any"
)

// RenderedMethod is a method signature and its doc comment.
type RenderedMethod struct {
	Signature string
	Comment   string
}

// String joins comment and signature with a newline.
func (m RenderedMethod) String() string {
	return m.Comment + "\n" + m.Signature
}

// Renderer renders TypeScript fragments for a set of operations.
type Renderer struct {
	opts   Options
	logger *slog.Logger
}

// NewRenderer validates opts and fills unset fields with defaults.
func NewRenderer(opts Options) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.normalize()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Renderer{opts: opts, logger: logger}, nil
}

func (r *Renderer) Options() Options { return r.opts }

// RenderMethod renders the signature of op under the member name name.
func RenderMethod(name string, op spec.Operation, ix *TypeIndex) RenderedMethod {
	paramsType := UnknownParamsObject
	if params := ix.ParameterTypes(op.OperationID); len(params) > 0 {
		paramsType = strings.Join(params, " & ")
	}
	dataType := anyType
	if body, ok := ix.RequestBodyType(op.OperationID); ok {
		dataType = body
	}
	responseType := anyType
	if responses := ix.ResponseTypes(op.OperationID); len(responses) > 0 {
		responseType = strings.Join(responses, " | ")
	}

	args := []string{
		"parameters?: Parameters<" + paramsType + "> | null",
		"data?: " + dataType,
		"config?: " + AxiosRequestConfig,
	}
	signature := quoteString(name) + "(\n" +
		indent(strings.Join(args, ",\n"), 2) +
		"\n): " + OperationResponse + "<" + responseType + ">"
	return RenderedMethod{Signature: signature, Comment: docComment(op)}
}

// RenderOperationMethods renders the OperationMethods interface with default
// options, keeping duplicate operationIds. It never fails.
func RenderOperationMethods(ops []spec.Operation, exports []ExportType) string {
	r := &Renderer{opts: DefaultOptions(), logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	r.opts.OnDuplicateOperation = DuplicateKeepAll
	out, _ := r.OperationMethods(context.Background(), ops, NewTypeIndex(exports))
	return out
}

// OperationMethods renders the OperationMethods interface, one member per
// operation in input order.
func (r *Renderer) OperationMethods(ctx context.Context, ops []spec.Operation, ix *TypeIndex) (string, error) {
	ops, err := r.dedupe(ops)
	if err != nil {
		return "", err
	}
	if err := r.checkTypes(ops, ix); err != nil {
		return "", err
	}
	members, err := r.renderEach(ctx, len(ops), func(i int) string {
		return indent(RenderMethod(ops[i].OperationID, ops[i], ix).String(), 2)
	})
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(members)+2)
	lines = append(lines, "export interface OperationMethods {")
	lines = append(lines, members...)
	lines = append(lines, "}")
	return strings.Join(lines, "\n"), nil
}

// PathsDictionary renders the PathsDictionary interface keyed by path and
// then by method.
func (r *Renderer) PathsDictionary(ctx context.Context, items []spec.PathItem, ix *TypeIndex) (string, error) {
	items = nonEmpty(items)
	entries, err := r.renderEach(ctx, len(items), func(i int) string {
		item := items[i]
		members := make([]string, 0, len(item.Operations))
		for _, op := range item.Operations {
			members = append(members, RenderMethod(string(op.Method), op, ix).Signature)
		}
		body := indent(strings.Join(members, "\n"), 2)
		return indent("["+quoteString(item.Path)+"]: {\n"+body+"\n}", 2)
	})
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(entries)+2)
	lines = append(lines, "export interface PathsDictionary {")
	lines = append(lines, entries...)
	lines = append(lines, "}")
	return strings.Join(lines, "\n"), nil
}

// Typings assembles the full typings module from a type bundle and the
// filtered path items.
func (r *Renderer) Typings(ctx context.Context, items []spec.PathItem, bundle *TypeBundle) (string, error) {
	if bundle == nil {
		bundle = &TypeBundle{}
	}
	ix := NewTypeIndex(bundle.ExportTypes)
	methods, err := r.OperationMethods(ctx, spec.Flatten(items), ix)
	if err != nil {
		return "", err
	}
	dictionary, err := r.PathsDictionary(ctx, items, ix)
	if err != nil {
		return "", err
	}
	sections := []string{
		strings.TrimSpace(bundle.Imports),
		strings.TrimSpace(bundle.Declarations),
		methods,
		dictionary,
		"export type Client = OpenAPIClient<OperationMethods, PathsDictionary>",
	}
	var kept []string
	for _, s := range sections {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "\n\n") + "\n", nil
}

func (r *Renderer) dedupe(ops []spec.Operation) ([]spec.Operation, error) {
	if r.opts.OnDuplicateOperation == DuplicateKeepAll {
		return ops, nil
	}
	seen := make(map[string]int, len(ops))
	out := make([]spec.Operation, 0, len(ops))
	for _, op := range ops {
		id := op.OperationID
		if id == "" {
			out = append(out, op)
			continue
		}
		idx, dup := seen[id]
		if !dup {
			seen[id] = len(out)
			out = append(out, op)
			continue
		}
		switch r.opts.OnDuplicateOperation {
		case DuplicateError:
			return nil, &DuplicateOperationError{OperationID: id, First: out[idx].Key(), Second: op.Key()}
		case DuplicateLastWins:
			r.logger.Warn("duplicate operationId, keeping the later operation", "operationId", id, "dropped", out[idx].Key(), "kept", op.Key())
			out[idx] = op
		default:
			r.logger.Warn("duplicate operationId, keeping the first operation", "operationId", id, "kept", out[idx].Key(), "dropped", op.Key())
		}
	}
	return out, nil
}

func (r *Renderer) checkTypes(ops []spec.Operation, ix *TypeIndex) error {
	for _, op := range ops {
		if ix.Has(op.OperationID) {
			continue
		}
		if r.opts.OnMissingTypeRef == MissingTypeError {
			return &MissingTypeRefError{OperationID: op.OperationID, Operation: op.Key()}
		}
		r.logger.Debug("no generated types, using untyped signature", "operation", op.Key(), "operationId", op.OperationID)
	}
	return nil
}

// renderEach calls fn for 0..n-1 and keeps results in index order. Calls run
// on up to Options.Workers goroutines.
func (r *Renderer) renderEach(ctx context.Context, n int, fn func(i int) string) ([]string, error) {
	out := make([]string, n)
	if r.opts.Workers <= 1 || n < 2 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = fn(i)
		}
		return out, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func docComment(op spec.Operation) string {
	var parts []string
	for _, s := range []string{op.Summary, op.Description} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	text := op.OperationID
	if content := strings.Join(parts, "\n\n"); content != "" {
		text += " - " + content
	}
	body := commentText(text, "")
	if first, _, _ := strings.Cut(body, "\n"); first == "" {
		return "/**\n *" + body + "\n */"
	}
	return "/**\n * " + body + "\n */"
}

// commentText escapes s for a /** */ block whose continuation lines start
// with prefix + " * ". Empty lines keep a bare " *".
func commentText(s, prefix string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, "\n")
	s = strings.ReplaceAll(s, "*/", `*\/`)

	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] == "" {
			lines[i] = prefix + " *"
		} else {
			lines[i] = prefix + " * " + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// indent prefixes every non-blank line of s with n spaces.
func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

// quoteString renders s as a single-quoted TypeScript string literal.
func quoteString(s string) string {
	return "'" + quoteEscape(s) + "'"
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

// quoteEscape escapes s for use inside a single-quoted literal.
func quoteEscape(s string) string {
	return quoteReplacer.Replace(s)
}

func nonEmpty(items []spec.PathItem) []spec.PathItem {
	out := make([]spec.PathItem, 0, len(items))
	for _, item := range items {
		if len(item.Operations) > 0 {
			out = append(out, item)
		}
	}
	return out
}
