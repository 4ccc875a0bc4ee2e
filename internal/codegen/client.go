package codegen

import (
	"strings"
	"unicode"

	"github.com/mark3labs/swagger2sdk/internal/spec"
)

// Client method template placeholders.
const (
	PlaceholderOperationID = "operation_id"
	PlaceholderMethod      = "method"
	PlaceholderEndpoint    = "endpoint"
	PlaceholderSummary     = "summary"
	PlaceholderDescription = "description"
)

// clientCommentIndent is the indentation of doc comments in client-method.tmpl.
const clientCommentIndent = "  "

// ClientMethods renders methodTemplate once per path item, using the first
// declared method, or once per operation when Options.ClientMethods is
// AllMethods. Path items without operations are skipped. Each result has
// trailing whitespace removed. operation_id and endpoint are escaped for a
// single-quoted literal; summary and description for a doc comment.
func (r *Renderer) ClientMethods(items []spec.PathItem, methodTemplate string) ([]string, error) {
	var out []string
	for _, item := range items {
		ops := item.Operations
		if len(ops) == 0 {
			continue
		}
		if r.opts.ClientMethods != AllMethods && len(ops) > 1 {
			r.logger.Debug("path declares several methods, rendering the first", "path", item.Path, "method", ops[0].Method, "skipped", len(ops)-1)
			ops = ops[:1]
		}
		for _, op := range ops {
			rendered, err := r.opts.Substitution.Apply(methodTemplate, Replacements{
				Fill(PlaceholderOperationID, quoteEscape(op.OperationID)),
				Fill(PlaceholderMethod, string(op.Method)),
				Fill(PlaceholderEndpoint, quoteEscape(item.Path)),
				Fill(PlaceholderSummary, commentText(op.Summary, clientCommentIndent)),
				Fill(PlaceholderDescription, commentText(op.Description, clientCommentIndent)),
			})
			if err != nil {
				return nil, err
			}
			out = append(out, strings.TrimRightFunc(rendered, unicode.IsSpace))
		}
	}
	return out, nil
}

// Substitute applies replacements with the configured substitution mode.
func (r *Renderer) Substitute(template string, replacements Replacements) (string, error) {
	return r.opts.Substitution.Apply(template, replacements)
}
