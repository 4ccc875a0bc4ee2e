package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bndr/gotabulate"
	"github.com/spf13/cobra"

	genspec "github.com/mark3labs/swagger2sdk/internal/spec"
)

// OperationsConfig captures the options for the operations command.
type OperationsConfig struct {
	Swagger     string
	IncludeTags []string
	ExcludeTags []string
	Verbose     bool

	stdout io.Writer
	stderr io.Writer
}

var operationsRunner = runOperations

func newOperationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operations [document]",
		Short: "List the operations of an OpenAPI v3 document",
		Long:  "List the operations of an OpenAPI v3 document in declaration order, after tag filters.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			swagger, err := flags.GetString("swagger")
			if err != nil {
				return err
			}
			if len(args) == 1 {
				swagger = args[0]
			}
			include, err := flags.GetStringSlice("include-tags")
			if err != nil {
				return err
			}
			exclude, err := flags.GetStringSlice("exclude-tags")
			if err != nil {
				return err
			}
			verbose, err := flags.GetBool("verbose")
			if err != nil {
				return err
			}
			cfg := &OperationsConfig{
				Swagger:     strings.TrimSpace(swagger),
				IncludeTags: sanitizeTags(include),
				ExcludeTags: sanitizeTags(exclude),
				Verbose:     verbose,
				stdout:      cmd.OutOrStdout(),
				stderr:      cmd.ErrOrStderr(),
			}
			if cfg.Swagger == "" {
				return newUsageError("operations: a document path or URL is required")
			}
			return operationsRunner(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringP("swagger", "s", "", "Path or http/https URL of the OpenAPI v3 document")
	cmd.Flags().StringSlice("include-tags", nil, "Only include operations with these tags")
	cmd.Flags().StringSlice("exclude-tags", nil, "Exclude operations with these tags")

	return cmd
}

func runOperations(ctx context.Context, cfg *OperationsConfig) error {
	if err := validateSwaggerInput(cfg.Swagger); err != nil {
		return newUsageError(fmt.Sprintf("operations: %v", err))
	}
	doc, err := genspec.Load(ctx, cfg.Swagger, genspec.WithLogger(newLogger(cfg.stderr, cfg.Verbose)))
	if err != nil {
		return specUsageError(err)
	}
	items, err := genspec.ReadPaths(doc)
	if err != nil {
		return err
	}
	var filters []genspec.FilterOption
	if len(cfg.IncludeTags) > 0 {
		filters = append(filters, genspec.WithIncludeTags(cfg.IncludeTags))
	}
	if len(cfg.ExcludeTags) > 0 {
		filters = append(filters, genspec.WithExcludeTags(cfg.ExcludeTags))
	}
	printOperations(cfg.stdout, genspec.Flatten(genspec.FilterPaths(items, filters...)))
	return nil
}

func printOperations(w io.Writer, ops []genspec.Operation) {
	if len(ops) == 0 {
		fmt.Fprintln(w, "No operations found.")
		return
	}
	rows := make([][]any, 0, len(ops))
	for _, op := range ops {
		id := op.OperationID
		if id == "" {
			id = "-"
		}
		rows = append(rows, []any{strings.ToUpper(string(op.Method)), op.Path, id, firstLine(op.Summary)})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"Method", "Path", "OperationId", "Summary"})
	t.SetAlign("left")
	t.SetEmptyString("-")
	fmt.Fprint(w, t.Render("simple"))
	fmt.Fprintf(w, "%d operations\n", len(ops))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
