package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bndr/gotabulate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swagger2sdk/internal/codegen"
	"github.com/mark3labs/swagger2sdk/internal/emitter/tsemitter"
	genspec "github.com/mark3labs/swagger2sdk/internal/spec"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Swagger        string
	Output         string
	PackageName    string
	PackageVersion string
	IncludeTags    []string
	ExcludeTags    []string
	Templates      string

	ClientMethods        string
	Substitution         string
	OnUnmatchedServer    string
	OnMissingType        string
	OnDuplicateOperation string
	Workers              int

	ConfigPath  string
	Interactive bool
	DryRun      bool
	Force       bool
	Build       bool
	Verbose     bool

	stdout io.Writer
	stderr io.Writer
}

func defaultGenerateConfig() GenerateConfig {
	d := codegen.DefaultOptions()
	return GenerateConfig{
		ClientMethods:        string(d.ClientMethods),
		Substitution:         string(d.Substitution),
		OnUnmatchedServer:    string(d.OnUnmatchedServerLabel),
		OnMissingType:        string(d.OnMissingTypeRef),
		OnDuplicateOperation: string(d.OnDuplicateOperation),
	}
}

var (
	generateRunner = runGenerate
	buildRunner    = runYarnBuild
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a TypeScript SDK package from an OpenAPI v3 document",
		Long: "Generate a TypeScript SDK package from an OpenAPI v3 document. " +
			"Options can be provided via flags, config files, interactive prompts, or defaults.",
		Example: strings.TrimSpace(`  swagger2sdk generate -s openapi.yaml -o ./pets-sdk -p @acme/pets-sdk
  swagger2sdk generate -i
  swagger2sdk --config swagger2sdk.yaml generate --force --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringP("swagger", "s", "", "Path or http/https URL of the OpenAPI v3 document")
	flags.StringP("output", "o", "", "Output directory for the SDK package")
	flags.StringP("pkg", "p", "", "npm package name, e.g. @acme/pets-sdk")
	flags.StringP("pkg-version", "e", "", "Package version; defaults to info.version of the document")
	flags.BoolP("interactive", "i", false, "Prompt for missing or invalid values")
	flags.StringSlice("include-tags", nil, "Only include operations with these tags")
	flags.StringSlice("exclude-tags", nil, "Exclude operations with these tags")
	flags.String("templates", "", "Directory with template overrides (types.tmpl, client.tmpl, static/...)")
	flags.String("client-methods", "", "Client methods per path (first|all)")
	flags.String("substitution", "", "Placeholder substitution mode (single-pass|chained)")
	flags.String("on-unmatched-server", "", "Servers without a known environment label (ignore|error)")
	flags.String("on-missing-type", "", "Operations without generated types (fallback|error)")
	flags.String("on-duplicate-operation", "", "Repeated operationIds (error|first|last|keep)")
	flags.Int("workers", 0, "Parallel rendering workers; 0 or 1 renders sequentially")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")
	flags.Bool("force", false, "Overwrite existing output when set")
	flags.Bool("build", false, "Run yarn install and yarn build in the generated package")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	cfg.stdout = cmd.OutOrStdout()
	cfg.stderr = cmd.ErrOrStderr()

	if cfg.Interactive {
		if err := promptGenerateConfig(newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()), &cfg); err != nil {
			return nil, err
		}
		cfg.normalize()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	strs := map[string]*string{
		"swagger":                &cfg.Swagger,
		"output":                 &cfg.Output,
		"pkg":                    &cfg.PackageName,
		"pkg-version":            &cfg.PackageVersion,
		"templates":              &cfg.Templates,
		"client-methods":         &cfg.ClientMethods,
		"substitution":           &cfg.Substitution,
		"on-unmatched-server":    &cfg.OnUnmatchedServer,
		"on-missing-type":        &cfg.OnMissingType,
		"on-duplicate-operation": &cfg.OnDuplicateOperation,
	}
	for name, dst := range strs {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = strings.TrimSpace(value)
	}

	bools := map[string]*bool{
		"interactive": &cfg.Interactive,
		"dry-run":     &cfg.DryRun,
		"force":       &cfg.Force,
		"build":       &cfg.Build,
		"verbose":     &cfg.Verbose,
	}
	for name, dst := range bools {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = value
	}

	if flags.Changed("include-tags") {
		value, err := flags.GetStringSlice("include-tags")
		if err != nil {
			return err
		}
		cfg.IncludeTags = sanitizeTags(value)
	}
	if flags.Changed("exclude-tags") {
		value, err := flags.GetStringSlice("exclude-tags")
		if err != nil {
			return err
		}
		cfg.ExcludeTags = sanitizeTags(value)
	}
	if flags.Changed("workers") {
		value, err := flags.GetInt("workers")
		if err != nil {
			return err
		}
		cfg.Workers = value
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Swagger = strings.TrimSpace(c.Swagger)
	c.Output = strings.TrimSpace(c.Output)
	c.PackageName = strings.TrimSpace(c.PackageName)
	c.PackageVersion = strings.TrimSpace(c.PackageVersion)
	c.Templates = strings.TrimSpace(c.Templates)
	c.ClientMethods = strings.ToLower(strings.TrimSpace(c.ClientMethods))
	c.Substitution = strings.ToLower(strings.TrimSpace(c.Substitution))
	c.OnUnmatchedServer = strings.ToLower(strings.TrimSpace(c.OnUnmatchedServer))
	c.OnMissingType = strings.ToLower(strings.TrimSpace(c.OnMissingType))
	c.OnDuplicateOperation = strings.ToLower(strings.TrimSpace(c.OnDuplicateOperation))
	c.IncludeTags = sanitizeTags(c.IncludeTags)
	c.ExcludeTags = sanitizeTags(c.ExcludeTags)
}

func (c *GenerateConfig) validate() error {
	if c.Swagger == "" {
		return newUsageError("generate: --swagger is required (set via flag, config file, or --interactive)")
	}
	if c.Output == "" {
		return newUsageError("generate: --output is required (set via flag, config file, or --interactive)")
	}
	if err := validatePackageName(c.PackageName); err != nil {
		return newUsageError(fmt.Sprintf("generate: %v", err))
	}
	if err := validatePackageVersion(c.PackageVersion); err != nil {
		return newUsageError(fmt.Sprintf("generate: %v", err))
	}
	if c.Workers < 0 {
		return newUsageError(fmt.Sprintf("generate: --workers must not be negative, got %d", c.Workers))
	}
	if err := c.codegenOptions().Validate(); err != nil {
		return newUsageError(fmt.Sprintf("generate: %v", err))
	}

	overlap := intersect(c.IncludeTags, c.ExcludeTags)
	if len(overlap) > 0 {
		return newUsageError(fmt.Sprintf("generate: include/exclude tags overlap: %s", strings.Join(overlap, ", ")))
	}

	return nil
}

func (c *GenerateConfig) codegenOptions() codegen.Options {
	return codegen.Options{
		Substitution:           codegen.SubstitutionMode(c.Substitution),
		ClientMethods:          codegen.ClientMethodMode(c.ClientMethods),
		OnMissingTypeRef:       codegen.MissingTypePolicy(c.OnMissingType),
		OnUnmatchedServerLabel: codegen.ServerLabelPolicy(c.OnUnmatchedServer),
		OnDuplicateOperation:   codegen.DuplicatePolicy(c.OnDuplicateOperation),
		Workers:                c.Workers,
	}
}

func (c *GenerateConfig) filters() []genspec.FilterOption {
	var opts []genspec.FilterOption
	if len(c.IncludeTags) > 0 {
		opts = append(opts, genspec.WithIncludeTags(c.IncludeTags))
	}
	if len(c.ExcludeTags) > 0 {
		opts = append(opts, genspec.WithExcludeTags(c.ExcludeTags))
	}
	return opts
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	stdout, stderr := cfg.stdout, cfg.stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := newLogger(stderr, cfg.Verbose)

	if err := validateSwaggerInput(cfg.Swagger); err != nil {
		return newUsageError(fmt.Sprintf("generate: %v", err))
	}
	if !cfg.DryRun {
		if err := validateOutputPath(cfg.Output, cfg.Force); err != nil {
			return newUsageError(fmt.Sprintf("generate: %v", err))
		}
	}
	if err := validateTemplatesDir(cfg.Templates); err != nil {
		return newUsageError(fmt.Sprintf("generate: %v", err))
	}

	// 1) Load the document (file or http/https URL) with validation
	doc, err := genspec.Load(ctx, cfg.Swagger, genspec.WithLogger(logger))
	if err != nil {
		return specUsageError(err)
	}
	if doc.Info().Version == "" {
		return newUsageError(fmt.Sprintf("generate: %s has no info.version", cfg.Swagger))
	}
	logger.Debug("document loaded", "location", doc.Location, "title", doc.Info().Title)

	absOut := cfg.Output
	if ap, err := filepath.Abs(cfg.Output); err == nil {
		absOut = ap
	}

	// 2) Render the package
	opts := tsemitter.Options{
		OutDir:      cfg.Output,
		PackageName: cfg.PackageName,
		Version:     cfg.PackageVersion,
		Force:       cfg.Force,
		DryRun:      cfg.DryRun,
		Codegen:     cfg.codegenOptions(),
		Filters:     cfg.filters(),
		Logger:      logger,
	}
	if cfg.Templates != "" {
		opts.Templates = os.DirFS(cfg.Templates)
	}
	res, err := tsemitter.Emit(ctx, doc, opts)
	if err != nil {
		return wrapOutputError(err, absOut)
	}

	if cfg.DryRun {
		printPlan(stdout, absOut, res)
		return nil
	}

	// 3) Optionally build it
	if cfg.Build {
		logger.Info("building package", "path", absOut)
		if err := buildRunner(ctx, absOut, stdout, stderr); err != nil {
			return fmt.Errorf("build %s: %w", absOut, err)
		}
		logger.Info("package built", "path", absOut)
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func printPlan(w io.Writer, outDir string, res *tsemitter.Result) {
	fmt.Fprintf(w, "Planned writes to %s (%d files, package %s@%s, %d client methods):\n",
		outDir, len(res.Planned), res.PackageName, res.Version, res.Operations)
	rows := make([][]any, 0, len(res.Planned))
	for _, p := range res.Planned {
		rows = append(rows, []any{p.RelPath, strconv.Itoa(p.Size), p.Mode.String()})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"File", "Bytes", "Mode"})
	t.SetAlign("left")
	fmt.Fprint(w, t.Render("simple"))
}

// runYarnBuild installs dependencies and builds the package in dir.
func runYarnBuild(ctx context.Context, dir string, stdout, stderr io.Writer) error {
	for _, args := range [][]string{{"install", "--check-files"}, {"build"}} {
		c := exec.CommandContext(ctx, "yarn", args...)
		c.Dir = dir
		c.Stdout = stdout
		c.Stderr = stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("yarn %s: %w", strings.Join(args, " "), err)
		}
	}
	return nil
}

func wrapOutputError(err error, outDir string) error {
	if errors.Is(err, tsemitter.ErrOutputNotEmpty) {
		return newUsageError(fmt.Sprintf("output error for %s: %s\nHint: choose a different --output or use --force.", outDir, err))
	}
	// Provide clearer guidance for common FS failures.
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") || strings.Contains(lower, "rename") {
		return newUsageError(fmt.Sprintf("output error for %s: %s\nHint: choose a different --output or use --force when appropriate.", outDir, msg))
	}
	return err
}

func sanitizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	var result []string
	for _, item := range b {
		if _, ok := set[item]; ok {
			result = append(result, item)
		}
	}
	return result
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	strs := map[string]*string{
		"swagger":              &cfg.Swagger,
		"output":               &cfg.Output,
		"pkg":                  &cfg.PackageName,
		"packagename":          &cfg.PackageName,
		"pkgversion":           &cfg.PackageVersion,
		"packageversion":       &cfg.PackageVersion,
		"templates":            &cfg.Templates,
		"clientmethods":        &cfg.ClientMethods,
		"substitution":         &cfg.Substitution,
		"onunmatchedserver":    &cfg.OnUnmatchedServer,
		"onmissingtype":        &cfg.OnMissingType,
		"onduplicateoperation": &cfg.OnDuplicateOperation,
	}
	bools := map[string]*bool{
		"interactive": &cfg.Interactive,
		"dryrun":      &cfg.DryRun,
		"force":       &cfg.Force,
		"build":       &cfg.Build,
		"verbose":     &cfg.Verbose,
	}

	for key, value := range raw {
		normalized := normalizeKey(key)
		if dst, ok := strs[normalized]; ok {
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			*dst = str
			continue
		}
		if dst, ok := bools[normalized]; ok {
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			*dst = val
			continue
		}
		switch normalized {
		case "includetags":
			list, err := valueAsStringSlice(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.IncludeTags = sanitizeTags(list)
		case "excludetags":
			list, err := valueAsStringSlice(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.ExcludeTags = sanitizeTags(list)
		case "workers":
			n, err := valueAsInt(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Workers = n
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return splitAndTrim(val), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(val))
		switch trimmed {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n":
			return false, nil
		case "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func valueAsInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case nil:
		return 0, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("invalid integer value %q", val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
