// Package tsemitter assembles a TypeScript SDK project from an OpenAPI v3
// document: typed declarations, a client module with one method per path,
// the document itself as src/swagger.json, and the static project files.
package tsemitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/swagger2sdk/internal/codegen"
	"github.com/mark3labs/swagger2sdk/internal/spec"
	"github.com/mark3labs/swagger2sdk/internal/typegen"
)

// DefaultVersion is used when neither an explicit version nor info.version is set.
const DefaultVersion = "0.0.1"

// ErrOutputNotEmpty is returned when OutDir has entries and Force is unset.
var ErrOutputNotEmpty = errors.New("output directory is not empty")

// Options controls how the emitter renders a project.
type Options struct {
	OutDir      string // required; target directory to write the project
	PackageName string // required; npm package name, e.g. @acme/pets-sdk
	Version     string // package version; falls back to info.version, then DefaultVersion
	Force       bool   // overwrite existing files
	DryRun      bool   // don't write, only plan
	// Templates overrides built-in templates file by file. Static project
	// files live under static/.
	Templates fs.FS
	// Types produces the type declarations; nil uses typegen on the document.
	Types   codegen.TypeSource
	Codegen codegen.Options
	Filters []spec.FilterOption
	Logger  *slog.Logger
}

// PlannedFile describes a file the emitter intends to write.
type PlannedFile struct {
	RelPath string
	Size    int
	Mode    os.FileMode
}

// Result returns the planned files and final resolved names.
type Result struct {
	PackageName string
	Version     string
	Names       ProjectNames
	Operations  int
	Planned     []PlannedFile
}

var progress = map[string]string{
	"src/types.ts":     "typings file generated",
	"src/swagger.json": "copied swagger document",
	"src/client.ts":    "client file generated",
	"src/index.ts":     "index file generated",
	"package.json":     "package version updated",
}

type outputFile struct {
	data []byte
	mode os.FileMode
}

// Emit renders the SDK project for doc.
func Emit(ctx context.Context, doc *spec.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, errors.New("tsemitter: nil document")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, errors.New("tsemitter: OutDir is required")
	}
	pkgName := strings.TrimSpace(opts.PackageName)
	if pkgName == "" {
		return nil, errors.New("tsemitter: PackageName is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cg := opts.Codegen
	if cg.Logger == nil {
		cg.Logger = logger
	}
	renderer, err := codegen.NewRenderer(cg)
	if err != nil {
		return nil, err
	}

	names := DeriveProjectNames(pkgName)
	info := doc.Info()
	version := firstNonEmpty(strings.TrimSpace(opts.Version), info.Version, DefaultVersion)

	items, err := spec.ReadPaths(doc)
	if err != nil {
		return nil, err
	}
	items = spec.FilterPaths(items, opts.Filters...)

	source := opts.Types
	if source == nil {
		source = typegen.ForDocument(doc, typegen.WithLogger(logger))
	}
	bundle, err := source.GenerateTypes(ctx, doc.Location, codegen.IdentityOperationName)
	if err != nil {
		return nil, fmt.Errorf("generate types: %w", err)
	}
	typings, err := renderer.Typings(ctx, items, bundle)
	if err != nil {
		return nil, err
	}

	tmpl := newTemplateSet(opts.Templates)
	files := map[string]outputFile{}
	add := func(rel string, data []byte, mode os.FileMode) {
		files[filepath.ToSlash(rel)] = outputFile{data: data, mode: mode}
	}

	statics, err := tmpl.statics()
	if err != nil {
		return nil, err
	}
	for _, rel := range sortedKeys(statics) {
		mode := os.FileMode(0o644)
		if strings.HasSuffix(rel, ".sh") {
			mode = 0o755
		}
		add(rel, statics[rel], mode)
	}
	if pkg, ok := files["package.json"]; ok {
		patched, err := patchPackageJSON(pkg.data, []jsonField{
			{name: "name", value: pkgName},
			{name: "version", value: version},
			{name: "description", value: info.Description},
		})
		if err != nil {
			return nil, err
		}
		add("package.json", patched, pkg.mode)
	}

	typesSrc, err := tmpl.read(typesTemplate)
	if err != nil {
		return nil, err
	}
	typesCode, err := renderer.Substitute(typesSrc, codegen.Replacements{
		codegen.Fill("client_typings", strings.TrimRight(typings, "\n")),
		codegen.Fill("project_name_underscored", names.Lower),
	})
	if err != nil {
		return nil, err
	}
	add("src/types.ts", []byte(typesCode), 0o644)

	swaggerJSON, err := doc.JSON()
	if err != nil {
		return nil, fmt.Errorf("encode swagger.json: %w", err)
	}
	add("src/swagger.json", swaggerJSON, 0o644)

	clientCode, methods, err := renderClient(renderer, tmpl, doc, items, names)
	if err != nil {
		return nil, err
	}
	add("src/client.ts", []byte(clientCode), 0o644)

	for rel, name := range map[string]string{"src/index.ts": indexTemplate, ".gitignore": gitignoreTemplate} {
		src, err := tmpl.read(name)
		if err != nil {
			return nil, err
		}
		add(rel, []byte(src), 0o644)
	}

	rels := sortedKeys(files)
	planned := make([]PlannedFile, 0, len(rels))
	for _, rel := range rels {
		planned = append(planned, PlannedFile{RelPath: rel, Size: len(files[rel].data), Mode: files[rel].mode})
	}

	if !opts.DryRun {
		if err := writeFiles(opts.OutDir, files, opts.Force, logger); err != nil {
			return nil, err
		}
		logger.Info("package generated", "path", opts.OutDir, "package", pkgName, "version", version)
	}

	return &Result{
		PackageName: pkgName,
		Version:     version,
		Names:       names,
		Operations:  methods,
		Planned:     planned,
	}, nil
}

func renderClient(r *codegen.Renderer, tmpl templateSet, doc *spec.Document, items []spec.PathItem, names ProjectNames) (string, int, error) {
	methodSrc, err := tmpl.read(clientMethodTemplate)
	if err != nil {
		return "", 0, err
	}
	methods, err := r.ClientMethods(items, methodSrc)
	if err != nil {
		return "", 0, err
	}
	endpoints, err := r.ServerEndpoints(doc.Servers())
	if err != nil {
		return "", 0, err
	}
	clientSrc, err := tmpl.read(clientTemplate)
	if err != nil {
		return "", 0, err
	}
	replacements := append(endpoints.Replacements(),
		codegen.Fill("project_name_camel", names.Camel),
		codegen.Fill("project_name_lower", names.Lower),
		codegen.Fill("project_name_upper", names.Upper),
		codegen.Fill("method_definitions", strings.Join(methods, ",\n\n")),
	)
	code, err := r.Substitute(clientSrc, replacements)
	if err != nil {
		return "", 0, err
	}
	return code, len(methods), nil
}

func writeFiles(outDir string, files map[string]outputFile, force bool, logger *slog.Logger) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("tsemitter: %w: %q (use --force to overwrite)", ErrOutputNotEmpty, abs)
		}
	}
	for _, rel := range sortedKeys(files) {
		f := files[rel]
		p := filepath.Join(abs, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
		tmp := p + ".tmp-" + time.Now().Format("20060102150405")
		if err := os.WriteFile(tmp, f.data, f.mode); err != nil {
			return fmt.Errorf("write temp %s: %w", rel, err)
		}
		if err := os.Chmod(tmp, f.mode); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("chmod %s: %w", rel, err)
		}
		if err := os.Rename(tmp, p); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("rename %s: %w", rel, err)
		}
		if msg, ok := progress[rel]; ok {
			logger.Info(msg, "path", p)
		} else {
			logger.Debug("wrote file", "path", p, "bytes", len(f.data))
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
