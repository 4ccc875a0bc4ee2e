package tsemitter

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed templates
var embedded embed.FS

// Template names, relative to the templates root.
const (
	typesTemplate        = "types.tmpl"
	clientTemplate       = "client.tmpl"
	clientMethodTemplate = "client-method.tmpl"
	indexTemplate        = "index.tmpl"
	gitignoreTemplate    = "gitignore.tmpl"
	staticDir            = "static"
)

// DefaultTemplates returns the built-in template tree.
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// templateSet reads templates from an override tree first and falls back to
// the built-in ones per file.
type templateSet struct {
	override fs.FS
	builtin  fs.FS
}

func newTemplateSet(override fs.FS) templateSet {
	return templateSet{override: override, builtin: DefaultTemplates()}
}

func (t templateSet) read(name string) (string, error) {
	if t.override != nil {
		data, err := fs.ReadFile(t.override, name)
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read template %s: %w", name, err)
		}
	}
	data, err := fs.ReadFile(t.builtin, name)
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	return string(data), nil
}

// statics returns the files under static/ keyed by their path relative to it.
// Override files replace built-in files with the same path.
func (t templateSet) statics() (map[string][]byte, error) {
	out := make(map[string][]byte)
	for _, fsys := range []fs.FS{t.builtin, t.override} {
		if fsys == nil {
			continue
		}
		err := fs.WalkDir(fsys, staticDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return err
			}
			rel, _ := relativeTo(staticDir, p)
			out[rel] = data
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read static files: %w", err)
		}
	}
	return out, nil
}

func relativeTo(dir, p string) (string, bool) {
	prefix := path.Clean(dir) + "/"
	if len(p) > len(prefix) && p[:len(prefix)] == prefix {
		return p[len(prefix):], true
	}
	return p, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
