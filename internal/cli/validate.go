package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	version "github.com/hashicorp/go-version"
)

var packageNamePattern = regexp.MustCompile(`^(@[A-Za-z0-9-]+/)?[A-Za-z][A-Za-z0-9-]*[A-Za-z0-9]$`)

// validatePackageName accepts npm names such as "pets-sdk" or "@acme/pets-sdk".
func validatePackageName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("package name is required")
	}
	if !packageNamePattern.MatchString(name) {
		return fmt.Errorf("invalid package name %q (letters, digits and dashes, optionally scoped as @scope/name)", name)
	}
	return nil
}

// validatePackageVersion accepts an empty value or a semantic version.
func validatePackageVersion(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if _, err := version.NewSemver(v); err != nil {
		return fmt.Errorf("invalid package version %q: %v", v, err)
	}
	return nil
}

// validateOutputPath requires a path that does not exist or is an empty
// directory, unless force is set.
func validateOutputPath(p string, force bool) error {
	p = strings.TrimSpace(p)
	if p == "" {
		return errors.New("output path is required")
	}
	st, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("output path %q: %v", p, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("output path %q exists and is not a directory", p)
	}
	if force {
		return nil
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		return fmt.Errorf("output path %q: %v", p, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("output path %q already exists and is not empty (use --force to overwrite)", p)
	}
	return nil
}

// validateSwaggerInput checks that a local document exists and is a regular
// file. http and https URLs are checked when loaded.
func validateSwaggerInput(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return errors.New("swagger document path or URL is required")
	}
	if u, err := url.Parse(input); err == nil && u.Scheme != "" && u.Host != "" {
		return nil
	}
	st, err := os.Stat(input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("swagger document %q does not exist", input)
		}
		return fmt.Errorf("swagger document %q: %v", input, err)
	}
	if !st.Mode().IsRegular() {
		return fmt.Errorf("swagger document %q is not a regular file", input)
	}
	return nil
}

// validateTemplatesDir accepts an empty value or an existing directory.
func validateTemplatesDir(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	st, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("templates directory %q: %v", dir, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("templates path %q is not a directory", filepath.Clean(dir))
	}
	return nil
}
