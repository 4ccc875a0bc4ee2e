package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{scanner: bufio.NewScanner(in), out: out}
}

// ask prints label and reads one line. An empty answer keeps def. The
// question is repeated until validate accepts the answer.
func (p *prompter) ask(label, def string, validate func(string) error) (string, error) {
	for {
		if def != "" {
			fmt.Fprintf(p.out, "? %s (%s): ", label, def)
		} else {
			fmt.Fprintf(p.out, "? %s: ", label)
		}
		if !p.scanner.Scan() {
			if err := p.scanner.Err(); err != nil {
				return "", fmt.Errorf("read answer: %w", err)
			}
			return "", newUsageError(fmt.Sprintf("interactive input ended before %q was answered", label))
		}
		answer := strings.TrimSpace(p.scanner.Text())
		if answer == "" {
			answer = def
		}
		if validate != nil {
			if err := validate(answer); err != nil {
				fmt.Fprintf(p.out, "✖ %v\n", err)
				continue
			}
		}
		return answer, nil
	}
}

// promptGenerateConfig asks for the document, output path, package name and
// version, offering the already resolved values as defaults.
func promptGenerateConfig(p *prompter, cfg *GenerateConfig) error {
	var err error
	if cfg.Swagger, err = p.ask("Swagger document path or URL", cfg.Swagger, validateSwaggerInput); err != nil {
		return err
	}
	if cfg.Output, err = p.ask("Output path", cfg.Output, func(s string) error {
		return validateOutputPath(s, cfg.Force)
	}); err != nil {
		return err
	}
	if cfg.PackageName, err = p.ask("Package name", cfg.PackageName, validatePackageName); err != nil {
		return err
	}
	if cfg.PackageVersion, err = p.ask("Package version (empty to use info.version)", cfg.PackageVersion, validatePackageVersion); err != nil {
		return err
	}
	return nil
}
