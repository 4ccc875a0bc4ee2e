// Command swagger2sdk generates TypeScript SDK packages from OpenAPI v3
// documents.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/swagger2sdk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "✖ %v\n", err)
		os.Exit(1)
	}
}
