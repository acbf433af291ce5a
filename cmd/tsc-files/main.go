// Command tsc-files type-checks an explicit list of TypeScript files with the
// project's tsc, for use from pre-commit hooks.
package main

import (
	"context"
	"os"

	"github.com/roach88/tscfiles/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
