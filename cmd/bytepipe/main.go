// Command bytepipe runs byte-substitution pipelines described by a
// configuration file.
package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/kbukum/bytepipe/errors"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code. Failures are
// printed to stderr as a JSON report.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		report := errors.ReportOf(err)
		enc := json.NewEncoder(stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
		return report.Error.ExitCode
	}
	return 0
}
