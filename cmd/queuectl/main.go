// Command queuectl derives the work queue view from a JSON export of the
// upstream pending queue, without a database or a running server.
//
//	queuectl -f items.json summary
//	queuectl -f items.json --now 2026-03-01T12:00:00Z list --priority high
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync() //nolint:errcheck

	os.Exit(run(os.Args[1:], os.Stdout, logger))
}

func run(args []string, out io.Writer, logger *zap.Logger) int {
	opts := newOptions(out, logger)
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			fmt.Fprintln(out, fe.Message)
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
