// Command typeschema prints the exported API of a Go package as JSON.
//
// Usage:
//
//	typeschema <import-name> <search-path> [version-name]
//
// The import name is resolved from the search path the way the go command
// resolves it from that directory. The optional version name selects the
// module whose version is reported when the package declares none.
package main

import (
	"context"
	"os"
	"os/signal"

	"typeschema/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
