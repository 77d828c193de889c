// Package load imports Go packages with golang.org/x/tools/go/packages.
//
// An Importer owns an ordered, duplicate-free set of search paths (the
// directories the go command runs in). Isolate runs a load attempt with the
// process output streams redirected and absorbs panics and goroutine exits,
// so one broken package cannot take the extraction pass down with it.
package load
