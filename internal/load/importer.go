package load

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
//
// NeedDeps makes go/packages type-check the root package from source. Without
// it the go command compiles the package for export data and a type error
// also comes back as a list error.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedModule

// Importer loads single packages by import path.
type Importer struct {
	searchPaths []string // most recently added first
	env         []string
}

// Option configures an Importer.
type Option func(*Importer)

// WithEnv sets extra environment entries for the go command (e.g. GOFLAGS=-mod=mod).
func WithEnv(env ...string) Option {
	return func(i *Importer) {
		i.env = append(i.env, env...)
	}
}

// NewImporter creates an Importer with no search paths. Until one is added,
// packages resolve relative to the working directory.
func NewImporter(opts ...Option) *Importer {
	i := &Importer{}
	for _, opt := range opts {
		opt(i)
	}

	return i
}

// AddSearchPath puts dir in front of the search paths unless it is already
// present. It reports whether dir was added.
func (i *Importer) AddSearchPath(dir string) bool {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	if slices.Contains(i.searchPaths, dir) {
		return false
	}

	i.searchPaths = append([]string{dir}, i.searchPaths...)

	return true
}

// Import loads one package. Search paths are tried in order and the first
// one that yields a loadable package wins. When none does, the error from the
// first search path is returned.
//
// Type errors do not fail an import: the package still has syntax and partial
// type information. List errors, parse errors and missing type information do.
func (i *Importer) Import(ctx context.Context, importPath string) (*packages.Package, error) {
	dirs := i.searchPaths
	if len(dirs) == 0 {
		dirs = []string{""}
	}

	var first error
	for _, dir := range dirs {
		pkg, err := i.loadFrom(ctx, dir, importPath)
		if err == nil {
			return pkg, nil
		}

		slogctx.Debug(ctx, "package not loadable from search path", "package", importPath, "dir", dir, "error", err)
		if first == nil {
			first = err
		}
	}

	return nil, first
}

func (i *Importer) loadFrom(ctx context.Context, dir, importPath string) (*packages.Package, error) {
	cfg := &packages.Config{
		Mode:    LoadMode,
		Context: ctx,
		Dir:     dir,
	}
	if len(i.env) > 0 {
		cfg.Env = append(os.Environ(), i.env...)
	}

	pkgs, err := packages.Load(cfg, importPath)
	if err != nil {
		return nil, errors.Errorf("failed to load packages: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, errors.Errorf("no package matches %s", importPath)
	}

	pkg := pkgs[0]
	if err := loadError(pkg); err != nil {
		return nil, err
	}

	for _, e := range pkg.Errors {
		slogctx.Debug(ctx, "type error tolerated", "package", pkg.PkgPath, "error", e.Msg)
	}

	return pkg, nil
}

// loadError returns the errors that make a package unusable, or nil.
func loadError(pkg *packages.Package) error {
	var msgs []string
	for _, e := range pkg.Errors {
		if e.Kind == packages.TypeError {
			continue
		}
		msgs = append(msgs, e.Msg)
	}

	if len(msgs) > 0 {
		return errors.New(strings.Join(msgs, "; "))
	}

	if pkg.Types == nil || len(pkg.Syntax) == 0 {
		return errors.Errorf("package %s has no type information", pkg.PkgPath)
	}

	return nil
}
