// Package testutil builds packages.Package values from in-memory sources for tests.
package testutil

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

// CheckSource parses and type-checks files as a single package. Type errors are
// tolerated and returned in the package's Errors, the way go/packages reports them.
func CheckSource(t testing.TB, pkgPath string, files map[string]string) *packages.Package {
	t.Helper()

	return CheckSourceWithDeps(t, pkgPath, files, nil)
}

// CheckSourceWithDeps is CheckSource with extra in-memory packages, keyed by
// import path, that the checked files may import. Other imports are resolved
// from GOROOT sources.
func CheckSourceWithDeps(t testing.TB, pkgPath string, files map[string]string, deps map[string]map[string]string) *packages.Package {
	t.Helper()

	fset := token.NewFileSet()
	imp := &memImporter{
		t:        t,
		fset:     fset,
		sources:  deps,
		checked:  make(map[string]*types.Package),
		fallback: importer.ForCompiler(fset, "source", nil),
	}

	return check(t, fset, imp, pkgPath, files)
}

func check(t testing.TB, fset *token.FileSet, imp types.Importer, pkgPath string, files map[string]string) *packages.Package {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	dir := filepath.Join(t.TempDir(), filepath.FromSlash(pkgPath))
	syntax := make([]*ast.File, 0, len(names))
	goFiles := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		file, err := parser.ParseFile(fset, path, files[name], parser.ParseComments)
		require.NoError(t, err, "parsing %s", name)

		syntax = append(syntax, file)
		goFiles = append(goFiles, path)
	}
	require.NotEmpty(t, syntax, "no files for %s", pkgPath)

	pkg := &packages.Package{
		ID:      pkgPath,
		Name:    syntax[0].Name.Name,
		PkgPath: pkgPath,
		GoFiles: goFiles,
		Fset:    fset,
		Syntax:  syntax,
		TypesInfo: &types.Info{
			Types: make(map[ast.Expr]types.TypeAndValue),
			Defs:  make(map[*ast.Ident]types.Object),
			Uses:  make(map[*ast.Ident]types.Object),
		},
	}

	conf := types.Config{
		Importer: imp,
		Error: func(err error) {
			pkg.Errors = append(pkg.Errors, packages.Error{Msg: err.Error(), Kind: packages.TypeError})
		},
	}
	pkg.Types, _ = conf.Check(pkgPath, fset, syntax, pkg.TypesInfo)

	return pkg
}

type memImporter struct {
	t        testing.TB
	fset     *token.FileSet
	sources  map[string]map[string]string
	checked  map[string]*types.Package
	fallback types.Importer
}

func (m *memImporter) Import(path string) (*types.Package, error) {
	if pkg, ok := m.checked[path]; ok {
		return pkg, nil
	}

	files, ok := m.sources[path]
	if !ok {
		return m.fallback.Import(path)
	}

	pkg := check(m.t, m.fset, m, path, files)
	require.Empty(m.t, pkg.Errors, "checking dependency %s", path)
	m.checked[path] = pkg.Types

	return pkg.Types, nil
}
