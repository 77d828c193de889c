package version

import (
	"context"
	"go/constant"
	"go/types"

	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/tools/go/packages"

	"typeschema/internal/common"
)

// ConstName is the name of the constant a package declares its version in.
const ConstName = "Version"

// ErrNotFound is returned by sources that have no version for a name.
var ErrNotFound = errors.New("no version found")

// Source looks up the installed version of a module or package by name.
type Source interface {
	Lookup(name string) (string, error)
}

// Declared returns the value of the exported string constant Version in pkg.
func Declared(pkg *types.Package) (string, bool) {
	if pkg == nil {
		return "", false
	}

	c, ok := pkg.Scope().Lookup(ConstName).(*types.Const)
	if !ok || c.Val().Kind() != constant.String {
		return "", false
	}

	v := constant.StringVal(c.Val())

	return v, v != ""
}

// Resolve returns the declared version of pkg, or the first version any
// source reports for one of names, or common.UnknownStr. Lookup failures are
// logged and absorbed.
func Resolve(ctx context.Context, pkg *packages.Package, names []string, sources ...Source) string {
	if pkg != nil {
		if v, ok := Declared(pkg.Types); ok {
			return v
		}
	}

	for _, name := range names {
		if name == "" {
			continue
		}

		for _, src := range sources {
			v, err := src.Lookup(name)
			if err == nil && v != "" {
				return v
			}
			slogctx.Debug(ctx, "version lookup failed", "name", name, "error", err)
		}
	}

	return common.UnknownStr
}

// Module reports the version of the module go/packages resolved a package to.
type Module struct {
	Info *packages.Module
}

// Lookup implements Source. The main module has no version.
func (m Module) Lookup(name string) (string, error) {
	if m.Info == nil || !within(name, m.Info.Path) {
		return "", errors.WithStack(ErrNotFound)
	}

	v := m.Info.Version
	if rep := m.Info.Replace; rep != nil && rep.Version != "" {
		v = rep.Version
	}

	if v == "" {
		return "", errors.Errorf("%w: module %s has no version", ErrNotFound, m.Info.Path)
	}

	return v, nil
}
