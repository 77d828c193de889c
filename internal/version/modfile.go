package version

import (
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// ModFile reads the go.mod file found at or above Dir.
type ModFile struct {
	Dir string
}

// Lookup implements Source. The requirement whose module path is the longest
// prefix of name wins; a replacement with a version overrides it.
func (m ModFile) Lookup(name string) (string, error) {
	if err := module.CheckImportPath(name); err != nil {
		return "", errors.Errorf("invalid name %q: %w", name, err)
	}

	path, err := Find(m.Dir)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("failed to read %s: %w", path, err)
	}

	file, err := modfile.Parse(path, data, nil)
	if err != nil {
		return "", errors.Errorf("failed to parse %s: %w", path, err)
	}

	return Required(file, name)
}

// Required returns the version file requires for the module containing name.
func Required(file *modfile.File, name string) (string, error) {
	var best module.Version
	for _, req := range file.Require {
		if !within(name, req.Mod.Path) {
			continue
		}

		switch {
		case len(req.Mod.Path) > len(best.Path):
			best = req.Mod
		case req.Mod.Path == best.Path:
			best.Version = semver.Max(best.Version, req.Mod.Version)
		}
	}

	if best.Path == "" {
		return "", errors.Errorf("%w: %s is not required", ErrNotFound, name)
	}

	for _, rep := range file.Replace {
		if rep.Old.Path != best.Path || rep.New.Version == "" {
			continue
		}
		if rep.Old.Version == "" || rep.Old.Version == best.Version {
			return rep.New.Version, nil
		}
	}

	return best.Version, nil
}

// Find returns the path of the go.mod file at or above dir.
func Find(dir string) (string, error) {
	if dir == "" {
		return "", errors.Errorf("%w: no directory", ErrNotFound)
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Errorf("failed to resolve %s: %w", dir, err)
	}

	for {
		path := filepath.Join(dir, "go.mod")
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Errorf("%w: no go.mod above %s", ErrNotFound, dir)
		}
		dir = parent
	}
}

// within reports whether name is modPath or a package inside it.
func within(name, modPath string) bool {
	return modPath != "" && (name == modPath || strings.HasPrefix(name, modPath+"/"))
}
