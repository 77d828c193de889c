package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/tools/go/packages"

	"typeschema/internal/common"
	"typeschema/internal/diagnostic"
	"typeschema/internal/load"
	"typeschema/internal/schema"
	"typeschema/internal/version"
	"typeschema/internal/walk"
)

// TimeLayout is the layout of PackageSchema.ExtractedAt.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// Importer loads packages from a growing list of search paths.
type Importer interface {
	AddSearchPath(dir string) bool
	Import(ctx context.Context, importPath string) (*packages.Package, error)
}

// Request names the package to extract.
type Request struct {
	// ImportName is the import path of the main package.
	ImportName string
	// SearchPath is the directory the package is resolved from.
	SearchPath string
	// VersionName overrides the module name used for version lookup.
	VersionName string
}

// ImportError reports that the main package could not be imported.
type ImportError struct {
	Name string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("Failed to import %s: %v", e.Name, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Result is a schema together with the failures absorbed while building it.
type Result struct {
	Schema      *schema.PackageSchema
	Diagnostics diagnostic.Diagnostics
}

// Assembler extracts package schemas. It is not safe for concurrent use: the
// output capture of sub-package attempts swaps process-wide streams.
type Assembler struct {
	importer Importer
	now      func() time.Time
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock sets the clock used for ExtractedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		a.now = now
	}
}

// New creates an Assembler loading packages through importer.
func New(importer Importer, opts ...Option) *Assembler {
	a := &Assembler{
		importer: importer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Extract builds the schema of req.ImportName. The only error it returns is
// an *ImportError for the main package.
func (a *Assembler) Extract(ctx context.Context, req Request) (*schema.PackageSchema, error) {
	res, err := a.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	return res.Schema, nil
}

// Run is Extract that also returns the diagnostics of the pass.
func (a *Assembler) Run(ctx context.Context, req Request) (*Result, error) {
	ctx = slogctx.With(ctx, slog.String("package", req.ImportName))

	if req.SearchPath != "" && a.importer.AddSearchPath(req.SearchPath) {
		slogctx.Debug(ctx, "search path added", "dir", req.SearchPath)
	}

	pkg, err := a.importer.Import(ctx, req.ImportName)
	if err != nil {
		return nil, &ImportError{Name: req.ImportName, Err: err}
	}

	res := &Result{}
	if n := len(pkg.Errors); n > 0 {
		res.add(ctx, diagnostic.SeverityInfo, diagnostic.CodeTypeErrors,
			fmt.Sprintf("%d type errors, unresolved slots fall back to written types", n), req.ImportName)
	}

	ver := version.Resolve(ctx, pkg, []string{req.VersionName, req.ImportName},
		version.Module{Info: pkg.Module},
		version.ModFile{Dir: req.SearchPath},
	)
	if ver == common.UnknownStr {
		res.add(ctx, diagnostic.SeverityInfo, diagnostic.CodeVersionUnknown, "no version found", req.ImportName)
	}

	main := walk.Module(pkg, req.ImportName)
	modules := []schema.ModuleDescriptor{main}
	if main.Path != "" {
		modules = append(modules, a.subModules(ctx, req.ImportName, main.Path, res)...)
	}

	res.Schema = &schema.PackageSchema{
		Package:                req.ImportName,
		Version:                ver,
		Modules:                modules,
		ExtractedAt:            a.now().UTC().Format(TimeLayout),
		MissingAnnotations:     MissingAnnotations(modules),
		TypeAnnotationCoverage: Coverage(modules),
	}

	slogctx.Debug(ctx, "package extracted",
		"modules", len(modules),
		"coverage", res.Schema.TypeAnnotationCoverage,
		"diagnostics", res.Diagnostics.Len())

	return res, nil
}

// subModules loads every candidate sub-package of dir, one attempt at a time.
func (a *Assembler) subModules(ctx context.Context, parent, dir string, res *Result) []schema.ModuleDescriptor {
	names, err := SubPackageDirs(dir)
	if err != nil {
		slogctx.Debug(ctx, "sub-packages not listed", "dir", dir, "error", err)
		return nil
	}

	var mods []schema.ModuleDescriptor
	for _, name := range names {
		qualified := common.SubPackage(parent, name)

		var mod schema.ModuleDescriptor
		err := load.Isolate(func() error {
			pkg, err := a.importer.Import(ctx, qualified)
			if err != nil {
				return err
			}
			mod = walk.Module(pkg, qualified)

			return nil
		})
		if err != nil {
			res.add(ctx, diagnostic.SeverityWarning, diagnostic.CodeSubmoduleSkipped, err.Error(), qualified)
			continue
		}

		if !mod.HasAPI() {
			res.add(ctx, diagnostic.SeverityInfo, diagnostic.CodeSubmoduleEmpty, "no functions or classes", qualified)
			continue
		}

		mods = append(mods, mod)
	}

	return mods
}

// SubPackageDirs lists the immediate sub-directories of dir that may hold
// sub-packages, sorted by name.
func SubPackageDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && candidate(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)

	return names, nil
}

func candidate(name string) bool {
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return false
	}

	return name != "testdata" && name != "internal"
}

func (r *Result) add(ctx context.Context, sev diagnostic.Severity, code, msg, module string) {
	if sev == diagnostic.SeverityWarning {
		r.Diagnostics.AddWarning(code, msg, module, "")
	} else {
		r.Diagnostics.AddInfo(code, msg, module, "")
	}

	d := diagnostic.Diagnostic{Severity: sev, Code: code, Message: msg, Module: module}
	slogctx.FromCtx(ctx).LogAttrs(ctx, d.Level(), msg, d.Attrs()...)
}
