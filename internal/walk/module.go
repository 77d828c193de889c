package walk

import (
	"bytes"
	"go/ast"
	"go/constant"
	"go/printer"
	"go/token"
	"go/types"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"typeschema/internal/common"
	"typeschema/internal/resolve"
	"typeschema/internal/schema"
	"typeschema/internal/symbol"
)

// ExportDirective marks a comment line listing names that belong to the
// package surface even though they are declared elsewhere.
const ExportDirective = "//typeschema:export"

// maxValueLen bounds the textual value kept for a constant.
const maxValueLen = 100

// builtinModule is the declaring module of predeclared types.
const builtinModule = "builtin"

// Module describes the exported surface of pkg under qualifiedName.
// It never fails: anything it cannot describe is left out.
func Module(pkg *packages.Package, qualifiedName string) schema.ModuleDescriptor {
	mod := schema.ModuleDescriptor{
		Name:      qualifiedName,
		Functions: []schema.FunctionDescriptor{},
		Classes:   []schema.ClassDescriptor{},
		Constants: []schema.ConstantDescriptor{},
	}
	if pkg == nil || pkg.Types == nil {
		return mod
	}

	mod.Path = sourceDir(pkg)
	mod.Docstring = packageDoc(pkg.Syntax)

	ex := symbol.New(pkg)
	exports := Exports(pkg.Syntax)
	current := pkg.Types.Path()
	scope := pkg.Types.Scope()

	for _, name := range scope.Names() {
		if !token.IsExported(name) {
			continue
		}

		obj := scope.Lookup(name)
		if !Included(declaringModule(obj), current, name, exports) {
			continue
		}

		switch o := obj.(type) {
		case *types.Func:
			if fd, ok := ex.Function(o, name); ok {
				mod.Functions = append(mod.Functions, *fd)
			}

		case *types.TypeName:
			mod.Classes = append(mod.Classes, ex.Class(o, name))

		case *types.Const:
			mod.Constants = append(mod.Constants, schema.ConstantDescriptor{
				Name:  name,
				Type:  resolve.Resolve(o.Type()),
				Value: limit(constText(o.Val()), o.Type()),
			})

		case *types.Var:
			if _, callable := o.Type().Underlying().(*types.Signature); callable {
				continue
			}
			if !ex.Initialized(o) && nilable(o.Type()) {
				continue // holds nil
			}
			mod.Constants = append(mod.Constants, schema.ConstantDescriptor{
				Name:  name,
				Type:  resolve.Resolve(o.Type()),
				Value: limit(exprText(pkg.Fset, ex.Value(o)), o.Type()),
			})
		}
	}

	return mod
}

// Included reports whether a name belongs to the module's surface: it has no
// known declaring module, it was declared by the module itself, or the module
// explicitly exports it.
func Included(declaring, current, name string, exports map[string]struct{}) bool {
	if declaring == "" || declaring == current {
		return true
	}

	_, ok := exports[name]

	return ok
}

// Exports collects the names listed in export directives across files.
func Exports(files []*ast.File) map[string]struct{} {
	exports := make(map[string]struct{})
	for _, file := range files {
		if file == nil {
			continue
		}

		for _, group := range file.Comments {
			for _, c := range group.List {
				rest, ok := strings.CutPrefix(c.Text, ExportDirective)
				if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
					continue
				}
				for _, name := range strings.Fields(rest) {
					exports[strings.TrimSuffix(name, ",")] = struct{}{}
				}
			}
		}
	}

	return exports
}

// declaringModule is the import path of the package an object really comes
// from. Aliases report the package of the aliased type; predeclared types
// report builtinModule.
func declaringModule(obj types.Object) string {
	tn, ok := obj.(*types.TypeName)
	if !ok || !tn.IsAlias() {
		return pkgPath(obj.Pkg())
	}

	switch target := types.Unalias(tn.Type()).(type) {
	case *types.Named:
		return pkgPath(target.Obj().Pkg())
	case *types.Basic:
		return builtinModule
	default:
		// an alias of an unnamed type builds that type here
		return pkgPath(obj.Pkg())
	}
}

func pkgPath(p *types.Package) string {
	if p == nil {
		return builtinModule
	}

	return p.Path()
}

func constText(v constant.Value) string {
	if v == nil {
		return ""
	}

	switch v.Kind() {
	case constant.String:
		return strconv.Quote(constant.StringVal(v))
	case constant.Float:
		if f, _ := constant.Float64Val(v); !math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return v.String()
	case constant.Int:
		return v.ExactString()
	case constant.Unknown:
		return ""
	default:
		return v.String()
	}
}

func exprText(fset *token.FileSet, expr ast.Expr) string {
	if expr == nil || fset == nil {
		return ""
	}

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return ""
	}

	return buf.String()
}

// limit withholds empty, oversized and container values.
func limit(text string, t types.Type) *string {
	if text == "" || len(text) >= maxValueLen || isContainer(t) {
		return nil
	}

	return &text
}

func nilable(t types.Type) bool {
	switch u := t.Underlying().(type) {
	case *types.Pointer, *types.Interface, *types.Map, *types.Slice, *types.Chan, *types.Signature:
		return true
	case *types.Basic:
		return u.Kind() == types.UnsafePointer
	default:
		return false
	}
}

func isContainer(t types.Type) bool {
	switch t.Underlying().(type) {
	case *types.Slice, *types.Array, *types.Map:
		return true
	default:
		return false
	}
}

func sourceDir(pkg *packages.Package) string {
	for _, files := range [][]string{pkg.GoFiles, pkg.CompiledGoFiles} {
		if file, ok := common.First(files); ok {
			return filepath.Dir(file)
		}
	}

	return ""
}

func packageDoc(files []*ast.File) string {
	for _, file := range files {
		if file != nil && file.Doc != nil {
			return strings.TrimSpace(file.Doc.Text())
		}
	}

	return ""
}
