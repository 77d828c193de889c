package symbol

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"

	"typeschema/internal/resolve"
	"typeschema/internal/schema"
)

// Extractor builds function and class descriptors for the objects of one package.
type Extractor struct {
	pkg *packages.Package
	idx *index
}

// New indexes the declarations of pkg. A nil package yields an extractor that
// works from checked types alone.
func New(pkg *packages.Package) *Extractor {
	return &Extractor{
		pkg: pkg,
		idx: newIndex(pkg),
	}
}

// Value returns the initializer expression of a package-level const or var, or nil.
func (e *Extractor) Value(obj types.Object) ast.Expr {
	return e.idx.values[obj]
}

// Initialized reports whether a package-level const or var is declared with
// an initializer, including one shared with other names (var a, b = f()).
func (e *Extractor) Initialized(obj types.Object) bool {
	return e.idx.hasInit[obj]
}

// Function describes a function. It reports false when no signature is
// available or the function is declared without a body (implemented in
// assembly or linked by name); such functions are skipped by callers.
func (e *Extractor) Function(fn *types.Func, name string) (*schema.FunctionDescriptor, bool) {
	if fn == nil {
		return nil, false
	}

	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return nil, false
	}

	syn, found := e.idx.function(fn)
	if found && syn.bodyless {
		return nil, false
	}

	var rawParams, rawResults []ast.Expr
	var doc string
	if found {
		rawParams = flattenFields(syn.typ.Params)
		rawResults = flattenFields(syn.typ.Results)
		doc = docText(syn.doc)
	}

	return &schema.FunctionDescriptor{
		Name:       name,
		Params:     params(sig, rawParams),
		ReturnType: results(sig.Results(), rawResults),
		Docstring:  doc,
		IsAsync:    isAsync(sig),
	}, true
}

// Method describes a method. The receiver is never listed as a parameter.
func (e *Extractor) Method(fn *types.Func) (*schema.FunctionDescriptor, bool) {
	desc, ok := e.Function(fn, fn.Name())
	if !ok {
		return nil, false
	}
	desc.IsMethod = true

	return desc, true
}

func params(sig *types.Signature, raw []ast.Expr) []schema.ParameterDescriptor {
	tuple := sig.Params()
	out := make([]schema.ParameterDescriptor, 0, tuple.Len())

	for i := range tuple.Len() {
		p := tuple.At(i)

		name := p.Name()
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}

		out = append(out, schema.ParameterDescriptor{
			Name:     name,
			Type:     typeOf(p.Type(), at(raw, i)),
			Optional: sig.Variadic() && i == tuple.Len()-1,
		})
	}

	return out
}

func results(tuple *types.Tuple, raw []ast.Expr) schema.TypeDescriptor {
	if tuple == nil || tuple.Len() == 0 {
		return schema.None()
	}

	if tuple.Len() == 1 {
		return typeOf(tuple.At(0).Type(), at(raw, 0))
	}

	elems := make([]schema.TypeDescriptor, 0, tuple.Len())
	for i := range tuple.Len() {
		elems = append(elems, typeOf(tuple.At(i).Type(), at(raw, i)))
	}

	return schema.Tuple(elems...)
}

// typeOf prefers the checked type. When type checking failed for this slot
// the type as written in the source is resolved instead.
func typeOf(t types.Type, raw ast.Expr) schema.TypeDescriptor {
	if raw != nil && isInvalid(t) {
		return resolve.ResolveText(types.ExprString(raw))
	}

	return resolve.Resolve(t)
}

func isInvalid(t types.Type) bool {
	if t == nil {
		return true
	}

	return strings.Contains(types.TypeString(t, nil), "invalid type")
}

// isAsync reports whether the last result is a receive-only channel.
func isAsync(sig *types.Signature) bool {
	res := sig.Results()
	if res == nil || res.Len() == 0 {
		return false
	}

	ch, ok := res.At(res.Len() - 1).Type().Underlying().(*types.Chan)

	return ok && ch.Dir() == types.RecvOnly
}

func at(exprs []ast.Expr, i int) ast.Expr {
	if i < 0 || i >= len(exprs) {
		return nil
	}

	return exprs[i]
}
