package resolve

import (
	"go/ast"
	"go/parser"
	"go/types"
	"strings"

	"typeschema/internal/schema"
)

// ResolveExpr converts a written type expression into a descriptor without
// consulting any package scope. Identifiers are looked up in the universe only;
// every other identifier is taken to name a class.
func ResolveExpr(expr ast.Expr) schema.TypeDescriptor {
	switch e := expr.(type) {
	case nil:
		return schema.Any()

	case *ast.Ident:
		return resolveIdent(e.Name)

	case *ast.SelectorExpr:
		return schema.Class(e.Sel.Name)

	case *ast.ParenExpr:
		return ResolveExpr(e.X)

	case *ast.StarExpr:
		return schema.Optional(ResolveExpr(e.X))

	case *ast.ArrayType:
		return schema.List(ResolveExpr(e.Elt))

	case *ast.Ellipsis:
		return schema.List(ResolveExpr(e.Elt))

	case *ast.MapType:
		return schema.Dict(ResolveExpr(e.Key), ResolveExpr(e.Value))

	case *ast.IndexExpr:
		return genericBase(e.X)

	case *ast.IndexListExpr:
		return genericBase(e.X)

	default:
		// interface{...}, struct{...}, func(...), chan T, unions
		return schema.Any()
	}
}

// ResolveText parses a type written as text and resolves it with ResolveExpr.
// A parenthesised, comma separated list is read as a tuple and a leading
// "..." as a list. Text that does not parse resolves to any.
func ResolveText(text string) schema.TypeDescriptor {
	text = strings.TrimSpace(text)
	if text == "" {
		return schema.Any()
	}

	if elem, ok := strings.CutPrefix(text, "..."); ok {
		return schema.List(ResolveText(elem))
	}

	if strings.HasPrefix(text, "(") {
		expr, err := parser.ParseExpr("func() " + text)
		if err == nil {
			if fn, ok := expr.(*ast.FuncType); ok {
				return resultList(fn.Results)
			}
		}
	}

	expr, err := parser.ParseExpr(text)
	if err != nil {
		return schema.Any()
	}

	return ResolveExpr(expr)
}

func resolveIdent(name string) schema.TypeDescriptor {
	switch name {
	case "nil":
		return schema.None()
	case "any", "_":
		return schema.Any()
	}

	if obj, ok := types.Universe.Lookup(name).(*types.TypeName); ok {
		return Resolve(obj.Type())
	}

	return schema.Class(name)
}

func genericBase(x ast.Expr) schema.TypeDescriptor {
	switch base := x.(type) {
	case *ast.Ident:
		return schema.Class(base.Name)
	case *ast.SelectorExpr:
		return schema.Class(base.Sel.Name)
	default:
		return schema.Any()
	}
}

// resultList flattens `(a, b int, err error)` into one element per name.
func resultList(list *ast.FieldList) schema.TypeDescriptor {
	if list == nil {
		return schema.Tuple()
	}

	elems := make([]schema.TypeDescriptor, 0, list.NumFields())
	for _, field := range list.List {
		desc := ResolveExpr(field.Type)

		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for range n {
			elems = append(elems, desc)
		}
	}

	return schema.Tuple(elems...)
}
