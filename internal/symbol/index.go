package symbol

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"
)

// index maps checked objects back to the declarations they came from.
type index struct {
	funcs      map[*types.Func]funcSyntax
	typeDocs   map[*types.TypeName]string
	fieldDocs  map[*types.Var]string
	fieldExprs map[*types.Var]ast.Expr
	values     map[types.Object]ast.Expr
	hasInit    map[types.Object]bool
}

func newIndex(pkg *packages.Package) *index {
	idx := &index{
		funcs:      make(map[*types.Func]funcSyntax),
		typeDocs:   make(map[*types.TypeName]string),
		fieldDocs:  make(map[*types.Var]string),
		fieldExprs: make(map[*types.Var]ast.Expr),
		values:     make(map[types.Object]ast.Expr),
		hasInit:    make(map[types.Object]bool),
	}
	if pkg == nil || pkg.TypesInfo == nil {
		return idx
	}

	defs := pkg.TypesInfo.Defs
	for _, file := range pkg.Syntax {
		if file == nil {
			continue
		}

		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if fn, ok := defs[d.Name].(*types.Func); ok {
					idx.funcs[fn] = funcSyntax{typ: d.Type, doc: d.Doc, bodyless: d.Body == nil}
				}

			case *ast.GenDecl:
				idx.addGenDecl(defs, d)
			}
		}
	}

	return idx
}

func (idx *index) addGenDecl(defs map[*ast.Ident]types.Object, d *ast.GenDecl) {
	for _, spec := range d.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			tn, ok := defs[s.Name].(*types.TypeName)
			if !ok {
				continue
			}

			doc := s.Doc
			if doc == nil && !d.Lparen.IsValid() {
				doc = d.Doc
			}
			idx.typeDocs[tn] = docText(doc)

			switch t := s.Type.(type) {
			case *ast.StructType:
				idx.addFields(defs, t)
			case *ast.InterfaceType:
				idx.addInterfaceMethods(defs, t)
			}

		case *ast.ValueSpec:
			if d.Tok != token.VAR && d.Tok != token.CONST {
				continue
			}
			for i, name := range s.Names {
				obj := defs[name]
				if obj == nil {
					continue
				}
				idx.hasInit[obj] = len(s.Values) > 0
				if i < len(s.Values) {
					idx.values[obj] = s.Values[i]
				}
			}
		}
	}
}

func (idx *index) addFields(defs map[*ast.Ident]types.Object, st *ast.StructType) {
	if st.Fields == nil {
		return
	}

	for _, field := range st.Fields.List {
		doc := field.Doc
		if doc == nil {
			doc = field.Comment
		}

		for _, name := range field.Names {
			v, ok := defs[name].(*types.Var)
			if !ok {
				continue
			}
			idx.fieldDocs[v] = docText(doc)
			idx.fieldExprs[v] = field.Type
		}
	}
}

func (idx *index) addInterfaceMethods(defs map[*ast.Ident]types.Object, it *ast.InterfaceType) {
	if it.Methods == nil {
		return
	}

	for _, field := range it.Methods.List {
		ft, ok := field.Type.(*ast.FuncType)
		if !ok {
			continue // embedded
		}

		doc := field.Doc
		if doc == nil {
			doc = field.Comment
		}

		for _, name := range field.Names {
			if fn, ok := defs[name].(*types.Func); ok {
				idx.funcs[fn] = funcSyntax{typ: ft, doc: doc}
			}
		}
	}
}

// funcSyntax is the written signature of a function, method or interface method.
type funcSyntax struct {
	typ      *ast.FuncType
	doc      *ast.CommentGroup
	bodyless bool
}

// function looks fn up by its generic origin, so methods of instantiated
// types find the declaration of the generic type's method.
func (idx *index) function(fn *types.Func) (funcSyntax, bool) {
	syn, ok := idx.funcs[fn.Origin()]
	return syn, ok
}

// docText returns the comment text without comment markers or surrounding blank lines.
func docText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}

	return strings.TrimSpace(cg.Text())
}

// flattenFields flattens a parameter or result list into one expression per slot.
func flattenFields(list *ast.FieldList) []ast.Expr {
	if list == nil {
		return nil
	}

	var exprs []ast.Expr
	for _, field := range list.List {
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for range n {
			exprs = append(exprs, field.Type)
		}
	}

	return exprs
}
