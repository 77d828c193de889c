package symbol

import (
	"go/types"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"typeschema/internal/resolve"
	"typeschema/internal/schema"
)

// Class describes a named type declared as name.
//
// Methods come from the method set of *T (T for interfaces), so promoted
// methods of embedded types are included. Properties are exported struct
// fields plus getters over unexported fields; a getter property is read-only
// unless a matching SetX method exists.
func (e *Extractor) Class(obj *types.TypeName, name string) schema.ClassDescriptor {
	desc := schema.ClassDescriptor{
		Name:       name,
		Methods:    []schema.FunctionDescriptor{},
		Properties: []schema.PropertyDescriptor{},
		Bases:      []string{},
		Docstring:  e.idx.typeDocs[obj],
	}

	named, ok := types.Unalias(obj.Type()).(*types.Named)
	if !ok {
		return desc
	}

	desc.Constructor = e.constructor(named)

	methods := methodSet(named)
	for _, fn := range methods {
		if m, ok := e.Method(fn); ok {
			desc.Methods = append(desc.Methods, *m)
		}
	}

	switch u := named.Underlying().(type) {
	case *types.Struct:
		desc.Properties = e.properties(u, methods)
		desc.Bases = structBases(u)
	case *types.Interface:
		desc.Bases = interfaceBases(u)
	}

	return desc
}

// constructor finds New<T> in the package declaring T whose first result is T or *T.
func (e *Extractor) constructor(named *types.Named) *schema.FunctionDescriptor {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return nil
	}

	fn, ok := obj.Pkg().Scope().Lookup("New" + obj.Name()).(*types.Func)
	if !ok {
		return nil
	}

	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Results().Len() == 0 || !constructs(sig.Results().At(0).Type(), named) {
		return nil
	}

	desc, ok := e.Function(fn, fn.Name())
	if !ok {
		return nil
	}
	desc.IsMethod = true

	return desc
}

func constructs(result types.Type, named *types.Named) bool {
	if ptr, ok := result.(*types.Pointer); ok {
		result = ptr.Elem()
	}

	got, ok := types.Unalias(result).(*types.Named)

	return ok && got.Origin() == named.Origin()
}

// methodSet returns the exported methods callable on a T value held by pointer,
// sorted by name.
func methodSet(named *types.Named) []*types.Func {
	var recv types.Type = named
	if !types.IsInterface(named) {
		recv = types.NewPointer(named)
	}

	mset := types.NewMethodSet(recv)
	out := make([]*types.Func, 0, mset.Len())
	for i := range mset.Len() {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		out = append(out, fn)
	}

	slices.SortFunc(out, func(a, b *types.Func) int {
		return strings.Compare(a.Name(), b.Name())
	})

	return out
}

func (e *Extractor) properties(st *types.Struct, methods []*types.Func) []schema.PropertyDescriptor {
	byName := make(map[string]*types.Func, len(methods))
	for _, fn := range methods {
		byName[fn.Name()] = fn
	}

	props := []schema.PropertyDescriptor{}
	for i := range st.NumFields() {
		field := st.Field(i)
		if field.Embedded() {
			continue
		}

		if field.Exported() {
			props = append(props, schema.PropertyDescriptor{
				Name:      field.Name(),
				Type:      typeOf(field.Type(), e.idx.fieldExprs[field]),
				Docstring: e.idx.fieldDocs[field],
			})
			continue
		}

		accessor, getter := findGetter(byName, field.Name())
		if getter == nil {
			continue
		}

		props = append(props, schema.PropertyDescriptor{
			Name:      accessor,
			Type:      e.getterType(getter),
			Readonly:  !isSetter(byName["Set"+accessor]),
			Docstring: e.getterDoc(getter),
		})
	}

	slices.SortFunc(props, func(a, b schema.PropertyDescriptor) int {
		return strings.Compare(a.Name, b.Name)
	})

	return props
}

func (e *Extractor) getterType(getter *types.Func) schema.TypeDescriptor {
	desc, ok := e.Function(getter, getter.Name())
	if !ok {
		return schema.Any()
	}

	return desc.ReturnType
}

func (e *Extractor) getterDoc(getter *types.Func) string {
	syn, _ := e.idx.function(getter)

	return docText(syn.doc)
}

func isGetter(fn *types.Func) bool {
	sig, ok := fn.Type().(*types.Signature)
	return ok && sig.Params().Len() == 0 && sig.Results().Len() == 1
}

func isSetter(fn *types.Func) bool {
	if fn == nil {
		return false
	}

	sig, ok := fn.Type().(*types.Signature)

	return ok && sig.Params().Len() == 1
}

func findGetter(byName map[string]*types.Func, field string) (string, *types.Func) {
	for _, name := range accessorNames(field) {
		if fn, ok := byName[name]; ok && isGetter(fn) {
			return name, fn
		}
	}

	return "", nil
}

// initialisms are written in one case in exported names: ID, not Id.
var initialisms = map[string]bool{
	"ACL": true, "API": true, "ASCII": true, "CPU": true, "CSS": true, "DNS": true,
	"EOF": true, "GUID": true, "HTML": true, "HTTP": true, "HTTPS": true, "ID": true,
	"IP": true, "JSON": true, "QPS": true, "RAM": true, "RPC": true, "SQL": true,
	"SSH": true, "TCP": true, "TLS": true, "TTL": true, "UDP": true, "UI": true,
	"UID": true, "URI": true, "URL": true, "UUID": true, "VM": true, "XML": true,
}

// accessorNames lists the getter names a field may have, plain form first:
// "owner" -> Owner; "id" -> Id, ID; "baseUrl" -> BaseUrl, BaseURL.
func accessorNames(field string) []string {
	plain := exportedName(field)
	if plain == "" {
		return nil
	}

	split := 0
	for i, r := range field {
		if unicode.IsUpper(r) {
			split = i
		}
	}

	tail := strings.ToUpper(field[split:])
	if !initialisms[tail] {
		return []string{plain}
	}

	initialism := tail
	if split > 0 {
		initialism = exportedName(field[:split]) + tail
	}
	if initialism == plain {
		return []string{plain}
	}

	return []string{plain, initialism}
}

// exportedName upper-cases the first letter: "owner" -> "Owner".
func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || r == '_' {
		return ""
	}

	return string(unicode.ToUpper(r)) + name[size:]
}

func structBases(st *types.Struct) []string {
	bases := []string{}
	for i := range st.NumFields() {
		field := st.Field(i)
		if !field.Embedded() {
			continue
		}
		if name := baseName(field.Type()); name != "" {
			bases = append(bases, name)
		}
	}

	return bases
}

func interfaceBases(iface *types.Interface) []string {
	bases := []string{}
	for i := range iface.NumEmbeddeds() {
		if name := baseName(iface.EmbeddedType(i)); name != "" {
			bases = append(bases, name)
		}
	}

	return bases
}

// baseName names an embedded type. The empty interface and unnamed types
// have no name.
func baseName(t types.Type) string {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}

	if resolve.IsEmptyInterface(t) {
		return ""
	}

	if alias, ok := t.(*types.Alias); ok {
		return alias.Obj().Name()
	}

	if named, ok := t.(*types.Named); ok {
		return named.Obj().Name()
	}

	return ""
}
