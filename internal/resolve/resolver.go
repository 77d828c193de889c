package resolve

import (
	"go/types"

	"typeschema/internal/schema"
)

// Resolve converts a checked type into a descriptor.
//
// Basic and pointer types are matched before named types, so *int is
// optional(primitive(int)) and never a class. Named types stop the recursion,
// which keeps descriptors of recursive types finite.
func Resolve(t types.Type) schema.TypeDescriptor {
	if t == nil {
		return schema.Any()
	}

	if alias, ok := t.(*types.Alias); ok {
		// any, byte and rune are aliases too; keep predeclared basic names
		if basic, ok := types.Unalias(alias).(*types.Basic); ok && alias.Obj().Pkg() == nil {
			return resolveBasic(alias.Obj().Name(), basic)
		}
		t = types.Unalias(alias)
	}

	switch tt := t.(type) {
	case *types.Basic:
		return resolveBasic(tt.Name(), tt)

	case *types.Slice:
		return schema.List(Resolve(tt.Elem()))

	case *types.Array:
		return schema.List(Resolve(tt.Elem()))

	case *types.Map:
		return schema.Dict(Resolve(tt.Key()), Resolve(tt.Elem()))

	case *types.Tuple:
		return resolveTuple(tt)

	case *types.Pointer:
		return schema.Optional(Resolve(tt.Elem()))

	case *types.Union:
		// type-set unions never contain nil, so they are never optional
		return schema.Any()

	case *types.TypeParam:
		return schema.Any()

	case *types.Named:
		obj := tt.Obj()
		if obj == nil {
			return schema.Any()
		}

		return schema.Class(obj.Name())

	default:
		// chan, func, unnamed struct and interface types
		return schema.Any()
	}
}

// Results converts a result list: no results is none, one result is that type.
func Results(results *types.Tuple) schema.TypeDescriptor {
	switch {
	case results == nil || results.Len() == 0:
		return schema.None()
	case results.Len() == 1:
		return Resolve(results.At(0).Type())
	default:
		return resolveTuple(results)
	}
}

func resolveTuple(tuple *types.Tuple) schema.TypeDescriptor {
	if tuple == nil {
		return schema.Tuple()
	}

	elems := make([]schema.TypeDescriptor, 0, tuple.Len())
	for i := range tuple.Len() {
		elems = append(elems, Resolve(tuple.At(i).Type()))
	}

	return schema.Tuple(elems...)
}

func resolveBasic(name string, basic *types.Basic) schema.TypeDescriptor {
	switch basic.Kind() {
	case types.Invalid:
		return schema.Any()
	case types.UntypedNil:
		return schema.None()
	case types.UnsafePointer:
		return schema.Any()
	}

	if basic.Info()&types.IsUntyped != 0 {
		if def, ok := types.Default(basic).(*types.Basic); ok {
			return schema.Primitive(def.Name())
		}

		return schema.Any()
	}

	return schema.Primitive(name)
}

// IsEmptyInterface reports whether t is any / interface{}.
func IsEmptyInterface(t types.Type) bool {
	iface, ok := types.Unalias(t).(*types.Interface)
	return ok && iface.Empty()
}
