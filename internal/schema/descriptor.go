package schema

import (
	"encoding/json"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Kind is the discriminator of a TypeDescriptor.
type Kind int

const (
	KindAny       Kind = iota // unresolved or unconstrained
	KindNone                  // absence of a value
	KindPrimitive             // string, int, float64, bool, ...
	KindList                  // []T, [N]T
	KindDict                  // map[K]V
	KindTuple                 // (T1, ..., Tn)
	KindOptional              // *T
	KindClass                 // named type
)

var kindNames = map[Kind]string{
	KindAny:       "any",
	KindNone:      "none",
	KindPrimitive: "primitive",
	KindList:      "list",
	KindDict:      "dict",
	KindTuple:     "tuple",
	KindOptional:  "optional",
	KindClass:     "class",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "any"
}

// MarshalText encodes the kind by its wire name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a wire name.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}

	return errors.Errorf("unknown type kind %q", text)
}

// TypeDescriptor describes one type. Only the fields belonging to Kind are set.
type TypeDescriptor struct {
	Kind        Kind
	Value       string           // primitive name
	ElementType *TypeDescriptor  // list
	KeyType     *TypeDescriptor  // dict
	ValueType   *TypeDescriptor  // dict
	Elements    []TypeDescriptor // tuple
	InnerType   *TypeDescriptor  // optional
	ClassName   string           // class
}

// Any returns the descriptor used for every unresolvable type.
func Any() TypeDescriptor { return TypeDescriptor{Kind: KindAny} }

// None returns the descriptor of the absence of a value.
func None() TypeDescriptor { return TypeDescriptor{Kind: KindNone} }

// Primitive returns a primitive descriptor.
func Primitive(name string) TypeDescriptor {
	return TypeDescriptor{Kind: KindPrimitive, Value: name}
}

// List returns a list descriptor.
func List(elem TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: KindList, ElementType: &elem}
}

// Dict returns a dict descriptor.
func Dict(key, value TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: KindDict, KeyType: &key, ValueType: &value}
}

// Tuple returns a tuple descriptor. A nil slice is stored as empty.
func Tuple(elems ...TypeDescriptor) TypeDescriptor {
	if elems == nil {
		elems = []TypeDescriptor{}
	}

	return TypeDescriptor{Kind: KindTuple, Elements: elems}
}

// Optional returns an optional descriptor.
func Optional(inner TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: KindOptional, InnerType: &inner}
}

// Class returns a class descriptor.
func Class(name string) TypeDescriptor {
	return TypeDescriptor{Kind: KindClass, ClassName: name}
}

// IsAny reports whether the descriptor carries no type information.
func (d TypeDescriptor) IsAny() bool {
	return d.Kind == KindAny
}

// String renders the descriptor in Go type syntax.
//
//	list(primitive(int))          -> []int
//	dict(primitive(string), any)  -> map[string]any
//	optional(class(Order))        -> *Order
//	tuple(primitive(int), class(error)) -> (int, error)
func (d TypeDescriptor) String() string {
	switch d.Kind {
	case KindNone:
		return "nil"
	case KindPrimitive:
		return d.Value
	case KindList:
		return "[]" + d.ElementType.String()
	case KindDict:
		return "map[" + d.KeyType.String() + "]" + d.ValueType.String()
	case KindTuple:
		parts := make([]string, len(d.Elements))
		for i, e := range d.Elements {
			parts[i] = e.String()
		}

		return "(" + strings.Join(parts, ", ") + ")"
	case KindOptional:
		return "*" + d.InnerType.String()
	case KindClass:
		return d.ClassName
	default:
		return "any"
	}
}

// MarshalJSON writes kind first, followed by the fields of that kind.
func (d TypeDescriptor) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case KindPrimitive:
		return json.Marshal(struct {
			Kind  Kind   `json:"kind"`
			Value string `json:"value"`
		}{d.Kind, d.Value})
	case KindList:
		return json.Marshal(struct {
			Kind        Kind            `json:"kind"`
			ElementType *TypeDescriptor `json:"elementType"`
		}{d.Kind, orAny(d.ElementType)})
	case KindDict:
		return json.Marshal(struct {
			Kind      Kind            `json:"kind"`
			KeyType   *TypeDescriptor `json:"keyType"`
			ValueType *TypeDescriptor `json:"valueType"`
		}{d.Kind, orAny(d.KeyType), orAny(d.ValueType)})
	case KindTuple:
		elems := d.Elements
		if elems == nil {
			elems = []TypeDescriptor{}
		}

		return json.Marshal(struct {
			Kind     Kind             `json:"kind"`
			Elements []TypeDescriptor `json:"elements"`
		}{d.Kind, elems})
	case KindOptional:
		return json.Marshal(struct {
			Kind      Kind            `json:"kind"`
			InnerType *TypeDescriptor `json:"innerType"`
		}{d.Kind, orAny(d.InnerType)})
	case KindClass:
		return json.Marshal(struct {
			Kind      Kind   `json:"kind"`
			ClassName string `json:"className"`
		}{d.Kind, d.ClassName})
	default:
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
		}{d.Kind})
	}
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (d *TypeDescriptor) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind        Kind             `json:"kind"`
		Value       string           `json:"value"`
		ElementType *TypeDescriptor  `json:"elementType"`
		KeyType     *TypeDescriptor  `json:"keyType"`
		ValueType   *TypeDescriptor  `json:"valueType"`
		Elements    []TypeDescriptor `json:"elements"`
		InnerType   *TypeDescriptor  `json:"innerType"`
		ClassName   string           `json:"className"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Errorf("decoding type descriptor: %w", err)
	}

	switch raw.Kind {
	case KindPrimitive:
		*d = Primitive(raw.Value)
	case KindList:
		*d = List(*orAny(raw.ElementType))
	case KindDict:
		*d = Dict(*orAny(raw.KeyType), *orAny(raw.ValueType))
	case KindTuple:
		*d = Tuple(raw.Elements...)
	case KindOptional:
		*d = Optional(*orAny(raw.InnerType))
	case KindClass:
		*d = Class(raw.ClassName)
	default:
		*d = TypeDescriptor{Kind: raw.Kind}
	}

	return nil
}

func orAny(d *TypeDescriptor) *TypeDescriptor {
	if d == nil {
		a := Any()
		return &a
	}

	return d
}
