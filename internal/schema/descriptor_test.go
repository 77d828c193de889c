package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	assert.Equal(t, "any", KindAny.String())
	assert.Equal(t, "none", KindNone.String())
	assert.Equal(t, "primitive", KindPrimitive.String())
	assert.Equal(t, "list", KindList.String())
	assert.Equal(t, "dict", KindDict.String())
	assert.Equal(t, "tuple", KindTuple.String())
	assert.Equal(t, "optional", KindOptional.String())
	assert.Equal(t, "class", KindClass.String())
	assert.Equal(t, "any", Kind(99).String())
}

func TestTypeDescriptor_ZeroValueIsAny(t *testing.T) {
	var d TypeDescriptor
	assert.True(t, d.IsAny())
	assert.Equal(t, Any(), d)
}

func TestTypeDescriptor_String(t *testing.T) {
	tests := []struct {
		desc     TypeDescriptor
		expected string
	}{
		{Any(), "any"},
		{None(), "nil"},
		{Primitive("int"), "int"},
		{List(Primitive("string")), "[]string"},
		{Dict(Primitive("string"), List(Class("Order"))), "map[string][]Order"},
		{Optional(Primitive("float64")), "*float64"},
		{Tuple(Primitive("int"), Class("error")), "(int, error)"},
		{Tuple(), "()"},
		{Class("Order"), "Order"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.desc.String())
		})
	}
}

func TestTypeDescriptor_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		desc     TypeDescriptor
		expected string
	}{
		{"any", Any(), `{"kind":"any"}`},
		{"none", None(), `{"kind":"none"}`},
		{"primitive", Primitive("int"), `{"kind":"primitive","value":"int"}`},
		{"list", List(Primitive("int")), `{"kind":"list","elementType":{"kind":"primitive","value":"int"}}`},
		{"dict", Dict(Primitive("string"), Any()), `{"kind":"dict","keyType":{"kind":"primitive","value":"string"},"valueType":{"kind":"any"}}`},
		{"empty tuple", Tuple(), `{"kind":"tuple","elements":[]}`},
		{"optional", Optional(Class("T")), `{"kind":"optional","innerType":{"kind":"class","className":"T"}}`},
		{"class", Class("Order"), `{"kind":"class","className":"Order"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.desc)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))

			var back TypeDescriptor
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.desc, back)
		})
	}
}

func TestTypeDescriptor_UnmarshalUnknownKind(t *testing.T) {
	var d TypeDescriptor
	err := json.Unmarshal([]byte(`{"kind":"union"}`), &d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "union")
}

func TestModuleDescriptor_HasAPI(t *testing.T) {
	m := ModuleDescriptor{Constants: []ConstantDescriptor{{Name: "X"}}}
	assert.False(t, m.HasAPI())

	m.Functions = []FunctionDescriptor{{Name: "F"}}
	assert.True(t, m.HasAPI())

	m = ModuleDescriptor{Classes: []ClassDescriptor{{Name: "C"}}}
	assert.True(t, m.HasAPI())
}

func TestFailure_JSON(t *testing.T) {
	data, err := json.Marshal(Failure{Error: "Failed to import nope: not found"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Failed to import nope: not found"}`, string(data))
}
