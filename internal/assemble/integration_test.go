package assemble

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeschema/internal/diagnostic"
	"typeschema/internal/load"
	"typeschema/internal/logging"
	"typeschema/internal/schema"
)

func fixture(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func moduleNames(mods []schema.ModuleDescriptor) []string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		out = append(out, m.Name)
	}

	return out
}

func TestIntegration_Shapes(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go command")
	}

	ctx := logging.Discard(context.Background())
	imp := load.NewImporter()

	res, err := New(imp, WithClock(fixedClock)).Run(ctx, Request{
		ImportName: "example.com/shapes",
		SearchPath: fixture("shapes"),
	})
	require.NoError(t, err)
	s := res.Schema

	assert.Equal(t, "2.1.0", s.Version)
	require.Equal(t, []string{
		"example.com/shapes",
		"example.com/shapes/geometry",
		"example.com/shapes/partial",
	}, moduleNames(s.Modules), spew.Sdump(res.Diagnostics))

	main := s.Modules[0]
	assert.Equal(t, "Package shapes builds flat figures.", main.Docstring)

	var classes []string
	for _, c := range main.Classes {
		classes = append(classes, c.Name)
	}
	assert.Equal(t, []string{"Shape", "Square", "Vec"}, classes, "Writer aliases an unexported-from-here type")

	var render *schema.FunctionDescriptor
	for i := range main.Functions {
		if main.Functions[i].Name == "Render" {
			render = &main.Functions[i]
		}
	}
	require.NotNil(t, render)
	assert.Equal(t, []schema.ParameterDescriptor{
		{Name: "w", Type: schema.Class("Writer")},
		{Name: "shapes", Type: schema.List(schema.Class("Shape")), Optional: true},
	}, render.Params)
	assert.Equal(t, schema.Class("error"), render.ReturnType)

	partial := s.Modules[2]
	require.Len(t, partial.Functions, 1)
	assert.Equal(t, schema.Class("Missing"), partial.Functions[0].Params[0].Type, "written type used when checking fails")

	assert.Equal(t, []string{"example.com/shapes.Describe.v"}, s.MissingAnnotations)
	// 17 slots, one missing
	assert.InDelta(t, 94.12, s.TypeAnnotationCoverage, 1e-9)

	var skipped []string
	for _, d := range res.Diagnostics.ByCode(diagnostic.CodeSubmoduleSkipped) {
		skipped = append(skipped, d.Module)
	}
	assert.Equal(t, []string{
		"example.com/shapes/broken",
		"example.com/shapes/docs",
		"example.com/shapes/ignored",
	}, skipped)

	empty := res.Diagnostics.ByCode(diagnostic.CodeSubmoduleEmpty)
	require.Len(t, empty, 1)
	assert.Equal(t, "example.com/shapes/consts", empty[0].Module)
}

func TestIntegration_Plain(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go command")
	}

	ctx := logging.Discard(context.Background())
	s, err := New(load.NewImporter()).Extract(ctx, Request{
		ImportName: "example.com/plain",
		SearchPath: fixture("plain"),
	})
	require.NoError(t, err)

	assert.Equal(t, "unknown", s.Version)
	assert.Equal(t, []string{}, s.MissingAnnotations)
	assert.InDelta(t, 100.0, s.TypeAnnotationCoverage, 1e-9)
	require.Len(t, s.Modules, 1)
	assert.Len(t, s.Modules[0].Classes, 1)
}

func TestIntegration_Nonexistent(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go command")
	}

	ctx := logging.Discard(context.Background())
	_, err := New(load.NewImporter()).Extract(ctx, Request{
		ImportName: "example.com/plain/nonexistent_pkg_xyz",
		SearchPath: fixture("plain"),
	})

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Contains(t, err.Error(), "Failed to import example.com/plain/nonexistent_pkg_xyz: ")
}
