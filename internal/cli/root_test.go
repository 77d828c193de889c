package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/tools/go/packages"
	"gopkg.in/yaml.v3"

	"typeschema/internal/assemble"
	"typeschema/internal/testutil"
)

type stubImporter struct {
	pkgs map[string]*packages.Package
	env  []string
}

func (s *stubImporter) AddSearchPath(string) bool { return true }

func (s *stubImporter) Import(_ context.Context, importPath string) (*packages.Package, error) {
	if pkg, ok := s.pkgs[importPath]; ok {
		return pkg, nil
	}

	return nil, errors.Errorf("no package matches %s", importPath)
}

type run struct {
	code     int
	stdout   string
	stderr   string
	importer *stubImporter
}

func execute(t *testing.T, args ...string) run {
	t.Helper()

	pkg := testutil.CheckSource(t, "example.com/geo", map[string]string{"geo.go": `// Package geo measures.
package geo

const Version = "0.3.1"

// Area of a circle.
func Area(r float64) float64 { return r * r }
`})

	imp := &stubImporter{pkgs: map[string]*packages.Package{"example.com/geo": pkg}}
	var stdout, stderr bytes.Buffer
	app := &App{
		Stdout: &stdout,
		Stderr: &stderr,
		Importer: func(env []string) assemble.Importer {
			imp.env = env
			return imp
		},
		Clock: func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) },
	}

	code := app.Run(context.Background(), args)

	return run{code: code, stdout: stdout.String(), stderr: stderr.String(), importer: imp}
}

func TestRun_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"example.com/geo"}} {
		r := execute(t, args...)

		assert.Equal(t, 1, r.code)
		assert.Empty(t, r.stdout)
		assert.Contains(t, r.stderr, "Usage:")
		assert.Contains(t, r.stderr, usageLine)
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	r := execute(t, "--nope", "example.com/geo", ".")

	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "unknown flag")
	assert.Contains(t, r.stderr, "Usage:")
}

func TestRun_Schema(t *testing.T) {
	r := execute(t, "example.com/geo", t.TempDir())
	require.Equal(t, 0, r.code, r.stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))

	assert.ElementsMatch(t,
		[]string{"package", "version", "modules", "extractedAt", "missingAnnotations", "typeAnnotationCoverage"},
		keys(got))
	assert.Equal(t, "example.com/geo", got["package"])
	assert.Equal(t, "0.3.1", got["version"])
	assert.Equal(t, "2024-03-01T00:00:00.000000Z", got["extractedAt"])
	assert.InDelta(t, 100.0, got["typeAnnotationCoverage"], 1e-9)
	assert.Contains(t, r.stdout, "\n  \"package\"", "indented by two spaces")
}

func TestRun_ImportFailureIsAValue(t *testing.T) {
	r := execute(t, "nonexistent_pkg_xyz", "/tmp")
	require.Equal(t, 0, r.code, r.stderr)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	assert.Equal(t, map[string]string{
		"error": "Failed to import nonexistent_pkg_xyz: no package matches nonexistent_pkg_xyz",
	}, got)
}

func TestRun_YAML(t *testing.T) {
	r := execute(t, "--format", "yaml", "example.com/geo", t.TempDir())
	require.Equal(t, 0, r.code, r.stderr)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(r.stdout), &got))
	assert.Equal(t, "0.3.1", got["version"])
	assert.Contains(t, r.stdout, "package: example.com/geo\n")
}

func TestRun_EnvConfiguresFormatAndGoEnv(t *testing.T) {
	t.Setenv("TYPESCHEMA_FORMAT", "yaml")
	t.Setenv("TYPESCHEMA_ENV", "GOFLAGS=-mod=mod")

	r := execute(t, "example.com/geo", t.TempDir(), "example.com/geo")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "version: 0.3.1\n")
	assert.Equal(t, []string{"GOFLAGS=-mod=mod"}, r.importer.env)
}

func TestRun_InvalidConfig(t *testing.T) {
	r := execute(t, "--format", "toml", "example.com/geo", ".")

	assert.Equal(t, 1, r.code)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "unknown output format")
	assert.NotContains(t, r.stderr, "Usage:")
}

func TestRun_Verbose(t *testing.T) {
	r := execute(t, "-v", "example.com/geo", t.TempDir())
	require.Equal(t, 0, r.code)

	assert.Contains(t, r.stderr, "package extracted")
	assert.Contains(t, r.stderr, "package=example.com/geo")
}

func TestRun_Version(t *testing.T) {
	r := execute(t, "version")

	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "typeschema dev\n")
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}
