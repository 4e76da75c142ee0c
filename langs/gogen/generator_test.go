package gogen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/baserowgen/pull"
)

func TestGeneratorBuild(t *testing.T) {
	out := t.TempDir()

	broken := pull.Table{ID: 8, Name: "Broken", DatabaseID: 1}
	foreign := contactsTable()
	foreign.ID = 9
	foreign.Name = "Foreign"
	foreign.DatabaseID = 42

	g := New(
		WithOutputPath(out),
		WithPackageName("bindings"),
		WithImportBase("example.com/app/bindings"),
		WithDatabases(Database{ID: 1, Name: "CRM"}),
		WithRunID("run-42"),
	)

	result, err := g.Build([]pull.Table{contactsTable(), broken, foreign})
	assert.NoError(t, err)

	assert.Equal(t, "run-42", result.GenerationID)
	assert.Equal(t, 1, len(result.Bindings))
	assert.Equal(t, "Contacts", result.Bindings[0].TypeName)

	assert.Equal(t, 1, len(result.Failures))
	assert.Equal(t, uint64(8), result.Failures[0].TableID)
	assert.IsError(t, result.Failures[0], ErrMissingFieldSchema)

	assert.Equal(t, 2, len(result.Files))
	assert.Equal(t, filepath.Join(out, "crm", RecordsFileName), result.Files[0].Path)
	assert.Equal(t, filepath.Join(out, ManifestFileName), result.Files[1].Path)

	records := string(result.Files[0].Content)
	assert.NotContains(t, records, "Foreign")
	parseGenerated(t, result.Files[0].Content)
	parseGenerated(t, result.Files[1].Content)

	assert.NoError(t, g.Write(result))
	written, err := os.ReadFile(filepath.Join(out, "crm", RecordsFileName))
	assert.NoError(t, err)
	assert.Equal(t, records, string(written))
}

func TestGeneratorBuildAllTablesFailed(t *testing.T) {
	g := New(
		WithOutputPath(t.TempDir()),
		WithDatabases(Database{ID: 1, Name: "CRM"}),
	)

	_, err := g.Build([]pull.Table{
		{ID: 1, Name: "A", DatabaseID: 1},
		{ID: 2, Name: "B", DatabaseID: 1, Fields: []pull.TableField{{ID: 3, Name: "X", Type: "text"}}},
	})
	assert.IsError(t, err, ErrNoTablesGenerated)
	assert.IsError(t, err, ErrMissingFieldSchema)
	assert.IsError(t, err, ErrPrimaryFieldCardinality)
}

func TestGeneratorBuildFailFast(t *testing.T) {
	g := New(
		WithOutputPath(t.TempDir()),
		WithDatabases(Database{ID: 1, Name: "CRM"}),
		WithFailFast(true),
	)

	result, err := g.Build([]pull.Table{{ID: 1, Name: "A", DatabaseID: 1}, contactsTable()})
	assert.IsError(t, err, ErrMissingFieldSchema)
	assert.Zero(t, result)
}

func TestGeneratorGenerateOverwritesStaleOutput(t *testing.T) {
	out := t.TempDir()
	stale := filepath.Join(out, "crm", RecordsFileName)
	assert.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	assert.NoError(t, os.WriteFile(stale, []byte("package crm\n\nconst Stale = true\n"), 0o644))

	g := New(
		WithOutputPath(out),
		WithImportBase("example.com/app/out"),
		WithDatabases(Database{ID: 1, Name: "CRM"}),
	)
	_, err := g.Generate([]pull.Table{contactsTable()})
	assert.NoError(t, err)

	content, err := os.ReadFile(stale)
	assert.NoError(t, err)
	assert.False(t, strings.Contains(string(content), "Stale"))
	assert.Contains(t, string(content), "type Contacts struct")

	manifest, err := os.ReadFile(filepath.Join(out, ManifestFileName))
	assert.NoError(t, err)
	assert.Contains(t, string(manifest), `crm "example.com/app/out/crm"`)
}

func TestNewDefaults(t *testing.T) {
	g := New()
	assert.Equal(t, "bindings", g.PackageName)
	assert.Equal(t, ".", g.OutputPath)
	assert.NotEqual(t, "", g.RunID)
}
