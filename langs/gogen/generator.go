package gogen

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/shibukawa/baserowgen/pull"
)

// Generator turns fetched tables into Go packages.
type Generator struct {
	OutputPath  string
	PackageName string
	// ImportBase is the import path of OutputPath. When empty it is inferred
	// from the enclosing go.mod.
	ImportBase string
	Databases  []Database
	RunID      string
	// FailFast stops at the first table that cannot be generated.
	FailFast bool

	logger  *slog.Logger
	emitter *Emitter
}

// Option is a function that configures Generator
type Option func(*Generator)

// WithOutputPath sets the directory the packages are written to
func WithOutputPath(path string) Option {
	return func(g *Generator) {
		g.OutputPath = path
	}
}

// WithPackageName sets the package name of the manifest
func WithPackageName(name string) Option {
	return func(g *Generator) {
		g.PackageName = name
	}
}

// WithImportBase sets the import path of the output directory
func WithImportBase(importBase string) Option {
	return func(g *Generator) {
		g.ImportBase = importBase
	}
}

// WithDatabases sets the databases to generate packages for
func WithDatabases(databases ...Database) Option {
	return func(g *Generator) {
		g.Databases = append(g.Databases, databases...)
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithRunID overrides the generated run id
func WithRunID(id string) Option {
	return func(g *Generator) {
		g.RunID = id
	}
}

// WithFailFast makes the first failing table abort the run
func WithFailFast(failFast bool) Option {
	return func(g *Generator) {
		g.FailFast = failFast
	}
}

// WithTypeMapper replaces the default type mapper
func WithTypeMapper(mapper *TypeMapper) Option {
	return func(g *Generator) {
		g.emitter = NewEmitter(mapper)
	}
}

// New creates a new Generator
func New(opts ...Option) *Generator {
	g := &Generator{
		OutputPath:  ".",
		PackageName: "bindings",
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.New(slog.DiscardHandler)
	}
	if g.emitter == nil {
		g.emitter = NewEmitter(nil)
	}
	if g.RunID == "" {
		g.RunID = uuid.NewString()
	}

	return g
}

// GeneratedFile is one rendered output file.
type GeneratedFile struct {
	Path    string
	Content []byte
}

// Result is the outcome of Build.
type Result struct {
	GenerationID string
	Bindings     []*TableBinding
	Units        []Unit
	Files        []GeneratedFile
	Failures     []TableFailure
}

// Build emits every table of a configured database. Failing tables are
// collected in Result.Failures and the rest is still generated; Build only
// fails when no table at all could be generated.
func (g *Generator) Build(tables []pull.Table) (*Result, error) {
	logger := g.logger.With("run_id", g.RunID)

	configured := make(map[uint64]bool, len(g.Databases))
	for _, db := range g.Databases {
		configured[db.ID] = true
	}

	result := &Result{GenerationID: g.RunID}
	inScope := 0
	for _, table := range tables {
		if !configured[table.DatabaseID] {
			logger.Debug("table outside configured databases", "table", table.Name, "database_id", table.DatabaseID)
			continue
		}
		inScope++

		binding, err := g.emitter.EmitTable(table)
		if err != nil {
			failure := TableFailure{TableID: table.ID, TableName: table.Name, Err: err}
			if g.FailFast {
				return nil, failure
			}
			logger.Warn("skipping table", "table", table.Name, "table_id", table.ID, "error", err)
			result.Failures = append(result.Failures, failure)
			continue
		}
		logger.Debug("emitted table", "table", table.Name, "type", binding.TypeName, "fields", len(binding.Fields))
		result.Bindings = append(result.Bindings, binding)
	}

	units, clashes, err := Organize(g.Databases, result.Bindings)
	if err != nil {
		return nil, err
	}
	for _, c := range clashes {
		if g.FailFast {
			return nil, c
		}
		logger.Warn("skipping table", "table", c.TableName, "table_id", c.TableID, "error", c.Err)
	}
	result.Failures = append(result.Failures, clashes...)
	result.Units = units
	result.Bindings = result.Bindings[:0]
	for _, u := range units {
		result.Bindings = append(result.Bindings, u.Tables...)
	}

	if inScope > 0 && len(result.Failures) == inScope {
		errs := make([]error, len(result.Failures))
		for i, f := range result.Failures {
			errs[i] = f
		}
		return result, fmt.Errorf("%w: %w", ErrNoTablesGenerated, errors.Join(errs...))
	}

	for _, u := range units {
		src, err := RenderUnit(u)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", u.Package, err)
		}
		result.Files = append(result.Files, GeneratedFile{
			Path:    filepath.Join(g.OutputPath, u.Dir(), RecordsFileName),
			Content: src,
		})
	}

	importBase := g.ImportBase
	if importBase == "" {
		importBase, err = FindImportBase(g.OutputPath)
		if err != nil {
			logger.Warn("cannot infer import path of output directory", "output", g.OutputPath, "error", err)
			importBase = ""
		}
	}

	manifest, err := RenderManifest(g.PackageName, importBase, g.RunID, units)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	result.Files = append(result.Files, GeneratedFile{
		Path:    filepath.Join(g.OutputPath, ManifestFileName),
		Content: manifest,
	})

	logger.Info("generated bindings", "tables", len(result.Bindings), "failed", len(result.Failures), "packages", len(units))

	return result, nil
}

// Write writes the files of result, replacing existing ones.
func (g *Generator) Write(result *Result) error {
	for _, f := range result.Files {
		if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(f.Path, f.Content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
		g.logger.Debug("wrote file", "path", f.Path, "bytes", len(f.Content))
	}
	return nil
}

// Generate builds and writes in one step.
func (g *Generator) Generate(tables []pull.Table) (*Result, error) {
	result, err := g.Build(tables)
	if err != nil {
		return result, err
	}
	return result, g.Write(result)
}
