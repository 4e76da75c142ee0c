package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/shibukawa/baserowgen/langs/gogen"
	"github.com/shibukawa/baserowgen/pull"
)

// GenerateCmd represents the generate command
type GenerateCmd struct {
	Schema   string `help:"Generate from a schema snapshot instead of the Baserow API" type:"existingfile"`
	Output   string `short:"o" help:"Output directory (overrides the config)" type:"path"`
	FailFast bool   `help:"Stop at the first table that cannot be generated"`
	Strict   bool   `help:"Exit with an error when any table was skipped"`
}

func (g *GenerateCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx, g.Output)
	if err != nil {
		return err
	}

	var (
		fetcher pull.Fetcher
		baseURL string
	)
	if g.Schema != "" {
		snapshot, err := pull.LoadSnapshot(g.Schema)
		if err != nil {
			return fmt.Errorf("failed to load schema snapshot: %w", err)
		}
		fetcher = pull.NewSnapshotFetcher(snapshot)
		baseURL = snapshot.BaseURL
		if !ctx.Quiet {
			color.Blue("Generating bindings from snapshot %s", g.Schema)
		}
	} else {
		httpFetcher, base, err := remoteFetcher(ctx, config)
		if err != nil {
			return err
		}
		fetcher, baseURL = httpFetcher, base
		if !ctx.Quiet {
			color.Blue("Generating bindings from %s", baseURL)
		}
	}

	result, err := pullSchema(ctx, config, fetcher)
	if err != nil {
		return err
	}

	// A snapshot given with --schema is the input and is left untouched
	if config.Generation.SchemaSnapshot && g.Schema == "" {
		if _, err := writeSnapshot(ctx, config, baseURL, result); err != nil {
			return err
		}
	}

	generator := gogen.New(
		gogen.WithOutputPath(config.Output),
		gogen.WithPackageName(config.Package),
		gogen.WithImportBase(config.ImportBase),
		gogen.WithDatabases(config.GeneratorDatabases()...),
		gogen.WithLogger(ctx.Logger()),
		gogen.WithFailFast(g.FailFast),
	)

	generated, err := generator.Generate(result.Tables)
	if err != nil {
		return fmt.Errorf("failed to generate bindings: %w", err)
	}

	if !ctx.Quiet {
		g.displayResults(ctx, generated)
	}

	if g.Strict && len(generated.Failures) > 0 {
		return fmt.Errorf("%w: %d table(s)", ErrTablesSkipped, len(generated.Failures))
	}

	return nil
}

// displayResults shows the generated packages and the skipped tables
func (g *GenerateCmd) displayResults(ctx *Context, result *gogen.Result) {
	for _, failure := range result.Failures {
		color.Yellow("  Skipped table %q (%d): %v", failure.TableName, failure.TableID, failure.Err)
	}

	for _, unit := range result.Units {
		color.Cyan("  Package %s: %d table(s) from %q", unit.Package, len(unit.Tables), unit.Database)
		if ctx.Verbose {
			for _, table := range unit.Tables {
				color.Cyan("    %s (table %d)", table.TypeName, table.TableID)
			}
		}
	}

	if ctx.Verbose {
		for _, f := range result.Files {
			color.Green("Generated: %s", f.Path)
		}
	}

	color.Green("✓ Generated %d record type(s) in %d package(s), run %s", len(result.Bindings), len(result.Units), result.GenerationID)
}
