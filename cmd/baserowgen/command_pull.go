package main

import (
	"github.com/fatih/color"

	"github.com/shibukawa/baserowgen/pull"
)

// PullCmd represents the pull command
type PullCmd struct {
	Output string `short:"o" help:"Output directory (overrides the config)" type:"path"`
}

func (p *PullCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx, p.Output)
	if err != nil {
		return err
	}

	fetcher, baseURL, err := remoteFetcher(ctx, config)
	if err != nil {
		return err
	}

	if !ctx.Quiet {
		color.Blue("Pulling schema from %s", baseURL)
	}

	result, err := pullSchema(ctx, config, fetcher)
	if err != nil {
		return err
	}

	path, err := writeSnapshot(ctx, config, baseURL, result)
	if err != nil {
		return err
	}

	if !ctx.Quiet {
		p.displayResults(result, path)
	}

	return nil
}

// displayResults shows the results of the pull operation
func (p *PullCmd) displayResults(result *pull.PullResult, path string) {
	color.Green("✓ Schema extraction completed successfully")

	withFields := 0
	for _, t := range result.Tables {
		if t.HasFields() {
			withFields++
		}
	}

	color.Green("  Tables: %d", len(result.Tables))
	if skipped := len(result.Tables) - withFields; skipped > 0 {
		color.Yellow("  Tables without fields: %d", skipped)
	}
	color.Green("  Output: %s", path)
}
