package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/shibukawa/baserowgen"
	"github.com/shibukawa/baserowgen/baserow"
	"github.com/shibukawa/baserowgen/pull"
)

// loadConfig loads the configuration and resolves the output directory
// against the directory of the config file.
func loadConfig(ctx *Context, output string) (*baserowgen.Config, error) {
	config, err := baserowgen.LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if output != "" {
		config.Output = output
	} else if !filepath.IsAbs(config.Output) {
		config.Output = filepath.Join(filepath.Dir(ctx.Config), config.Output)
	}

	if ctx.Verbose {
		color.Cyan("Configuration loaded from: %s", ctx.Config)
		color.Cyan("Output directory: %s", config.Output)
	}

	return config, nil
}

// remoteFetcher talks to the Baserow API configured in config.
func remoteFetcher(ctx *Context, config *baserowgen.Config) (*pull.HTTPFetcher, string, error) {
	if err := config.RequireToken(); err != nil {
		return nil, "", err
	}

	client, err := baserow.NewClient(config.Token,
		baserow.WithBaseURL(config.BaseURL),
		baserow.WithLogger(ctx.Logger()),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create Baserow client: %w", err)
	}

	return pull.NewHTTPFetcher(client), client.URLs().Base(), nil
}

// pullSchema fetches the tables of the configured databases with their fields.
func pullSchema(ctx *Context, config *baserowgen.Config, fetcher pull.Fetcher) (*pull.PullResult, error) {
	result, err := pull.Pull(ctx.Context(), fetcher, pull.PullConfig{
		Databases:    config.PullDatabases(),
		Concurrency:  config.Schema.Concurrency,
		OnFetchError: config.FetchErrorPolicy(),
		Logger:       ctx.Logger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pull schema: %w", err)
	}

	if len(result.Tables) == 0 {
		return nil, ErrNoTablesFound
	}

	if !ctx.Quiet {
		for _, err := range result.Errors {
			color.Yellow("  Skipped: %v", err)
		}
	}

	return result, nil
}

// writeSnapshot writes the pulled schema next to the generated code.
func writeSnapshot(ctx *Context, config *baserowgen.Config, baseURL string, result *pull.PullResult) (string, error) {
	snapshot := pull.BuildSnapshot(baseURL, config.PullDatabases(), result)

	path, err := pull.NewYAMLGenerator().Generate(snapshot, config.Output)
	if err != nil {
		return "", fmt.Errorf("failed to write schema snapshot: %w", err)
	}

	if ctx.Verbose {
		color.Cyan("Schema snapshot written: %s", path)
	}

	return path, nil
}
