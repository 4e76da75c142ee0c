package pull

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// FetchErrorPolicy decides what happens when the fields of one table cannot
// be fetched.
type FetchErrorPolicy string

const (
	// FetchErrorSkip keeps going; the table is left without fields.
	FetchErrorSkip FetchErrorPolicy = "skip"
	// FetchErrorAbort fails the whole pull.
	FetchErrorAbort FetchErrorPolicy = "abort"
)

// DefaultConcurrency is the number of field fetches in flight at once.
const DefaultConcurrency = 4

// ParseFetchErrorPolicy accepts "skip", "abort" or "" (skip).
func ParseFetchErrorPolicy(s string) (FetchErrorPolicy, error) {
	switch FetchErrorPolicy(s) {
	case "", FetchErrorSkip:
		return FetchErrorSkip, nil
	case FetchErrorAbort:
		return FetchErrorAbort, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFetchPolicy, s)
	}
}

// PullConfig contains configuration for the pull operation
type PullConfig struct {
	Databases    []Database // only tables of these databases are pulled; empty pulls all
	Concurrency  int
	OnFetchError FetchErrorPolicy
	Logger       *slog.Logger
}

// PullResult contains the result of a pull operation
type PullResult struct {
	Tables      []Table
	ExtractedAt time.Time
	Errors      []error // field fetch failures of skipped tables
}

// Pull lists the tables, then attaches the fields of each in-scope table.
// Field fetches run concurrently; each writes only its own table slot.
func Pull(ctx context.Context, fetcher Fetcher, config PullConfig) (*PullResult, error) {
	policy, err := ParseFetchErrorPolicy(string(config.OnFetchError))
	if err != nil {
		return nil, err
	}
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	all, err := fetcher.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	tables := FilterTables(all, config.Databases)
	logger.Debug("tables listed", "total", len(all), "in_scope", len(tables))

	failures := make([]error, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range tables {
		g.Go(func() error {
			table := &tables[i]
			fields, err := fetcher.ListTableFields(gctx, table.ID)
			if err != nil {
				err = fmt.Errorf("table %d (%s): %w", table.ID, table.Name, err)
				if policy == FetchErrorAbort {
					return err
				}
				logger.Warn("skipping table, fields could not be fetched", "table_id", table.ID, "table", table.Name, "error", err)
				failures[i] = err
				return nil
			}
			table.Fields = fields
			logger.Debug("fields attached", "table_id", table.ID, "table", table.Name, "fields", len(fields))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &PullResult{
		Tables:      tables,
		ExtractedAt: time.Now(),
	}
	for _, err := range failures {
		if err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	return result, nil
}

// FilterTables keeps the tables owned by one of databases, ordered by
// database, then by the table order Baserow reports. An empty database list
// keeps everything.
func FilterTables(tables []Table, databases []Database) []Table {
	var filtered []Table
	for _, t := range tables {
		if ShouldIncludeTable(t, databases) {
			filtered = append(filtered, t)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if a.DatabaseID != b.DatabaseID {
			return a.DatabaseID < b.DatabaseID
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})

	return filtered
}

// ShouldIncludeTable reports whether the table's database is configured.
func ShouldIncludeTable(table Table, databases []Database) bool {
	if len(databases) == 0 {
		return true
	}
	for _, db := range databases {
		if db.ID == table.DatabaseID {
			return true
		}
	}
	return false
}
