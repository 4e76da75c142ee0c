package pull

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// LoadSnapshot reads a snapshot written by YAMLGenerator.
func LoadSnapshot(path string) (*SchemaSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snapshot SchemaSnapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse schema snapshot %s: %w", path, err)
	}
	return &snapshot, nil
}

// SnapshotFetcher serves a previously pulled snapshot, so bindings can be
// regenerated without network access.
type SnapshotFetcher struct {
	snapshot *SchemaSnapshot
}

// NewSnapshotFetcher wraps a loaded snapshot.
func NewSnapshotFetcher(snapshot *SchemaSnapshot) *SnapshotFetcher {
	return &SnapshotFetcher{snapshot: snapshot}
}

func (f *SnapshotFetcher) ListTables(ctx context.Context) ([]Table, error) {
	var tables []Table
	for _, db := range f.snapshot.Databases {
		for _, t := range db.Tables {
			t.Fields = nil
			tables = append(tables, t)
		}
	}
	return tables, nil
}

func (f *SnapshotFetcher) ListTableFields(ctx context.Context, tableID uint64) ([]TableField, error) {
	for _, db := range f.snapshot.Databases {
		for _, t := range db.Tables {
			if t.ID == tableID && t.Fields != nil {
				return t.Fields, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: table %d is not in the snapshot", ErrTableFieldsMissing, tableID)
}
