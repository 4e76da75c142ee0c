package pull

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// SnapshotFileName is the file written into the output directory.
const SnapshotFileName = "schema_baserow.yaml"

// YAMLGenerator writes pulled schemas as a YAML snapshot
type YAMLGenerator struct {
	FileName string
}

// NewYAMLGenerator creates a new YAML generator
func NewYAMLGenerator() *YAMLGenerator {
	return &YAMLGenerator{FileName: SnapshotFileName}
}

// BuildSnapshot groups the pulled tables by configured database. Tables of
// unconfigured databases are left out.
func BuildSnapshot(baseURL string, databases []Database, result *PullResult) SchemaSnapshot {
	snapshot := SchemaSnapshot{
		BaseURL:     baseURL,
		ExtractedAt: result.ExtractedAt,
	}
	for _, db := range databases {
		schema := DatabaseSchema{Name: db.Name, ID: db.ID, Tables: []Table{}}
		for _, t := range result.Tables {
			if t.DatabaseID == db.ID {
				schema.Tables = append(schema.Tables, t)
			}
		}
		snapshot.Databases = append(snapshot.Databases, schema)
	}
	return snapshot
}

// Generate writes the snapshot below outputPath and returns the file path.
func (g *YAMLGenerator) Generate(snapshot SchemaSnapshot, outputPath string) (string, error) {
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDirectoryCreateFailed, err)
	}

	filename := filepath.Join(outputPath, g.FileName)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileWriteFailed, err)
	}
	defer file.Close()

	if err := g.writeYAML(file, snapshot); err != nil {
		return "", err
	}
	return filename, nil
}

func (g *YAMLGenerator) writeYAML(writer io.Writer, data any) error {
	encoder := yaml.NewEncoder(writer)
	defer encoder.Close()

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("%w: %w", ErrYAMLGenerationFailed, err)
	}
	return nil
}
