package gogen

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// RecordsFileName is the file written into each database package.
const RecordsFileName = "records_gen.go"

// ManifestFileName is the file listing every database package.
const ManifestFileName = "manifest_gen.go"

// Database is a configured database. Package overrides the name derived
// from Name.
type Database struct {
	ID      uint64
	Name    string
	Package string
}

// PackageName returns the Go package of the database's unit.
func (d Database) PackageName() string {
	if d.Package != "" {
		return d.Package
	}
	if d.Name == "" {
		return "db_" + strconv.FormatUint(d.ID, 10)
	}
	return PackageName(d.Name)
}

// Unit is the output package of one database.
type Unit struct {
	DatabaseID uint64
	Database   string
	Package    string
	Tables     []*TableBinding
	// Alias is the manifest's import name for the package, empty when the
	// manifest does not import it.
	Alias string
}

// Dir is the unit's directory relative to the output path.
func (u *Unit) Dir() string {
	return u.Package
}

// TableFailure is a table that produced no binding.
type TableFailure struct {
	TableID   uint64
	TableName string
	Err       error
}

func (f TableFailure) Error() string {
	return fmt.Sprintf("table %q (%d): %v", f.TableName, f.TableID, f.Err)
}

func (f TableFailure) Unwrap() error {
	return f.Err
}

// Organize groups bindings into one unit per configured database, in the
// order databases are configured. Bindings of other databases are dropped.
// A binding whose package level names clash with an earlier table of the
// same unit is returned as a failure.
func Organize(databases []Database, bindings []*TableBinding) ([]Unit, []TableFailure, error) {
	units := make([]Unit, 0, len(databases))
	index := make(map[uint64]int, len(databases))
	packages := make(map[string]string, len(databases))

	for _, db := range databases {
		if _, ok := index[db.ID]; ok {
			continue
		}
		pkg := db.PackageName()
		if other, ok := packages[pkg]; ok {
			return nil, nil, fmt.Errorf("%w: %q and %q both become package %s", ErrPackageNameCollision, other, db.Name, pkg)
		}
		packages[pkg] = db.Name
		index[db.ID] = len(units)
		units = append(units, Unit{DatabaseID: db.ID, Database: db.Name, Package: pkg})
	}

	var failures []TableFailure
	declared := make([]map[string]string, len(units))
	for _, b := range bindings {
		i, ok := index[b.DatabaseID]
		if !ok {
			continue
		}
		if declared[i] == nil {
			declared[i] = map[string]string{}
		}

		if err := claimNames(declared[i], b); err != nil {
			failures = append(failures, TableFailure{TableID: b.TableID, TableName: b.TableName, Err: err})
			continue
		}
		units[i].Tables = append(units[i].Tables, b)
	}

	return units, failures, nil
}

func claimNames(declared map[string]string, b *TableBinding) error {
	names := b.TopLevelNames()
	seen := map[string]bool{}
	for _, name := range names {
		if other, ok := declared[name]; ok {
			return fmt.Errorf("%w: %s is already declared by table %q", ErrFieldNameCollision, name, other)
		}
		if seen[name] {
			return fmt.Errorf("%w: %s is declared twice", ErrFieldNameCollision, name)
		}
		seen[name] = true
	}
	for _, name := range names {
		declared[name] = b.TableName
	}
	return nil
}

type recordsData struct {
	Header        string
	Package       string
	RuntimeImport string
	Tables        []*TableBinding
}

// RenderUnit renders the records file of u.
func RenderUnit(u Unit) ([]byte, error) {
	return renderGo(recordsTmpl, recordsData{
		Header:        generatedHeader,
		Package:       u.Package,
		RuntimeImport: RuntimeImport,
		Tables:        u.Tables,
	})
}

type manifestImport struct {
	Alias string
	Path  string
}

type manifestData struct {
	Header       string
	Package      string
	GenerationID string
	Imports      []manifestImport
	Units        []Unit
}

// RenderManifest renders the manifest of units in package pkg. When
// importBase is the import path of the output directory, the manifest imports
// each database package and refers to its table id constants.
func RenderManifest(pkg, importBase, generationID string, units []Unit) ([]byte, error) {
	data := manifestData{
		Header:       generatedHeader,
		Package:      pkg,
		GenerationID: generationID,
		Units:        make([]Unit, len(units)),
	}
	copy(data.Units, units)

	if importBase != "" {
		for i := range data.Units {
			u := &data.Units[i]
			if len(u.Tables) == 0 {
				continue
			}
			u.Alias = u.Package
			if u.Alias == pkg {
				u.Alias += "_" + strconv.FormatUint(u.DatabaseID, 10)
			}
			data.Imports = append(data.Imports, manifestImport{Alias: u.Alias, Path: path.Join(importBase, u.Dir())})
		}
		sort.Slice(data.Imports, func(i, j int) bool { return data.Imports[i].Path < data.Imports[j].Path })
	}

	return renderGo(manifestTmpl, data)
}

// FindImportBase infers the import path of dir from the closest go.mod
// above it. It returns "" when dir is not inside a module.
func FindImportBase(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for current := abs; ; {
		modPath, err := readModulePath(filepath.Join(current, "go.mod"))
		if err == nil {
			rel, err := filepath.Rel(current, abs)
			if err != nil {
				return "", err
			}
			if rel == "." {
				return modPath, nil
			}
			return path.Join(modPath, filepath.ToSlash(rel)), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", nil
		}
		current = parent
	}
}

func readModulePath(goMod string) (string, error) {
	f, err := os.Open(goMod)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := strings.CutPrefix(line, "module"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			return strings.Trim(strings.TrimSpace(rest), `"`), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%s has no module directive", goMod)
}
