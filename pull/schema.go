package pull

import "time"

// Database is a configured Baserow database that bindings are generated for.
type Database struct {
	Name string `yaml:"name" json:"name"`
	ID   uint64 `yaml:"id" json:"id"`
}

// Table is one Baserow table. Fields stays nil until the field pass has
// attached them, and remains nil when that fetch failed.
type Table struct {
	ID         uint64       `yaml:"id" json:"id"`
	Name       string       `yaml:"name" json:"name"`
	Order      int          `yaml:"order" json:"order"`
	DatabaseID uint64       `yaml:"database_id" json:"database_id"`
	Fields     []TableField `yaml:"fields" json:"-"`
}

// HasFields reports whether the field pass succeeded for the table.
func (t Table) HasFields() bool {
	return t.Fields != nil
}

// tableYAML is the snapshot form of Table. A table whose field fetch failed
// is marked explicitly so that an empty field list survives a reload.
type tableYAML struct {
	ID            uint64       `yaml:"id"`
	Name          string       `yaml:"name"`
	Order         int          `yaml:"order"`
	DatabaseID    uint64       `yaml:"database_id"`
	FieldsMissing bool         `yaml:"fields_missing,omitempty"`
	Fields        []TableField `yaml:"fields,omitempty"`
}

func (t Table) MarshalYAML() (any, error) {
	return tableYAML{
		ID:            t.ID,
		Name:          t.Name,
		Order:         t.Order,
		DatabaseID:    t.DatabaseID,
		FieldsMissing: t.Fields == nil,
		Fields:        t.Fields,
	}, nil
}

func (t *Table) UnmarshalYAML(unmarshal func(any) error) error {
	var raw tableYAML
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*t = Table{ID: raw.ID, Name: raw.Name, Order: raw.Order, DatabaseID: raw.DatabaseID}
	if !raw.FieldsMissing {
		t.Fields = raw.Fields
		if t.Fields == nil {
			t.Fields = []TableField{}
		}
	}
	return nil
}

// TableField describes one Baserow field as returned by the fields endpoint.
// Options that only apply to some field types are left zero for the others.
type TableField struct {
	ID       uint64 `yaml:"id" json:"id"`
	TableID  uint64 `yaml:"table_id,omitempty" json:"table_id"`
	Name     string `yaml:"name" json:"name"`
	Order    int    `yaml:"order" json:"order"`
	Type     string `yaml:"type" json:"type"`
	Primary  bool   `yaml:"primary,omitempty" json:"primary"`
	ReadOnly bool   `yaml:"read_only,omitempty" json:"read_only"`

	NumberDecimalPlaces int            `yaml:"number_decimal_places,omitempty" json:"number_decimal_places"`
	NumberNegative      bool           `yaml:"number_negative,omitempty" json:"number_negative"`
	SelectOptions       []SelectOption `yaml:"select_options,omitempty,flow" json:"select_options"`
	FormulaType         string         `yaml:"formula_type,omitempty" json:"formula_type"`
	LinkRowTableID      uint64         `yaml:"link_row_table_id,omitempty" json:"link_row_table_id"`
}

// SelectOption is a declared choice of a select field.
type SelectOption struct {
	ID    uint64 `yaml:"id" json:"id"`
	Value string `yaml:"value" json:"value"`
	Color string `yaml:"color,omitempty" json:"color"`
}

// SchemaSnapshot is the document written by the YAML generator.
type SchemaSnapshot struct {
	BaseURL     string           `yaml:"base_url"`
	ExtractedAt time.Time        `yaml:"extracted_at"`
	Databases   []DatabaseSchema `yaml:"databases"`
}

// DatabaseSchema groups the pulled tables of one database.
type DatabaseSchema struct {
	Name   string  `yaml:"name"`
	ID     uint64  `yaml:"id"`
	Tables []Table `yaml:"tables"`
}
