package gogen

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shibukawa/baserowgen/pull"
)

// FieldBinding is one struct field of a generated record type.
type FieldBinding struct {
	GoName     string
	WireTag    string
	Display    string
	RemoteType string
	Primary    bool
	ReadOnly   bool
	Mapped     MappedType
}

// TableBinding is everything needed to render the record type of a table.
type TableBinding struct {
	TableID    uint64
	TableName  string
	DatabaseID uint64
	TypeName   string
	Fields     []FieldBinding
	Primary    FieldBinding
	Identifier IdentifierVariant
	AuxTypes   []*AuxType
}

// ReadOnlyTags lists the wire tags the client must not send.
func (b *TableBinding) ReadOnlyTags() []string {
	var tags []string
	for _, f := range b.Fields {
		if f.ReadOnly {
			tags = append(tags, f.WireTag)
		}
	}
	return tags
}

// IdentifierExpr is the body of the generated Identifier method.
func (b *TableBinding) IdentifierExpr() string {
	return b.Identifier.Extract(b.Primary.GoName)
}

// TopLevelNames lists the package level identifiers the binding declares.
func (b *TableBinding) TopLevelNames() []string {
	names := []string{b.TypeName, b.TypeName + "TableID", b.TypeName + "Fields", lowerFirst(b.TypeName) + "ReadOnly"}
	for _, aux := range b.AuxTypes {
		names = append(names, aux.Name)
		if aux.Kind == AuxEnum {
			names = append(names, aux.OptionsVar())
			for _, m := range aux.Members {
				names = append(names, m.Const)
			}
		}
	}
	return names
}

// auxName is the name of the helper type of the field goName. It must not
// shadow the table id constant or the fields map.
func (b *TableBinding) auxName(goName string) string {
	name := b.TypeName + goName
	for name == b.TypeName+"TableID" || name == b.TypeName+"Fields" {
		name += "Field"
	}
	return name
}

// WireTag is the serialization key of a field.
func WireTag(fieldID uint64) string {
	return "field_" + strconv.FormatUint(fieldID, 10)
}

// Emitter turns tables with attached fields into bindings.
type Emitter struct {
	mapper *TypeMapper
}

// NewEmitter creates an emitter using mapper, or the default mapper when nil.
func NewEmitter(mapper *TypeMapper) *Emitter {
	if mapper == nil {
		mapper = NewTypeMapper()
	}
	return &Emitter{mapper: mapper}
}

// EmitTable builds the binding of one table. Any schema error fails the
// whole table and no binding is returned.
func (e *Emitter) EmitTable(table pull.Table) (*TableBinding, error) {
	primary, err := ResolvePrimary(table)
	if err != nil {
		return nil, err
	}

	binding := &TableBinding{
		TableID:    table.ID,
		TableName:  table.Name,
		DatabaseID: table.DatabaseID,
		TypeName:   TypeName(table.Name),
	}

	fields := append([]pull.TableField(nil), table.Fields...)
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Order != fields[j].Order {
			return fields[i].Order < fields[j].Order
		}
		return fields[i].ID < fields[j].ID
	})

	taken := map[string]string{}
	for _, f := range fields {
		goName := GoFieldName(f.Name)
		for reservedFieldNames[goName] {
			goName += "Field"
		}
		if other, ok := taken[goName]; ok {
			return nil, fmt.Errorf("%w: fields %q and %q both become %s", ErrFieldNameCollision, other, f.Name, goName)
		}
		taken[goName] = f.Name

		mapped, err := e.mapper.MapField(binding.auxName(goName), f)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}

		fb := FieldBinding{
			GoName:     goName,
			WireTag:    WireTag(f.ID),
			Display:    f.Name,
			RemoteType: f.Type,
			Primary:    f.ID == primary.ID,
			ReadOnly:   f.ReadOnly,
			Mapped:     mapped,
		}
		binding.Fields = append(binding.Fields, fb)
		if fb.Primary {
			binding.Primary = fb
		}
		if mapped.Aux != nil {
			binding.AuxTypes = append(binding.AuxTypes, mapped.Aux)
		}
	}

	binding.Identifier, err = SelectIdentifier(binding.Primary.Mapped)
	if err != nil {
		return nil, fmt.Errorf("primary field %q: %w", primary.Name, err)
	}

	return binding, nil
}
