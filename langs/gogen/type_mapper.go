package gogen

import (
	"fmt"
	"strconv"

	"github.com/shibukawa/baserowgen/pull"
)

// Kind is the semantic target of a mapped field.
type Kind int

const (
	KindUint Kind = iota + 1
	KindInt
	KindFloat
	KindText
	KindBool
	KindEnum
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "unsigned integer"
	case KindInt:
		return "signed integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBool:
		return "boolean"
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// DecodePolicy tells how a cell is read from a row payload.
type DecodePolicy int

const (
	// DecodeOptional is plain JSON wrapped in baserow.Option.
	DecodeOptional DecodePolicy = iota + 1
	// DecodeNumeric accepts a number, a numeric string or null.
	DecodeNumeric
	// DecodeSelect resolves declared select options and rejects unknown ones.
	DecodeSelect
)

// MappedType is the Go representation chosen for one field.
type MappedType struct {
	Kind     Kind
	Decode   DecodePolicy
	Multiple bool
	// Elem is the element type: "string", "baserow.File", an aux type name...
	Elem string
	// Aux is set when the field needs a type of its own.
	Aux *AuxType
}

// FieldType is the Go type of the struct field. Every field is optional.
func (m MappedType) FieldType() string {
	if m.Decode == DecodeNumeric && !m.Multiple {
		return m.Elem
	}
	if m.Multiple {
		return "baserow.Option[[]" + m.Elem + "]"
	}
	return "baserow.Option[" + m.Elem + "]"
}

// AuxKind distinguishes generated helper types.
type AuxKind int

const (
	AuxEnum AuxKind = iota + 1
	AuxLink
)

// AuxType is an enum or link type generated for one field of one table.
type AuxType struct {
	Kind          AuxKind
	Name          string
	FieldName     string // display name of the owning field
	Members       []EnumMember
	LinkedTableID uint64
}

// OptionsVar is the unexported variable holding the declared options.
func (a *AuxType) OptionsVar() string {
	return lowerFirst(a.Name) + "Options"
}

// EnumMember is one declared select option.
type EnumMember struct {
	Const string
	ID    uint64
	Label string
}

var (
	uintType  = MappedType{Kind: KindUint, Decode: DecodeNumeric, Elem: "baserow.Uint"}
	intType   = MappedType{Kind: KindInt, Decode: DecodeNumeric, Elem: "baserow.Int"}
	floatType = MappedType{Kind: KindFloat, Decode: DecodeNumeric, Elem: "baserow.Float"}
	textType  = MappedType{Kind: KindText, Decode: DecodeOptional, Elem: "string"}
	boolType  = MappedType{Kind: KindBool, Decode: DecodeOptional, Elem: "bool"}
)

func structType(elem string, multiple bool) MappedType {
	return MappedType{Kind: KindStruct, Decode: DecodeOptional, Elem: elem, Multiple: multiple}
}

// TypeMapper maps Baserow field descriptors to Go types.
type TypeMapper struct {
	typeMap map[string]MappedType
}

// NewTypeMapper creates the mapper for the fixed field types. Types that
// depend on field options (number, formula, select, link_row) are resolved
// in MapField.
func NewTypeMapper() *TypeMapper {
	return &TypeMapper{
		typeMap: map[string]MappedType{
			// Unsigned counters
			"autonumber": uintType,
			"rating":     uintType,
			"count":      uintType,

			// Floating point
			"duration": floatType,
			"rollup":   floatType,

			// Booleans; password cells read back as true or null
			"boolean":  boolType,
			"password": boolType,

			// Text-like
			"text":          textType,
			"long_text":     textType,
			"url":           textType,
			"email":         textType,
			"phone_number":  textType,
			"date":          textType,
			"created_on":    textType,
			"last_modified": textType,
			"uuid":          textType,
			"ai":            textType,

			// Structured cells shared by all bindings
			"file":                   structType("baserow.File", true),
			"created_by":             structType("baserow.Collaborator", false),
			"last_modified_by":       structType("baserow.Collaborator", false),
			"multiple_collaborators": structType("baserow.Collaborator", true),
			"lookup":                 structType("baserow.LookupValue", true),
		},
	}
}

// MapField maps one field. auxName names the enum or link type generated for
// select and link_row fields. An unrecognized type is ErrUnknownFieldType.
func (m *TypeMapper) MapField(auxName string, field pull.TableField) (MappedType, error) {
	switch field.Type {
	case "number":
		switch {
		case field.NumberDecimalPlaces > 0:
			return floatType, nil
		case field.NumberNegative:
			return intType, nil
		default:
			return uintType, nil
		}
	case "formula":
		return m.mapFormula(field)
	case "single_select", "multiple_select":
		aux, err := enumAux(auxName, field)
		if err != nil {
			return MappedType{}, err
		}
		return MappedType{
			Kind:     KindEnum,
			Decode:   DecodeSelect,
			Multiple: field.Type == "multiple_select",
			Elem:     aux.Name,
			Aux:      aux,
		}, nil
	case "link_row":
		aux := &AuxType{
			Kind:          AuxLink,
			Name:          auxName + "Link",
			FieldName:     field.Name,
			LinkedTableID: field.LinkRowTableID,
		}
		mapped := structType(aux.Name, true)
		mapped.Aux = aux
		return mapped, nil
	}

	if mapped, ok := m.typeMap[field.Type]; ok {
		return mapped, nil
	}
	return MappedType{}, fmt.Errorf("%w: %q", ErrUnknownFieldType, field.Type)
}

// mapFormula maps by the formula's result type.
func (m *TypeMapper) mapFormula(field pull.TableField) (MappedType, error) {
	switch field.FormulaType {
	case "text", "char", "date", "date_interval":
		return textType, nil
	case "number", "duration":
		return floatType, nil
	case "boolean":
		return boolType, nil
	case "array":
		return structType("baserow.LookupValue", true), nil
	case "single_select":
		return structType("baserow.SelectValue", false), nil
	default:
		return MappedType{}, fmt.Errorf("%w: formula of type %q", ErrUnknownFieldType, field.FormulaType)
	}
}

// enumAux builds the enum type of a select field. Members are named after
// their labels; labels that normalize to the same name are a collision.
func enumAux(name string, field pull.TableField) (*AuxType, error) {
	aux := &AuxType{
		Kind:      AuxEnum,
		Name:      name,
		FieldName: field.Name,
	}

	seen := map[string]string{}
	for _, opt := range field.SelectOptions {
		suffix := joinWords(splitWords(opt.Value))
		if suffix == "" || !startsUpper(suffix) {
			suffix = "Option" + strconv.FormatUint(opt.ID, 10) + suffix
		}
		name := aux.Name + suffix
		if other, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: options %q and %q of field %q both become %s", ErrFieldNameCollision, other, opt.Value, field.Name, name)
		}
		seen[name] = opt.Value
		aux.Members = append(aux.Members, EnumMember{Const: name, ID: opt.ID, Label: opt.Value})
	}

	return aux, nil
}
