package gogen

import "fmt"

// IdentifierVariant is the baserow.Identifier implementation a record type
// returns from Identifier().
type IdentifierVariant int

const (
	IdentifierUnsigned IdentifierVariant = iota + 1
	IdentifierSigned
	IdentifierFloat
	IdentifierText
)

// RuntimeType is the baserow package type of the variant.
func (v IdentifierVariant) RuntimeType() string {
	switch v {
	case IdentifierUnsigned:
		return "baserow.UnsignedID"
	case IdentifierSigned:
		return "baserow.SignedID"
	case IdentifierFloat:
		return "baserow.FloatID"
	case IdentifierText:
		return "baserow.TextID"
	default:
		return ""
	}
}

// Extract is the Go expression building the identifier from the primary
// field of receiver r. Numeric variants keep an absent value absent; an
// absent text becomes "".
func (v IdentifierVariant) Extract(goField string) string {
	if v == IdentifierText {
		return "baserow.TextIdentifier(r." + goField + ")"
	}
	return v.RuntimeType() + "{Option: r." + goField + ".Option}"
}

// SelectIdentifier picks the identifier variant for a primary field. Only
// single scalar numbers and text can be used as a filter value.
func SelectIdentifier(primary MappedType) (IdentifierVariant, error) {
	if primary.Multiple {
		return 0, fmt.Errorf("%w: list of %s", ErrUnsupportedPrimaryType, primary.Kind)
	}
	switch primary.Kind {
	case KindUint:
		return IdentifierUnsigned, nil
	case KindInt:
		return IdentifierSigned, nil
	case KindFloat:
		return IdentifierFloat, nil
	case KindText:
		return IdentifierText, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedPrimaryType, primary.Kind)
	}
}
