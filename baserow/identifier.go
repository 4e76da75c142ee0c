package baserow

import "strconv"

// Identifier addresses a row by the value of its table's primary field.
// The set of implementations is closed: UnsignedID, SignedID, FloatID and
// TextID.
type Identifier interface {
	// FilterValue renders the identifier for an equality filter. ok is
	// false when the primary value is absent.
	FilterValue() (value string, ok bool)
	identifier()
}

type UnsignedID struct{ Option[uint64] }

type SignedID struct{ Option[int64] }

type FloatID struct{ Option[float64] }

// TextID never holds None when produced by generated code: an absent text
// primary becomes "".
type TextID struct{ Option[string] }

func (UnsignedID) identifier() {}
func (SignedID) identifier() {}
func (FloatID) identifier() {}
func (TextID) identifier() {}

func (id UnsignedID) FilterValue() (string, bool) {
	v, ok := id.Get()
	if !ok {
		return "", false
	}
	return strconv.FormatUint(v, 10), true
}

func (id SignedID) FilterValue() (string, bool) {
	v, ok := id.Get()
	if !ok {
		return "", false
	}
	return strconv.FormatInt(v, 10), true
}

func (id FloatID) FilterValue() (string, bool) {
	v, ok := id.Get()
	if !ok {
		return "", false
	}
	return strconv.FormatFloat(v, 'f', -1, 64), true
}

func (id TextID) FilterValue() (string, bool) {
	return id.Get()
}

// TextIdentifier builds the TextID for a text primary, mapping absent to "".
func TextIdentifier(v Option[string]) TextID {
	return TextID{Some(v.OrElse(""))}
}
