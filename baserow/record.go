package baserow

// Record is implemented by every generated binding. The client needs
// nothing else from a type besides its JSON encoding.
type Record interface {
	// StaticTableID is the table the type was generated from. It must not
	// depend on the receiver's contents, so it can be called on a zero value.
	StaticTableID() uint64
	// TableID is the table an instance is written to. Generated code returns
	// StaticTableID.
	TableID() uint64
	// Identifier extracts the primary field value.
	Identifier() Identifier
	// IdentifierField is the wire tag of the primary field, e.g. "field_123".
	IdentifierField() string
}

// ReadOnlyFielder is implemented by records with cells Baserow computes
// itself (formulas, lookups, timestamps...). Those wire tags are left out of
// create and update requests.
type ReadOnlyFielder interface {
	ReadOnlyFields() []string
}
