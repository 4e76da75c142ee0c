package gogen

import "errors"

// Schema errors. Each is fatal for the table it occurs in only.
var (
	ErrUnknownFieldType        = errors.New("gogen: unknown field type")
	ErrPrimaryFieldCardinality = errors.New("gogen: table must have exactly one primary field")
	ErrMissingFieldSchema      = errors.New("gogen: table has no field schema")
	ErrUnsupportedPrimaryType  = errors.New("gogen: primary field type cannot identify a row")
	ErrFieldNameCollision      = errors.New("gogen: generated names collide")
)

// Output errors
var (
	ErrPackageNameCollision = errors.New("gogen: database package names collide")
	ErrNoTablesGenerated    = errors.New("gogen: no table could be generated")
	ErrGenerateGoCode       = errors.New("gogen: generate go code failure")
)
