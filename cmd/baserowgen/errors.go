package main

import "errors"

// Sentinel errors for command operations
var (
	ErrNoTablesFound = errors.New("no tables found in the configured databases")
	ErrTablesSkipped = errors.New("some tables could not be generated")
)
