package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
//
// Degraded extraction outcomes (missing comments part, orphaned range
// markers, unparseable classification text, no highlight link) are NOT
// errors: they surface as empty or absent values in the data model.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDocument indicates the uploaded bytes could not be parsed
	// as a DOCX container at all. This fails the single file, never a batch.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")
)
