package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrAuthConfiguration indicates that neither a client OAuth
	// configuration nor a service account key is available.
	ErrAuthConfiguration = errors.New("no client config or service account key available")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction indicates the extraction layer failed over a staged
	// directory.
	ErrExtraction = errors.New("extraction failed")
)
