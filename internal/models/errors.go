package models

import "errors"

// Sentinel errors for the crawl pipeline.
var (
	// ErrFetchUnavailable marks a paper that could not be fetched (network, HTTP or decode failure).
	// The traversal engine skips such papers; it is never surfaced as a crawl failure.
	ErrFetchUnavailable = errors.New("paper unavailable")

	// ErrMalformedEdgeReference marks a reference, citation or author entry without an identifier.
	ErrMalformedEdgeReference = errors.New("edge reference missing identifier")

	// ErrInvalidNodeCap is returned when a traversal is requested with a cap below one.
	ErrInvalidNodeCap = errors.New("node cap must be positive")
)
