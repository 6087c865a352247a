package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// company does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing required field). Handlers should map this to HTTP 422.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when an insert collides with an existing record
// (duplicate id). Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInvalidCoordinate is returned when a coordinate pair cannot be turned
// into a point geometry (out-of-range magnitude). The enclosing write is
// aborted; a record is never persisted with a partial or sentinel geometry.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ErrSchemaMissing is returned when the company table or the geometry
// support it relies on has not been installed yet. Surfaced distinctly so a
// missed bootstrap run can be diagnosed separately from data errors.
var ErrSchemaMissing = errors.New("schema missing")

// ErrUnavailable is returned when the database cannot be reached at all.
// The core never retries; the failure is surfaced to the caller verbatim.
var ErrUnavailable = errors.New("store unavailable")
