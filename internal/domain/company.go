// Package domain contains the core data types for the company geo registry.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

// Company represents a single registered company with an optional location.
// Latitude and Longitude are raw caller-supplied coordinates; Geom is the
// point geometry derived from them on the write path and is never taken
// from a caller.
type Company struct {
	// ID is the integer primary key. Zero means "not yet assigned" on the
	// way in; the store generates one when the caller does not supply it.
	ID int64 `json:"id"`

	Name string `json:"name"`

	// Latitude and Longitude are nil when the caller did not supply them.
	// They are expected together: a half-supplied pair is stored as-is but
	// yields a nil Geom.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// Geom is nil exactly when Latitude or Longitude was nil at write time.
	Geom *Point `json:"geom,omitempty"`
}

// HasCoordinates reports whether both raw coordinate fields are present,
// i.e. whether geometry derivation can proceed.
func (c Company) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}
