package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SRID4326 is the spatial reference identifier for geographic WGS84
// longitude/latitude. Every geometry in this system carries it.
const SRID4326 = 4326

// Point is a zero-dimensional geometry: a single coordinate pair tagged with
// a spatial reference identifier. Coordinate order follows the standard
// point constructor convention: longitude first, latitude second.
type Point struct {
	Longitude float64
	Latitude  float64
	SRID      int
}

// NewPoint returns a Point at (longitude, latitude) in SRID 4326.
func NewPoint(longitude, latitude float64) Point {
	return Point{Longitude: longitude, Latitude: latitude, SRID: SRID4326}
}

// EWKT renders the point as an extended well-known-text literal, e.g.
// "SRID=4326;POINT(-74.456 45.543)". This is the form PostGIS accepts via
// ST_GeomFromEWKT and produces via ST_AsEWKT, so it round-trips unchanged.
func (p Point) EWKT() string {
	return fmt.Sprintf("SRID=%d;POINT(%s %s)",
		p.SRID,
		strconv.FormatFloat(p.Longitude, 'f', -1, 64),
		strconv.FormatFloat(p.Latitude, 'f', -1, 64),
	)
}

// String implements fmt.Stringer.
func (p Point) String() string { return p.EWKT() }

// ParsePointEWKT parses an extended well-known-text point literal of the
// form "SRID=<n>;POINT(<lon> <lat>)" as produced by ST_AsEWKT.
func ParsePointEWKT(s string) (Point, error) {
	var p Point

	head, body, ok := strings.Cut(s, ";")
	if !ok {
		return Point{}, fmt.Errorf("parse ewkt %q: missing SRID prefix", s)
	}

	sridStr, ok := strings.CutPrefix(head, "SRID=")
	if !ok {
		return Point{}, fmt.Errorf("parse ewkt %q: malformed SRID prefix", s)
	}
	srid, err := strconv.Atoi(sridStr)
	if err != nil {
		return Point{}, fmt.Errorf("parse ewkt %q: srid: %w", s, err)
	}
	p.SRID = srid

	inner, ok := strings.CutPrefix(body, "POINT(")
	if !ok {
		return Point{}, fmt.Errorf("parse ewkt %q: not a POINT", s)
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return Point{}, fmt.Errorf("parse ewkt %q: unterminated POINT", s)
	}

	lonStr, latStr, ok := strings.Cut(inner, " ")
	if !ok {
		return Point{}, fmt.Errorf("parse ewkt %q: expected two coordinates", s)
	}
	if p.Longitude, err = strconv.ParseFloat(lonStr, 64); err != nil {
		return Point{}, fmt.Errorf("parse ewkt %q: longitude: %w", s, err)
	}
	if p.Latitude, err = strconv.ParseFloat(latStr, 64); err != nil {
		return Point{}, fmt.Errorf("parse ewkt %q: latitude: %w", s, err)
	}

	return p, nil
}

// ValidateCoordinates checks that a latitude/longitude pair lies within the
// WGS84 value space. Returns ErrInvalidCoordinate (wrapped with the
// offending value) otherwise.
func ValidateCoordinates(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, latitude)
	}
	if longitude < -180 || longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, longitude)
	}
	return nil
}
