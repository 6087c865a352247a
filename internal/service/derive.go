package service

import (
	"fmt"

	"github.com/geosimple/geo-registry/internal/domain"
)

// DeriveGeom computes the derived point geometry of a company from its raw
// coordinate fields. It is the in-process equivalent of the database's
// before-insert trigger, expressed as a pure function so the write path can
// call it explicitly (and tests can exercise it without a live store).
//
// Rules:
//   - Both coordinates present: Geom is set to the point
//     (longitude, latitude) in SRID 4326 — longitude first.
//   - Either coordinate absent: Geom is cleared; the write still proceeds.
//   - A coordinate outside the WGS84 value space fails with
//     domain.ErrInvalidCoordinate and the enclosing write must be aborted.
//
// Any caller-supplied Geom is always overwritten, so a stored geometry can
// never disagree with the coordinates it was derived from.
func DeriveGeom(company domain.Company) (domain.Company, error) {
	if !company.HasCoordinates() {
		company.Geom = nil
		return company, nil
	}

	lat, lon := *company.Latitude, *company.Longitude
	if err := domain.ValidateCoordinates(lat, lon); err != nil {
		return domain.Company{}, fmt.Errorf("derive geom: %w", err)
	}

	p := domain.NewPoint(lon, lat)
	company.Geom = &p
	return company, nil
}
