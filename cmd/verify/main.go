// Package main is the verification harness for a bootstrapped registry
// database. It checks its connection parameters before touching the store,
// then asserts the spatial extension, the company schema, and the geometry
// derivation behaviour end to end. Exit code 0 means every check passed.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/geosimple/geo-registry/internal/config"
	"github.com/geosimple/geo-registry/internal/domain"
)

// Fixture values shared by the round-trip checks. The id is far above any
// sequence-assigned value so reruns never collide with real data.
const (
	fixtureID   = 10001
	fixtureName = "geosimple"
	fixtureLat  = 45.543
	fixtureLon  = -74.456
)

func main() {
	_ = godotenv.Load(".env.local")

	// Precondition: every connection parameter must be present before any
	// store operation is attempted. config.Load names each missing one.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("precondition failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, cfg.DatabaseURL())
	if err != nil {
		slog.Error("connect", "error", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	checks := []struct {
		name string
		run  func(ctx context.Context, conn *pgx.Conn) error
	}{
		{"postgis extension installed", checkExtension},
		{"company schema present", checkSchema},
		{"explicit geometry round trip", checkExplicitInsert},
		{"trigger-derived geometry", checkDerivedInsert},
	}

	for _, c := range checks {
		if err := c.run(ctx, conn); err != nil {
			slog.Error("check failed", "check", c.name, "error", err)
			os.Exit(1)
		}
		slog.Info("check passed", "check", c.name)
	}

	slog.Info("all checks passed", "checks", len(checks))
}

// checkExtension asserts the postgis extension row exists.
func checkExtension(ctx context.Context, conn *pgx.Conn) error {
	var installed bool
	err := conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'postgis')`,
	).Scan(&installed)
	if err != nil {
		return err
	}
	if !installed {
		return errors.New("postgis extension not installed; run the migrate command")
	}
	return nil
}

// checkSchema asserts the company table exists with all five expected columns.
func checkSchema(ctx context.Context, conn *pgx.Conn) error {
	rows, err := conn.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_name = 'company'`,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	present := map[string]bool{}
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return err
		}
		present[col] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, col := range []string{"id", "name", "latitude", "longitude", "geom"} {
		if !present[col] {
			return fmt.Errorf("column %q missing from company table", col)
		}
	}
	return nil
}

// checkExplicitInsert inserts a row with an explicitly constructed point,
// reads the five-field record back, and deletes it again.
func checkExplicitInsert(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx,
		`INSERT INTO company VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($4, $3), 4326))`,
		fixtureID, fixtureName, fixtureLat, fixtureLon,
	)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	if err := verifyFixtureRow(ctx, conn); err != nil {
		return err
	}
	return cleanupFixture(ctx, conn)
}

// checkDerivedInsert inserts a row without any geometry and asserts the
// derivation trigger populated geom with the point (longitude, latitude) in
// SRID 4326, then verifies delete leads to not-found.
func checkDerivedInsert(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx,
		`INSERT INTO company (id, name, latitude, longitude) VALUES ($1, $2, $3, $4)`,
		fixtureID, fixtureName, fixtureLat, fixtureLon,
	)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	if err := verifyFixtureRow(ctx, conn); err != nil {
		return err
	}
	if err := cleanupFixture(ctx, conn); err != nil {
		return err
	}

	// After the delete the record must be gone.
	var one int
	err = conn.QueryRow(ctx, `SELECT 1 FROM company WHERE id = $1`, fixtureID).Scan(&one)
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("expected no rows after delete, got err=%v", err)
	}
	return nil
}

// verifyFixtureRow reads the fixture record and checks all five fields,
// decoding the geometry and asserting longitude-first coordinate order.
func verifyFixtureRow(ctx context.Context, conn *pgx.Conn) error {
	var (
		id       int64
		name     string
		lat, lon float64
		ewkt     *string
	)
	err := conn.QueryRow(ctx,
		`SELECT id, name, latitude, longitude, ST_AsEWKT(geom) FROM company WHERE id = $1`,
		fixtureID,
	).Scan(&id, &name, &lat, &lon, &ewkt)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}

	if id != fixtureID || name != fixtureName || lat != fixtureLat || lon != fixtureLon {
		return fmt.Errorf("unexpected record (%d, %q, %v, %v)", id, name, lat, lon)
	}
	if ewkt == nil {
		return errors.New("geom is null; derivation did not run")
	}

	p, err := domain.ParsePointEWKT(*ewkt)
	if err != nil {
		return err
	}
	if p.SRID != domain.SRID4326 || p.Longitude != fixtureLon || p.Latitude != fixtureLat {
		return fmt.Errorf("geom decodes to (%v, %v) srid=%d, want (%v, %v) srid=%d",
			p.Longitude, p.Latitude, p.SRID, fixtureLon, fixtureLat, domain.SRID4326)
	}
	return nil
}

func cleanupFixture(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `DELETE FROM company WHERE id = $1`, fixtureID)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
