// Package repo contains all database access logic for the company geo registry.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/geosimple/geo-registry/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CompanyRepo defines the persistence operations for companies.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type CompanyRepo interface {
	// Create inserts a new company and returns the persisted record, with
	// the generated id filled in when the caller did not supply one. The
	// geometry on the record is written as-is; derivation happens upstream.
	// Returns domain.ErrConflict if the supplied id already exists.
	Create(ctx context.Context, company domain.Company) (domain.Company, error)

	// GetByID retrieves a single company by its integer primary key.
	// Returns domain.ErrNotFound if no company with that id exists.
	GetByID(ctx context.Context, id int64) (domain.Company, error)

	// List returns one page of companies ordered by id ascending, along
	// with the total number of companies.
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Company, int64, error)

	// UpdateCoordinates overwrites the coordinate fields and geometry of an
	// existing company and returns the updated record.
	// Returns domain.ErrNotFound if no company with that id exists.
	UpdateCoordinates(ctx context.Context, company domain.Company) (domain.Company, error)

	// Delete removes a company by id. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error
}

// pgCompanyRepo is the Postgres implementation of CompanyRepo.
type pgCompanyRepo struct {
	db db
}

// NewCompanyRepo constructs a CompanyRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewCompanyRepo(db db) CompanyRepo {
	return &pgCompanyRepo{db: db}
}

// Create inserts a new company row and returns the full persisted record.
// A nil id falls back to the table's identity sequence, so callers may either
// pick their own integer key or let the store assign one.
func (r *pgCompanyRepo) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	const q = `
		INSERT INTO company (id, name, latitude, longitude, geom)
		VALUES (COALESCE(@id, nextval(pg_get_serial_sequence('company', 'id'))),
		        @name, @latitude, @longitude, ST_GeomFromEWKT(@geom))
		RETURNING id, name, latitude, longitude, ST_AsEWKT(geom)`

	var id *int64
	if company.ID != 0 {
		id = &company.ID
	}

	args := pgx.NamedArgs{
		"id":        id, // nil lets the identity sequence assign one
		"name":      company.Name,
		"latitude":  company.Latitude,
		"longitude": company.Longitude,
		"geom":      ewktOrNil(company.Geom),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanCompany(row)
	if err != nil {
		return domain.Company{}, fmt.Errorf("repo.CompanyRepo.Create: %w", classify(err))
	}
	return result, nil
}

// GetByID retrieves a company by primary key.
func (r *pgCompanyRepo) GetByID(ctx context.Context, id int64) (domain.Company, error) {
	const q = `
		SELECT id, name, latitude, longitude, ST_AsEWKT(geom)
		FROM company
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanCompany(row)
	if err != nil {
		return domain.Company{}, fmt.Errorf("repo.CompanyRepo.GetByID: %w", classify(err))
	}
	return result, nil
}

// List returns one page of companies ordered by id ascending plus the total count.
func (r *pgCompanyRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Company, int64, error) {
	const q = `
		SELECT id, name, latitude, longitude, ST_AsEWKT(geom)
		FROM company
		ORDER BY id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.CompanyRepo.List: %w", classify(err))
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.CompanyRepo.List: scan: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.CompanyRepo.List: rows: %w", classify(err))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM company`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.CompanyRepo.List: count: %w", classify(err))
	}

	return companies, total, nil
}

// UpdateCoordinates overwrites latitude, longitude, and geom for one company.
// The name is left untouched; coordinate changes are the only update surface.
func (r *pgCompanyRepo) UpdateCoordinates(ctx context.Context, company domain.Company) (domain.Company, error) {
	const q = `
		UPDATE company
		SET latitude  = @latitude,
		    longitude = @longitude,
		    geom      = ST_GeomFromEWKT(@geom)
		WHERE id = @id
		RETURNING id, name, latitude, longitude, ST_AsEWKT(geom)`

	args := pgx.NamedArgs{
		"id":        company.ID,
		"latitude":  company.Latitude,
		"longitude": company.Longitude,
		"geom":      ewktOrNil(company.Geom),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanCompany(row)
	if err != nil {
		return domain.Company{}, fmt.Errorf("repo.CompanyRepo.UpdateCoordinates: %w", classify(err))
	}
	return result, nil
}

// Delete removes a company by primary key.
func (r *pgCompanyRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM company WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.CompanyRepo.Delete: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CompanyRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ewktOrNil renders a Point as its EWKT literal, or nil (SQL NULL) when the
// point is absent. ST_GeomFromEWKT(NULL) yields a NULL geometry.
func ewktOrNil(p *domain.Point) *string {
	if p == nil {
		return nil
	}
	s := p.EWKT()
	return &s
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanCompany to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanCompany maps a single database row into a domain.Company.
// It handles the nullable coordinate columns and decodes the geometry from
// the EWKT text produced by ST_AsEWKT.
func scanCompany(s scanner) (domain.Company, error) {
	var (
		c        domain.Company
		lat, lon pgtype.Float8
		geom     pgtype.Text
	)

	if err := s.Scan(&c.ID, &c.Name, &lat, &lon, &geom); err != nil {
		return domain.Company{}, err
	}

	if lat.Valid {
		v := lat.Float64
		c.Latitude = &v
	}
	if lon.Valid {
		v := lon.Float64
		c.Longitude = &v
	}
	if geom.Valid {
		p, err := domain.ParsePointEWKT(geom.String)
		if err != nil {
			return domain.Company{}, fmt.Errorf("decode geometry: %w", err)
		}
		c.Geom = &p
	}

	return c, nil
}

// classify maps low-level pgx errors onto the domain error taxonomy so the
// layers above can branch with errors.Is instead of inspecting SQLSTATEs.
// Errors with no mapping pass through unchanged.
func classify(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Message)
		case pgerrNotNullViolation:
			return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
		case pgerrUndefinedTable, pgerrUndefinedFunction:
			// Table missing or the geometry functions are not installed:
			// either way the bootstrap migrations have not been run here.
			return fmt.Errorf("%w: %s", domain.ErrSchemaMissing, pgErr.Message)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	return err
}

// SQLSTATE codes the repo branches on.
const (
	pgerrUniqueViolation   = "23505"
	pgerrNotNullViolation  = "23502"
	pgerrUndefinedTable    = "42P01"
	pgerrUndefinedFunction = "42883"
)
