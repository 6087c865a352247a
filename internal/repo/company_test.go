package repo_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geosimple/geo-registry/internal/domain"
	"github.com/geosimple/geo-registry/internal/repo"
	"github.com/geosimple/geo-registry/testutil"
)

// newTestRepo opens a transaction against the test database and returns a
// CompanyRepo backed by that transaction plus the transaction itself for
// tests that need raw SQL access. The transaction is automatically rolled
// back when the test finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL to be set and all migrations to be applied
// (TestMain takes care of the latter).
func newTestRepo(t *testing.T) (repo.CompanyRepo, pgx.Tx) {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test — no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return repo.NewCompanyRepo(tx), tx
}

func ptr(v float64) *float64 { return &v }

// companyFixture returns a domain.Company with the canonical tutorial values.
// Callers can override individual fields after calling this function.
func companyFixture() domain.Company {
	geom := domain.NewPoint(-74.456, 45.543)
	return domain.Company{
		Name:      "geosimple",
		Latitude:  ptr(45.543),
		Longitude: ptr(-74.456),
		Geom:      &geom,
	}
}

// TestCompanyRepo_Create_generatesID verifies the identity column assigns an
// id when the caller does not supply one.
func TestCompanyRepo_Create_generatesID(t *testing.T) {
	r, _ := newTestRepo(t)

	created, err := r.Create(context.Background(), companyFixture())

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "geosimple", created.Name)
	require.NotNil(t, created.Geom)
}

// TestCompanyRepo_Create_roundTrip is the canonical five-field round trip:
// insert with an explicit id, read it back, check every field including the
// decoded geometry (longitude first, SRID 4326), delete, and confirm the
// subsequent read reports not-found.
func TestCompanyRepo_Create_roundTrip(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	in := companyFixture()
	in.ID = 10001

	created, err := r.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(10001), created.ID)

	got, err := r.GetByID(ctx, 10001)
	require.NoError(t, err)

	assert.Equal(t, int64(10001), got.ID)
	assert.Equal(t, "geosimple", got.Name)
	require.NotNil(t, got.Latitude)
	require.NotNil(t, got.Longitude)
	assert.Equal(t, 45.543, *got.Latitude)
	assert.Equal(t, -74.456, *got.Longitude)
	require.NotNil(t, got.Geom, "geom must be derived, not null")
	assert.Equal(t, -74.456, got.Geom.Longitude)
	assert.Equal(t, 45.543, got.Geom.Latitude)
	assert.Equal(t, domain.SRID4326, got.Geom.SRID)

	require.NoError(t, r.Delete(ctx, 10001))

	_, err = r.GetByID(ctx, 10001)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// TestCompanyRepo_Create_duplicateID verifies an id collision maps to
// domain.ErrConflict and leaves no partial write behind.
func TestCompanyRepo_Create_duplicateID(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	in := companyFixture()
	in.ID = 10001

	_, err := r.Create(ctx, in)
	require.NoError(t, err)

	_, err = r.Create(ctx, in)
	require.ErrorIs(t, err, domain.ErrConflict)
}

// TestCompanyRepo_Create_nullGeomWhenCoordinateMissing verifies a record with
// a half-supplied coordinate pair is stored with a null geometry — the
// insert still succeeds.
func TestCompanyRepo_Create_nullGeomWhenCoordinateMissing(t *testing.T) {
	r, _ := newTestRepo(t)

	created, err := r.Create(context.Background(), domain.Company{
		Name:     "nowhere",
		Latitude: ptr(45.543),
	})

	require.NoError(t, err)
	assert.Nil(t, created.Geom)
	require.NotNil(t, created.Latitude)
	assert.Nil(t, created.Longitude)
}

// TestCompanyRepo_Create_triggerDerivesGeomForRawInserts verifies the
// database-level trigger covers writes that bypass the service: inserting
// raw coordinates with no geometry still yields a derived point.
func TestCompanyRepo_Create_triggerDerivesGeomForRawInserts(t *testing.T) {
	r, tx := newTestRepo(t)
	ctx := context.Background()

	_, err := tx.Exec(ctx,
		`INSERT INTO company (id, name, latitude, longitude) VALUES ($1, $2, $3, $4)`,
		10001, "geosimple", 45.543, -74.456,
	)
	require.NoError(t, err)

	got, err := r.GetByID(ctx, 10001)
	require.NoError(t, err)
	require.NotNil(t, got.Geom)
	assert.Equal(t, domain.NewPoint(-74.456, 45.543), *got.Geom)
}

// TestCompanyRepo_List_pagesByID verifies ordering and the total count.
func TestCompanyRepo_List_pagesByID(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"alpha", "beta", "gamma"} {
		c := companyFixture()
		c.Name = name
		_, err := r.Create(ctx, c)
		require.NoError(t, err)
	}

	companies, total, err := r.List(ctx, domain.PaginationParams{Page: 1, Limit: 2})

	require.NoError(t, err)
	assert.Len(t, companies, 2)
	assert.EqualValues(t, 3, total)
	assert.Less(t, companies[0].ID, companies[1].ID)
}

// TestCompanyRepo_UpdateCoordinates_reDerivesGeom verifies an update rewrites
// latitude, longitude, and geom together, and that the stored geometry tracks
// the new pair.
func TestCompanyRepo_UpdateCoordinates_reDerivesGeom(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, companyFixture())
	require.NoError(t, err)

	newGeom := domain.NewPoint(11.576, 48.137)
	updated, err := r.UpdateCoordinates(ctx, domain.Company{
		ID:        created.ID,
		Latitude:  ptr(48.137),
		Longitude: ptr(11.576),
		Geom:      &newGeom,
	})

	require.NoError(t, err)
	require.NotNil(t, updated.Geom)
	assert.Equal(t, newGeom, *updated.Geom)
	assert.Equal(t, "geosimple", updated.Name, "name must be untouched")
}

// TestCompanyRepo_UpdateCoordinates_notFound verifies updating a missing id
// reports not-found.
func TestCompanyRepo_UpdateCoordinates_notFound(t *testing.T) {
	r, _ := newTestRepo(t)

	_, err := r.UpdateCoordinates(context.Background(), domain.Company{ID: 999999})

	require.ErrorIs(t, err, domain.ErrNotFound)
}

// TestCompanyRepo_Delete_notFound verifies deleting a missing id reports
// not-found instead of silently succeeding.
func TestCompanyRepo_Delete_notFound(t *testing.T) {
	r, _ := newTestRepo(t)

	err := r.Delete(context.Background(), 999999)

	require.ErrorIs(t, err, domain.ErrNotFound)
}
