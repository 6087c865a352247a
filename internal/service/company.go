// Package service contains the business logic for the company geo registry.
// Services validate inputs, run geometry derivation, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/geosimple/geo-registry/internal/domain"
	"github.com/geosimple/geo-registry/internal/repo"
)

// CompanyService implements business logic for company operations.
// Every write runs DeriveGeom synchronously, exactly once, immediately
// before the persistence call, so a record is persisted either with its
// fully derived geometry or not at all.
type CompanyService struct {
	repo repo.CompanyRepo
}

// NewCompanyService constructs a CompanyService backed by the provided CompanyRepo.
func NewCompanyService(r repo.CompanyRepo) *CompanyService {
	return &CompanyService{repo: r}
}

// Create validates, derives the geometry, and persists a new company.
// Returns domain.ErrValidation if the name is missing,
// domain.ErrInvalidCoordinate if a coordinate is out of range (the record is
// not persisted), and domain.ErrConflict on a duplicate id.
func (s *CompanyService) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	if strings.TrimSpace(company.Name) == "" {
		return domain.Company{}, fmt.Errorf("service.CompanyService.Create: %w: name is required", domain.ErrValidation)
	}

	derived, err := DeriveGeom(company)
	if err != nil {
		return domain.Company{}, fmt.Errorf("service.CompanyService.Create: %w", err)
	}

	result, err := s.repo.Create(ctx, derived)
	if err != nil {
		return domain.Company{}, fmt.Errorf("service.CompanyService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single company by id.
// Returns domain.ErrNotFound if no company with that id exists.
func (s *CompanyService) GetByID(ctx context.Context, id int64) (domain.Company, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Company{}, fmt.Errorf("service.CompanyService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of companies plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CompanyService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Company, int64, error) {
	companies, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.CompanyService.List: %w", err)
	}
	if companies == nil {
		companies = []domain.Company{}
	}
	return companies, total, nil
}

// UpdateCoordinates replaces a company's coordinate pair and re-runs the
// geometry derivation before persisting, so the stored geometry always
// matches the new coordinates. Passing nil for either coordinate clears the
// geometry. Returns domain.ErrNotFound if the company does not exist.
func (s *CompanyService) UpdateCoordinates(ctx context.Context, id int64, latitude, longitude *float64) (domain.Company, error) {
	derived, err := DeriveGeom(domain.Company{ID: id, Latitude: latitude, Longitude: longitude})
	if err != nil {
		return domain.Company{}, fmt.Errorf("service.CompanyService.UpdateCoordinates: %w", err)
	}

	result, err := s.repo.UpdateCoordinates(ctx, derived)
	if err != nil {
		return domain.Company{}, fmt.Errorf("service.CompanyService.UpdateCoordinates: %w", err)
	}
	return result, nil
}

// Delete removes a company by id.
// Returns domain.ErrNotFound if the company does not exist.
func (s *CompanyService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.CompanyService.Delete: %w", err)
	}
	return nil
}
