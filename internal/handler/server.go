// Package handler implements the HTTP handlers for the company geo registry.
// All handlers are methods on Server. Methods are split into files by concern
// (health.go, company.go) but all share the same Server struct so they can
// access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/geosimple/geo-registry/internal/domain"
)

// CompanyServicer defines the business operations the company handler
// depends on. Defining the interface here (in the consumer package) follows
// the Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service layer.
type CompanyServicer interface {
	Create(ctx context.Context, company domain.Company) (domain.Company, error)
	GetByID(ctx context.Context, id int64) (domain.Company, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Company, int64, error)
	UpdateCoordinates(ctx context.Context, id int64, latitude, longitude *float64) (domain.Company, error)
	Delete(ctx context.Context, id int64) error
}

// Server holds the dependencies shared by all HTTP handlers.
type Server struct {
	companies CompanyServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(companies CompanyServicer) *Server {
	return &Server{companies: companies}
}

// Routes returns the chi router exposing the full API surface.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/companies", func(r chi.Router) {
		r.Post("/", s.CreateCompany)
		r.Get("/", s.ListCompanies)
		r.Get("/{id}", s.GetCompany)
		r.Put("/{id}/coordinates", s.UpdateCompanyCoordinates)
		r.Delete("/{id}", s.DeleteCompany)
	})

	return r
}
