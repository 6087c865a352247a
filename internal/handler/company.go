package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/geosimple/geo-registry/internal/domain"
)

// CreateCompanyRequest is the body accepted by POST /companies.
// There is deliberately no geom field: the geometry is always derived from
// the coordinate pair on the write path, so a caller-supplied value would be
// overwritten anyway.
type CreateCompanyRequest struct {
	// ID is optional; the store assigns one when omitted.
	ID        *int64   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// UpdateCoordinatesRequest is the body accepted by PUT /companies/{id}/coordinates.
// Omitting either coordinate clears the stored geometry.
type UpdateCoordinatesRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// CompanyResponse is the five-field record returned by every company endpoint.
// Geom is the derived point geometry rendered as an EWKT literal, or null.
type CompanyResponse struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Geom      *string  `json:"geom"`
}

// ListCompaniesResponse is the body returned by GET /companies.
type ListCompaniesResponse struct {
	Data       []CompanyResponse `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// Pagination echoes the effective page/limit plus the total row count.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// CreateCompany handles POST /companies.
func (s *Server) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var body CreateCompanyRequest
	if err := decodeBody(r, &body); err != nil {
		requestError(w, err.Error())
		return
	}

	company := domain.Company{
		Name:      body.Name,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
	}
	if body.ID != nil {
		company.ID = *body.ID
	}

	created, err := s.companies.Create(r.Context(), company)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, companyToResponse(created))
}

// ListCompanies handles GET /companies.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListCompanies(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(
		queryInt(r, "page"),
		queryInt(r, "limit"),
	)

	companies, total, err := s.companies.List(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := make([]CompanyResponse, len(companies))
	for i, c := range companies {
		data[i] = companyToResponse(c)
	}
	writeJSON(w, http.StatusOK, ListCompaniesResponse{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetCompany handles GET /companies/{id}.
func (s *Server) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	company, err := s.companies.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, companyToResponse(company))
}

// UpdateCompanyCoordinates handles PUT /companies/{id}/coordinates.
// The stored geometry is re-derived from the new coordinate pair.
func (s *Server) UpdateCompanyCoordinates(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	var body UpdateCoordinatesRequest
	if err := decodeBody(r, &body); err != nil {
		requestError(w, err.Error())
		return
	}

	updated, err := s.companies.UpdateCoordinates(r.Context(), id, body.Latitude, body.Longitude)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, companyToResponse(updated))
}

// DeleteCompany handles DELETE /companies/{id}.
func (s *Server) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	if err := s.companies.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// companyToResponse converts a domain.Company into its wire representation.
func companyToResponse(c domain.Company) CompanyResponse {
	resp := CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
	}
	if c.Geom != nil {
		ewkt := c.Geom.EWKT()
		resp.Geom = &ewkt
	}
	return resp
}

// decodeBody decodes the JSON request body into dst.
// Returns an error for a missing or malformed body.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("malformed request body")
	}
	return nil
}

// pathID parses the {id} path parameter as a positive integer.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

// queryInt parses an optional integer query parameter, returning nil when
// absent or malformed so pagination falls back to its defaults.
func queryInt(r *http.Request, key string) *int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
