// This file implements the JSON API for grade (year level) records.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/metrics"
	"github.com/DukeRupert/schooldash/internal/pagination"
	"github.com/DukeRupert/schooldash/internal/service"
)

// maxJSONBody caps API request bodies.
const maxJSONBody = 1 << 20

// GradeListResponse is the body of GET /api/grades.
type GradeListResponse struct {
	Items      []domain.Grade `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"perPage"`
	TotalPages int            `json:"totalPages"`
}

// GradeHandler serves /api/grades.
type GradeHandler struct {
	grades  service.GradeService
	perPage int
	logger  *slog.Logger
}

// NewGradeHandler creates a new GradeHandler.
func NewGradeHandler(grades service.GradeService, perPage int, logger *slog.Logger) *GradeHandler {
	return &GradeHandler{
		grades:  grades,
		perPage: perPage,
		logger:  logger,
	}
}

// RegisterRoutes registers grade routes. Any signed-in role may read;
// mutations are wrapped with requireAdmin and limit.
func (h *GradeHandler) RegisterRoutes(
	mux *http.ServeMux,
	requireAdmin func(http.Handler) http.Handler,
	limit func(http.Handler) http.Handler,
) {
	mux.HandleFunc("GET /api/grades", h.List)
	mux.HandleFunc("GET /api/grades/{id}", h.Get)
	mux.Handle("POST /api/grades", requireAdmin(limit(http.HandlerFunc(h.Create))))
	mux.Handle("PUT /api/grades/{id}", requireAdmin(limit(http.HandlerFunc(h.Update))))
	mux.Handle("DELETE /api/grades/{id}", requireAdmin(limit(http.HandlerFunc(h.Delete))))
}

// List returns one page of grades.
func (h *GradeHandler) List(w http.ResponseWriter, r *http.Request) {
	params := domain.ListParams{
		Page:    pagination.ParsePage(r.URL.Query()),
		PerPage: h.perPage,
	}

	res, err := h.grades.List(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, GradeListResponse{
		Items:      res.Items,
		Total:      res.Total,
		Page:       res.Page,
		PerPage:    res.PerPage,
		TotalPages: pagination.Compute(res.Page, res.Total, h.perPage, pagination.DefaultDelta).TotalPages,
	})
}

// Get returns a single grade.
func (h *GradeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := gradeID(r, "GradeHandler.Get")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	grade, err := h.grades.Get(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, grade)
}

// Create adds a grade level.
func (h *GradeHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "GradeHandler.Create"

	in, err := decodeGradeInput(w, r, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	grade, err := h.grades.Create(r.Context(), in)
	metrics.GradeMutated("create", err)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, grade)
}

// Update changes a grade's level.
func (h *GradeHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "GradeHandler.Update"

	id, err := gradeID(r, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	in, err := decodeGradeInput(w, r, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	grade, err := h.grades.Update(r.Context(), id, in)
	metrics.GradeMutated("update", err)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, grade)
}

// Delete removes a grade that no class or student references.
func (h *GradeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := gradeID(r, "GradeHandler.Delete")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	err = h.grades.Delete(r.Context(), id)
	metrics.GradeMutated("delete", err)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func gradeID(r *http.Request, op string) (int, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 32)
	if err != nil || id < 1 {
		return 0, domain.NotFound(op, "grade", r.PathValue("id"))
	}
	return int(id), nil
}

// decodeGradeInput reads a {"level": n} body. Unknown fields are rejected.
func decodeGradeInput(w http.ResponseWriter, r *http.Request, op string) (domain.GradeInput, error) {
	var in domain.GradeInput

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return in, domain.Errorf(domain.ETOOLARGE, op, "Request body is too large")
		}
		return in, domain.Invalid(op, `Request body must be a JSON object like {"level": 3}`)
	}
	return in, nil
}
