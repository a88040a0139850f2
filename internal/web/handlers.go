package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kAtharva4/buyer-lead-intake/internal/buyer"
	"github.com/kAtharva4/buyer-lead-intake/internal/core"
	"github.com/kAtharva4/buyer-lead-intake/internal/web/middleware"
)

// handleListBuyers returns one page of leads matching the query filters.
func (s *Server) handleListBuyers(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	result, err := s.service.ListLeads(r.Context(), f, page)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Items    []buyer.Buyer `json:"items"`
		Total    int64         `json:"total"`
		Page     int           `json:"page"`
		PageSize int           `json:"pageSize"`
	}{
		Items:    result.Items,
		Total:    result.Total,
		Page:     page,
		PageSize: core.PageSize,
	})
}

// handleCreateBuyer validates and inserts a new lead owned by the session
// user. Creation is rate limited per user.
func (s *Server) handleCreateBuyer(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		respondError(w, r, core.ErrNoSession)
		return
	}

	if !s.limiter.Allow(sess.UserID.String()) {
		w.Header().Set("Retry-After", strconv.Itoa(int(s.cfg.Rate.CreateWindow.Seconds())))
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
			Message: "Too many requests, please try again later.",
		})
		return
	}

	var in buyer.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	b, err := s.service.CreateLead(r.Context(), sess, in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

// handleGetBuyer returns the lead and its recent history.
func (s *Server) handleGetBuyer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, core.ErrNotFound)
		return
	}

	detail, err := s.service.GetLead(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// updateRequest is a lead patch plus the caller's last-known modification
// timestamp for the concurrency check.
type updateRequest struct {
	buyer.Input
	UpdatedAt string `json:"updatedAt"`
}

// handleUpdateBuyer applies a patch to the lead. The updatedAt field must
// match the record's current modification timestamp or the write is rejected
// as stale.
func (s *Server) handleUpdateBuyer(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		respondError(w, r, core.ErrNoSession)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, core.ErrNotFound)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	prev, err := time.Parse(time.RFC3339Nano, req.UpdatedAt)
	if err != nil {
		badRequest(w, "updatedAt must be an RFC 3339 timestamp")
		return
	}

	b, err := s.service.UpdateLead(r.Context(), sess, id, prev, req.Input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

// handleDeleteBuyer removes the lead after the ownership check.
func (s *Server) handleDeleteBuyer(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		respondError(w, r, core.ErrNoSession)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, core.ErrNotFound)
		return
	}

	if err := s.service.DeleteLead(r.Context(), sess, id); err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleImport processes a CSV file upload as a single all-or-nothing batch.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		respondError(w, r, core.ErrNoSession)
		return
	}

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, core.ErrFileTooLarge)
			return
		}
		badRequest(w, "request body must be multipart/form-data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, core.ErrNoFile)
		return
	}
	defer file.Close()

	result, err := s.service.ImportCSV(r.Context(), sess, file, header.Size)
	if err != nil {
		respondError(w, r, err)
		return
	}

	// Row errors mean nothing was inserted; the error list still goes back
	// to the caller so every bad row can be fixed in one pass.
	status := http.StatusOK
	if len(result.Errors) > 0 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result)
}

// handleExport streams the full filtered lead set as a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+core.ExportFileName+`"`)

	if err := s.service.ExportCSV(r.Context(), f, w); err != nil {
		respondError(w, r, err)
		return
	}
}

// filterFromQuery reads the listing filters from the query string. Absent
// parameters leave their filter fields empty, meaning "match all".
func filterFromQuery(r *http.Request) buyer.Filter {
	q := r.URL.Query()
	return buyer.Filter{
		Query:        q.Get("q"),
		City:         q.Get("city"),
		PropertyType: q.Get("propertyType"),
		Status:       q.Get("status"),
		Timeline:     q.Get("timeline"),
	}
}

// badRequest writes a 400 with a plain message, for malformed requests that
// never reach the service layer.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: message})
}
