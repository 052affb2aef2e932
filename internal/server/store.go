package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/degree-tracker/internal/db"
	"github.com/jonathan/degree-tracker/internal/pipeline"
	"github.com/jonathan/degree-tracker/internal/types"
)

// Store persists audit reports and imported programs. *db.DB implements it.
type Store interface {
	SaveAudit(ctx context.Context, run db.AuditRun, report any) error
	GetAuditReport(ctx context.Context, id uuid.UUID) ([]byte, error)
	ListAudits(ctx context.Context, filters db.AuditFilters) ([]db.AuditRun, error)
	DeleteAudit(ctx context.Context, id uuid.UUID) error
	SaveProgram(ctx context.Context, p types.Program) error
	ListPrograms(ctx context.Context) ([]types.Program, error)
	DeleteProgram(ctx context.Context, id string) error
}

var errStoreDisabled = errors.New("report storage is not configured")

// ListReportsResponse is the response for GET /reports
type ListReportsResponse struct {
	Reports []db.AuditRun `json:"reports"`
	Count   int           `json:"count"`
}

// loadStoredPrograms adds previously imported programs to the registry.
func (s *Server) loadStoredPrograms(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	programs, err := s.store.ListPrograms(ctx)
	if err != nil {
		return err
	}
	for _, p := range programs {
		s.registry.Add(p)
	}
	s.logger.Info("loaded stored programs", zap.Int("count", len(programs)))
	return nil
}

// saveReport stores a finished audit. Storage failures are logged and do not
// fail the request.
func (s *Server) saveReport(ctx context.Context, report *pipeline.Report) {
	if s.store == nil || report == nil {
		return
	}
	run := db.AuditRun{
		ID:         report.RunID,
		Strategy:   report.Strategy,
		Status:     db.AuditStatusCompleted,
		Fulfilled:  report.Progress.Completed,
		Total:      report.Progress.Total,
		Percentage: report.Progress.Percentage,
		CreatedAt:  report.GeneratedAt,
	}
	if err := s.store.SaveAudit(ctx, run, report); err != nil {
		s.logger.Warn("failed to save audit report", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
}

// saveProgram stores an imported program, logging failures.
func (s *Server) saveProgram(ctx context.Context, p types.Program) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveProgram(ctx, p); err != nil {
		s.logger.Warn("failed to save program", zap.String("id", p.ID), zap.Error(err))
	}
}

// handleListReports lists stored audits, newest first
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, errStoreDisabled.Error())
		return
	}

	q := r.URL.Query()
	filters := db.AuditFilters{
		Strategy: q.Get("strategy"),
		Status:   q.Get("status"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.errResponse(w, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
		filters.Limit = limit
	}
	if raw := q.Get("min_percentage"); raw != "" {
		pct, err := strconv.Atoi(raw)
		if err != nil || pct < 0 || pct > 100 {
			s.errResponse(w, &ErrValidation{Field: "min_percentage", Message: "must be between 0 and 100"})
			return
		}
		filters.MinPercentage = pct
	}

	runs, err := s.store.ListAudits(r.Context(), filters)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	if runs == nil {
		runs = []db.AuditRun{}
	}
	s.jsonResponse(w, http.StatusOK, ListReportsResponse{Reports: runs, Count: len(runs)})
}

// handleDeleteReport deletes a stored audit
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, errStoreDisabled.Error())
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errResponse(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}
	if err := s.store.DeleteAudit(r.Context(), id); err != nil {
		s.errResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteStoredProgram removes a program from the store. Built-in programs are
// never stored, so a missing row is not an error.
func (s *Server) deleteStoredProgram(ctx context.Context, id string) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.DeleteProgram(ctx, id); err != nil && !errors.Is(err, db.ErrNotFound) {
		return err
	}
	return nil
}

// handleGetReport returns a stored audit report as saved
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, errStoreDisabled.Error())
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errResponse(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	report, err := s.store.GetAuditReport(r.Context(), id)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report); err != nil {
		s.logger.Warn("failed to write report", zap.Error(err))
	}
}
