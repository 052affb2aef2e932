package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/degree-tracker/internal/catalog"
	"github.com/jonathan/degree-tracker/internal/matching"
	"github.com/jonathan/degree-tracker/internal/parsing"
	"github.com/jonathan/degree-tracker/internal/pipeline"
	"github.com/jonathan/degree-tracker/internal/progress"
	"github.com/jonathan/degree-tracker/internal/tracker"
	"github.com/jonathan/degree-tracker/internal/types"
)

// maxBodyBytes caps request bodies; transcripts and pasted catalog pages fit well under it.
const maxBodyBytes = 5 << 20

// ParseCoursesRequest is the request body for POST /courses/parse
type ParseCoursesRequest struct {
	Content string `json:"content"`
	Format  string `json:"format"` // csv, text or transcript
}

// ParseCoursesResponse is the response for POST /courses/parse
type ParseCoursesResponse struct {
	Courses []types.Course `json:"courses"`
	Count   int            `json:"count"`
}

// ExtractRequirementsRequest is the request body for POST /requirements/extract.
// Either Text or HTML must be set.
type ExtractRequirementsRequest struct {
	Text   string `json:"text,omitempty"`
	HTML   string `json:"html,omitempty"`
	Source string `json:"source,omitempty"`
}

// ExtractRequirementsResponse is the response for POST /requirements/extract
type ExtractRequirementsResponse struct {
	Requirements []types.Requirement `json:"requirements"`
	Count        int                 `json:"count"`
}

// TranscriptUpload is transcript content sent inline with an analyze request.
type TranscriptUpload struct {
	Content string `json:"content"`
	Format  string `json:"format"`
}

// AnalyzeRequest is the request body for POST /analyze and POST /analyze/stream
type AnalyzeRequest struct {
	RequirementURLs  []string          `json:"requirement_urls,omitempty"`
	RequirementsText string            `json:"requirements_text,omitempty"`
	Courses          []types.Course    `json:"courses,omitempty"`
	Transcript       *TranscriptUpload `json:"transcript,omitempty"`
	Strategy         string            `json:"strategy,omitempty"`
}

// EvaluateRequest is the request body for POST /programs/{id}/evaluate
type EvaluateRequest struct {
	Courses []types.Course `json:"courses"`
}

// EvaluateResponse is the response for POST /programs/{id}/evaluate
type EvaluateResponse struct {
	Program  types.Program            `json:"program"`
	Progress progress.ProgramProgress `json:"progress"`
}

// ImportProgramRequest is the request body for POST /programs/import
type ImportProgramRequest struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// ListProgramsResponse is the response for GET /programs
type ListProgramsResponse struct {
	Programs []types.Program `json:"programs"`
	Count    int             `json:"count"`
}

// decodeBody decodes a JSON request body into v, writing a 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var badCourse *types.InvalidCourseError
		if errors.As(err, &badCourse) {
			s.errResponse(w, &ErrValidation{Field: badCourse.Field, Message: badCourse.Error()})
			return false
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// handleParseCourses parses transcript or course-list content into courses
func (s *Server) handleParseCourses(w http.ResponseWriter, r *http.Request) {
	var req ParseCoursesRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		s.errResponse(w, &ErrValidation{Field: "content", Message: "is required"})
		return
	}

	courses := parsing.ParseCourseFile(req.Content, req.Format)
	if courses == nil {
		courses = []types.Course{}
	}
	s.jsonResponse(w, http.StatusOK, ParseCoursesResponse{Courses: courses, Count: len(courses)})
}

// handleExtractRequirements extracts requirements from pasted text or HTML
func (s *Server) handleExtractRequirements(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequirementsRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	source := req.Source
	if source == "" {
		source = pipeline.InlineSource
	}

	var reqs []types.Requirement
	switch {
	case strings.TrimSpace(req.HTML) != "":
		reqs = parsing.ExtractRequirementsFromHTML(req.HTML, source)
	case strings.TrimSpace(req.Text) != "":
		reqs = parsing.ExtractRequirements(req.Text, source)
	default:
		s.errResponse(w, &ErrValidation{Field: "text", Message: "text or html is required"})
		return
	}

	s.jsonResponse(w, http.StatusOK, ExtractRequirementsResponse{Requirements: reqs, Count: len(reqs)})
}

// pipelineOptions builds audit options from an analyze request.
func (s *Server) pipelineOptions(req AnalyzeRequest) (pipeline.Options, error) {
	strategy := s.strategy
	if req.Strategy != "" {
		named, err := matching.StrategyByName(req.Strategy)
		if err != nil {
			return pipeline.Options{}, &ErrValidation{Field: "strategy", Message: err.Error()}
		}
		strategy = named
	}

	courses := append([]types.Course{}, req.Courses...)
	if req.Transcript != nil && strings.TrimSpace(req.Transcript.Content) != "" {
		courses = append(courses, parsing.ParseCourseFile(req.Transcript.Content, req.Transcript.Format)...)
	}

	return pipeline.Options{
		RequirementURLs:  req.RequirementURLs,
		RequirementsText: req.RequirementsText,
		Courses:          courses,
		Strategy:         strategy,
		Fetcher:          s.fetcher,
		Concurrency:      s.concurrency,
		LLM:              s.llm,
		Logger:           s.logger,
	}, nil
}

// handleAnalyze runs a requirements audit and returns the report
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	opts, err := s.pipelineOptions(req)
	if err != nil {
		s.errResponse(w, err)
		return
	}

	report, err := pipeline.Run(r.Context(), opts)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.saveReport(r.Context(), report)
	s.jsonResponse(w, http.StatusOK, report)
}

// handleAnalyzeStream runs a requirements audit and streams progress via SSE
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	opts, err := s.pipelineOptions(req)
	if err != nil {
		s.errResponse(w, err)
		return
	}

	stream, err := newAuditStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts.OnProgress = func(event pipeline.ProgressEvent) {
		if err := stream.step(event); err != nil {
			s.logger.Debug("dropped progress event", zap.String("step", event.Step), zap.Error(err))
		}
	}

	report, err := pipeline.Run(r.Context(), opts)
	if err != nil {
		s.logger.Warn("streamed audit failed", zap.Error(err))
		if werr := stream.fail(err); werr != nil {
			s.logger.Debug("failed to send error event", zap.Error(werr))
		}
		return
	}

	s.saveReport(r.Context(), report)
	if err := stream.complete(report); err != nil {
		s.logger.Warn("failed to send audit report", zap.Error(err))
	}
}

// handleListPrograms lists registered programs, optionally filtered by ?type=
func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	var programType types.ProgramType
	if raw := r.URL.Query().Get("type"); raw != "" {
		parsed, err := types.ParseProgramType(raw)
		if err != nil {
			s.errResponse(w, &ErrValidation{Field: "type", Message: err.Error()})
			return
		}
		programType = parsed
	}

	programs := s.registry.List(programType)
	s.jsonResponse(w, http.StatusOK, ListProgramsResponse{Programs: programs, Count: len(programs)})
}

// handleGetProgram returns one program by ID
func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	program, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, program)
}

// handleDeleteProgram removes a program from the registry and the store
func (s *Server) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.deleteStoredProgram(r.Context(), id); err != nil {
		s.errResponse(w, err)
		return
	}
	if !s.registry.Remove(id) {
		s.errResponse(w, &catalog.NotFoundError{ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEvaluateProgram evaluates a program against the posted courses
func (s *Server) handleEvaluateProgram(w http.ResponseWriter, r *http.Request) {
	program, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		s.errResponse(w, err)
		return
	}

	var req EvaluateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	t := tracker.New(matching.New(s.strategy))
	state := t.ActivatePrograms(tracker.State{Courses: req.Courses}, program)
	s.jsonResponse(w, http.StatusOK, EvaluateResponse{
		Program:  state.Programs[0],
		Progress: t.Progress(state)[0],
	})
}

// handleImportProgram imports a program from a supported catalog page
func (s *Server) handleImportProgram(w http.ResponseWriter, r *http.Request) {
	var req ImportProgramRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.errResponse(w, &ErrValidation{Field: "url", Message: "is required"})
		return
	}

	programType := types.ProgramMajor
	if req.Type != "" {
		parsed, err := types.ParseProgramType(req.Type)
		if err != nil {
			s.errResponse(w, &ErrValidation{Field: "type", Message: err.Error()})
			return
		}
		programType = parsed
	}

	program, err := s.importer.ImportInto(r.Context(), s.registry, strings.TrimSpace(req.URL), programType)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.saveProgram(r.Context(), program)
	s.jsonResponse(w, http.StatusCreated, program)
}
