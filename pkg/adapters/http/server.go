// Package http exposes taskstream pipelines over a JSON HTTP API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/taskstream"
	"github.com/aretw0/taskstream/internal/dto"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBody caps request bodies; entity lists and plans are small.
const maxBody = 4 << 20

// Pipelines resolves a scenario name to its pipeline.
type Pipelines interface {
	Get(name string) (*taskstream.Pipeline, error)
	Names() []string
}

// Server serves the pipeline API.
type Server struct {
	Pipelines Pipelines
	logger    *slog.Logger
	gatherer  prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics serves the collectors of g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// ProblemRequest is the body of the problem and solve endpoints. Nil
// entities use the scenario defaults.
type ProblemRequest struct {
	Entities []dto.EntityDTO `json:"entities"`
	Strict   bool            `json:"strict,omitempty"`
	Debug    bool            `json:"debug,omitempty"`
	Options  map[string]any  `json:"options,omitempty"`
}

// TranslateRequest is the body of the translate endpoint.
type TranslateRequest struct {
	Plan *[]dto.ActionDTO `json:"plan"`
}

// TranslateResponse is the body returned by the translate endpoint. Solved is
// false, and the translation absent, when the request carried no plan.
type TranslateResponse struct {
	Solved bool `json:"solved"`
	*dto.TranslationDTO
}

// RunResponse is a stored run with its translation, when there is one.
type RunResponse struct {
	Run         *domain.Run         `json:"run"`
	Translation *dto.TranslationDTO `json:"translation,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Index  *int   `json:"index,omitempty"`
	Action string `json:"action,omitempty"`
}

// NewHandler creates the HTTP handler for pipelines.
func NewHandler(pipelines Pipelines, opts ...Option) http.Handler {
	s := &Server{Pipelines: pipelines}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/scenarios", func(r chi.Router) {
		r.Get("/", s.ListScenarios)
		r.Route("/{name}", func(r chi.Router) {
			r.Post("/problem", s.AssembleProblem)
			r.Post("/solve", s.Solve)
			r.Post("/translate", s.Translate)
			r.Get("/runs", s.ListRuns)
			r.Get("/runs/{id}", s.GetRun)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":       "taskstream-http",
		"version":   taskstream.Version(),
		"scenarios": s.Pipelines.Names(),
	})
}

// ListScenarios handles GET /v1/scenarios.
func (s *Server) ListScenarios(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Pipelines.Names())
}

// AssembleProblem handles POST /v1/scenarios/{name}/problem.
func (s *Server) AssembleProblem(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipeline(w, r)
	if !ok {
		return
	}
	var req ProblemRequest
	if !s.decode(w, r, &req) {
		return
	}
	problem, err := s.assemble(r.Context(), p, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, domain.EncodeProblem(problem))
}

// Solve handles POST /v1/scenarios/{name}/solve. The run is stored and
// returned with its translation.
func (s *Server) Solve(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipeline(w, r)
	if !ok {
		return
	}
	var req ProblemRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts, err := domain.DecodeOptions(req.Options)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: options: %w", domain.ErrConfiguration, err))
		return
	}
	problem, err := s.assemble(r.Context(), p, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	run, err := p.Solve(r.Context(), problem, p.Options(opts))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := RunResponse{Run: run}
	if p.Translates() {
		res, err := p.Translate(r.Context(), run.Solution.Plan)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Translation = dto.FromResult(res)
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

// Translate handles POST /v1/scenarios/{name}/translate.
func (s *Server) Translate(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipeline(w, r)
	if !ok {
		return
	}
	var req TranslateRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := p.Translate(r.Context(), dto.SolutionDocument{Plan: req.Plan}.ToPlan())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if res == nil {
		s.writeJSON(w, http.StatusOK, TranslateResponse{Solved: false})
		return
	}
	s.writeJSON(w, http.StatusOK, TranslateResponse{Solved: true, TranslationDTO: dto.FromResult(res)})
}

// ListRuns handles GET /v1/scenarios/{name}/runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipeline(w, r)
	if !ok {
		return
	}
	ids, err := p.Store().List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetRun handles GET /v1/scenarios/{name}/runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pipeline(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if !p.Translates() {
		run, err := p.Store().Load(r.Context(), id)
		if err == nil && run.Scenario != p.Name() {
			err = fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, RunResponse{Run: run})
		return
	}
	run, res, err := p.TranslateRun(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, RunResponse{Run: run, Translation: dto.FromResult(res)})
}

// -- Helpers --

func (s *Server) pipeline(w http.ResponseWriter, r *http.Request) (*taskstream.Pipeline, bool) {
	p, err := s.Pipelines.Get(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return p, true
}

func (s *Server) assemble(ctx context.Context, p *taskstream.Pipeline, req ProblemRequest) (*domain.Problem, error) {
	entities, err := dto.ToEntities(req.Entities)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	if !req.Strict && !req.Debug {
		return p.Assemble(ctx, entities)
	}
	inst := &domain.Instance{Name: "request", Entities: entities, Strict: req.Strict, Debug: req.Debug}
	return p.AssembleInstance(ctx, inst)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{Error: err.Error()}
	var terr *domain.TranslationError
	if errors.As(err, &terr) {
		resp.Index = &terr.Index
		resp.Action = terr.Action
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// StatusFor maps pipeline errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownScenario), errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSolverFailed):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrConfiguration),
		errors.Is(err, domain.ErrUntypedEntity),
		errors.Is(err, domain.ErrInvalidGoal),
		errors.Is(err, domain.ErrUndeclaredStream),
		errors.Is(err, domain.ErrInvalidSolution),
		errors.Is(err, domain.ErrUnhandledAction),
		errors.Is(err, domain.ErrArgumentShape),
		errors.Is(err, domain.ErrNotHolding):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
