// Package server exposes the snapshot pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz               liveness
//	POST /v1/snapshots          spec + data (+ pointer) → snapshot document
//	POST /v1/snapshots/batch    several snapshot requests in one call
//
// Every response carries an X-Request-Id header. Errors are JSON bodies of
// the form {"error": {"code": "...", "message": "..."}}.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/chartcore/pkg/buildinfo"
	"github.com/matzehuels/chartcore/pkg/config"
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/observability"
	"github.com/matzehuels/chartcore/pkg/pipeline"
)

// Defaults for Options.
const (
	DefaultMaxBodyBytes    = 8 << 20
	DefaultMaxBatch        = 32
	DefaultShutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64
	// MaxBatch caps the number of items of a batch request.
	MaxBatch int
	// Concurrency bounds the runs of one batch request.
	Concurrency int
	Logger      *log.Logger
}

// Server serves snapshot requests through a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil runner gets an uncached one.
func New(runner *pipeline.Runner, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.MaxBatch <= 0 {
		opts.MaxBatch = DefaultMaxBatch
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = pipeline.DefaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	s := &Server{runner: runner, opts: opts, logger: opts.Logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID, s.logRequests, s.recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.With(requireJSON).Post("/snapshots", s.createSnapshot)
		r.With(requireJSON).Post("/snapshots/batch", s.createBatch)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status    string         `json:"status"`
	Build     buildinfo.Info `json:"build"`
	RequestID string         `json:"requestId"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Build:     buildinfo.Get(),
		RequestID: RequestIDFromContext(r.Context()),
	})
}

// snapshotRequest is the body of POST /v1/snapshots. Spec is a JSON chart
// spec; unknown spec keys are rejected.
type snapshotRequest struct {
	Spec    json.RawMessage `json:"spec"`
	Data    json.RawMessage `json:"data,omitempty"`
	Pointer *plot.Pointer   `json:"pointer,omitempty"`
	Hover   bool            `json:"hover,omitempty"`
	Refresh bool            `json:"refresh,omitempty"`
}

func (req snapshotRequest) options(logger *log.Logger) (pipeline.Options, error) {
	if len(req.Spec) == 0 {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "spec is required")
	}
	spec, err := config.Parse(req.Spec, config.FormatJSON)
	if err != nil {
		return pipeline.Options{}, err
	}
	var data any
	if len(req.Data) > 0 {
		if data, err = config.ParseData(req.Data, config.FormatJSON); err != nil {
			return pipeline.Options{}, err
		}
	}
	return pipeline.Options{
		Spec:    spec,
		Data:    data,
		Pointer: req.Pointer,
		Hover:   req.Hover,
		Refresh: req.Refresh,
		Logger:  logger,
	}, nil
}

func (s *Server) createSnapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts, err := req.options(s.logger.With("request_id", RequestIDFromContext(r.Context())))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(res.CacheHit))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Encoded)
}

type batchRequest struct {
	Items []snapshotRequest `json:"items"`
}

type batchResponse struct {
	Items []json.RawMessage `json:"items"`
}

func (s *Server) createBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "batch has no items"))
		return
	}
	if len(req.Items) > s.opts.MaxBatch {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "batch has %d items (max %d)", len(req.Items), s.opts.MaxBatch))
		return
	}

	logger := s.logger.With("request_id", RequestIDFromContext(r.Context()))
	batch := make([]pipeline.Options, len(req.Items))
	for i, item := range req.Items {
		opts, err := item.options(logger)
		if err != nil {
			s.fail(w, r, errors.Wrap(errors.GetCode(err), err, "item %d", i))
			return
		}
		batch[i] = opts
	}

	results, err := s.runner.ExecuteBatch(r.Context(), batch, s.opts.Concurrency)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := batchResponse{Items: make([]json.RawMessage, len(results))}
	for i, res := range results {
		resp.Items[i] = res.Encoded
	}
	writeJSON(w, http.StatusOK, resp)
}

// decode reads a JSON body. It writes the error response and returns false
// on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", err.Error())
			return false
		}
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return false
	}
	return true
}

// fail writes a coded error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	route := routePattern(r)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "route", route, "request_id", RequestIDFromContext(r.Context()), "error", err)
	} else {
		s.logger.Debug("request rejected", "route", route, "error", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, route, err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeError(w, status, strings.ToLower(code), errors.UserMessage(err))
}

func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch errors.KindOf(err) {
	case errors.KindInput:
		return http.StatusBadRequest
	case errors.KindConfiguration:
		return http.StatusUnprocessableEntity
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindUnsupported:
		return http.StatusNotImplemented
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var eb errorBody
	eb.Error.Code = code
	eb.Error.Message = message
	writeJSON(w, status, eb)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
