// Package server exposes the extraction engine as an HTTP service: the
// concrete "accelerated" tier that remote orchestrators probe and call.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"graph-tracer/internal/extract"
	"graph-tracer/internal/model"
)

// maxRequestBytes bounds request bodies; a base64-encoded scan at the
// engine's size cap fits comfortably.
const maxRequestBytes = 64 << 20

// Server serves the extraction JSON API over an Engine.
type Server struct {
	engine extract.Engine
	log    *slog.Logger
}

// New creates a server over the given engine. A nil logger falls back to
// slog.Default.
func New(engine extract.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{engine: engine, log: logger}
}

// Handler returns the route mux: /healthz liveness, /v1/detect, /v1/extract.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /v1/detect", s.handleDetect)
	mux.HandleFunc("POST /v1/extract", s.handleExtract)
	return mux
}

// ListenAndServe runs the service until the context is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      5 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("extraction service listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	imageBytes, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		s.writeError(w, &model.DecodeError{Err: err})
		return
	}

	colors, err := s.engine.DetectColors(r.Context(), imageBytes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, DetectResponse{Colors: colors})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	imageBytes, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		s.writeError(w, &model.DecodeError{Err: err})
		return
	}

	start := time.Now()
	result, err := s.engine.ExtractCurves(r.Context(), imageBytes, req.Colors, req.Axis)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.log.Info("extract served",
		"colors", len(req.Colors),
		"points", result.TotalPoints,
		"elapsed", time.Since(start),
	)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Kind:  ErrKindDecode,
			Error: fmt.Sprintf("parse request: %v", err),
		})
		return false
	}
	return true
}

// writeError maps the engine error taxonomy onto HTTP. Fatal caller errors
// are 400s with a kind the client can reconstruct; everything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var de *model.DecodeError
	var ce *model.ConfigError

	switch {
	case errors.As(err, &de):
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Kind: ErrKindDecode, Error: err.Error()})
	case errors.As(err, &ce):
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Kind: ErrKindConfig, Error: err.Error()})
	default:
		s.log.Error("extraction failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Kind: ErrKindInternal, Error: err.Error()})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "error", err)
	}
}
