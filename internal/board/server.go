package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"uploadsim/internal/progress"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

const maxBodyBytes = 1 << 20

// Selector is the part of the simulator the board drives
type Selector interface {
	Select(files []progress.File) []progress.Status
	Snapshot() []progress.Status
	Lookup(id string) (progress.Status, bool)
	Summary() progress.Summary
}

type selectionRequest struct {
	Files []progress.File `json:"files"`
}

type filesResponse struct {
	Files   []progress.Status `json:"files"`
	Summary progress.Summary  `json:"summary"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type handlerFunc func(r *http.Request) (int, any, error)

type Server struct {
	selector Selector
	view     *View
	logger   *log.Logger
	router   chi.Router
}

func NewServer(selector Selector, view *View, logger *log.Logger) *Server {
	s := &Server{selector: selector, view: view, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handle(s.health))
	r.Post("/selection", s.handle(s.selectFiles))
	r.Get("/files", s.handle(s.listFiles))
	r.Get("/files/{id}", s.handle(s.getFile))
	r.Get("/dashboard", s.handle(s.dashboard))

	s.router = r
	return s
}

// Handler returns the router wrapped with CORS
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(s.router)
}

func (s *Server) health(*http.Request) (int, any, error) {
	return http.StatusOK, map[string]string{"status": "ok"}, nil
}

func (s *Server) selectFiles(r *http.Request) (int, any, error) {
	var req selectionRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return 0, nil, newInvalidFormat(err)
	}
	for i, f := range req.Files {
		if f.Name == "" {
			return 0, nil, newInvalidInput(fmt.Sprintf("files[%d]: name is required", i))
		}
		if f.Size < 0 {
			return 0, nil, newInvalidInput(fmt.Sprintf("files[%d]: size must not be negative", i))
		}
	}

	statuses := s.selector.Select(req.Files)
	if statuses == nil {
		return 0, nil, errors.New("simulator is closed")
	}
	return http.StatusCreated, filesResponse{Files: statuses, Summary: s.selector.Summary()}, nil
}

func (s *Server) listFiles(*http.Request) (int, any, error) {
	return http.StatusOK, filesResponse{Files: s.selector.Snapshot(), Summary: s.selector.Summary()}, nil
}

func (s *Server) getFile(r *http.Request) (int, any, error) {
	id := chi.URLParam(r, "id")
	st, ok := s.selector.Lookup(id)
	if !ok {
		return 0, nil, newNotFound(fmt.Sprintf("file %q not found", id))
	}
	return http.StatusOK, st, nil
}

func (s *Server) dashboard(*http.Request) (int, any, error) {
	return http.StatusOK, s.view.Snapshot(), nil
}

func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body, err := h(r)
		if err != nil {
			e := asError(err)
			if e.Code() == CodeInternal {
				s.logger.Error("request failed", "path", r.URL.Path, "error", err)
			}
			status = e.StatusCode()
			body = errorResponse{Code: e.Code().String(), Message: e.Error()}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			s.logger.Error("failed to encode response", "path", r.URL.Path, "error", err)
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
