// Package ui serves a browsable route report over HTTP.
package ui

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/springguard/format"
	"github.com/dhamidi/springguard/routes"
)

//go:embed templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("springguard.ui")

var errNotScanned = errors.New("project has not been scanned yet")

// ScanFunc analyzes the project from scratch.
type ScanFunc func(ctx context.Context) (*routes.Result, error)

type Server struct {
	scan      ScanFunc
	templates *template.Template
	router    chi.Router

	mu        sync.RWMutex
	result    *routes.Result
	scannedAt time.Time
	scanErr   error
}

func NewServer(scan ScanFunc) (*Server, error) {
	funcMap := template.FuncMap{
		"guard": format.Guard,
		"url":   format.DisplayURL,
		"since": func(t time.Time) string {
			return time.Since(t).Round(time.Second).String()
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(embeddedFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		scan:      scan,
		templates: tmpl,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/routes", s.handleRoutes)
		r.Get("/diagnostics", s.handleDiagnostics)
		r.Post("/rescan", s.handleRescan)
	})
	s.router = r

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Rescan runs the scan function and replaces the served result. A failed
// scan keeps the previous result and is reported on the index page.
func (s *Server) Rescan(ctx context.Context) error {
	result, err := s.scan(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanErr = err
	if err != nil {
		return err
	}
	s.result = result
	s.scannedAt = time.Now()
	log.Infof("scan found %d routes, %d diagnostics", result.Store.Len(), len(result.Diagnostics))
	return nil
}

func (s *Server) snapshot() (*routes.Result, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.scannedAt, s.scanErr
}

type indexData struct {
	Report    *format.Report
	Summary   format.Summary
	ScannedAt time.Time
	Error     error
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	result, scannedAt, scanErr := s.snapshot()
	data := indexData{ScannedAt: scannedAt, Error: scanErr}
	if result != nil {
		data.Report = format.NewReport(result, false)
		data.Summary = data.Report.Summary()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Errorf("render index: %s", err)
	}
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	result, _, _ := s.snapshot()
	if result == nil {
		http.Error(w, errNotScanned.Error(), http.StatusServiceUnavailable)
		return
	}

	unguardedOnly := false
	if v := r.URL.Query().Get("unguarded"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "invalid unguarded parameter: "+err.Error(), http.StatusBadRequest)
			return
		}
		unguardedOnly = b
	}

	report := format.NewReport(result, unguardedOnly)
	writeJSON(w, http.StatusOK, nonNil(report.Routes))
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	result, _, _ := s.snapshot()
	if result == nil {
		http.Error(w, errNotScanned.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(result.Diagnostics))
}

func (s *Server) handleRescan(w http.ResponseWriter, r *http.Request) {
	if err := s.Rescan(r.Context()); err != nil {
		http.Error(w, "rescan failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	result, _, _ := s.snapshot()
	writeJSON(w, http.StatusOK, format.NewReport(result, false).Summary())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("write response: %s", err)
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
