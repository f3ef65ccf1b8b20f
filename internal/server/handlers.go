package server

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	perrors "github.com/matzehuels/procmap/pkg/errors"
	"github.com/matzehuels/procmap/pkg/graph"
	"github.com/matzehuels/procmap/pkg/observability"
	"github.com/matzehuels/procmap/pkg/pipeline"
	"github.com/matzehuels/procmap/pkg/store"
)

// route registers h for method and pattern, reporting each request to the
// server hooks under that pattern.
func (s *Server) route(r chi.Router, method, pattern string, h http.HandlerFunc) {
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hooks := observability.Server()
		hooks.OnRequest(req.Context(), method, pattern)
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		h(ww, req)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(req.Context(), method, pattern, status, time.Since(start))
	}))
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// layoutResponse is the body of POST /v1/layout.
type layoutResponse struct {
	Layout graph.Layout   `json:"layout"`
	Stats  pipeline.Stats `json:"stats"`
	Cached bool           `json:"cached"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	in, opts, err := s.readRequest(w, r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}
	res, err := s.runner.Execute(r.Context(), in, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Layout: res.Layout,
		Stats:  res.Stats,
		Cached: res.CacheInfo.LayoutHit,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = pipeline.DefaultFormat
	}
	if err := perrors.ValidateFormat(format); err != nil {
		writeError(w, s.logger, err)
		return
	}

	in, opts, err := s.readRequest(w, r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	opts.Formats = []string{format}
	res, err := s.runner.Execute(r.Context(), in, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeArtifact(w, format, res.Artifacts[format])
}

// saveResponse is the body of POST /v1/layouts.
type saveResponse struct {
	ID        string     `json:"id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	in, opts, err := s.readRequest(w, r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	l, err := s.runner.Layout(r.Context(), in, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	doc := &store.Document{Input: in, Layout: l}
	if s.opts.StoreTTL > 0 {
		doc.ExpiresAt = s.now().Add(s.opts.StoreTTL).UTC()
	}
	if err := s.store.Save(r.Context(), doc); err != nil {
		writeError(w, s.logger, perrors.Wrap(perrors.ErrCodeStorage, err, "save layout"))
		return
	}

	resp := saveResponse{ID: doc.ID}
	if !doc.ExpiresAt.IsZero() {
		resp.ExpiresAt = &doc.ExpiresAt
	}
	w.Header().Set("Location", "/v1/layouts/"+doc.ID)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.lookup(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleGetSVG(w http.ResponseWriter, r *http.Request) {
	doc, err := s.lookup(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	opts := pipeline.Options{Formats: []string{pipeline.FormatSVG}}
	if err := s.applyQuery(r, &opts); err != nil {
		writeError(w, s.logger, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), doc.Layout, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeArtifact(w, pipeline.FormatSVG, artifacts[pipeline.FormatSVG])
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) lookup(r *http.Request) (*store.Document, error) {
	id := chi.URLParam(r, "id")
	if err := perrors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	doc, err := s.store.Get(r.Context(), strings.ToLower(id))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// readRequest decodes the input document in the body and builds the
// pipeline options from the server defaults and the query string.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (graph.Input, pipeline.Options, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer body.Close()

	format := graph.FormatJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = graph.FormatYAML
	}
	in, err := pipeline.Parse(r.Context(), "request "+middleware.GetReqID(r.Context()), body, format)
	if err != nil {
		return graph.Input{}, pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Rect:    s.opts.Rect,
		Colors:  s.opts.Colors,
		Markers: s.opts.Markers,
		Logger:  s.logger,
	}
	if err := s.applyQuery(r, &opts); err != nil {
		return graph.Input{}, pipeline.Options{}, err
	}
	return in, opts, nil
}

// applyQuery reads the optional width, height, gap, padding, detailed and
// refresh parameters. Sizes must be finite and not negative.
func (s *Server) applyQuery(r *http.Request, opts *pipeline.Options) error {
	q := r.URL.Query()
	floats := []struct {
		name string
		dst  *float64
	}{
		{"width", &opts.Rect.Width},
		{"height", &opts.Rect.Height},
		{"gap", &opts.Rect.Gap},
		{"padding", &opts.Padding},
	}
	for _, f := range floats {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 || math.IsInf(n, 0) || math.IsNaN(n) {
			return perrors.New(perrors.ErrCodeInvalidInput, "invalid %s %q", f.name, v)
		}
		*f.dst = n
	}
	for name, dst := range map[string]*bool{"detailed": &opts.Detailed, "refresh": &opts.Refresh} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return perrors.New(perrors.ErrCodeInvalidInput, "invalid %s %q", name, v)
		}
		*dst = b
	}
	return nil
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
