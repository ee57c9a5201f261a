// Package hilthttp exposes a container's recording, plan and health over HTTP.
//
//	mux.Mount("/debug/hilt", hilthttp.NewHandler(c))
package hilthttp

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/danpasecinic/hilt"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeDOT  = "text/vnd.graphviz; charset=utf-8"
	contentTypeYAML = "application/yaml"
)

type handler struct {
	c *hilt.Container
}

type Option func(chi.Router)

// WithMiddleware adds middleware in front of every route.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(r chi.Router) {
		r.Use(mw...)
	}
}

// WithRequestLogging logs every request with chi's request logger.
func WithRequestLogging() Option {
	return WithMiddleware(middleware.Logger)
}

// NewHandler serves:
//
//	POST   /recording   start recording
//	DELETE /recording   stop recording and return the snapshot as YAML
//	GET    /graph.dot   current recording as Graphviz DOT
//	GET    /graph.yaml  current recording as YAML
//	GET    /plan        current recording in dependency order
//	GET    /health      health of the cached instances
func NewHandler(c *hilt.Container, opts ...Option) http.Handler {
	h := &handler{c: c}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	for _, opt := range opts {
		opt(r)
	}

	r.Post("/recording", h.startRecording)
	r.Delete("/recording", h.stopRecording)
	r.Get("/graph.dot", h.graphDOT)
	r.Get("/graph.yaml", h.graphYAML)
	r.Get("/plan", h.plan)
	r.Get("/health", h.health)

	return r
}

func (h *handler) startRecording(w http.ResponseWriter, _ *http.Request) {
	h.c.StartRecording()
	w.WriteHeader(http.StatusAccepted)
}

func (h *handler) stopRecording(w http.ResponseWriter, _ *http.Request) {
	if _, ok := h.c.StopRecording(); !ok {
		http.Error(w, "recording was never started", http.StatusNotFound)
		return
	}
	doc, ok := h.c.ExportYAML()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	write(w, contentTypeYAML, http.StatusOK, doc)
}

func (h *handler) graphDOT(w http.ResponseWriter, _ *http.Request) {
	dot, ok := h.c.ExportDOT()
	if !ok {
		http.Error(w, "nothing recorded", http.StatusNotFound)
		return
	}
	write(w, contentTypeDOT, http.StatusOK, []byte(dot))
}

func (h *handler) graphYAML(w http.ResponseWriter, _ *http.Request) {
	doc, ok := h.c.ExportYAML()
	if !ok {
		http.Error(w, "nothing recorded", http.StatusNotFound)
		return
	}
	write(w, contentTypeYAML, http.StatusOK, doc)
}

func (h *handler) plan(w http.ResponseWriter, _ *http.Request) {
	p, err := h.c.BuildPlan()
	switch {
	case hilt.IsNoRecording(err):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case hilt.IsCycleInPlan(err):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	write(w, contentTypeText, http.StatusOK, []byte(hilt.SprintPlan(p)))
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	reports := h.c.Health(r.Context())

	status := http.StatusOK
	var b strings.Builder
	for _, report := range reports {
		if report.Status == hilt.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		b.WriteString(report.String())
		b.WriteByte('\n')
	}
	write(w, contentTypeText, status, []byte(b.String()))
}

func write(w http.ResponseWriter, contentType string, status int, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
