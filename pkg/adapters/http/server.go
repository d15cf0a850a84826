package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/aretw0/pipewright"
	"github.com/aretw0/pipewright/internal/compiler"
	"github.com/aretw0/pipewright/internal/logging"
	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxDefinitionBytes caps request bodies carrying pipeline definitions.
const MaxDefinitionBytes = 1 << 20

// Engine defines the document operations the HTTP API exposes.
type Engine interface {
	Compile(p *domain.Pipeline) (string, error)
	Publish(ctx context.Context, name string, p *domain.Pipeline) (*domain.Document, error)
	Get(ctx context.Context, name string) (*domain.Document, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	Graph(ctx context.Context, name string) (string, error)
}

// Server serves the pipeline document API.
type Server struct {
	Engine   Engine
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer selects the registry served on /metrics. Defaults to the global registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine:   engine,
		logger:   logging.NewNop(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Post("/compile", server.CompileDefinition)

	r.Route("/pipelines", func(r chi.Router) {
		r.Get("/", server.ListPipelines)
		r.Get("/{name}", server.GetPipeline)
		r.Put("/{name}", server.PutPipeline)
		r.Delete("/{name}", server.DeletePipeline)
		r.Get("/{name}/graph", server.GetPipelineGraph)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Pipewright API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "pipewright-http",
		"version":     strings.TrimSpace(pipewright.Version),
		"api_version": apiVersion,
	})
}

// ListPipelines handles the GET /pipelines request.
func (s *Server) ListPipelines(w http.ResponseWriter, r *http.Request) {
	names, err := s.Engine.List(r.Context())
	if err != nil {
		s.fail(w, "list", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"pipelines": names})
}

// GetPipeline handles the GET /pipelines/{name} request.
func (s *Server) GetPipeline(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Engine.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "get", err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, doc)
		return
	}
	w.Header().Set("Content-Type", "text/yaml")
	_, _ = io.WriteString(w, doc.Text)
}

// PutPipeline handles the PUT /pipelines/{name} request.
func (s *Server) PutPipeline(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := s.readDefinition(w, r)
	if err != nil {
		s.fail(w, "put", err)
		return
	}

	doc, err := s.Engine.Publish(r.Context(), name, p)
	if err != nil {
		s.fail(w, "put", err)
		return
	}
	s.logger.Info("pipeline published", "document", name, "remote", r.RemoteAddr)
	writeJSON(w, http.StatusOK, doc)
}

// DeletePipeline handles the DELETE /pipelines/{name} request.
func (s *Server) DeletePipeline(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.fail(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPipelineGraph handles the GET /pipelines/{name}/graph request.
func (s *Server) GetPipelineGraph(w http.ResponseWriter, r *http.Request) {
	out, err := s.Engine.Graph(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "graph", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, out)
}

// CompileDefinition handles the POST /compile request.
func (s *Server) CompileDefinition(w http.ResponseWriter, r *http.Request) {
	p, err := s.readDefinition(w, r)
	if err != nil {
		s.fail(w, "compile", err)
		return
	}
	text, err := s.Engine.Compile(p)
	if err != nil {
		s.fail(w, "compile", err)
		return
	}
	w.Header().Set("Content-Type", "text/yaml")
	_, _ = io.WriteString(w, text)
}

// errBadDefinition marks request bodies that could not be parsed.
var errBadDefinition = errors.New("bad definition")

// readDefinition parses the body as HCL when the content type says so and as YAML otherwise.
func (s *Server) readDefinition(w http.ResponseWriter, r *http.Request) (*domain.Pipeline, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDefinitionBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadDefinition, err)
	}

	var p *domain.Pipeline
	if isHCL(r.Header.Get("Content-Type")) {
		p, err = compiler.ParseHCL(data, "request.hcl")
	} else {
		p, err = compiler.Parse(data)
	}
	if err != nil {
		if errors.Is(err, domain.ErrIncompleteDocument) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errBadDefinition, err)
	}
	return p, nil
}

func isHCL(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/hcl" || mediaType == "text/x-hcl"
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidName), errors.Is(err, errBadDefinition):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrIncompleteDocument):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "op", op, "err", err)
	} else {
		s.logger.Warn("request rejected", "op", op, "status", status, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
