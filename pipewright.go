package pipewright

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/pipewright/internal/logging"
	"github.com/aretw0/pipewright/internal/presentation/graph"
	"github.com/aretw0/pipewright/pkg/catalog"
	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/aretw0/pipewright/pkg/dsl"
	"github.com/aretw0/pipewright/pkg/observability"
	"github.com/aretw0/pipewright/pkg/ports"
)

// Engine is the high-level entry point for publishing pipeline documents.
// It compiles pipelines through the typestate builder and keeps the rendered
// text in a DocumentStore.
type Engine struct {
	catalog *catalog.Manager
	metrics *observability.Metrics
	logger  *slog.Logger
	now     func() time.Time

	locker  ports.DistributedLocker
	lockTTL time.Duration
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records compilations, publishes and deletes on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLocker serializes publishes of the same document across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLockTTL bounds how long a distributed publish lock may be held.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.lockTTL = ttl
	}
}

// WithClock overrides the time source used for CompiledAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an Engine backed by store.
func New(store ports.DocumentStore, opts ...Option) *Engine {
	eng := &Engine{
		logger:  logging.NewNop(),
		now:     time.Now,
		lockTTL: catalog.DefaultLockTTL,
	}
	for _, opt := range opts {
		opt(eng)
	}

	catalogOpts := []catalog.Option{
		catalog.WithLogger(eng.logger),
		catalog.WithLockTTL(eng.lockTTL),
	}
	if eng.locker != nil {
		catalogOpts = append(catalogOpts, catalog.WithLocker(eng.locker))
	}
	eng.catalog = catalog.NewManager(store, catalogOpts...)

	return eng
}

// Store returns the underlying document store.
func (e *Engine) Store() ports.DocumentStore {
	return e.catalog.Store()
}

// Compile renders p without storing it.
func (e *Engine) Compile(p *domain.Pipeline) (string, error) {
	started := time.Now()
	text, err := e.compile(p)
	e.metrics.ObserveCompile(started, err)
	return text, err
}

func (e *Engine) compile(p *domain.Pipeline) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: no pipeline", domain.ErrIncompleteDocument)
	}
	return dsl.FromPipeline(p, dsl.WithLogger(e.logger)).Compile()
}

// Publish compiles p and stores the result under name. Republishing a pipeline
// whose rendering is unchanged keeps the stored document and its CompiledAt.
func (e *Engine) Publish(ctx context.Context, name string, p *domain.Pipeline) (*domain.Document, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	text, err := e.Compile(p)
	if err != nil {
		e.logger.Warn("compile failed", "document", name, "err", err)
		return nil, err
	}

	var published *domain.Document
	err = e.catalog.Update(ctx, name, func(current *domain.Document) (*domain.Document, error) {
		if current != nil && current.Text == text {
			published = current
			return nil, nil
		}
		published = &domain.Document{
			Name:       name,
			Text:       text,
			Pipeline:   p.Clone(),
			CompiledAt: e.now().UTC(),
		}
		return published, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish %q: %w", name, err)
	}

	e.metrics.ObservePublish()
	e.logger.Info("document published", "document", name, "stages", len(p.Stages), "bytes", len(text))
	return published, nil
}

// Get returns the stored document.
func (e *Engine) Get(ctx context.Context, name string) (*domain.Document, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return e.catalog.Load(ctx, name)
}

// List returns the names of all stored documents.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.catalog.List(ctx)
}

// Delete removes a stored document. Deleting a missing document is not an error.
func (e *Engine) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := e.catalog.Delete(ctx, name); err != nil {
		return err
	}
	e.metrics.ObserveDelete()
	e.logger.Info("document deleted", "document", name)
	return nil
}

// Graph renders the stored pipeline as a Mermaid flowchart.
func (e *Engine) Graph(ctx context.Context, name string) (string, error) {
	doc, err := e.Get(ctx, name)
	if err != nil {
		return "", err
	}
	if doc.Pipeline == nil {
		return "", fmt.Errorf("document %q has no pipeline definition", name)
	}
	return graph.GenerateMermaid(doc.Pipeline), nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", domain.ErrInvalidName, name)
	}
	return nil
}
