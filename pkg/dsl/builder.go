package dsl

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/pipewright/internal/compiler"
	"github.com/aretw0/pipewright/internal/logging"
	"github.com/aretw0/pipewright/pkg/adapters/file"
	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/aretw0/pipewright/pkg/phase"
)

// Option configures a builder created by New.
type Option func(*draft)

// WithLogger sets the logger phase transitions are reported to (Debug level).
func WithLogger(logger *slog.Logger) Option {
	return func(d *draft) {
		d.logger = logger
	}
}

// WithDebugOutput sets where Debug prints. Defaults to os.Stdout.
func WithDebugOutput(w io.Writer) Option {
	return func(d *draft) {
		d.debugOut = w
	}
}

// draft is the state moved from phase to phase.
type draft struct {
	pipeline domain.Pipeline
	stage    *domain.Stage // open in the Stage and Job phases
	job      *domain.Job   // open in the Job phase

	err      error
	logger   *slog.Logger
	debugOut io.Writer
}

// consumed stands in for the state of a handle that was already used.
// Everything done to it is discarded and its terminal operations fail.
func consumed() *draft {
	return &draft{
		stage:    &domain.Stage{},
		err:      domain.ErrConsumed,
		logger:   logging.NewNop(),
		debugOut: io.Discard,
	}
}

func take[P phase.Tag](h *phase.Handle[P, draft]) *draft {
	if d, ok := h.Take(); ok {
		return d
	}
	return consumed()
}

func (d *draft) transition(from, to string) {
	if d.err != nil {
		return
	}
	d.logger.Debug("phase transition", "from", from, "to", to)
}

func (d *draft) closeJob() {
	if d.job == nil || d.stage == nil {
		return
	}
	d.stage.AddJob(*d.job)
	d.job = nil
}

func (d *draft) closeStage() {
	d.closeJob()
	if d.stage == nil {
		return
	}
	d.pipeline.Stages = append(d.pipeline.Stages, *d.stage)
	d.stage = nil
}

func (d *draft) compile() (string, error) {
	if d.err != nil {
		return "", d.err
	}
	text, err := compiler.Compile(&d.pipeline)
	if err != nil {
		d.logger.Debug("compile failed", "err", err)
		return "", err
	}
	d.logger.Debug("compiled pipeline", "stages", len(d.pipeline.Stages), "bytes", len(text))
	return text, nil
}

func (d *draft) build() (*domain.Pipeline, error) {
	if _, err := d.compile(); err != nil {
		return nil, err
	}
	p := d.pipeline
	return &p, nil
}

func (d *draft) writeTo(path string) error {
	text, err := d.compile()
	if err != nil {
		return err
	}
	return file.WriteFile(path, text)
}

// snapshot renders the document as if every open stage and job were closed now.
func (d *draft) snapshot() string {
	if d.err != nil {
		return fmt.Sprintf("# %v\n", d.err)
	}
	p := d.pipeline.Clone()
	if d.stage != nil {
		stage := *d.stage
		stage.Jobs = append([]domain.Job(nil), d.stage.Jobs...)
		if d.job != nil {
			stage.AddJob(*d.job)
		}
		p.Stages = append(p.Stages, stage)
	}
	text, err := compiler.Compile(p)
	if err != nil {
		return fmt.Sprintf("# %v\n", err)
	}
	return text
}

func (d *draft) debug(phaseName string) {
	fmt.Fprintf(d.debugOut, "# phase: %s\n%s\n", phaseName, d.snapshot())
}

// Global is the top-level phase. It is where a document starts and where it
// returns to after a stage is closed.
type Global struct {
	h phase.Handle[phase.Global, draft]
}

// New creates an empty builder in the Global phase.
func New(opts ...Option) *Global {
	d := &draft{
		logger:   logging.NewNop(),
		debugOut: os.Stdout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return &Global{h: phase.Hold[phase.Global](d)}
}

// Phase returns the name of the construction phase.
func (g *Global) Phase() string { return g.h.Phase() }

// Trigger records the pipeline trigger, replacing any previous one.
func (g *Global) Trigger(name string) *Global {
	if d, ok := g.h.Peek(); ok {
		d.pipeline.Trigger = name
	}
	return g
}

// Pool creates a pool named name, applies configure to it and stores it,
// replacing any previous pool.
func (g *Global) Pool(name string, configure ...func(*domain.Pool)) *Global {
	d, ok := g.h.Peek()
	if !ok {
		return g
	}
	pool := domain.NewPool(name)
	for _, fn := range configure {
		fn(pool)
	}
	d.pipeline.Pool = pool
	return g
}

// Stage opens a stage named name and applies configure to it. The stage is
// appended to the document when the returned Stage phase is closed or finalized,
// so jobs may still be added through it.
func (g *Global) Stage(name string, configure ...func(*domain.Stage)) *Stage {
	d := take(&g.h)
	stage := domain.NewStage(name)
	for _, fn := range configure {
		fn(stage)
	}
	d.stage = stage
	d.transition(phase.Global{}.Name(), phase.Stage{}.Name())
	return &Stage{h: phase.Hold[phase.Stage](d)}
}

// Compile finalizes the document and renders it.
func (g *Global) Compile() (string, error) {
	return take(&g.h).compile()
}

// Build finalizes the document and returns the composed pipeline.
func (g *Global) Build() (*domain.Pipeline, error) {
	return take(&g.h).build()
}

// WriteToFile finalizes the document and writes the rendered text to path,
// creating or truncating the file.
func (g *Global) WriteToFile(path string) error {
	return take(&g.h).writeTo(path)
}

// Debug prints the current rendering of the document.
func (g *Global) Debug() *Global {
	if d, ok := g.h.Peek(); ok {
		d.debug(g.Phase())
	}
	return g
}

// FromPipeline replays an existing pipeline through the builder, so documents
// loaded from definition files follow the same construction path as code.
func FromPipeline(p *domain.Pipeline, opts ...Option) *Global {
	g := New(opts...)
	if p == nil {
		return g
	}
	if p.Trigger != "" {
		g.Trigger(p.Trigger)
	}
	if p.Pool != nil {
		image := p.Pool.ImageName
		g.Pool(p.Pool.Name, func(pool *domain.Pool) {
			pool.Image(image)
		})
	}
	for _, s := range p.Stages {
		stage := g.Stage(s.Name)
		for _, j := range s.Jobs {
			job := stage.Job(j.Name)
			for _, step := range j.Steps {
				job.Script(step.Script)
			}
			stage = job.Done()
		}
		g = stage.Done()
	}
	return g
}
