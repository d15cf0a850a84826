// Package flat provides the job/step variant of the typestate builder. It has no
// structured model: each call appends lines to the document buffer directly.
//
//	job:
//	  step: echo "Job 1"
//	job:
//	  name: deploy
//	  script: ./deploy.sh
//
// Global has Stage, Job, NamedJob and the terminal operations; Job has Step,
// Script and Echo and returns to Global with Done.
package flat

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/pipewright/internal/emit"
	"github.com/aretw0/pipewright/internal/logging"
	"github.com/aretw0/pipewright/pkg/adapters/file"
	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/aretw0/pipewright/pkg/phase"
)

// Option configures a builder created by New.
type Option func(*buffer)

// WithLogger sets the logger phase transitions are reported to (Debug level).
func WithLogger(logger *slog.Logger) Option {
	return func(b *buffer) {
		b.logger = logger
	}
}

// WithDebugOutput sets where Debug prints. Defaults to os.Stdout.
func WithDebugOutput(w io.Writer) Option {
	return func(b *buffer) {
		b.debugOut = w
	}
}

type buffer struct {
	text     emit.Writer
	err      error
	logger   *slog.Logger
	debugOut io.Writer
}

func take[P phase.Tag](h *phase.Handle[P, buffer]) *buffer {
	if b, ok := h.Take(); ok {
		return b
	}
	return &buffer{err: domain.ErrConsumed, logger: logging.NewNop(), debugOut: io.Discard}
}

func (b *buffer) transition(from, to string) {
	if b.err != nil {
		return
	}
	b.logger.Debug("phase transition", "from", from, "to", to)
}

func (b *buffer) debug(phaseName string) {
	if b.err != nil {
		fmt.Fprintf(b.debugOut, "# %v\n", b.err)
		return
	}
	fmt.Fprintf(b.debugOut, "# phase: %s\n%s\n", phaseName, b.text.String())
}

// Global is the top-level phase of the flat builder.
type Global struct {
	h phase.Handle[phase.Global, buffer]
}

// New creates an empty builder in the Global phase.
func New(opts ...Option) *Global {
	b := &buffer{
		logger:   logging.NewNop(),
		debugOut: os.Stdout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return &Global{h: phase.Hold[phase.Global](b)}
}

// Phase returns the name of the construction phase.
func (g *Global) Phase() string { return g.h.Phase() }

// Stage emits a stage list entry and stays in the Global phase.
func (g *Global) Stage(name string) *Global {
	if b, ok := g.h.Peek(); ok {
		b.text.Line(0, "stages:").Write("- ").Write(name).NewLine()
	}
	return g
}

// Job opens an unnamed job.
func (g *Global) Job() *Job {
	b := take(&g.h)
	b.text.Line(0, "job:")
	b.transition(phase.Global{}.Name(), phase.Job{}.Name())
	return &Job{h: phase.Hold[phase.Job](b)}
}

// NamedJob opens a job with a name field.
func (g *Global) NamedJob(name string) *Job {
	j := g.Job()
	if b, ok := j.h.Peek(); ok {
		b.text.Field(1, "name", name)
	}
	return j
}

// Text finalizes the builder and returns the document text.
func (g *Global) Text() (string, error) {
	b := take(&g.h)
	if b.err != nil {
		return "", b.err
	}
	return b.text.String(), nil
}

// WriteToFile finalizes the builder and writes the document text verbatim to
// path, creating or truncating the file.
func (g *Global) WriteToFile(path string) error {
	b := take(&g.h)
	if b.err != nil {
		return b.err
	}
	if err := file.WriteFile(path, b.text.String()); err != nil {
		return err
	}
	b.logger.Debug("wrote document", "path", path, "bytes", b.text.Len())
	return nil
}

// Debug prints the document text accumulated so far.
func (g *Global) Debug() *Global {
	if b, ok := g.h.Peek(); ok {
		b.debug(g.Phase())
	}
	return g
}

// Job is the phase inside an open job.
type Job struct {
	h phase.Handle[phase.Job, buffer]
}

// Phase returns the name of the construction phase.
func (j *Job) Phase() string { return j.h.Phase() }

// Step appends a step line to the job.
func (j *Job) Step(command string) *Job {
	return j.field("step", command)
}

// Script appends a script line to the job.
func (j *Job) Script(command string) *Job {
	return j.field("script", command)
}

// Echo appends a step that echoes message.
func (j *Job) Echo(message string) *Job {
	return j.Step(domain.EchoCommand(message))
}

func (j *Job) field(key, value string) *Job {
	if b, ok := j.h.Peek(); ok {
		b.text.Field(1, key, value)
	}
	return j
}

// Done closes the job and returns to the Global phase, where a sibling job can
// be opened.
func (j *Job) Done() *Global {
	b := take(&j.h)
	b.transition(phase.Job{}.Name(), phase.Global{}.Name())
	return &Global{h: phase.Hold[phase.Global](b)}
}

// Debug prints the document text accumulated so far.
func (j *Job) Debug() *Job {
	if b, ok := j.h.Peek(); ok {
		b.debug(j.Phase())
	}
	return j
}
