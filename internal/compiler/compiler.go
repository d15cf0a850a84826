package compiler

import (
	"fmt"

	"github.com/aretw0/pipewright/internal/emit"
	"github.com/aretw0/pipewright/pkg/domain"
)

// Compile renders the pipeline into its canonical text form.
//
// Rendering is deterministic and keeps insertion order at every level. A missing
// trigger, pool or image omits its lines. A part that is required but renders to
// nothing (unnamed pool, stage or job, or a stage without jobs) fails the whole
// compilation with domain.ErrIncompleteDocument.
func Compile(p *domain.Pipeline) (string, error) {
	if p == nil {
		return "", fmt.Errorf("nil pipeline: %w", domain.ErrIncompleteDocument)
	}

	var w emit.Writer

	if p.Trigger != "" {
		w.Field(0, "trigger", p.Trigger).NewLine()
	}

	if p.Pool != nil {
		pool, ok := compilePool(p.Pool)
		if !ok {
			return "", fmt.Errorf("pool: %w", domain.ErrIncompleteDocument)
		}
		w.Write(pool).NewLine()
	}

	w.Line(0, "stages:")
	for i, s := range p.Stages {
		stage, err := compileStage(s)
		if err != nil {
			return "", fmt.Errorf("stage %d: %w", i, err)
		}
		w.Write(stage)
	}

	return w.String(), nil
}

func compilePool(p *domain.Pool) (string, bool) {
	if p.Name == "" {
		return "", false
	}
	var w emit.Writer
	w.Line(0, "pool:")
	w.Field(1, "name", p.Name)
	if p.ImageName != "" {
		w.Field(1, "image", p.ImageName)
	}
	return w.String(), true
}

func compileStage(s domain.Stage) (string, error) {
	if s.Name == "" {
		return "", fmt.Errorf("unnamed stage: %w", domain.ErrIncompleteDocument)
	}
	if len(s.Jobs) == 0 {
		return "", fmt.Errorf("stage %q has no jobs: %w", s.Name, domain.ErrIncompleteDocument)
	}

	var w emit.Writer
	w.Field(0, "- stage", s.Name)
	w.Line(1, "jobs:")
	for _, j := range s.Jobs {
		if j.Name == "" {
			return "", fmt.Errorf("stage %q: unnamed job: %w", s.Name, domain.ErrIncompleteDocument)
		}
		w.Field(1, "- job", j.Name)
		if len(j.Steps) > 0 {
			w.Line(2, "steps:")
			for _, st := range j.Steps {
				w.Field(2, "- script", st.Script)
			}
		}
	}
	return w.String(), nil
}
