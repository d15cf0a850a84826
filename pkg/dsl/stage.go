package dsl

import (
	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/aretw0/pipewright/pkg/phase"
)

// Stage is the phase inside an open stage.
type Stage struct {
	h phase.Handle[phase.Stage, draft]
}

// Phase returns the name of the construction phase.
func (s *Stage) Phase() string { return s.h.Phase() }

// AddJob appends job to the open stage.
func (s *Stage) AddJob(job domain.Job) *Stage {
	if d, ok := s.h.Peek(); ok && d.stage != nil {
		d.stage.AddJob(job)
	}
	return s
}

// Job opens a job named name inside the stage.
func (s *Stage) Job(name string) *Job {
	d := take(&s.h)
	d.job = &domain.Job{Name: name}
	d.transition(phase.Stage{}.Name(), phase.Job{}.Name())
	return &Job{h: phase.Hold[phase.Job](d)}
}

// Done closes the stage and returns to the Global phase.
func (s *Stage) Done() *Global {
	d := take(&s.h)
	d.closeStage()
	d.transition(phase.Stage{}.Name(), phase.Global{}.Name())
	return &Global{h: phase.Hold[phase.Global](d)}
}

// Compile closes the stage, finalizes the document and renders it.
func (s *Stage) Compile() (string, error) {
	d := take(&s.h)
	d.closeStage()
	return d.compile()
}

// Build closes the stage, finalizes the document and returns the composed pipeline.
func (s *Stage) Build() (*domain.Pipeline, error) {
	d := take(&s.h)
	d.closeStage()
	return d.build()
}

// WriteToFile closes the stage, finalizes the document and writes it to path.
func (s *Stage) WriteToFile(path string) error {
	d := take(&s.h)
	d.closeStage()
	return d.writeTo(path)
}

// Debug prints the current rendering, including the open stage.
func (s *Stage) Debug() *Stage {
	if d, ok := s.h.Peek(); ok {
		d.debug(s.Phase())
	}
	return s
}

// Job is the phase inside an open job, where script steps are added.
type Job struct {
	h phase.Handle[phase.Job, draft]
}

// Phase returns the name of the construction phase.
func (j *Job) Phase() string { return j.h.Phase() }

// Script appends a script step to the job.
func (j *Job) Script(command string) *Job {
	if d, ok := j.h.Peek(); ok {
		d.job.Script(command)
	}
	return j
}

// Echo appends a step that echoes message.
func (j *Job) Echo(message string) *Job {
	return j.Script(domain.EchoCommand(message))
}

// Done closes the job and returns to the enclosing Stage phase.
func (j *Job) Done() *Stage {
	d := take(&j.h)
	d.closeJob()
	d.transition(phase.Job{}.Name(), phase.Stage{}.Name())
	return &Stage{h: phase.Hold[phase.Stage](d)}
}

// Debug prints the current rendering, including the open stage and job.
func (j *Job) Debug() *Job {
	if d, ok := j.h.Peek(); ok {
		d.debug(j.Phase())
	}
	return j
}
