package domain

// Pipeline is the top-level document: an optional trigger, an optional pool and the
// stages in the order they were added.
type Pipeline struct {
	Trigger string  `json:"trigger,omitempty"`
	Pool    *Pool   `json:"pool,omitempty"`
	Stages  []Stage `json:"stages"`
}

// Pool names the execution pool and, optionally, the image jobs run on.
type Pool struct {
	Name      string `json:"name"`
	ImageName string `json:"image,omitempty"`
}

// NewPool creates a pool with the given name and no image.
func NewPool(name string) *Pool {
	return &Pool{Name: name}
}

// Image sets the pool image, replacing any previous value.
func (p *Pool) Image(name string) {
	p.ImageName = name
}

// Stage groups jobs under a name.
type Stage struct {
	Name string `json:"name"`
	Jobs []Job  `json:"jobs"`
}

// NewStage creates an empty stage.
func NewStage(name string) *Stage {
	return &Stage{Name: name}
}

// AddJob appends job to the stage. Jobs keep the order they were added in and
// duplicates are kept.
func (s *Stage) AddJob(job Job) {
	s.Jobs = append(s.Jobs, job)
}

// Job is a named unit of work inside a stage.
type Job struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps,omitempty"`
}

// NewJob creates a job with the given name.
func NewJob(name string) Job {
	return Job{Name: name}
}

// Script appends a script step.
func (j *Job) Script(command string) {
	j.Steps = append(j.Steps, Step{Script: command})
}

// Step is a single command line of a job.
type Step struct {
	Script string `json:"script"`
}

// EchoCommand wraps a message into a shell echo invocation.
func EchoCommand(message string) string {
	return `echo "` + message + `"`
}

// Clone returns a deep copy of the pipeline.
func (p *Pipeline) Clone() *Pipeline {
	if p == nil {
		return nil
	}
	out := &Pipeline{Trigger: p.Trigger}
	if p.Pool != nil {
		pool := *p.Pool
		out.Pool = &pool
	}
	if p.Stages != nil {
		out.Stages = make([]Stage, len(p.Stages))
		for i, s := range p.Stages {
			out.Stages[i] = s.clone()
		}
	}
	return out
}

func (s Stage) clone() Stage {
	out := Stage{Name: s.Name}
	if s.Jobs != nil {
		out.Jobs = make([]Job, len(s.Jobs))
		for i, j := range s.Jobs {
			out.Jobs[i] = Job{Name: j.Name}
			if j.Steps != nil {
				out.Jobs[i].Steps = append([]Step(nil), j.Steps...)
			}
		}
	}
	return out
}

// JobCount returns the number of jobs across all stages.
func (p *Pipeline) JobCount() int {
	n := 0
	for _, s := range p.Stages {
		n += len(s.Jobs)
	}
	return n
}
