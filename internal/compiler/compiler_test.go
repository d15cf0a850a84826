package compiler_test

import (
	"strings"
	"testing"

	"github.com/aretw0/pipewright/internal/compiler"
	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioPipeline() *domain.Pipeline {
	pool := domain.NewPool("p1")
	pool.Image("ubuntu:latest")
	stage := domain.NewStage("Build")
	stage.AddJob(domain.NewJob("Compile"))
	return &domain.Pipeline{
		Trigger: "main",
		Pool:    pool,
		Stages:  []domain.Stage{*stage},
	}
}

func TestCompile_FullDocument(t *testing.T) {
	want := `trigger: main

pool:
  name: p1
  image: ubuntu:latest

stages:
- stage: Build
  jobs:
  - job: Compile
`
	got, err := compiler.Compile(scenarioPipeline())
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_OptionalFieldsOmitted(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(p *domain.Pipeline)
		absent     []string
		wantPrefix string
	}{
		{
			name:       "no trigger",
			mutate:     func(p *domain.Pipeline) { p.Trigger = "" },
			absent:     []string{"trigger:"},
			wantPrefix: "pool:\n",
		},
		{
			name:       "no pool",
			mutate:     func(p *domain.Pipeline) { p.Pool = nil },
			absent:     []string{"pool:", "name: p1", "image:"},
			wantPrefix: "trigger: main\n\nstages:\n",
		},
		{
			name:       "no image",
			mutate:     func(p *domain.Pipeline) { p.Pool.ImageName = "" },
			absent:     []string{"image:"},
			wantPrefix: "trigger: main\n\npool:\n  name: p1\n\nstages:\n",
		},
		{
			name: "nothing optional",
			mutate: func(p *domain.Pipeline) {
				p.Trigger = ""
				p.Pool = nil
			},
			absent:     []string{"trigger:", "pool:"},
			wantPrefix: "stages:\n- stage: Build\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := scenarioPipeline()
			tt.mutate(p)

			got, err := compiler.Compile(p)
			require.NoError(t, err)
			for _, s := range tt.absent {
				assert.NotContains(t, got, s)
			}
			assert.True(t, strings.HasPrefix(got, tt.wantPrefix), "got:\n%s", got)
		})
	}
}

func TestCompile_EmptyPipeline(t *testing.T) {
	got, err := compiler.Compile(&domain.Pipeline{})
	require.NoError(t, err)
	assert.Equal(t, "stages:\n", got)
}

func TestCompile_OrderPreserved(t *testing.T) {
	p := &domain.Pipeline{}
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		s := domain.NewStage(name)
		for _, j := range []string{"c", "a", "b", "a"} {
			s.AddJob(domain.NewJob(name + "-" + j))
		}
		p.Stages = append(p.Stages, *s)
	}

	got, err := compiler.Compile(p)
	require.NoError(t, err)

	var order []string
	for _, line := range strings.Split(got, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "- stage: "); ok {
			order = append(order, v)
		}
		if v, ok := strings.CutPrefix(line, "- job: "); ok {
			order = append(order, v)
		}
	}
	want := []string{
		"Zeta", "Zeta-c", "Zeta-a", "Zeta-b", "Zeta-a",
		"Alpha", "Alpha-c", "Alpha-a", "Alpha-b", "Alpha-a",
		"Mid", "Mid-c", "Mid-a", "Mid-b", "Mid-a",
	}
	assert.Equal(t, want, order)
	assert.NotContains(t, got, "\n\n- stage", "stages are not separated by blank lines")
}

func TestCompile_Deterministic(t *testing.T) {
	first, err := compiler.Compile(scenarioPipeline())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := compiler.Compile(scenarioPipeline())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCompile_JobSteps(t *testing.T) {
	job := domain.NewJob("Compile")
	job.Script("go build ./...")
	job.Script(domain.EchoCommand("done"))
	stage := domain.NewStage("Build")
	stage.AddJob(job)
	stage.AddJob(domain.NewJob("Test"))

	got, err := compiler.Compile(&domain.Pipeline{Stages: []domain.Stage{*stage}})
	require.NoError(t, err)

	want := `stages:
- stage: Build
  jobs:
  - job: Compile
    steps:
    - script: go build ./...
    - script: echo "done"
  - job: Test
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_IncompleteDocument(t *testing.T) {
	tests := []struct {
		name string
		p    *domain.Pipeline
	}{
		{name: "nil pipeline", p: nil},
		{name: "stage without jobs", p: &domain.Pipeline{Stages: []domain.Stage{{Name: "Empty"}}}},
		{name: "unnamed stage", p: &domain.Pipeline{Stages: []domain.Stage{{Jobs: []domain.Job{{Name: "a"}}}}}},
		{name: "unnamed job", p: &domain.Pipeline{Stages: []domain.Stage{{Name: "S", Jobs: []domain.Job{{}}}}}},
		{name: "unnamed pool", p: &domain.Pipeline{Pool: &domain.Pool{ImageName: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compiler.Compile(tt.p)
			assert.ErrorIs(t, err, domain.ErrIncompleteDocument)
			assert.Empty(t, got)
		})
	}
}
