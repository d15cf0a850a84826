package compiler_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/pipewright/internal/compiler"
	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	job := domain.NewJob("Compile")
	job.Script("go build ./...")
	stage := domain.NewStage("Build")
	stage.AddJob(job)
	stage.AddJob(domain.NewJob("Test"))
	deploy := domain.NewStage("Deploy")
	deploy.AddJob(domain.NewJob("Apply DB Migrations"))

	orig := scenarioPipeline()
	orig.Stages = []domain.Stage{*stage, *deploy}

	text, err := compiler.Compile(orig)
	require.NoError(t, err)

	parsed, err := compiler.Parse([]byte(text))
	require.NoError(t, err)

	if diff := cmp.Diff(orig, parsed); diff != "" {
		t.Errorf("Parse(Compile(p)) mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_KeepsScalarText(t *testing.T) {
	orig := &domain.Pipeline{
		Trigger: "true",
		Pool:    &domain.Pool{Name: "007", ImageName: "1e3"},
		Stages: []domain.Stage{
			{Name: "1.50", Jobs: []domain.Job{
				{Name: "0x10", Steps: []domain.Step{{Script: "no"}, {Script: "1_000"}}},
			}},
		},
	}

	text, err := compiler.Compile(orig)
	require.NoError(t, err)

	parsed, err := compiler.Parse([]byte(text))
	require.NoError(t, err)

	if diff := cmp.Diff(orig, parsed); diff != "" {
		t.Errorf("Parse(Compile(p)) mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_UnquotedValueLimits(t *testing.T) {
	job := domain.NewJob("Lint")
	job.Script("golangci-lint run # all linters")
	stage := domain.NewStage("Check")
	stage.AddJob(job)
	p := scenarioPipeline()
	p.Stages = []domain.Stage{*stage}

	text, err := compiler.Compile(p)
	require.NoError(t, err)
	parsed, err := compiler.Parse([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, "golangci-lint run", parsed.Stages[0].Jobs[0].Steps[0].Script)

	job = domain.NewJob("Echo")
	job.Script("echo key: value")
	stage = domain.NewStage("Check")
	stage.AddJob(job)
	p.Stages = []domain.Stage{*stage}

	text, err = compiler.Compile(p)
	require.NoError(t, err)
	_, err = compiler.Parse([]byte(text))
	assert.Error(t, err)
}

func TestParse_DuplicateKey(t *testing.T) {
	_, err := compiler.Parse([]byte("trigger: main\ntrigger: dev\n"))
	assert.Error(t, err)
}

func TestParse_Shorthands(t *testing.T) {
	src := `
trigger: 2024
pool: linux
stages:
- stage: Build
  jobs:
  - job: Compile
    steps:
    - make
    - script: make test
`
	p, err := compiler.Parse([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, "2024", p.Trigger)
	require.NotNil(t, p.Pool)
	assert.Equal(t, "linux", p.Pool.Name)
	assert.Empty(t, p.Pool.ImageName)
	require.Len(t, p.Stages, 1)
	require.Len(t, p.Stages[0].Jobs, 1)
	assert.Equal(t, []domain.Step{{Script: "make"}, {Script: "make test"}}, p.Stages[0].Jobs[0].Steps)
}

func TestParse_VMImageAlias(t *testing.T) {
	src := `
pool:
  name: hosted
  vmImage: ubuntu-latest
stages: []
`
	p, err := compiler.Parse([]byte(src))
	require.NoError(t, err)
	require.NotNil(t, p.Pool)
	assert.Equal(t, "ubuntu-latest", p.Pool.ImageName)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "invalid yaml", src: "stages: [\n"},
		{name: "unknown key", src: "trigger: main\nvariables: {}\n"},
		{name: "empty", src: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.Parse([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestParseHCL(t *testing.T) {
	src := `
trigger = "main"

pool "p1" {
  image = "ubuntu:latest"
}

stage "Build" {
  job "Compile" {
    steps = ["go build ./...", "go vet ./..."]
  }
  job "Test" {}
}

stage "Release" {
  job "Tag" {}
}
`
	p, err := compiler.ParseHCL([]byte(src), "pipeline.hcl")
	require.NoError(t, err)

	want := &domain.Pipeline{
		Trigger: "main",
		Pool:    &domain.Pool{Name: "p1", ImageName: "ubuntu:latest"},
		Stages: []domain.Stage{
			{Name: "Build", Jobs: []domain.Job{
				{Name: "Compile", Steps: []domain.Step{{Script: "go build ./..."}, {Script: "go vet ./..."}}},
				{Name: "Test"},
			}},
			{Name: "Release", Jobs: []domain.Job{{Name: "Tag"}}},
		},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("ParseHCL() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHCL_Errors(t *testing.T) {
	_, err := compiler.ParseHCL([]byte(`stage {`), "broken.hcl")
	assert.Error(t, err)

	_, err = compiler.ParseHCL([]byte(`unknown = 1`), "unknown.hcl")
	assert.Error(t, err)
}

func TestLoad_ByExtension(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "pipeline.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("trigger: main\nstages: []\n"), 0644))
	hclPath := filepath.Join(dir, "pipeline.hcl")
	require.NoError(t, os.WriteFile(hclPath, []byte(`trigger = "dev"`), 0644))

	p, err := compiler.Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "main", p.Trigger)

	p, err = compiler.Load(hclPath)
	require.NoError(t, err)
	assert.Equal(t, "dev", p.Trigger)

	_, err = compiler.Load(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}

func TestLoad_ExampleDefinitionsAgree(t *testing.T) {
	fromYAML, err := compiler.Load(filepath.Join("..", "..", "examples", "definitions", "azure-pipelines.yml"))
	require.NoError(t, err)
	fromHCL, err := compiler.Load(filepath.Join("..", "..", "examples", "definitions", "azure-pipelines.hcl"))
	require.NoError(t, err)

	if diff := cmp.Diff(fromYAML, fromHCL); diff != "" {
		t.Errorf("YAML and HCL definitions differ (-yaml +hcl):\n%s", diff)
	}

	text, err := compiler.Compile(fromHCL)
	require.NoError(t, err)
	assert.Contains(t, text, "    - script: git tag v$(cat VERSION)\n")
}
