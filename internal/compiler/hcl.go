package compiler

import (
	"fmt"

	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclFile is the HCL shape of a definition:
//
//	trigger = "main"
//
//	pool "p1" {
//	  image = "ubuntu:latest"
//	}
//
//	stage "Build" {
//	  job "Compile" {
//	    steps = ["go build ./..."]
//	  }
//	}
type hclFile struct {
	Trigger *string    `hcl:"trigger,optional"`
	Pool    *hclPool   `hcl:"pool,block"`
	Stages  []hclStage `hcl:"stage,block"`
}

type hclPool struct {
	Name  string  `hcl:"name,label"`
	Image *string `hcl:"image,optional"`
}

type hclStage struct {
	Name string   `hcl:"name,label"`
	Jobs []hclJob `hcl:"job,block"`
}

type hclJob struct {
	Name  string   `hcl:"name,label"`
	Steps []string `hcl:"steps,optional"`
}

// ParseHCL decodes an HCL pipeline definition. filename is used in diagnostics only.
func ParseHCL(data []byte, filename string) (*domain.Pipeline, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse definition: %w", diags)
	}

	var def hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &def); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode definition: %w", diags)
	}

	p := &domain.Pipeline{}
	if def.Trigger != nil {
		p.Trigger = *def.Trigger
	}
	if def.Pool != nil {
		p.Pool = domain.NewPool(def.Pool.Name)
		if def.Pool.Image != nil {
			p.Pool.Image(*def.Pool.Image)
		}
	}
	for _, hs := range def.Stages {
		stage := domain.NewStage(hs.Name)
		for _, hj := range hs.Jobs {
			job := domain.NewJob(hj.Name)
			for _, cmd := range hj.Steps {
				job.Script(cmd)
			}
			stage.AddJob(job)
		}
		p.Stages = append(p.Stages, *stage)
	}
	return p, nil
}
