package dto

import (
	"reflect"

	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// PipelineDefinition is the decoded form of a pipeline definition file.
// It uses "mapstructure" tags matching the keys the compiler emits, plus the
// Azure-style "vmImage" alias for the pool image.
type PipelineDefinition struct {
	Trigger string            `json:"trigger" mapstructure:"trigger"`
	Pool    *PoolDefinition   `json:"pool" mapstructure:"pool"`
	Stages  []StageDefinition `json:"stages" mapstructure:"stages"`
}

type PoolDefinition struct {
	Name    string `json:"name" mapstructure:"name"`
	Image   string `json:"image" mapstructure:"image"`
	VMImage string `json:"vmImage" mapstructure:"vmImage"`
}

type StageDefinition struct {
	Stage string          `json:"stage" mapstructure:"stage"`
	Jobs  []JobDefinition `json:"jobs" mapstructure:"jobs"`
}

type JobDefinition struct {
	Job   string           `json:"job" mapstructure:"job"`
	Steps []StepDefinition `json:"steps" mapstructure:"steps"`
}

type StepDefinition struct {
	Script string `json:"script" mapstructure:"script"`
}

var (
	poolType = reflect.TypeOf(PoolDefinition{})
	stepType = reflect.TypeOf(StepDefinition{})
)

// shorthandHook expands the scalar shorthands: "pool: name" and "- command" steps.
func shorthandHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to {
	case poolType:
		return map[string]any{"name": data}, nil
	case stepType:
		return map[string]any{"script": data}, nil
	}
	return data, nil
}

// Decode maps a generic document (as produced by a YAML decoder) onto a definition.
// Unknown keys are rejected; scalar values are weakly converted to strings so that
// names such as "2024" survive YAML typing.
func Decode(raw map[string]any) (*PipelineDefinition, error) {
	var def PipelineDefinition
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       shorthandHook,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &def,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}
	return &def, nil
}

// ToDomain converts the definition into domain entities.
func (d *PipelineDefinition) ToDomain() *domain.Pipeline {
	p := &domain.Pipeline{Trigger: d.Trigger}
	if d.Pool != nil {
		p.Pool = domain.NewPool(d.Pool.Name)
		image := d.Pool.Image
		if image == "" {
			image = d.Pool.VMImage
		}
		p.Pool.Image(image)
	}
	for _, sd := range d.Stages {
		stage := domain.NewStage(sd.Stage)
		for _, jd := range sd.Jobs {
			job := domain.NewJob(jd.Job)
			for _, st := range jd.Steps {
				job.Script(st.Script)
			}
			stage.AddJob(job)
		}
		p.Stages = append(p.Stages, *stage)
	}
	return p
}
