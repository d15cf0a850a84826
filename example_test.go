package pipewright_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/pipewright"
	"github.com/aretw0/pipewright/pkg/adapters/memory"
	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/aretw0/pipewright/pkg/dsl"
)

// ExampleEngine_Publish builds a pipeline with the typestate builder and keeps the
// compiled document in an in-memory store.
func ExampleEngine_Publish() {
	p, err := dsl.New().
		Trigger("main").
		Stage("Build").
		Job("Compile").Echo("compiling").Done().
		Build()
	if err != nil {
		log.Fatal(err)
	}

	eng := pipewright.New(memory.NewStore())
	doc, err := eng.Publish(context.Background(), "ci", p)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(doc.Text)
	// Output:
	// trigger: main
	//
	// stages:
	// - stage: Build
	//   jobs:
	//   - job: Compile
	//     steps:
	//     - script: echo "compiling"
}

func ExampleEngine_Graph() {
	eng := pipewright.New(memory.NewStore())
	ctx := context.Background()

	_, err := eng.Publish(ctx, "ci", &domain.Pipeline{
		Stages: []domain.Stage{{Name: "Build", Jobs: []domain.Job{{Name: "Compile"}}}},
	})
	if err != nil {
		log.Fatal(err)
	}

	out, err := eng.Graph(ctx, "ci")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(out)
	// Output:
	// graph TD
	//     stage_0["Build"]
	//     stage_0_job_0[["Compile"]]
	//     stage_0 --> stage_0_job_0
}
