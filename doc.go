/*
Package pipewright builds CI pipeline documents in Azure-Pipelines-like YAML.

Documents are composed with a typestate builder: the Global, Stage and Job phases are
distinct Go types, so calls that are illegal in a phase do not compile. Two builder
variants are provided.

  - pkg/dsl: the richer builder. Stages hold named jobs (optionally with script steps)
    and the document is rendered at the end by Compile.
  - pkg/flat: the flat builder. Text is emitted as calls are made and jobs are a flat
    list of step lines.

# Usage

	text, err := dsl.New().
		Trigger("main").
		Pool("linux", func(p *domain.Pool) { p.Image("ubuntu-latest") }).
		Stage("Build").
		Job("Compile").Script("make").Done().
		Compile()

# Publishing

The Engine in this package stores compiled documents in a ports.DocumentStore
(memory, file, redis or sqlite) and exposes them to the CLI, the HTTP API and the MCP
server.

	eng := pipewright.New(memory.NewStore())
	doc, err := eng.Publish(ctx, "ci", pipeline)
*/
package pipewright
