/*
Package dsl provides a typestate builder for CI pipeline documents.

Every construction phase is its own Go type, and each type only has the methods
that are legal in that phase. Calling Job before a Stage is open, or Compile while
a Job is still open, does not compile:

	Global --Trigger/Pool--> Global
	Global --Stage--> Stage --AddJob--> Stage
	Stage --Job--> Job --Script/Echo--> Job --Done--> Stage
	Stage --Done--> Global
	Global, Stage --Compile/Build/WriteToFile--> done

Transitions move the document into the returned value. The value a transition was
called on is consumed: anything done to it afterwards is discarded and its terminal
operations return domain.ErrConsumed.

Example usage:

	out, err := dsl.New().
		Trigger("main").
		Pool("p1", func(p *domain.Pool) { p.Image("ubuntu:latest") }).
		Stage("Build", func(s *domain.Stage) { s.AddJob(domain.NewJob("Compile")) }).
		Compile()

A stage is appended to the document when its phase is left, so jobs can be added
either in the configure callbacks passed to Stage or through Stage.AddJob and
Stage.Job afterwards.
*/
package dsl
