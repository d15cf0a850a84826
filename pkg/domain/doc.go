/*
Package domain contains the structural entities of a pipeline document.

The entities hold the semantic content only: they know nothing about construction
phases or text rendering. Builders in pkg/dsl and pkg/flat produce them, and
internal/compiler renders them.

# Key Entities

  - Pipeline: trigger, pool and ordered stages.
  - Pool: execution pool name and optional image.
  - Stage: a named, ordered list of jobs.
  - Job: a named unit of work with optional script steps.
  - Document: a compiled pipeline as persisted by a store.
*/
package domain
