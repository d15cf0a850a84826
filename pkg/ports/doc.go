/*
Package ports defines the driven ports (interfaces) for the Pipewright engine.

These interfaces decouple document handling from external implementations, allowing
compiled pipelines to be kept in various storage backends.

# Key Interfaces

  - DocumentStore: Responsible for persisting and loading compiled documents.
  - DistributedLocker: Provides distributed locking for concurrent publishes of the same document.
*/
package ports
