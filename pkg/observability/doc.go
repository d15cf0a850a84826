/*
Package observability provides Prometheus instrumentation for document compilation
and publishing.

Metrics are registered on a caller-supplied registry so tests and embedders can keep
them isolated from the global default registry.
*/
package observability
