// Package compiler renders pipeline entities into document text and loads pipeline
// definitions back from YAML or HCL source.
package compiler
