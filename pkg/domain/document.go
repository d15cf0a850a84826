package domain

import "time"

// Document is a compiled pipeline as kept by a document store.
type Document struct {
	Name       string    `json:"name"`
	Text       string    `json:"text"`
	Pipeline   *Pipeline `json:"pipeline,omitempty"`
	CompiledAt time.Time `json:"compiled_at"`
}
