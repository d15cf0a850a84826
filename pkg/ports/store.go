package ports

import (
	"context"

	"github.com/aretw0/pipewright/pkg/domain"
)

// DocumentStore defines the interface for persisting compiled pipeline documents.
type DocumentStore interface {
	// Save persists the document under the given name, replacing any previous version.
	Save(ctx context.Context, name string, doc *domain.Document) error

	// Load retrieves the document stored under name.
	// Returns domain.ErrDocumentNotFound if the document does not exist.
	Load(ctx context.Context, name string) (*domain.Document, error)

	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored documents.
	List(ctx context.Context) ([]string, error)
}
