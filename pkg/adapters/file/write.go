package file

import (
	"os"

	"github.com/aretw0/pipewright/pkg/domain"
)

// WriteFile writes a rendered document to path in a single write call, creating
// the file or truncating an existing one. Failures are returned as *domain.IOError
// and are not retried.
func WriteFile(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
