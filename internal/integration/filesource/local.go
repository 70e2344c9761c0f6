// Package filesource implements file retrieval for ingestion batches.
package filesource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/storeledger/backend/internal/application/adapter"
)

// LocalSource implements the adapter.FileSource interface over a directory on
// disk. Identifiers are file names relative to the configured root; path
// traversal outside the root is rejected.
type LocalSource struct {
	root string
}

// NewLocalSource creates a new local file source rooted at dir.
func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{root: dir}
}

// Fetch reads the named file from the source directory.
func (s *LocalSource) Fetch(ctx context.Context, identifier string) (adapter.SourceFile, error) {
	if err := ctx.Err(); err != nil {
		return adapter.SourceFile{}, err
	}

	cleaned := filepath.Clean(identifier)
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return adapter.SourceFile{}, fmt.Errorf("identifier %q escapes the source directory", identifier)
	}

	path := filepath.Join(s.root, cleaned)
	content, err := os.ReadFile(path)
	if err != nil {
		return adapter.SourceFile{}, fmt.Errorf("failed to read %q: %w", identifier, err)
	}

	return adapter.SourceFile{
		Name:    filepath.Base(cleaned),
		Content: content,
	}, nil
}
