// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
)

// SourceFile is the raw content delivered by a file source. The engine only
// ever sees already-resolved bytes; transport, auth and retry concerns live
// behind the FileSource implementation.
type SourceFile struct {
	Name    string
	Content []byte
}

// FileSource delivers raw file content by identifier (a path, an upload key,
// a remote document id, implementation-defined).
type FileSource interface {
	// Fetch resolves an identifier to file content. A delivery failure is
	// reported as ErrSourceUnavailable; the engine does not retry.
	Fetch(ctx context.Context, identifier string) (SourceFile, error)
}
