package filesource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/storeledger/backend/internal/application/adapter"
)

var _ adapter.FileSource = (*LocalSource)(nil)

func TestLocalSourceFetch(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sales.csv"), []byte("Date,Sales\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	source := NewLocalSource(dir)

	file, err := source.Fetch(context.Background(), "sales.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Name != "sales.csv" || string(file.Content) != "Date,Sales\n" {
		t.Errorf("unexpected file %+v", file)
	}

	if _, err := source.Fetch(context.Background(), "missing.csv"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLocalSourceRejectsTraversal(t *testing.T) {
	source := NewLocalSource(t.TempDir())

	for _, identifier := range []string{"../etc/passwd", "/etc/passwd", "a/../../b"} {
		if _, err := source.Fetch(context.Background(), identifier); err == nil {
			t.Errorf("identifier %q must be rejected", identifier)
		}
	}
}
