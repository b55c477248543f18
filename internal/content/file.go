package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/portfolio-assistant/internal/schemas"
)

// FileSource serves a snapshot loaded from a JSON file. Used for local
// development and tests where no CMS is reachable.
type FileSource struct {
	path string
	snap *Snapshot
}

// NewFileSource loads, schema-validates, and normalizes a snapshot file.
func NewFileSource(path string) (*FileSource, error) {
	fs := &FileSource{path: path}
	if _, err := fs.Refresh(context.Background()); err != nil {
		return nil, err
	}
	return fs, nil
}

// Snapshot returns the loaded snapshot.
func (f *FileSource) Snapshot(_ context.Context) (*Snapshot, error) {
	return f.snap, nil
}

// Refresh re-reads the snapshot file.
func (f *FileSource) Refresh(_ context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file %s: %w", f.path, err)
	}

	if err := schemas.ValidateSnapshot(data); err != nil {
		return nil, fmt.Errorf("snapshot file %s: %w", f.path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file %s: %w", f.path, err)
	}

	snap.Normalize()
	sanitizeSnapshot(&snap)
	f.snap = &snap
	return f.snap, nil
}
