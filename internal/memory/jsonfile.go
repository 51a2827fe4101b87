package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/companionkit/mira/internal/retry"
)

// JSONFile persists records as one flat JSON array, rewritten whole on every
// append (read-modify-write, not an append log). This matches the documented
// persistence layout and is safe for the intended single-writer deployment;
// concurrent writers need the SQLite store instead.
type JSONFile struct {
	path  string
	retry retry.Config
}

// NewJSONFile creates a store backed by the given file path. The file is
// created on first append; a missing file reads as an empty record set.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path, retry: retry.DefaultConfig}
}

// Append loads the full record set, appends a new record, and writes the set
// back. Transient write failures are retried with backoff before the error
// is reported.
func (j *JSONFile) Append(ctx context.Context, question, answer string) error {
	records, err := j.LoadAll(ctx)
	if err != nil {
		return err
	}
	records = append(records, newRecord(question, answer))

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("memory: encode records: %w", err)
	}

	return retry.Do(ctx, j.retry, func() error {
		if dir := filepath.Dir(j.path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("memory: create dir: %w", err)
			}
		}
		if err := os.WriteFile(j.path, data, 0o644); err != nil {
			return fmt.Errorf("memory: write %s: %w", j.path, err)
		}
		return nil
	})
}

// LoadAll returns every persisted record in storage order.
func (j *JSONFile) LoadAll(_ context.Context) ([]Record, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("memory: read %s: %w", j.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("memory: decode %s: %w", j.path, err)
	}
	return records, nil
}

// Close is a no-op; the file is not held open between operations.
func (j *JSONFile) Close() error { return nil }
