package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/beka-birhanu/vinom-nav/metrics"
)

// MetricsFile keeps the aggregate table in a JSON file keyed by maze then
// algorithm.
type MetricsFile struct {
	path string
}

var _ metrics.Store = (*MetricsFile)(nil)

// NewMetricsFile creates a store backed by path. The file is created on the
// first Save.
func NewMetricsFile(path string) *MetricsFile {
	return &MetricsFile{path: path}
}

// Load reads the table. A missing or malformed file is an error.
func (f *MetricsFile) Load(_ context.Context) (metrics.Table, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading metrics file: %w", err)
	}

	table := make(metrics.Table)
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("decoding metrics file %s: %w", f.path, err)
	}
	return table, nil
}

// Save rewrites the file through a temporary sibling so readers never see a
// partial table.
func (f *MetricsFile) Save(_ context.Context, t metrics.Table) error {
	raw, err := json.MarshalIndent(t, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding metrics: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating metrics dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing metrics file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return os.Rename(tmp.Name(), f.path)
}
