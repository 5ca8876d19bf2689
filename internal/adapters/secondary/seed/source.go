// Package seed loads coordination snapshots from YAML documents, either a
// file on disk or the dataset embedded in the binary.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/lorrc/coordination-backend/internal/core/domain"
	"github.com/lorrc/coordination-backend/internal/core/ports"
	"gopkg.in/yaml.v3"
)

//go:embed default_snapshot.yaml
var defaultSnapshot []byte

// DefaultYAML returns a copy of the embedded default dataset.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultSnapshot...)
}

// Parse decodes a YAML document. Unknown keys are rejected so that typos in
// hand-edited seed files surface immediately.
func Parse(data []byte) (*domain.SnapshotData, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("seed: document is empty")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("seed: decode document: %w", err)
	}

	out, err := doc.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return out, nil
}

// ParseReader reads a YAML document from r.
func ParseReader(r io.Reader) (*domain.SnapshotData, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("seed: read document: %w", err)
	}
	return Parse(content)
}

// Source implements ports.SnapshotSource over a YAML file or the embedded
// default dataset.
type Source struct {
	path string
}

var _ ports.SnapshotSource = (*Source)(nil)

// NewSource returns a source reading path, or the embedded dataset when path
// is empty.
func NewSource(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Name() string {
	if s.path == "" {
		return "seed:embedded"
	}
	return "seed:" + s.path
}

func (s *Source) Load(ctx context.Context) (*domain.SnapshotData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.path == "" {
		return Parse(defaultSnapshot)
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", s.path, err)
	}
	data, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return data, nil
}

// Encode renders snapshot data as a YAML document.
func Encode(w io.Writer, data *domain.SnapshotData) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromDomain(data)); err != nil {
		return fmt.Errorf("seed: encode document: %w", err)
	}
	return enc.Close()
}
