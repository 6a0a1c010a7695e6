// Package export writes trivia documents to the per-operator directory
// layout used by the original extraction tooling: <dir>/<name>/Trivia.json.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arkdex/arkdex/backend/go-services/internal/trivia"
)

// Exporter writes documents beneath a base directory.
type Exporter struct {
	dir string
}

func New(dir string) *Exporter {
	if dir == "" {
		dir = "files"
	}
	return &Exporter{dir: dir}
}

// Write persists the document as pretty-printed JSON and returns the path.
func (e *Exporter) Write(doc *trivia.Document) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}

	opDir := filepath.Join(e.dir, sanitize(doc.Name))
	if err := os.MkdirAll(opDir, 0o755); err != nil {
		return "", fmt.Errorf("export: create %s: %w", opDir, err)
	}

	data, err := doc.EncodeIndent()
	if err != nil {
		return "", err
	}

	path := filepath.Join(opDir, "Trivia.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}

// Read loads a previously exported document.
func (e *Exporter) Read(name string) (*trivia.Document, error) {
	path := filepath.Join(e.dir, sanitize(name), "Trivia.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export: read %s: %w", path, err)
	}
	return trivia.Decode(data)
}

// sanitize keeps operator names from escaping the export directory.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	return strings.ReplaceAll(name, string(filepath.Separator), "_")
}
