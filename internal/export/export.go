// Package export serialises finished crawls to CSV or JSON.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/persistorai/citegraph/internal/domain"
	"github.com/persistorai/citegraph/internal/models"
)

// ListSeparator joins multi-valued CSV cells.
const ListSeparator = ";"

// Stdout is the output path that writes to standard output instead of a file.
const Stdout = "-"

// New returns the exporter for a format ("csv" or "json") and a CSV layout
// ("edges" or "authors"). The layout is ignored for JSON.
func New(format, layout, version string) (domain.Exporter, error) {
	switch format {
	case "csv":
		w, err := NewCSVWriter(layout)
		if err != nil {
			return nil, err
		}
		return w, nil
	case "json":
		return &JSONWriter{Version: version, Indent: true}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// WriteFile exports snap to path. The file is written to a temporary sibling
// and renamed into place so a failed export never leaves a truncated file.
func WriteFile(path string, exp domain.Exporter, snap *models.Snapshot) (err error) {
	if path == Stdout {
		return exp.Export(os.Stdout, snap)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()           //nolint:errcheck // already failing.
			os.Remove(tmp.Name()) //nolint:errcheck // best-effort cleanup.
		}
	}()

	if err = exp.Export(tmp, snap); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("setting export permissions: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving export into place: %w", err)
	}

	return nil
}

// cleanText collapses line breaks to spaces and trims the result.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	return strings.TrimSpace(s)
}
