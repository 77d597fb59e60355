package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/persistorai/citegraph/internal/models"
)

// CSV layouts.
const (
	// LayoutEdges writes references and citations from the adjacency index,
	// so only edges inside the discovered set appear.
	LayoutEdges = "edges"

	// LayoutAuthors adds an authors column and writes the raw reference and
	// citation lists of each record, including papers outside the crawl.
	LayoutAuthors = "authors"
)

const unknownAuthor = "Unknown"

// CSVWriter writes one row per discovered paper, in discovery order.
type CSVWriter struct {
	layout string
}

// NewCSVWriter creates a CSVWriter for the given layout.
func NewCSVWriter(layout string) (*CSVWriter, error) {
	switch layout {
	case LayoutEdges, LayoutAuthors:
		return &CSVWriter{layout: layout}, nil
	default:
		return nil, fmt.Errorf("unknown CSV layout %q", layout)
	}
}

// Header returns the column names for the writer's layout.
func (c *CSVWriter) Header() []string {
	if c.layout == LayoutAuthors {
		return []string{"paperId", "title", "authors", "references", "citations"}
	}

	return []string{"paperId", "title", "references", "citations"}
}

// Export writes the header and one row per paper. An empty crawl yields a header-only file.
func (c *CSVWriter) Export(w io.Writer, snap *models.Snapshot) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(c.Header()); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	var rowErr error

	snap.Discovered.Each(func(id models.NodeID, rec *models.NodeRecord) {
		if rowErr != nil || rec == nil {
			return
		}

		if err := cw.Write(c.row(id, rec, snap.Adjacency)); err != nil {
			rowErr = fmt.Errorf("writing csv row %s: %w", id, err)
		}
	})

	if rowErr != nil {
		return rowErr
	}

	cw.Flush()

	return cw.Error()
}

func (c *CSVWriter) row(id models.NodeID, rec *models.NodeRecord, adj *models.AdjacencyIndex) []string {
	title := cleanText(rec.Title)

	if c.layout == LayoutAuthors {
		return []string{
			id,
			title,
			joinAuthors(rec.Authors),
			joinIDs(rec.References),
			joinIDs(rec.Citations),
		}
	}

	return []string{
		id,
		title,
		strings.Join(adj.OutEdges(id), ListSeparator),
		strings.Join(adj.InEdges(id), ListSeparator),
	}
}

func joinIDs(ids []models.NodeID) string {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			kept = append(kept, id)
		}
	}

	return strings.Join(kept, ListSeparator)
}

func joinAuthors(authors []models.Author) string {
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		if a.ID == "" {
			continue
		}

		name := cleanText(a.Name)
		if name == "" {
			name = unknownAuthor
		}

		parts = append(parts, a.ID+":"+name)
	}

	return strings.Join(parts, ListSeparator)
}
