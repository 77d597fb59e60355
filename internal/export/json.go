package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/persistorai/citegraph/internal/models"
)

// JSONWriter writes a full crawl export: every record plus the extracted edges.
type JSONWriter struct {
	Version string
	Indent  bool
}

// Build assembles the export document for snap.
func (j *JSONWriter) Build(snap *models.Snapshot) *models.ExportFormat {
	nodes := make([]models.NodeRecord, 0, snap.Discovered.Len())
	snap.Discovered.Each(func(id models.NodeID, rec *models.NodeRecord) {
		if rec == nil {
			return
		}

		n := *rec
		n.ID = id
		n.Title = cleanText(rec.Title)
		nodes = append(nodes, n)
	})

	pairs := snap.Adjacency.Edges(snap.Discovered.IDs())
	edges := make([]models.ExportEdge, 0, len(pairs))
	for _, e := range pairs {
		edges = append(edges, models.ExportEdge{Source: e.Source, Target: e.Target, Relation: models.RelationCites})
	}

	seeds := snap.Seeds
	if seeds == nil {
		seeds = make([]models.NodeID, 0)
	}

	return &models.ExportFormat{
		SchemaVersion:    models.ExportSchemaVersion,
		CitegraphVersion: j.Version,
		RunID:            snap.RunID,
		ExportedAt:       snap.FinishedAt,
		Seeds:            seeds,
		Stats: models.ExportStats{
			NodeCount: len(nodes),
			EdgeCount: len(edges),
		},
		Nodes: nodes,
		Edges: edges,
	}
}

// Export writes the JSON document to w.
func (j *JSONWriter) Export(w io.Writer, snap *models.Snapshot) error {
	enc := json.NewEncoder(w)
	if j.Indent {
		enc.SetIndent("", "  ")
	}

	if err := enc.Encode(j.Build(snap)); err != nil {
		return fmt.Errorf("encoding json export: %w", err)
	}

	return nil
}
