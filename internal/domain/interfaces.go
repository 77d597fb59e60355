// Package domain defines the interfaces shared between the crawl engine,
// the service layer and the CLI. Consumers should depend on these interfaces
// rather than re-declaring equivalent ones.
package domain

import (
	"context"
	"io"

	"github.com/persistorai/citegraph/internal/models"
)

// Fetcher resolves a single paper.
// A non-nil error or a nil record means the paper is unavailable for this run.
type Fetcher interface {
	Fetch(ctx context.Context, id models.NodeID) (*models.NodeRecord, error)
}

// Traverser explores the citation graph from a set of seeds up to a node cap.
type Traverser interface {
	Traverse(ctx context.Context, seeds []models.NodeID, nodeCap int) (*models.DiscoveredSet, error)
}

// Exporter serialises a crawl result.
type Exporter interface {
	Export(w io.Writer, snap *models.Snapshot) error
}
