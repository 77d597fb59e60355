package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/domain"
	"github.com/persistorai/citegraph/internal/graph"
	"github.com/persistorai/citegraph/internal/metrics"
	"github.com/persistorai/citegraph/internal/models"
)

// CrawlService runs a traversal and derives its adjacency index.
type CrawlService struct {
	traverser domain.Traverser
	log       *logrus.Logger
	progress  *Progress
	now       func() time.Time
}

// NewCrawlService creates a CrawlService.
func NewCrawlService(traverser domain.Traverser, log *logrus.Logger) *CrawlService {
	return &CrawlService{traverser: traverser, log: log, now: time.Now}
}

// WithProgress reports run start and completion to p. The engine's hooks
// must be wired to the same tracker separately.
func (s *CrawlService) WithProgress(p *Progress) *CrawlService {
	s.progress = p
	return s
}

// Run explores the graph from seeds and returns the finished snapshot.
// Only invalid input fails a run; unavailable papers reduce coverage instead.
func (s *CrawlService) Run(ctx context.Context, seeds []models.NodeID, maxNodes int) (*models.Snapshot, error) {
	runID := uuid.NewString()
	log := s.log.WithField("run_id", runID)

	log.WithFields(logrus.Fields{
		"seeds":     len(seeds),
		"max_nodes": maxNodes,
	}).Info("crawl.start")

	if s.progress != nil {
		s.progress.start(runID, len(seeds), maxNodes)
	}

	discovered, err := s.traverser.Traverse(ctx, seeds, maxNodes)
	if err != nil {
		if s.progress != nil {
			s.progress.finish(0)
		}
		return nil, fmt.Errorf("crawl %s: %w", runID, err)
	}

	adjacency := graph.ExtractEdges(discovered)
	metrics.EdgeCount.Set(float64(adjacency.EdgeCount()))

	if s.progress != nil {
		s.progress.finish(adjacency.EdgeCount())
	}

	log.WithFields(logrus.Fields{
		"nodes": discovered.Len(),
		"edges": adjacency.EdgeCount(),
	}).Info("crawl.complete")

	seedsCopy := make([]models.NodeID, len(seeds))
	copy(seedsCopy, seeds)

	return &models.Snapshot{
		RunID:      runID,
		Seeds:      seedsCopy,
		Discovered: discovered,
		Adjacency:  adjacency,
		FinishedAt: s.now().UTC(),
	}, nil
}
