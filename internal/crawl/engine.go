// Package crawl implements the capped breadth-first exploration of the citation graph.
package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/domain"
	"github.com/persistorai/citegraph/internal/metrics"
	"github.com/persistorai/citegraph/internal/models"
)

// Compile-time check: *Engine must satisfy domain.Traverser.
var _ domain.Traverser = (*Engine)(nil)

// Options configures traversal hooks. Hooks observe the run; they never change
// which papers are fetched or enqueued.
type Options struct {
	// OnEnqueue is called after id is appended to the frontier.
	OnEnqueue func(id models.NodeID)

	// OnFetch is called just before the fetcher is invoked for id.
	OnFetch func(id models.NodeID)

	// OnDiscover is called after rec is inserted into the discovered set.
	OnDiscover func(id models.NodeID, rec *models.NodeRecord)

	// OnUnavailable is called when the fetcher could not resolve id.
	OnUnavailable func(id models.NodeID, err error)
}

// Engine drives the frontier traversal. It is single-threaded: each fetch
// blocks until the fetcher returns. An Engine may be reused for several runs
// but must not be shared between concurrent Traverse calls.
type Engine struct {
	fetcher domain.Fetcher
	log     *logrus.Logger
	opts    Options
}

// NewEngine creates an Engine. opts may be nil.
func NewEngine(fetcher domain.Fetcher, log *logrus.Logger, opts *Options) *Engine {
	e := &Engine{fetcher: fetcher, log: log}
	if opts != nil {
		e.opts = *opts
	}

	return e
}

// traverseStats counts what happened during one Traverse call.
type traverseStats struct {
	popped      int
	duplicates  int
	unavailable int
	enqueued    int
}

// Traverse explores the graph breadth-first from seeds until the frontier is
// exhausted or nodeCap papers have been discovered.
//
// Seeds are queued in the given order without deduplication. Unavailable
// papers are skipped silently. A paper may be queued several times before it
// is popped; repeats are dropped when they reach the head. Once the cap is
// reached while expanding a paper, its remaining references and citations are
// not queued.
//
// ctx is forwarded to the fetcher only; the loop itself is not cancellable.
func (e *Engine) Traverse(ctx context.Context, seeds []models.NodeID, nodeCap int) (*models.DiscoveredSet, error) {
	if nodeCap < 1 {
		return nil, fmt.Errorf("traverse: %w (got %d)", models.ErrInvalidNodeCap, nodeCap)
	}

	started := time.Now()
	discovered := models.NewDiscoveredSet()
	queue := newFrontier(seeds)

	var stats traverseStats

	metrics.DiscoveredNodes.Set(0)
	metrics.FrontierDepth.Set(float64(queue.Len()))

	for queue.Len() > 0 && discovered.Len() < nodeCap {
		id := queue.pop()
		stats.popped++

		if discovered.Has(id) {
			stats.duplicates++
			metrics.PapersTotal.WithLabelValues(metrics.OutcomeDuplicate).Inc()
			continue
		}

		rec, err := e.fetch(ctx, id)
		if err != nil {
			stats.unavailable++
			metrics.PapersTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
			e.log.WithFields(logrus.Fields{
				"paper_id": id,
				"error":    err.Error(),
			}).Warn("crawl.unavailable")

			if e.opts.OnUnavailable != nil {
				e.opts.OnUnavailable(id, err)
			}

			continue
		}

		discovered.Add(id, rec)
		metrics.PapersTotal.WithLabelValues(metrics.OutcomeDiscovered).Inc()
		metrics.DiscoveredNodes.Set(float64(discovered.Len()))

		if e.opts.OnDiscover != nil {
			e.opts.OnDiscover(id, rec)
		}

		stats.enqueued += e.expand(queue, discovered, rec, nodeCap)
		metrics.FrontierDepth.Set(float64(queue.Len()))

		e.log.WithFields(logrus.Fields{
			"paper_id":   id,
			"discovered": discovered.Len(),
			"queued":     queue.Len(),
		}).Info("crawl.fetched")
	}

	e.log.WithFields(logrus.Fields{
		"discovered":  discovered.Len(),
		"popped":      stats.popped,
		"duplicates":  stats.duplicates,
		"unavailable": stats.unavailable,
		"enqueued":    stats.enqueued,
		"remaining":   queue.Len(),
		"duration_ms": time.Since(started).Milliseconds(),
	}).Info("crawl.finished")

	return discovered, nil
}

// fetch resolves id, normalising a nil record into ErrFetchUnavailable.
func (e *Engine) fetch(ctx context.Context, id models.NodeID) (*models.NodeRecord, error) {
	if e.opts.OnFetch != nil {
		e.opts.OnFetch(id)
	}

	rec, err := e.fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec == nil {
		return nil, fmt.Errorf("%w: empty record for %s", models.ErrFetchUnavailable, id)
	}

	return rec, nil
}

// expand queues the references, then the citations, of rec. Each candidate is
// checked against the discovered set and the cap at the moment it is seen.
// It returns the number of IDs queued.
func (e *Engine) expand(queue *frontier, discovered *models.DiscoveredSet, rec *models.NodeRecord, nodeCap int) int {
	n := 0

	for _, list := range [][]models.NodeID{rec.References, rec.Citations} {
		for _, next := range list {
			if next == "" || discovered.Has(next) || discovered.Len() >= nodeCap {
				continue
			}

			queue.push(next)
			n++
			metrics.EnqueuedTotal.Inc()

			if e.opts.OnEnqueue != nil {
				e.opts.OnEnqueue(next)
			}
		}
	}

	return n
}
