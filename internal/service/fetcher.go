// Package service wires the HTTP client, the crawl engine and the edge extractor
// into a single crawl run.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/client"
	"github.com/persistorai/citegraph/internal/domain"
	"github.com/persistorai/citegraph/internal/metrics"
	"github.com/persistorai/citegraph/internal/models"
)

// PaperGetter is the client surface PaperFetcher consumes.
// Defined at the consumer so tests can substitute it.
type PaperGetter interface {
	Get(ctx context.Context, id string, fields []string) (*client.Paper, error)
}

// Compile-time check: *PaperFetcher must satisfy domain.Fetcher.
var _ domain.Fetcher = (*PaperFetcher)(nil)

// PaperFetcher adapts the Graph API client to domain.Fetcher.
type PaperFetcher struct {
	papers PaperGetter
	fields []string
	log    *logrus.Logger
}

// NewPaperFetcher creates a PaperFetcher requesting the given fields.
func NewPaperFetcher(papers PaperGetter, fields []string, log *logrus.Logger) *PaperFetcher {
	return &PaperFetcher{papers: papers, fields: fields, log: log}
}

// Fetch retrieves id and converts it into a NodeRecord keyed by id.
// Every failure is wrapped in models.ErrFetchUnavailable.
func (f *PaperFetcher) Fetch(ctx context.Context, id models.NodeID) (*models.NodeRecord, error) {
	start := time.Now()
	p, err := f.papers.Get(ctx, id, f.fields)
	metrics.FetchDuration.WithLabelValues(fetchStatus(err)).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrFetchUnavailable, id, err)
	}

	if p.IsEmpty() {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrFetchUnavailable, id, client.ErrEmptyResponse)
	}

	return f.toRecord(id, p), nil
}

// toRecord copies p into a NodeRecord, dropping list entries without an identifier.
func (f *PaperFetcher) toRecord(id models.NodeID, p *client.Paper) *models.NodeRecord {
	rec := models.NewNodeRecord(id, p.Title)

	var droppedRefs, droppedCits, droppedAuthors int

	for _, r := range p.References {
		if r == nil || r.PaperID == "" {
			droppedRefs++
			continue
		}
		rec.References = append(rec.References, r.PaperID)
	}

	for _, c := range p.Citations {
		if c == nil || c.PaperID == "" {
			droppedCits++
			continue
		}
		rec.Citations = append(rec.Citations, c.PaperID)
	}

	for _, a := range p.Authors {
		if a == nil || a.AuthorID == "" {
			droppedAuthors++
			continue
		}
		rec.Authors = append(rec.Authors, models.Author{ID: a.AuthorID, Name: a.Name})
	}

	if droppedRefs+droppedCits+droppedAuthors > 0 {
		metrics.MalformedRefsTotal.WithLabelValues("reference").Add(float64(droppedRefs))
		metrics.MalformedRefsTotal.WithLabelValues("citation").Add(float64(droppedCits))
		metrics.MalformedRefsTotal.WithLabelValues("author").Add(float64(droppedAuthors))

		f.log.WithFields(logrus.Fields{
			"paper_id":   id,
			"references": droppedRefs,
			"citations":  droppedCits,
			"authors":    droppedAuthors,
			"error":      models.ErrMalformedEdgeReference.Error(),
		}).Debug("fetch.malformed_entries")
	}

	return rec
}

// fetchStatus maps a Get error to a low-cardinality metric label.
func fetchStatus(err error) string {
	var apiErr *client.APIError

	switch {
	case err == nil:
		return "ok"
	case client.IsNotFound(err):
		return "not_found"
	case client.IsRateLimited(err):
		return "rate_limited"
	case errors.As(err, &apiErr):
		return "http_error"
	case errors.Is(err, client.ErrEmptyResponse):
		return "empty"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
