package client

import (
	"context"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Field selectors for the paper endpoint.
var (
	// GraphFields requests the title and the IDs of both edge lists.
	GraphFields = []string{"title", "references.paperId", "citations.paperId"}

	// AuthorGraphFields additionally requests author IDs and names.
	AuthorGraphFields = []string{"title", "references.paperId", "citations.paperId", "authors.authorId", "authors.name"}
)

// PaperService handles paper lookups.
type PaperService struct {
	c *Client
}

// Get fetches a single paper. id may be a Semantic Scholar ID or a prefixed
// external ID such as "arXiv:1706.03762" or "DOI:...". An empty fields list
// lets the API choose its default field set.
func (s *PaperService) Get(ctx context.Context, id string, fields []string) (*Paper, error) {
	ctx, span := s.c.tracer.Start(ctx, "semanticscholar.paper.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("paper.id", id),
			attribute.StringSlice("paper.fields", fields),
		),
	)
	defer span.End()

	params := url.Values{}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}

	var p Paper
	if err := s.c.get(ctx, "/paper/"+url.PathEscape(id), params, &p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if p.IsEmpty() {
		span.RecordError(ErrEmptyResponse)
		span.SetStatus(codes.Error, ErrEmptyResponse.Error())
		return nil, ErrEmptyResponse
	}

	span.SetAttributes(
		attribute.Int("paper.references", len(p.References)),
		attribute.Int("paper.citations", len(p.Citations)),
	)
	return &p, nil
}
