package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/persistorai/citegraph/client"
	"github.com/persistorai/citegraph/internal/metrics"
	"github.com/persistorai/citegraph/internal/models"
)

func TestPaperFetcher_Fetch(t *testing.T) {
	var gotFields []string
	getter := &mockPaperGetter{
		get: func(_ context.Context, _ string, fields []string) (*client.Paper, error) {
			gotFields = fields
			return &client.Paper{
				PaperID:    "204e3073",
				Title:      "Attention\nIs All You Need",
				References: []*client.PaperRef{{PaperID: "r1"}, nil, {PaperID: ""}, {PaperID: "r2"}},
				Citations:  []*client.PaperRef{{PaperID: "c1"}, {}},
				Authors:    []*client.AuthorRef{{AuthorID: "a1", Name: "Vaswani"}, {Name: "Anonymous"}, nil},
			}, nil
		},
	}

	beforeRefs := testutil.ToFloat64(metrics.MalformedRefsTotal.WithLabelValues("reference"))

	f := NewPaperFetcher(getter, client.AuthorGraphFields, testLogger())
	rec, err := f.Fetch(context.Background(), "arXiv:1706.03762")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.ID != "arXiv:1706.03762" {
		t.Errorf("record must be keyed by the requested ID, got %q", rec.ID)
	}
	if rec.Title != "Attention\nIs All You Need" {
		t.Errorf("title should be kept verbatim, got %q", rec.Title)
	}
	if fmt.Sprint(rec.References) != "[r1 r2]" {
		t.Errorf("got references %v", rec.References)
	}
	if fmt.Sprint(rec.Citations) != "[c1]" {
		t.Errorf("got citations %v", rec.Citations)
	}
	if len(rec.Authors) != 1 || rec.Authors[0] != (models.Author{ID: "a1", Name: "Vaswani"}) {
		t.Errorf("got authors %v", rec.Authors)
	}
	if len(gotFields) != len(client.AuthorGraphFields) {
		t.Errorf("got fields %v", gotFields)
	}

	if d := testutil.ToFloat64(metrics.MalformedRefsTotal.WithLabelValues("reference")) - beforeRefs; d != 2 {
		t.Errorf("expected 2 malformed references counted, got %v", d)
	}
}

func TestPaperFetcher_EmptyListsNotNil(t *testing.T) {
	getter := &mockPaperGetter{
		get: func(context.Context, string, []string) (*client.Paper, error) {
			return &client.Paper{Title: "Lonely"}, nil
		},
	}

	rec, err := NewPaperFetcher(getter, nil, testLogger()).Fetch(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.References == nil || rec.Citations == nil {
		t.Error("edge lists must be non-nil for a paper without edges")
	}
}

func TestPaperFetcher_Unavailable(t *testing.T) {
	tests := []struct {
		name    string
		paper   *client.Paper
		err     error
		wantAPI bool
	}{
		{name: "not found", err: &client.APIError{StatusCode: 404, Code: "not_found"}, wantAPI: true},
		{name: "transport", err: errors.New("connection refused")},
		{name: "empty body", err: client.ErrEmptyResponse},
		{name: "nil paper"},
		{name: "empty object", paper: &client.Paper{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			getter := &mockPaperGetter{
				get: func(context.Context, string, []string) (*client.Paper, error) { return tc.paper, tc.err },
			}

			rec, err := NewPaperFetcher(getter, nil, testLogger()).Fetch(context.Background(), "x")
			if rec != nil {
				t.Errorf("expected nil record, got %+v", rec)
			}
			if !errors.Is(err, models.ErrFetchUnavailable) {
				t.Fatalf("expected ErrFetchUnavailable, got %v", err)
			}
			if tc.err != nil && !errors.Is(err, tc.err) {
				t.Errorf("cause should stay reachable, got %v", err)
			}
			if client.IsNotFound(err) != tc.wantAPI {
				t.Errorf("IsNotFound = %v, want %v", client.IsNotFound(err), tc.wantAPI)
			}
		})
	}
}

func TestFetchStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&client.APIError{StatusCode: 404}, "not_found"},
		{fmt.Errorf("wrapped: %w", &client.APIError{StatusCode: 429}), "rate_limited"},
		{&client.APIError{StatusCode: 500}, "http_error"},
		{client.ErrEmptyResponse, "empty"},
		{fmt.Errorf("request failed: %w", context.DeadlineExceeded), "timeout"},
		{errors.New("boom"), "error"},
	}

	for _, tc := range tests {
		if got := fetchStatus(tc.err); got != tc.want {
			t.Errorf("fetchStatus(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
