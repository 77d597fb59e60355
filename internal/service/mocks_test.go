package service

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/client"
)

// mockPaperGetter records calls and returns configured responses.
type mockPaperGetter struct {
	mu    sync.Mutex
	calls []string

	get func(ctx context.Context, id string, fields []string) (*client.Paper, error)
}

func (m *mockPaperGetter) Get(ctx context.Context, id string, fields []string) (*client.Paper, error) {
	m.mu.Lock()
	m.calls = append(m.calls, id)
	m.mu.Unlock()
	return m.get(ctx, id, fields)
}

// graphGetter serves papers from a table; unknown IDs return a 404 APIError.
func graphGetter(papers map[string]*client.Paper) *mockPaperGetter {
	return &mockPaperGetter{
		get: func(_ context.Context, id string, _ []string) (*client.Paper, error) {
			p, ok := papers[id]
			if !ok {
				return nil, &client.APIError{StatusCode: 404, Code: "not_found", Message: "Paper not found"}
			}
			return p, nil
		},
	}
}

func refs(ids ...string) []*client.PaperRef {
	out := make([]*client.PaperRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, &client.PaperRef{PaperID: id})
	}
	return out
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}
