package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/persistorai/citegraph/client"
	"github.com/persistorai/citegraph/internal/crawl"
	"github.com/persistorai/citegraph/internal/ws"
)

type recordingPublisher struct {
	mu     sync.Mutex
	types  []string
	events []any
}

func (r *recordingPublisher) Publish(eventType string, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, eventType)
	r.events = append(r.events, data)
}

func TestProgress_TracksRun(t *testing.T) {
	getter := graphGetter(map[string]*client.Paper{
		"A": {Title: "A", References: refs("B", "X")},
		"B": {Title: "B", Citations: refs("A")},
	})

	pub := &recordingPublisher{}
	progress := NewProgress(pub)

	log := testLogger()
	engine := crawl.NewEngine(NewPaperFetcher(getter, client.GraphFields, log), log, progress.Hooks())
	svc := NewCrawlService(engine, log).WithProgress(progress)

	if got := progress.Snapshot().State; got != StateIdle {
		t.Fatalf("initial state = %q", got)
	}

	snap, err := svc.Run(context.Background(), []string{"A"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := progress.Snapshot()
	if st.State != StateFinished || st.RunID != snap.RunID {
		t.Errorf("state %q run %q, want finished %q", st.State, st.RunID, snap.RunID)
	}
	if st.Seeds != 1 || st.NodeCap != 10 {
		t.Errorf("seeds/cap = %d/%d", st.Seeds, st.NodeCap)
	}
	if st.Discovered != 2 || st.Unavailable != 1 || st.Fetches != 3 || st.Enqueued != 2 {
		t.Errorf("counters = %+v", st)
	}
	if st.Edges != 2 || st.LastPaperID != "B" {
		t.Errorf("edges %d last %q", st.Edges, st.LastPaperID)
	}
	if st.StartedAt == nil || st.FinishedAt == nil || st.FinishedAt.Before(*st.StartedAt) {
		t.Errorf("timestamps = %v / %v", st.StartedAt, st.FinishedAt)
	}

	want := fmt.Sprint([]string{
		ws.EventCrawlStarted,
		ws.EventPaperDiscovered,
		ws.EventPaperDiscovered,
		ws.EventPaperUnavailable,
		ws.EventCrawlFinished,
	})
	if got := fmt.Sprint(pub.types); got != want {
		t.Errorf("events = %s, want %s", got, want)
	}
}

func TestProgress_InvalidCapFinishes(t *testing.T) {
	progress := NewProgress(nil)
	log := testLogger()
	engine := crawl.NewEngine(NewPaperFetcher(graphGetter(nil), client.GraphFields, log), log, progress.Hooks())

	if _, err := NewCrawlService(engine, log).WithProgress(progress).Run(context.Background(), []string{"A"}, 0); err == nil {
		t.Fatal("expected error")
	}
	if got := progress.Snapshot().State; got != StateFinished {
		t.Errorf("state = %q, want finished", got)
	}
}

func TestProgress_SnapshotIsCopy(t *testing.T) {
	progress := NewProgress(nil)
	progress.start("run", 1, 5)

	st := progress.Snapshot()
	st.Discovered = 99

	if progress.Snapshot().Discovered != 0 {
		t.Error("mutating a snapshot must not affect the tracker")
	}
}
