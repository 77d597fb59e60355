package service

import (
	"sync"
	"time"

	"github.com/persistorai/citegraph/internal/crawl"
	"github.com/persistorai/citegraph/internal/models"
	"github.com/persistorai/citegraph/internal/ws"
)

// Crawl states reported by Progress.
const (
	StateIdle     = "idle"
	StateRunning  = "running"
	StateFinished = "finished"
)

// Publisher receives progress events. *ws.Hub satisfies it.
type Publisher interface {
	Publish(eventType string, data any)
}

// ProgressState is a point-in-time view of a crawl.
type ProgressState struct {
	State       string     `json:"state"`
	RunID       string     `json:"run_id,omitempty"`
	Seeds       int        `json:"seeds"`
	NodeCap     int        `json:"node_cap"`
	Discovered  int        `json:"discovered"`
	Unavailable int        `json:"unavailable"`
	Enqueued    int        `json:"enqueued"`
	Fetches     int        `json:"fetches"`
	Edges       int        `json:"edges"`
	LastPaperID string     `json:"last_paper_id,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// Progress tracks a running crawl for the status server. It is safe for
// concurrent use: the engine writes from the crawl goroutine while HTTP
// handlers read.
type Progress struct {
	mu    sync.Mutex
	state ProgressState
	pub   Publisher
	now   func() time.Time
}

// NewProgress creates an idle tracker. pub may be nil.
func NewProgress(pub Publisher) *Progress {
	return &Progress{
		state: ProgressState{State: StateIdle},
		pub:   pub,
		now:   time.Now,
	}
}

// Snapshot returns a copy of the current state.
func (p *Progress) Snapshot() ProgressState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Hooks returns engine options that feed this tracker.
func (p *Progress) Hooks() *crawl.Options {
	return &crawl.Options{
		OnEnqueue: func(models.NodeID) {
			p.mu.Lock()
			p.state.Enqueued++
			p.mu.Unlock()
		},
		OnFetch: func(models.NodeID) {
			p.mu.Lock()
			p.state.Fetches++
			p.mu.Unlock()
		},
		OnDiscover: p.discovered,
		OnUnavailable: func(id models.NodeID, err error) {
			p.mu.Lock()
			p.state.Unavailable++
			p.mu.Unlock()

			p.publish(ws.EventPaperUnavailable, map[string]string{"paper_id": id, "error": err.Error()})
		},
	}
}

func (p *Progress) discovered(id models.NodeID, rec *models.NodeRecord) {
	p.mu.Lock()
	p.state.Discovered++
	p.state.LastPaperID = id
	n := p.state.Discovered
	p.mu.Unlock()

	p.publish(ws.EventPaperDiscovered, map[string]any{
		"paper_id":   id,
		"title":      rec.Title,
		"references": len(rec.References),
		"citations":  len(rec.Citations),
		"discovered": n,
	})
}

func (p *Progress) start(runID string, seeds, nodeCap int) {
	started := p.now().UTC()

	p.mu.Lock()
	p.state = ProgressState{
		State:     StateRunning,
		RunID:     runID,
		Seeds:     seeds,
		NodeCap:   nodeCap,
		StartedAt: &started,
	}
	p.mu.Unlock()

	p.publish(ws.EventCrawlStarted, map[string]any{"run_id": runID, "seeds": seeds, "node_cap": nodeCap})
}

func (p *Progress) finish(edges int) {
	finished := p.now().UTC()

	p.mu.Lock()
	p.state.State = StateFinished
	p.state.Edges = edges
	p.state.FinishedAt = &finished
	st := p.state
	p.mu.Unlock()

	p.publish(ws.EventCrawlFinished, map[string]any{
		"run_id":      st.RunID,
		"discovered":  st.Discovered,
		"unavailable": st.Unavailable,
		"edges":       edges,
	})
}

func (p *Progress) publish(eventType string, data any) {
	if p.pub != nil {
		p.pub.Publish(eventType, data)
	}
}
