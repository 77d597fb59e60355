package crawl

import "github.com/persistorai/citegraph/internal/models"

// frontier is a FIFO of paper IDs awaiting a fetch attempt.
// It does not deduplicate; the engine absorbs repeats at pop time.
type frontier struct {
	items []models.NodeID
	head  int
}

func newFrontier(seeds []models.NodeID) *frontier {
	items := make([]models.NodeID, len(seeds))
	copy(items, seeds)

	return &frontier{items: items}
}

func (f *frontier) Len() int { return len(f.items) - f.head }

func (f *frontier) push(id models.NodeID) {
	f.items = append(f.items, id)
}

// pop removes and returns the head. Callers must check Len first.
func (f *frontier) pop() models.NodeID {
	id := f.items[f.head]
	f.items[f.head] = ""
	f.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if f.head > 64 && f.head*2 >= len(f.items) {
		n := copy(f.items, f.items[f.head:])
		f.items = f.items[:n]
		f.head = 0
	}

	return id
}
