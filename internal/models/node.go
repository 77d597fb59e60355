// Package models defines data types for the citation graph.
package models

// NodeID identifies a paper. No structure is assumed beyond equality.
type NodeID = string

// Author is a paper author as reported by the metadata API.
type Author struct {
	ID   string `json:"author_id"`
	Name string `json:"name"`
}

// NodeRecord is the fetched metadata of one paper.
// Reference and citation lists are never nil: an empty list means "no edges",
// while a failed fetch produces no record at all.
type NodeRecord struct {
	ID         NodeID   `json:"id"`
	Title      string   `json:"title"`
	References []NodeID `json:"references"`
	Citations  []NodeID `json:"citations"`
	Authors    []Author `json:"authors,omitempty"`
}

// NewNodeRecord returns a record with empty, non-nil edge lists.
func NewNodeRecord(id NodeID, title string) *NodeRecord {
	return &NodeRecord{
		ID:         id,
		Title:      title,
		References: make([]NodeID, 0),
		Citations:  make([]NodeID, 0),
	}
}

// DiscoveredSet maps NodeID to NodeRecord and remembers discovery order.
// It only grows. The zero value is not usable; call NewDiscoveredSet.
type DiscoveredSet struct {
	order   []NodeID
	records map[NodeID]*NodeRecord
}

// NewDiscoveredSet creates an empty DiscoveredSet.
func NewDiscoveredSet() *DiscoveredSet {
	return &DiscoveredSet{
		order:   make([]NodeID, 0),
		records: make(map[NodeID]*NodeRecord),
	}
}

// Add inserts rec under id. It reports false when id is already present or rec is nil.
func (d *DiscoveredSet) Add(id NodeID, rec *NodeRecord) bool {
	if rec == nil {
		return false
	}

	if _, ok := d.records[id]; ok {
		return false
	}

	d.records[id] = rec
	d.order = append(d.order, id)

	return true
}

// Has reports whether id has been discovered.
func (d *DiscoveredSet) Has(id NodeID) bool {
	if d == nil {
		return false
	}

	_, ok := d.records[id]

	return ok
}

// Get returns the record for id, or nil.
func (d *DiscoveredSet) Get(id NodeID) *NodeRecord {
	if d == nil {
		return nil
	}

	return d.records[id]
}

// Len returns the number of discovered papers.
func (d *DiscoveredSet) Len() int {
	if d == nil {
		return 0
	}

	return len(d.order)
}

// IDs returns the discovered IDs in discovery order.
func (d *DiscoveredSet) IDs() []NodeID {
	if d == nil {
		return nil
	}

	out := make([]NodeID, len(d.order))
	copy(out, d.order)

	return out
}

// Each calls fn for every record in discovery order.
func (d *DiscoveredSet) Each(fn func(id NodeID, rec *NodeRecord)) {
	if d == nil {
		return
	}

	for _, id := range d.order {
		fn(id, d.records[id])
	}
}
