// Package graph derives the directed citation structure of a finished crawl.
package graph

import "github.com/persistorai/citegraph/internal/models"

// ExtractEdges builds the adjacency index of d, keeping only edges whose
// endpoints are both discovered.
//
// Records are visited in discovery order; within a record, references are
// processed before citations. A reference r of p yields p->r, a citation c of
// p yields c->p. Parallel edges are kept, so a pair reported both as a
// reference of one paper and a citation of the other appears twice.
//
// ExtractEdges does not modify d and returns a fresh index on every call.
func ExtractEdges(d *models.DiscoveredSet) *models.AdjacencyIndex {
	idx := models.NewAdjacencyIndex()

	d.Each(func(pid models.NodeID, rec *models.NodeRecord) {
		if rec == nil {
			return
		}

		for _, rid := range rec.References {
			if rid == "" || !d.Has(rid) {
				continue
			}

			idx.Out[pid] = append(idx.Out[pid], rid)
			idx.In[rid] = append(idx.In[rid], pid)
		}

		for _, cid := range rec.Citations {
			if cid == "" || !d.Has(cid) {
				continue
			}

			idx.In[pid] = append(idx.In[pid], cid)
			idx.Out[cid] = append(idx.Out[cid], pid)
		}
	})

	return idx
}
