package graph_test

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/persistorai/citegraph/internal/graph"
	"github.com/persistorai/citegraph/internal/models"
)

func discovered(recs ...*models.NodeRecord) *models.DiscoveredSet {
	d := models.NewDiscoveredSet()
	for _, r := range recs {
		d.Add(r.ID, r)
	}

	return d
}

func paper(id string, refs, cits []string) *models.NodeRecord {
	rec := models.NewNodeRecord(id, "")
	rec.References = append(rec.References, refs...)
	rec.Citations = append(rec.Citations, cits...)

	return rec
}

func wantEqual(t *testing.T, what string, got, want any) {
	t.Helper()

	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

func TestExtractEdges_Chain(t *testing.T) {
	d := discovered(
		paper("A", []string{"B"}, nil),
		paper("B", []string{"C"}, nil),
		paper("C", []string{"D"}, nil),
	)

	idx := graph.ExtractEdges(d)

	wantEqual(t, "idx.Out", idx.Out, map[string][]string{"A": {"B"}, "B": {"C"}})
	wantEqual(t, "idx.In", idx.In, map[string][]string{"B": {"A"}, "C": {"B"}})
}

func TestExtractEdges_CitationsPointInward(t *testing.T) {
	d := discovered(
		paper("A", nil, []string{"B", "C"}),
		paper("B", nil, nil),
		paper("C", nil, nil),
	)

	idx := graph.ExtractEdges(d)

	wantEqual(t, "in(A)", idx.InEdges("A"), []string{"B", "C"})
	wantEqual(t, "out(B)", idx.OutEdges("B"), []string{"A"})
	wantEqual(t, "out(C)", idx.OutEdges("C"), []string{"A"})
	if got := idx.OutEdges("A"); got != nil {
		t.Errorf("idx.OutEdges(\"A\") = %v, want nil", got)
	}
}

func TestExtractEdges_ParallelEdgesKept(t *testing.T) {
	// A cites B, and B independently lists A as a citing paper.
	d := discovered(
		paper("A", []string{"B"}, nil),
		paper("B", nil, []string{"A"}),
	)

	idx := graph.ExtractEdges(d)

	wantEqual(t, "out(A)", idx.OutEdges("A"), []string{"B", "B"})
	wantEqual(t, "in(B)", idx.InEdges("B"), []string{"A", "A"})
	wantEqual(t, "idx.EdgeCount()", idx.EdgeCount(), 2)
}

func TestExtractEdges_OrderFollowsProcessing(t *testing.T) {
	d := discovered(
		paper("C", nil, []string{"A"}),
		paper("A", []string{"B", "C"}, nil),
		paper("B", nil, nil),
	)

	idx := graph.ExtractEdges(d)

	// C is processed first, so its citation edge A->C lands before A's own references.
	wantEqual(t, "out(A)", idx.OutEdges("A"), []string{"C", "B", "C"})
	wantEqual(t, "in(C)", idx.InEdges("C"), []string{"A", "A"})
}

func TestExtractEdges_DropsUndiscoveredAndEmpty(t *testing.T) {
	d := discovered(paper("A", []string{"X", "", "B"}, []string{"Y", ""}), paper("B", nil, nil))

	idx := graph.ExtractEdges(d)

	wantEqual(t, "idx.Out", idx.Out, map[string][]string{"A": {"B"}})
	wantEqual(t, "idx.In", idx.In, map[string][]string{"B": {"A"}})
}

func TestExtractEdges_EmptyAndNil(t *testing.T) {
	for name, d := range map[string]*models.DiscoveredSet{
		"empty": models.NewDiscoveredSet(),
		"nil":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			idx := graph.ExtractEdges(d)
			if idx == nil {
				t.Fatal("expected an index, got nil")
			}
			if len(idx.Out) != 0 || len(idx.In) != 0 {
				t.Errorf("expected empty index, got out=%v in=%v", idx.Out, idx.In)
			}
		})
	}
}

func TestExtractEdges_DoesNotMutateInput(t *testing.T) {
	a := paper("A", []string{"B"}, []string{"B"})
	d := discovered(a, paper("B", nil, nil))

	graph.ExtractEdges(d)

	wantEqual(t, "a.References", a.References, []string{"B"})
	wantEqual(t, "a.Citations", a.Citations, []string{"B"})
	wantEqual(t, "d.IDs()", d.IDs(), []string{"A", "B"})
}

func randomSet(rng *rand.Rand) *models.DiscoveredSet {
	n := 1 + rng.Intn(25)
	d := models.NewDiscoveredSet()

	for i := 0; i < n; i++ {
		var refs, cits []string
		for j := rng.Intn(5); j > 0; j-- {
			refs = append(refs, fmt.Sprintf("p%d", rng.Intn(2*n)))
		}
		for j := rng.Intn(5); j > 0; j-- {
			cits = append(cits, fmt.Sprintf("p%d", rng.Intn(2*n)))
		}

		id := fmt.Sprintf("p%d", i)
		d.Add(id, paper(id, refs, cits))
	}

	return d
}

func TestExtractEdges_Closure(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 100; run++ {
		d := randomSet(rng)
		idx := graph.ExtractEdges(d)

		for _, side := range []map[string][]string{idx.Out, idx.In} {
			for k, vs := range side {
				if !d.Has(k) {
					t.Fatalf("run %d: key %s not discovered", run, k)
				}

				for _, v := range vs {
					if !d.Has(v) {
						t.Fatalf("run %d: value %s not discovered", run, v)
					}
				}
			}
		}

		outTotal, inTotal := 0, 0
		for _, vs := range idx.Out {
			outTotal += len(vs)
		}
		for _, vs := range idx.In {
			inTotal += len(vs)
		}

		if outTotal != inTotal {
			t.Fatalf("run %d: %d out entries but %d in entries", run, outTotal, inTotal)
		}
	}
}

func TestExtractEdges_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for run := 0; run < 50; run++ {
		d := randomSet(rng)

		first := graph.ExtractEdges(d)
		second := graph.ExtractEdges(d)

		if !reflect.DeepEqual(first, second) {
			t.Fatalf("run %d: extraction is not repeatable", run)
		}
	}
}
