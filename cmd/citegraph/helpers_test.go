package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeArgs runs root with args and returns stdout, stderr and any error.
func executeArgs(t *testing.T, root *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr strings.Builder
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return stdout.String(), stderr.String(), err
}

// isolateEnv points HOME at a temp dir and clears every variable config.Load reads.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"CITEGRAPH_CONFIG", "CITEGRAPH_API_URL", "CITEGRAPH_API_KEY", "SEMANTIC_SCHOLAR_API_KEY",
		"CITEGRAPH_SEEDS", "CITEGRAPH_FIELDS", "CITEGRAPH_MAX_NODES", "CITEGRAPH_DELAY",
		"CITEGRAPH_TIMEOUT", "CITEGRAPH_LAYOUT", "CITEGRAPH_FORMAT", "CITEGRAPH_OUTPUT",
		"LOG_LEVEL", "LOG_FORMAT", "CITEGRAPH_STATUS_ADDR", "CITEGRAPH_CORS_ORIGINS", "CITEGRAPH_METRICS_FILE",
	} {
		t.Setenv(k, "")
	}
	return home
}

type testPaper struct {
	PaperID    string           `json:"paperId"`
	Title      string           `json:"title"`
	References []map[string]any `json:"references"`
	Citations  []map[string]any `json:"citations"`
	Authors    []map[string]any `json:"authors,omitempty"`
}

func ids(v ...string) []map[string]any {
	out := make([]map[string]any, 0, len(v))
	for _, id := range v {
		out = append(out, map[string]any{"paperId": id})
	}
	return out
}

// newGraphServer serves GET /paper/{id} from papers; unknown IDs get a 404.
func newGraphServer(t *testing.T, papers map[string]testPaper) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /paper/{id}", func(w http.ResponseWriter, r *http.Request) {
		p, ok := papers[r.PathValue("id")]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Paper not found"}`)) //nolint:errcheck
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// chainPapers is A -> B -> C -> D by references.
func chainPapers() map[string]testPaper {
	return map[string]testPaper{
		"A": {PaperID: "A", Title: "Paper A", References: ids("B"), Citations: ids()},
		"B": {PaperID: "B", Title: "Paper B", References: ids("C"), Citations: ids()},
		"C": {PaperID: "C", Title: "Paper C", References: ids("D"), Citations: ids()},
		"D": {PaperID: "D", Title: "Paper D", References: ids(), Citations: ids()},
	}
}
