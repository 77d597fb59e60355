package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/persistorai/citegraph/internal/models"
)

func TestPaperCommandJSON(t *testing.T) {
	isolateEnv(t)
	papers := chainPapers()
	papers["B"] = testPaper{
		PaperID: "B", Title: "Paper B",
		References: append(ids("C"), map[string]any{"paperId": nil}),
		Citations:  ids("A"),
		Authors:    []map[string]any{{"authorId": "a1", "name": "Ada"}},
	}
	srv := newGraphServer(t, papers)

	stdout, _, err := executeArgs(t, newRootCmd(),
		"--api-url", srv.URL, "--log-level", "error", "paper", "B", "--fields", "title,references.paperId,citations.paperId,authors.authorId,authors.name")
	if err != nil {
		t.Fatalf("paper: %v", err)
	}

	var rec models.NodeRecord
	if err := json.Unmarshal([]byte(stdout), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if rec.ID != "B" || rec.Title != "Paper B" {
		t.Errorf("got %+v", rec)
	}
	if strings.Join(rec.References, ",") != "C" {
		t.Errorf("references: got %v (entries without an id should be dropped)", rec.References)
	}
	if strings.Join(rec.Citations, ",") != "A" {
		t.Errorf("citations: got %v", rec.Citations)
	}
	if len(rec.Authors) != 1 || rec.Authors[0].Name != "Ada" {
		t.Errorf("authors: got %v", rec.Authors)
	}
}

func TestPaperCommandTable(t *testing.T) {
	isolateEnv(t)
	srv := newGraphServer(t, chainPapers())

	stdout, _, err := executeArgs(t, newRootCmd(), "--api-url", srv.URL, "--log-level", "error", "--format", "table", "paper", "A")
	if err != nil {
		t.Fatalf("paper: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, separator and one row, got:\n%s", stdout)
	}
	if !strings.HasPrefix(lines[2], "A   Paper A") {
		t.Errorf("row: got %q", lines[2])
	}
}

func TestPaperCommandUnavailable(t *testing.T) {
	isolateEnv(t)
	srv := newGraphServer(t, chainPapers())

	_, _, err := executeArgs(t, newRootCmd(), "--api-url", srv.URL, "--log-level", "error", "paper", "missing")
	if err == nil {
		t.Fatal("expected error for unknown paper")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should carry the API status: %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("abcdefghijkl", 8); got != "abcde..." {
		t.Errorf("got %q", got)
	}
}
