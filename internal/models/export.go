package models

import "time"

// ExportFormat is the top-level structure of a JSON crawl export.
type ExportFormat struct {
	SchemaVersion    int          `json:"schema_version"`
	CitegraphVersion string       `json:"citegraph_version"`
	RunID            string       `json:"run_id"`
	ExportedAt       time.Time    `json:"exported_at"`
	Seeds            []NodeID     `json:"seeds"`
	Stats            ExportStats  `json:"stats"`
	Nodes            []NodeRecord `json:"nodes"`
	Edges            []ExportEdge `json:"edges"`
}

// ExportStats summarises the contents of an export.
type ExportStats struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// ExportEdge is the portable representation of an edge in an export file.
type ExportEdge struct {
	Source   NodeID `json:"source"`
	Target   NodeID `json:"target"`
	Relation string `json:"relation"`
}

// RelationCites is the relation name used for every exported edge.
const RelationCites = "cites"

// ExportSchemaVersion is bumped whenever ExportFormat changes incompatibly.
const ExportSchemaVersion = 1

// Snapshot is everything an exporter needs from a finished crawl.
type Snapshot struct {
	RunID      string
	Seeds      []NodeID
	Discovered *DiscoveredSet
	Adjacency  *AdjacencyIndex
	FinishedAt time.Time
}
