package ingest

import "github.com/CodeWithNed/company-vector-db/engine/domain"

// LoadBatch is the wire shape for a load request, matching the source JSON
// file ({"results": [...]}).
type LoadBatch struct {
	Results []domain.Employee `json:"results"`
}

// LoadReply is sent back on the NATS reply subject after a load.
type LoadReply struct {
	Loaded int    `json:"loaded"`
	Error  string `json:"error,omitempty"`
}

// described pairs an employee with its embedding text blob.
type described struct {
	employee domain.Employee
	text     string
}

// embedded adds the normalized embedding vector.
type embedded struct {
	described
	vector []float32
}
