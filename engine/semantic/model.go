package semantic

import "github.com/CodeWithNed/company-vector-db/engine/domain"

// Point is a single employee vector to store, with its flattened metadata.
type Point struct {
	ID     string
	Vector []float32
	Meta   domain.Metadata
}

// Hit is a single similarity search result.
type Hit struct {
	Score float32         `json:"score"`
	Meta  domain.Metadata `json:"meta"`
}
