// Package embed abstracts text embedding providers and the small amount of
// vector math the search pipeline needs from them. All vectors are
// L2-normalized before indexing so inner-product search is equivalent to
// cosine similarity.
package embed

import (
	"context"
	"math"
)

// Embedder maps text to fixed-length vectors. Implementations must be safe
// for concurrent use.
type Embedder interface {
	// Embed returns the embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns embeddings in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Normalize scales v to unit L2 length in place and returns it. The zero
// vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}
