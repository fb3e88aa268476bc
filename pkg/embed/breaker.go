package embed

import (
	"context"

	"github.com/CodeWithNed/company-vector-db/pkg/resilience"
)

// guarded runs an Embedder behind a circuit breaker.
type guarded struct {
	inner   Embedder
	breaker *resilience.Breaker
}

// WithBreaker wraps e so provider failures trip the breaker and subsequent
// calls fail fast with resilience.ErrCircuitOpen.
func WithBreaker(e Embedder, b *resilience.Breaker) Embedder {
	return &guarded{inner: e, breaker: b}
}

func (g *guarded) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	err := g.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		vec, err = g.inner.Embed(ctx, text)
		return err
	})
	return vec, err
}

func (g *guarded) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var vecs [][]float32
	err := g.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		vecs, err = g.inner.EmbedBatch(ctx, texts)
		return err
	})
	return vecs, err
}
