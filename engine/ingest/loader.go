// Package ingest implements the load operation: a batch of employee records
// is validated, described, embedded, and indexed, fully replacing any prior
// state. On failure the previously loaded state stays in place.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/CodeWithNed/company-vector-db/engine/domain"
	"github.com/CodeWithNed/company-vector-db/engine/semantic"
	"github.com/CodeWithNed/company-vector-db/pkg/embed"
	"github.com/CodeWithNed/company-vector-db/pkg/fn"
)

// VectorIndex abstracts the similarity index writes.
type VectorIndex interface {
	Reset(ctx context.Context, dims int) error
	Upsert(ctx context.Context, points []semantic.Point) error
}

// RecordStore abstracts the directory record store.
type RecordStore interface {
	Replace(employees []domain.Employee) error
}

// OrgGraph abstracts the reporting graph. Optional; failures are logged, not
// surfaced.
type OrgGraph interface {
	Replace(ctx context.Context, employees []domain.Employee) error
}

// Options configures a Loader.
type Options struct {
	// Dims is the embedding dimensionality of the vector index.
	Dims int
	// Workers bounds embedding concurrency.
	Workers int
}

// DefaultOptions returns defaults sized for nomic-embed-text.
func DefaultOptions() Options {
	return Options{Dims: 768, Workers: 4}
}

// Loader runs the whole-batch load.
type Loader struct {
	embedder embed.Embedder
	index    VectorIndex
	records  RecordStore
	graph    OrgGraph
	opts     Options
	logger   *slog.Logger
}

// NewLoader creates a Loader. graph may be nil.
func NewLoader(embedder embed.Embedder, index VectorIndex, records RecordStore, graph OrgGraph, opts Options, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Dims <= 0 {
		opts.Dims = DefaultOptions().Dims
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultOptions().Workers
	}
	return &Loader{
		embedder: embedder,
		index:    index,
		records:  records,
		graph:    graph,
		opts:     opts,
		logger:   logger,
	}
}

// Load replaces all loaded state with the batch and returns the number of
// records indexed.
func (l *Loader) Load(ctx context.Context, employees []domain.Employee) (int, error) {
	pipeline := fn.Then(
		fn.TracedStage("load.validate", validateStage),
		fn.Then(
			fn.TracedStage("load.embed", l.embedStage),
			fn.TracedStage("load.index", l.indexStage),
		),
	)

	count, err := pipeline(ctx, employees).Unwrap()
	if err != nil {
		return 0, err
	}
	l.logger.Info("load complete", "employees", count)
	return count, nil
}

var validateStage fn.Stage[[]domain.Employee, []domain.Employee] = func(_ context.Context, employees []domain.Employee) fn.Result[[]domain.Employee] {
	if err := domain.ValidateBatch(employees); err != nil {
		return fn.Err[[]domain.Employee](err)
	}
	return fn.Ok(employees)
}

// embedStage describes each employee and embeds the blobs with bounded
// concurrency. Vectors come back L2-normalized.
func (l *Loader) embedStage(ctx context.Context, employees []domain.Employee) fn.Result[[]embedded] {
	results := fn.ParMapResult(employees, l.opts.Workers, func(e domain.Employee) fn.Result[embedded] {
		text := Describe(e)
		vec, err := l.embedder.Embed(ctx, text)
		if err != nil {
			return fn.Err[embedded](fmt.Errorf("ingest: embed %s: %w", e.ID, err))
		}
		if len(vec) != l.opts.Dims {
			return fn.Err[embedded](fmt.Errorf("ingest: embed %s: got %d dims, want %d", e.ID, len(vec), l.opts.Dims))
		}
		return fn.Ok(embedded{
			described: described{employee: e, text: text},
			vector:    embed.Normalize(vec),
		})
	})
	return fn.Collect(results)
}

// indexStage rebuilds the vector index, swaps the directory snapshot, and
// refreshes the org graph. The directory is only replaced after the index
// write succeeds.
func (l *Loader) indexStage(ctx context.Context, docs []embedded) fn.Result[int] {
	points := make([]semantic.Point, len(docs))
	employees := make([]domain.Employee, len(docs))
	for i, d := range docs {
		employees[i] = d.employee
		points[i] = semantic.Point{
			ID:     PointID(d.employee.ID),
			Vector: d.vector,
			Meta:   domain.MetadataFor(d.employee),
		}
	}

	if err := l.index.Reset(ctx, l.opts.Dims); err != nil {
		return fn.Err[int](fmt.Errorf("ingest: reset index: %w", err))
	}
	if err := l.index.Upsert(ctx, points); err != nil {
		return fn.Err[int](fmt.Errorf("ingest: upsert vectors: %w", err))
	}
	if err := l.records.Replace(employees); err != nil {
		return fn.Err[int](fmt.Errorf("ingest: replace records: %w", err))
	}

	if l.graph != nil {
		if err := l.graph.Replace(ctx, employees); err != nil {
			l.logger.Warn("org graph refresh failed, continuing without", "err", err)
		}
	}
	return fn.Ok(len(docs))
}

// PointID derives a stable vector point UUID from an employee ID.
func PointID(employeeID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("employee-"+employeeID)).String()
}
