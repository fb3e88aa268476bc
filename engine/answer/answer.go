// Package answer orchestrates the query pipeline: it embeds the question,
// searches the vector index for the nearest employees, and phrases an answer
// using rule templates (manager lookup, employment-type filter, top-matches
// summary).
package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CodeWithNed/company-vector-db/engine/domain"
	"github.com/CodeWithNed/company-vector-db/engine/semantic"
	"github.com/CodeWithNed/company-vector-db/pkg/embed"
)

// ErrBlankQuery is returned before the index is touched.
var ErrBlankQuery = errors.New("answer: blank query")

// NoDataAnswer is the fixed response when nothing has been loaded.
const NoDataAnswer = "No employee data loaded. Please load data first."

// Searcher abstracts vector search.
type Searcher interface {
	Search(ctx context.Context, vector []float32, topK int) ([]semantic.Hit, error)
}

// Records abstracts the directory record store.
type Records interface {
	Len() int
	Get(id string) (domain.Employee, bool)
	All() []domain.Employee
	ManagerChain(id string, levels int) []domain.ManagerRef
}

// ChainFinder abstracts the org graph's manager-chain lookup. Optional;
// failures fall back to the in-memory chain.
type ChainFinder interface {
	ManagerChain(ctx context.Context, id string, levels int) ([]domain.ManagerRef, error)
}

// Options configures the query pipeline.
type Options struct {
	// TopK caps the number of retrieved entries; the effective k is
	// min(TopK, loaded records).
	TopK int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{TopK: 5}
}

// Service answers natural-language questions about the directory.
type Service struct {
	embedder embed.Embedder
	search   Searcher
	records  Records
	chains   ChainFinder
	opts     Options
	logger   *slog.Logger
}

// New creates a Service. chains may be nil.
func New(embedder embed.Embedder, search Searcher, records Records, chains ChainFinder, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	return &Service{
		embedder: embedder,
		search:   search,
		records:  records,
		chains:   chains,
		opts:     opts,
		logger:   logger,
	}
}

// Match is one retrieved employee with its similarity score.
type Match struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	EmploymentType  domain.EmploymentType `json:"employment_type"`
	ManagerName     string                `json:"manager_name,omitempty"`
	SimilarityScore float32               `json:"similarity_score"`
}

// Result is the structured query response.
type Result struct {
	Answer            string  `json:"answer"`
	RelevantEmployees []Match `json:"relevant_employees"`
}

// Query runs the full pipeline for a free-text question.
func (s *Service) Query(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrBlankQuery
	}

	total := s.records.Len()
	if total == 0 {
		return &Result{Answer: NoDataAnswer, RelevantEmployees: []Match{}}, nil
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("answer: embed query: %w", err)
	}
	embed.Normalize(vec)

	k := s.opts.TopK
	if total < k {
		k = total
	}

	hits, err := s.search.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("answer: search: %w", err)
	}
	s.logger.Info("query search done", "query_len", len(query), "hits", len(hits))

	matches := make([]Match, len(hits))
	for i, h := range hits {
		matches[i] = Match{
			ID:              h.Meta.ID,
			Name:            h.Meta.Name,
			EmploymentType:  h.Meta.EmploymentType,
			ManagerName:     h.Meta.ManagerName,
			SimilarityScore: h.Score,
		}
	}

	return &Result{
		Answer:            s.generate(ctx, query, matches),
		RelevantEmployees: matches,
	}, nil
}

// managerChain consults the org graph first and falls back to the in-memory
// records when the graph is unavailable.
func (s *Service) managerChain(ctx context.Context, id string, levels int) []domain.ManagerRef {
	if s.chains != nil {
		chain, err := s.chains.ManagerChain(ctx, id, levels)
		if err == nil {
			return chain
		}
		s.logger.Warn("org graph chain lookup failed, using records", "err", err)
	}
	return s.records.ManagerChain(id, levels)
}
