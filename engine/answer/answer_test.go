package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/CodeWithNed/company-vector-db/engine/domain"
	"github.com/CodeWithNed/company-vector-db/engine/semantic"
)

// --- mocks ---

type mockEmbedder struct {
	err    error
	called int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.called++
	if m.err != nil {
		return nil, m.err
	}
	return []float32{3, 4}, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{3, 4}
	}
	return out, nil
}

type mockSearcher struct {
	hits   []semantic.Hit
	err    error
	lastK  int
	called int
}

func (m *mockSearcher) Search(_ context.Context, _ []float32, topK int) ([]semantic.Hit, error) {
	m.called++
	m.lastK = topK
	return m.hits, m.err
}

type fakeRecords struct {
	employees []domain.Employee
}

func (f *fakeRecords) Len() int { return len(f.employees) }

func (f *fakeRecords) Get(id string) (domain.Employee, bool) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Employee{}, false
}

func (f *fakeRecords) All() []domain.Employee { return f.employees }

func (f *fakeRecords) ManagerChain(id string, levels int) []domain.ManagerRef {
	var chain []domain.ManagerRef
	current := id
	for range levels {
		e, ok := f.Get(current)
		if !ok || e.Manager == nil {
			break
		}
		chain = append(chain, *e.Manager)
		current = e.Manager.ID
	}
	return chain
}

type fakeChains struct {
	chain  []domain.ManagerRef
	err    error
	called int
}

func (f *fakeChains) ManagerChain(_ context.Context, _ string, _ int) ([]domain.ManagerRef, error) {
	f.called++
	return f.chain, f.err
}

func directoryFixture() *fakeRecords {
	return &fakeRecords{employees: []domain.Employee{
		{ID: "emp_001", DisplayFullName: "Ada Lovelace", EmploymentType: domain.FullTime,
			Manager: &domain.ManagerRef{ID: "emp_002", DisplayFullName: "Grace Hopper"}},
		{ID: "emp_002", DisplayFullName: "Grace Hopper", EmploymentType: domain.FullTime,
			Manager: &domain.ManagerRef{ID: "emp_003", DisplayFullName: "Alan Turing"}},
		{ID: "emp_003", DisplayFullName: "Alan Turing", EmploymentType: domain.PartTime},
	}}
}

func hitsFixture() []semantic.Hit {
	return []semantic.Hit{
		{Score: 0.92, Meta: domain.Metadata{ID: "emp_001", Name: "Ada Lovelace", EmploymentType: domain.FullTime, ManagerName: "Grace Hopper"}},
		{Score: 0.85, Meta: domain.Metadata{ID: "emp_002", Name: "Grace Hopper", EmploymentType: domain.FullTime, ManagerName: "Alan Turing"}},
		{Score: 0.71, Meta: domain.Metadata{ID: "emp_003", Name: "Alan Turing", EmploymentType: domain.PartTime}},
	}
}

func newService(search *mockSearcher, records Records, chains ChainFinder) *Service {
	return New(&mockEmbedder{}, search, records, chains, DefaultOptions(), nil)
}

// --- tests ---

func TestQuery_BlankRejectedBeforeSearch(t *testing.T) {
	search := &mockSearcher{}
	emb := &mockEmbedder{}
	svc := New(emb, search, directoryFixture(), nil, DefaultOptions(), nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := svc.Query(context.Background(), q); !errors.Is(err, ErrBlankQuery) {
			t.Fatalf("query %q: expected ErrBlankQuery, got %v", q, err)
		}
	}
	if emb.called != 0 || search.called != 0 {
		t.Fatal("blank query must not touch embedder or index")
	}
}

func TestQuery_NoDataLoaded(t *testing.T) {
	search := &mockSearcher{}
	svc := newService(search, &fakeRecords{}, nil)

	res, err := svc.Query(context.Background(), "who works here?")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Answer != NoDataAnswer {
		t.Fatalf("expected fixed no-data answer, got %q", res.Answer)
	}
	if len(res.RelevantEmployees) != 0 {
		t.Fatalf("expected empty result list, got %d", len(res.RelevantEmployees))
	}
	if search.called != 0 {
		t.Fatal("unloaded index must not be searched")
	}
}

func TestQuery_TopKCappedByLoadedCount(t *testing.T) {
	search := &mockSearcher{hits: hitsFixture()}
	svc := newService(search, directoryFixture(), nil)

	if _, err := svc.Query(context.Background(), "engineers"); err != nil {
		t.Fatalf("query: %v", err)
	}
	if search.lastK != 3 {
		t.Fatalf("expected k=3 (min of 5 and loaded), got %d", search.lastK)
	}
}

func TestQuery_ManagerLookup(t *testing.T) {
	search := &mockSearcher{hits: hitsFixture()}
	svc := newService(search, directoryFixture(), nil)

	res, err := svc.Query(context.Background(), "Who is the manager of emp_001?")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	want := "The manager of Ada Lovelace is Grace Hopper."
	if res.Answer != want {
		t.Fatalf("answer = %q, want %q", res.Answer, want)
	}
}

func TestQuery_ManagerLookupByNameAndFragment(t *testing.T) {
	search := &mockSearcher{hits: hitsFixture()}
	svc := newService(search, directoryFixture(), nil)

	res, err := svc.Query(context.Background(), "who is the manager of Ada Lovelace")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(res.Answer, "Grace Hopper") {
		t.Fatalf("name reference not resolved: %q", res.Answer)
	}

	res, err = svc.Query(context.Background(), "manager of 002 please")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(res.Answer, "Alan Turing") {
		t.Fatalf("id fragment not resolved: %q", res.Answer)
	}
}

func TestQuery_ManagerOfManager(t *testing.T) {
	search := &mockSearcher{hits: hitsFixture()}
	svc := newService(search, directoryFixture(), nil)

	res, err := svc.Query(context.Background(), "Who is the manager of the manager of emp_001?")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	want := "The manager of the manager of Ada Lovelace is Alan Turing."
	if res.Answer != want {
		t.Fatalf("answer = %q, want %q", res.Answer, want)
	}

	// emp_002's manager is top-level: only one chain link exists.
	res, err = svc.Query(context.Background(), "manager of the manager of emp_002")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(res.Answer, "don't have a manager above them") {
		t.Fatalf("unexpected answer: %q", res.Answer)
	}
}

func TestQuery_TopLevelHasNoManager(t *testing.T) {
	search := &mockSearcher{hits: hitsFixture()}
	svc := newService(search, directoryFixture(), nil)

	res, err := svc.Query(context.Background(), "who is the manager of emp_003?")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	want := "Alan Turing doesn't have a manager (likely a top-level employee)."
	if res.Answer != want {
		t.Fatalf("answer = %q, want %q", res.Answer, want)
	}
}

func TestQuery_GraphChainPreferredWithFallback(t *testing.T) {
	search := &mockSearcher{hits: hitsFixture()}
	chains := &fakeChains{chain: []domain.ManagerRef{{ID: "emp_009", DisplayFullName: "Graph Manager"}}}
	svc := newService(search, directoryFixture(), chains)

	res, err := svc.Query(context.Background(), "manager of emp_001")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(res.Answer, "Graph Manager") {
		t.Fatalf("graph chain not used: %q", res.Answer)
	}
	if chains.called != 1 {
		t.Fatalf("expected one graph lookup, got %d", chains.called)
	}

	// Graph failure falls back to the in-memory chain.
	broken := &fakeChains{err: errors.New("neo4j down")}
	svc = newService(search, directoryFixture(), broken)
	res, err = svc.Query(context.Background(), "manager of emp_001")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(res.Answer, "Grace Hopper") {
		t.Fatalf("fallback chain not used: %q", res.Answer)
	}
}

func TestQuery_EmploymentTypeFilters(t *testing.T) {
	search := &mockSearcher{hits: hitsFixture()}
	svc := newService(search, directoryFixture(), nil)

	res, err := svc.Query(context.Background(), "list the full-time employees")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	want := "Full-time employees: Ada Lovelace, Grace Hopper"
	if res.Answer != want {
		t.Fatalf("answer = %q, want %q", res.Answer, want)
	}

	res, err = svc.Query(context.Background(), "who works part time?")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	want = "Part-time employees: Alan Turing"
	if res.Answer != want {
		t.Fatalf("answer = %q, want %q", res.Answer, want)
	}
}

func TestQuery_DefaultSummaries(t *testing.T) {
	single := &mockSearcher{hits: hitsFixture()[:1]}
	svc := newService(single, directoryFixture(), nil)

	res, err := svc.Query(context.Background(), "tell me about ada's role")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	want := "Found employee: Ada Lovelace (FULL_TIME). Their manager is Grace Hopper."
	if res.Answer != want {
		t.Fatalf("answer = %q, want %q", res.Answer, want)
	}

	multi := &mockSearcher{hits: hitsFixture()}
	svc = newService(multi, directoryFixture(), nil)
	res, err = svc.Query(context.Background(), "who are our engineers?")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	want = "Found 3 relevant employees. Top matches: Ada Lovelace, Grace Hopper, Alan Turing"
	if res.Answer != want {
		t.Fatalf("answer = %q, want %q", res.Answer, want)
	}
}

func TestQuery_ScoresPropagated(t *testing.T) {
	search := &mockSearcher{hits: hitsFixture()}
	svc := newService(search, directoryFixture(), nil)

	res, err := svc.Query(context.Background(), "engineers")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(res.RelevantEmployees) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(res.RelevantEmployees))
	}
	if res.RelevantEmployees[0].SimilarityScore != 0.92 {
		t.Fatalf("score not propagated: %+v", res.RelevantEmployees[0])
	}
}
