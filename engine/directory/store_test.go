package directory

import (
	"testing"

	"github.com/CodeWithNed/company-vector-db/engine/domain"
)

func testEmployees() []domain.Employee {
	return []domain.Employee{
		{
			ID: "emp_001", DisplayFullName: "Ada Lovelace",
			EmploymentType: domain.FullTime, EmploymentStatus: domain.StatusActive,
			Company: domain.CompanyRef{Name: "Acme Corp"},
			Manager: &domain.ManagerRef{ID: "emp_002", DisplayFullName: "Grace Hopper"},
		},
		{
			ID: "emp_002", DisplayFullName: "Grace Hopper",
			EmploymentType: domain.FullTime, EmploymentStatus: domain.StatusActive,
			Company: domain.CompanyRef{Name: "Acme Corp"},
			Manager: &domain.ManagerRef{ID: "emp_003", DisplayFullName: "Alan Turing"},
		},
		{
			ID: "emp_003", DisplayFullName: "Alan Turing",
			EmploymentType: domain.PartTime, EmploymentStatus: domain.StatusActive,
			Company: domain.CompanyRef{Name: "Acme Corp"},
		},
	}
}

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", true)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReplaceBuildsAlignedState(t *testing.T) {
	s := openInMemory(t)
	emps := testEmployees()
	if err := s.Replace(emps); err != nil {
		t.Fatalf("replace: %v", err)
	}

	if s.Len() != len(emps) {
		t.Fatalf("expected %d records, got %d", len(emps), s.Len())
	}

	meta := s.Metadata()
	if len(meta) != len(emps) {
		t.Fatalf("expected %d metadata entries, got %d", len(emps), len(meta))
	}
	for i, m := range meta {
		if m.ID != emps[i].ID {
			t.Fatalf("metadata order broken at %d: got %s want %s", i, m.ID, emps[i].ID)
		}
	}

	e, ok := s.Get("emp_002")
	if !ok || e.DisplayFullName != "Grace Hopper" {
		t.Fatalf("lookup failed: %+v ok=%v", e, ok)
	}
}

func TestReplaceDiscardsPriorState(t *testing.T) {
	s := openInMemory(t)
	if err := s.Replace(testEmployees()); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	next := []domain.Employee{{
		ID: "emp_009", DisplayFullName: "Katherine Johnson",
		EmploymentType: domain.FullTime,
		Company:        domain.CompanyRef{Name: "Acme Corp"},
	}}
	if err := s.Replace(next); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	if s.Len() != 1 {
		t.Fatalf("expected 1 record after reload, got %d", s.Len())
	}
	if _, ok := s.Get("emp_001"); ok {
		t.Fatal("old record survived a reload")
	}
}

func TestManagerChain(t *testing.T) {
	s := openInMemory(t)
	if err := s.Replace(testEmployees()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	chain := s.ManagerChain("emp_001", 2)
	if len(chain) != 2 {
		t.Fatalf("expected chain of 2, got %d", len(chain))
	}
	if chain[0].ID != "emp_002" || chain[1].ID != "emp_003" {
		t.Fatalf("unexpected chain: %+v", chain)
	}

	// Top-level employee has no chain.
	if got := s.ManagerChain("emp_003", 2); len(got) != 0 {
		t.Fatalf("expected empty chain, got %+v", got)
	}

	// Unknown employee.
	if got := s.ManagerChain("emp_404", 2); len(got) != 0 {
		t.Fatalf("expected empty chain for unknown id, got %+v", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	emps := testEmployees()
	if err := s.Replace(emps); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	restored, err := Open(dir, false)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer restored.Close()

	if restored.Len() != len(emps) {
		t.Fatalf("expected %d restored records, got %d", len(emps), restored.Len())
	}
	meta := restored.Metadata()
	for i, m := range meta {
		if m.ID != emps[i].ID {
			t.Fatalf("restored order broken at %d: got %s want %s", i, m.ID, emps[i].ID)
		}
	}
	chain := restored.ManagerChain("emp_001", 2)
	if len(chain) != 2 || chain[1].ID != "emp_003" {
		t.Fatalf("restored chain wrong: %+v", chain)
	}
}
