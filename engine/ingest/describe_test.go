package ingest

import (
	"strings"
	"testing"

	"github.com/CodeWithNed/company-vector-db/engine/domain"
)

func TestDescribe_WithManager(t *testing.T) {
	e := domain.Employee{
		ID: "emp_001", DisplayFullName: "Ada Lovelace",
		FirstName: "Ada", LastName: "Lovelace",
		EmploymentStatus: domain.StatusActive, EmploymentType: domain.FullTime,
		StartDate: "2020-01-15",
		Company:   domain.CompanyRef{Name: "Acme Corp"},
		Manager:   &domain.ManagerRef{ID: "emp_002", DisplayFullName: "Grace Hopper"},
	}

	text := Describe(e)
	for _, want := range []string{
		"Employee ID: emp_001",
		"Name: Ada Lovelace",
		"Employment Status: ACTIVE",
		"Employment Type: FULL_TIME",
		"Start Date: 2020-01-15",
		"Company: Acme Corp",
		"Manager: Grace Hopper (ID: emp_002)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("blob missing %q:\n%s", want, text)
		}
	}
}

func TestDescribe_TopLevel(t *testing.T) {
	e := domain.Employee{ID: "emp_003", DisplayFullName: "Alan Turing", EmploymentType: domain.PartTime}
	text := Describe(e)
	if !strings.Contains(text, "No manager (likely a top-level employee)") {
		t.Fatalf("blob should note the missing manager:\n%s", text)
	}
}
