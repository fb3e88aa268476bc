package domain

import (
	"errors"
	"testing"
)

func validEmployee() Employee {
	return Employee{
		ID:               "emp_001",
		DisplayFullName:  "Ada Lovelace",
		FirstName:        "Ada",
		LastName:         "Lovelace",
		EmploymentStatus: StatusActive,
		EmploymentType:   FullTime,
		StartDate:        "2020-01-15",
		Company:          CompanyRef{Name: "Acme Corp"},
		Manager:          &ManagerRef{ID: "emp_002", DisplayFullName: "Grace Hopper"},
	}
}

func TestValidateEmployee_OK(t *testing.T) {
	if err := ValidateEmployee(validEmployee()); err != nil {
		t.Fatalf("expected valid employee, got %v", err)
	}
}

func TestValidateEmployee_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Employee)
		wantErr error
	}{
		{"missing id", func(e *Employee) { e.ID = "  " }, ErrMissingID},
		{"missing name", func(e *Employee) { e.DisplayFullName = "" }, ErrMissingName},
		{"bad type", func(e *Employee) { e.EmploymentType = "SEASONAL" }, ErrUnknownEmploymentType},
		{"bad status", func(e *Employee) { e.EmploymentStatus = "RETIRED" }, ErrUnknownEmploymentStatus},
		{"bad start date", func(e *Employee) { e.StartDate = "15/01/2020" }, ErrInvalidStartDate},
		{"manager without id", func(e *Employee) { e.Manager = &ManagerRef{DisplayFullName: "X"} }, ErrInvalidManagerRef},
		{"self managed", func(e *Employee) { e.Manager = &ManagerRef{ID: "emp_001"} }, ErrInvalidManagerRef},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validEmployee()
			tc.mutate(&e)
			err := ValidateEmployee(e)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateEmployee_OptionalFields(t *testing.T) {
	e := validEmployee()
	e.EmploymentStatus = ""
	e.StartDate = ""
	e.Manager = nil
	if err := ValidateEmployee(e); err != nil {
		t.Fatalf("optional fields should be allowed empty, got %v", err)
	}
}

func TestValidateBatch(t *testing.T) {
	if err := ValidateBatch(nil); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}

	a := validEmployee()
	b := validEmployee()
	b.ID = "emp_002"
	b.Manager = nil
	if err := ValidateBatch([]Employee{a, b}); err != nil {
		t.Fatalf("expected valid batch, got %v", err)
	}

	dup := validEmployee()
	if err := ValidateBatch([]Employee{a, dup}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestMetadataFor(t *testing.T) {
	e := validEmployee()
	m := MetadataFor(e)
	if m.ID != e.ID || m.Name != e.DisplayFullName || m.Company != "Acme Corp" {
		t.Fatalf("unexpected projection: %+v", m)
	}
	if m.ManagerID != "emp_002" || m.ManagerName != "Grace Hopper" {
		t.Fatalf("manager not projected: %+v", m)
	}

	e.Manager = nil
	m = MetadataFor(e)
	if m.ManagerID != "" || m.ManagerName != "" {
		t.Fatalf("expected empty manager fields, got %+v", m)
	}
}
