package domain

import (
	"strings"
	"time"
)

// startDateLayout is the wire format for employment start dates.
const startDateLayout = "2006-01-02"

// ValidateEmployee checks a single record before indexing.
func ValidateEmployee(e Employee) error {
	if strings.TrimSpace(e.ID) == "" {
		return NewValidationError("id", e.ID, ErrMissingID)
	}
	if strings.TrimSpace(e.DisplayFullName) == "" {
		return NewValidationError("display_full_name", e.DisplayFullName, ErrMissingName)
	}
	if !ValidEmploymentTypes[e.EmploymentType] {
		return NewValidationError("employment_type", string(e.EmploymentType), ErrUnknownEmploymentType)
	}
	if e.EmploymentStatus != "" && !ValidEmploymentStatuses[e.EmploymentStatus] {
		return NewValidationError("employment_status", string(e.EmploymentStatus), ErrUnknownEmploymentStatus)
	}
	if e.StartDate != "" {
		if _, err := time.Parse(startDateLayout, e.StartDate); err != nil {
			return NewValidationError("start_date", e.StartDate, ErrInvalidStartDate)
		}
	}
	if e.Manager != nil {
		if strings.TrimSpace(e.Manager.ID) == "" {
			return NewValidationError("manager.id", e.Manager.ID, ErrInvalidManagerRef)
		}
		if e.Manager.ID == e.ID {
			return NewValidationError("manager.id", e.Manager.ID, ErrInvalidManagerRef)
		}
	}
	return nil
}

// ValidateBatch checks a whole load batch. An empty batch is rejected, as are
// duplicate IDs within the batch.
func ValidateBatch(employees []Employee) error {
	if len(employees) == 0 {
		return ErrEmptyBatch
	}
	seen := make(map[string]bool, len(employees))
	for _, e := range employees {
		if err := ValidateEmployee(e); err != nil {
			return err
		}
		if seen[e.ID] {
			return NewValidationError("id", e.ID, ErrDuplicateID)
		}
		seen[e.ID] = true
	}
	return nil
}
