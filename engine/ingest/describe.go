package ingest

import (
	"fmt"
	"strings"

	"github.com/CodeWithNed/company-vector-db/engine/domain"
)

// Describe builds the descriptive text blob that gets embedded for an
// employee. The blob carries everything a free-text question might refer to:
// name, status, type, start date, company, and manager or the absence of one.
func Describe(e domain.Employee) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Employee ID: %s\n", e.ID)
	fmt.Fprintf(&b, "Name: %s\n", e.DisplayFullName)
	fmt.Fprintf(&b, "First Name: %s\n", e.FirstName)
	fmt.Fprintf(&b, "Last Name: %s\n", e.LastName)
	fmt.Fprintf(&b, "Employment Status: %s\n", e.EmploymentStatus)
	fmt.Fprintf(&b, "Employment Type: %s\n", e.EmploymentType)
	fmt.Fprintf(&b, "Start Date: %s\n", e.StartDate)
	fmt.Fprintf(&b, "Company: %s\n", e.Company.Name)
	if e.Manager != nil {
		fmt.Fprintf(&b, "Manager: %s (ID: %s)", e.Manager.DisplayFullName, e.Manager.ID)
	} else {
		b.WriteString("No manager (likely a top-level employee)")
	}
	return b.String()
}
