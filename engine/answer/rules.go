package answer

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/CodeWithNed/company-vector-db/engine/domain"
)

// generate applies a fixed, ordered set of pattern checks to the lowercased
// query. Order matters: manager questions win over employment-type filters,
// which win over the generic summary.
func (s *Service) generate(ctx context.Context, query string, matches []Match) string {
	lower := strings.ToLower(query)

	if len(matches) == 0 {
		return "No relevant employees found for your query."
	}

	if strings.Contains(lower, "manager") {
		if answer, ok := s.managerAnswer(ctx, lower); ok {
			return answer
		}
	}

	if mentionsType(lower, "full") {
		if answer, ok := typeFilterAnswer(matches, "FULL_TIME", "Full-time"); ok {
			return answer
		}
	}
	if mentionsType(lower, "part") {
		if answer, ok := typeFilterAnswer(matches, "PART_TIME", "Part-time"); ok {
			return answer
		}
	}

	return summaryAnswer(matches)
}

// managerAnswer resolves manager and manager-of-manager questions for the
// employee the query refers to.
func (s *Service) managerAnswer(ctx context.Context, lower string) (string, bool) {
	e, ok := s.referencedEmployee(lower)
	if !ok {
		return "", false
	}

	chain := s.managerChain(ctx, e.ID, 2)
	name := e.DisplayFullName

	// "manager of the manager of X" style questions mention "manager" at
	// least twice.
	if strings.Count(lower, "manager") >= 2 && strings.Contains(lower, "manager of") {
		switch {
		case len(chain) >= 2:
			return fmt.Sprintf("The manager of the manager of %s is %s.", name, chain[1].DisplayFullName), true
		case len(chain) == 1:
			return fmt.Sprintf("The manager of %s is %s, but they don't have a manager above them.", name, chain[0].DisplayFullName), true
		default:
			return fmt.Sprintf("%s doesn't have a manager.", name), true
		}
	}

	if len(chain) >= 1 {
		return fmt.Sprintf("The manager of %s is %s.", name, chain[0].DisplayFullName), true
	}
	return fmt.Sprintf("%s doesn't have a manager (likely a top-level employee).", name), true
}

// referencedEmployee finds the loaded employee the query mentions, matching
// full IDs and display names first and distinctive ID fragments second.
func (s *Service) referencedEmployee(lower string) (domain.Employee, bool) {
	all := s.records.All()

	for _, e := range all {
		if strings.Contains(lower, strings.ToLower(e.ID)) ||
			strings.Contains(lower, strings.ToLower(e.DisplayFullName)) {
			return e, true
		}
	}

	for _, e := range all {
		for _, frag := range idFragments(e.ID) {
			if strings.Contains(lower, frag) {
				return e, true
			}
		}
	}
	return domain.Employee{}, false
}

// idFragments splits an ID like "emp_001" into its distinctive pieces so a
// query saying just "001" still resolves.
func idFragments(id string) []string {
	parts := strings.FieldsFunc(strings.ToLower(id), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var frags []string
	for _, p := range parts {
		if len(p) >= 2 && strings.ContainsFunc(p, unicode.IsDigit) {
			frags = append(frags, p)
		}
	}
	return frags
}

func mentionsType(lower, prefix string) bool {
	return strings.Contains(lower, prefix+"-time") || strings.Contains(lower, prefix+" time")
}

func typeFilterAnswer(matches []Match, employmentType, label string) (string, bool) {
	var names []string
	for _, m := range matches {
		if string(m.EmploymentType) == employmentType {
			names = append(names, m.Name)
		}
	}
	if len(names) == 0 {
		return "", false
	}
	return fmt.Sprintf("%s employees: %s", label, strings.Join(names, ", ")), true
}

func summaryAnswer(matches []Match) string {
	if len(matches) == 1 {
		m := matches[0]
		managerInfo := " They don't have a manager."
		if m.ManagerName != "" {
			managerInfo = fmt.Sprintf(" Their manager is %s.", m.ManagerName)
		}
		return fmt.Sprintf("Found employee: %s (%s).%s", m.Name, m.EmploymentType, managerInfo)
	}

	top := matches
	if len(top) > 3 {
		top = top[:3]
	}
	names := make([]string, len(top))
	for i, m := range top {
		names[i] = m.Name
	}
	return fmt.Sprintf("Found %d relevant employees. Top matches: %s", len(matches), strings.Join(names, ", "))
}
