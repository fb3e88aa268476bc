// Package domain defines the employee directory model, enumerations, and
// validation for records entering the load pipeline. It acts as the
// validation gate at pipeline entry points.
package domain

// EmploymentType classifies how an employee is engaged.
type EmploymentType string

const (
	FullTime EmploymentType = "FULL_TIME"
	PartTime EmploymentType = "PART_TIME"
	Contract EmploymentType = "CONTRACT"
	Intern   EmploymentType = "INTERN"
)

// ValidEmploymentTypes is the set of recognised employment types.
var ValidEmploymentTypes = map[EmploymentType]bool{
	FullTime: true, PartTime: true, Contract: true, Intern: true,
}

// EmploymentStatus classifies whether an employee is currently engaged.
type EmploymentStatus string

const (
	StatusActive     EmploymentStatus = "ACTIVE"
	StatusInactive   EmploymentStatus = "INACTIVE"
	StatusOnLeave    EmploymentStatus = "ON_LEAVE"
	StatusTerminated EmploymentStatus = "TERMINATED"
)

// ValidEmploymentStatuses is the set of recognised employment statuses.
var ValidEmploymentStatuses = map[EmploymentStatus]bool{
	StatusActive: true, StatusInactive: true, StatusOnLeave: true,
	StatusTerminated: true,
}

// CompanyRef identifies the company an employee belongs to.
type CompanyRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// ManagerRef is a lightweight reference to another employee.
type ManagerRef struct {
	ID              string `json:"id"`
	DisplayFullName string `json:"display_full_name"`
}

// Employee is a single directory record. Records are immutable once loaded
// and replaced wholesale on each load.
type Employee struct {
	ID               string           `json:"id"`
	DisplayFullName  string           `json:"display_full_name"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	EmploymentStatus EmploymentStatus `json:"employment_status"`
	EmploymentType   EmploymentType   `json:"employment_type"`
	StartDate        string           `json:"start_date"`
	Company          CompanyRef       `json:"company"`
	Manager          *ManagerRef      `json:"manager,omitempty"`
}

// Metadata is the flattened per-employee projection stored alongside each
// vector and kept in load order by the directory store.
type Metadata struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	EmploymentType   EmploymentType   `json:"employment_type"`
	EmploymentStatus EmploymentStatus `json:"employment_status"`
	ManagerID        string           `json:"manager_id,omitempty"`
	ManagerName      string           `json:"manager_name,omitempty"`
	Company          string           `json:"company"`
}

// MetadataFor builds the flattened projection for an employee.
func MetadataFor(e Employee) Metadata {
	m := Metadata{
		ID:               e.ID,
		Name:             e.DisplayFullName,
		EmploymentType:   e.EmploymentType,
		EmploymentStatus: e.EmploymentStatus,
		Company:          e.Company.Name,
	}
	if e.Manager != nil {
		m.ManagerID = e.Manager.ID
		m.ManagerName = e.Manager.DisplayFullName
	}
	return m
}
