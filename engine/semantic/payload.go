package semantic

import (
	pb "github.com/qdrant/go-client/qdrant"

	"github.com/CodeWithNed/company-vector-db/engine/domain"
)

// Payload keys mirror the flattened metadata projection.
const (
	keyEmployeeID       = "id"
	keyName             = "name"
	keyEmploymentType   = "employment_type"
	keyEmploymentStatus = "employment_status"
	keyManagerID        = "manager_id"
	keyManagerName      = "manager_name"
	keyCompany          = "company"
)

func strValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func payloadFromMeta(m domain.Metadata) map[string]*pb.Value {
	payload := map[string]*pb.Value{
		keyEmployeeID:       strValue(m.ID),
		keyName:             strValue(m.Name),
		keyEmploymentType:   strValue(string(m.EmploymentType)),
		keyEmploymentStatus: strValue(string(m.EmploymentStatus)),
		keyCompany:          strValue(m.Company),
	}
	if m.ManagerID != "" {
		payload[keyManagerID] = strValue(m.ManagerID)
		payload[keyManagerName] = strValue(m.ManagerName)
	}
	return payload
}

func metaFromPayload(payload map[string]*pb.Value) domain.Metadata {
	get := func(key string) string {
		if v, ok := payload[key]; ok {
			return v.GetStringValue()
		}
		return ""
	}
	return domain.Metadata{
		ID:               get(keyEmployeeID),
		Name:             get(keyName),
		EmploymentType:   domain.EmploymentType(get(keyEmploymentType)),
		EmploymentStatus: domain.EmploymentStatus(get(keyEmploymentStatus)),
		ManagerID:        get(keyManagerID),
		ManagerName:      get(keyManagerName),
		Company:          get(keyCompany),
	}
}
