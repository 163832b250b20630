package inventory

import (
	"encoding/json"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
)

// auditEntry arma la entrada de auditoría; los valores se serializan a JSON (nil → vacío).
func auditEntry(actor, action, resourceType, resourceID string, oldValues, newValues, metadata any) *entity.AuditLog {
	return &entity.AuditLog{
		UserID:       actor,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    toJSON(oldValues),
		NewValues:    toJSON(newValues),
		Metadata:     toJSON(metadata),
	}
}

func toJSON(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func pairID(stationID, ppeItemID string) string {
	return stationID + ":" + ppeItemID
}
