package mapper

import (
	"encoding/json"

	"physical-ai-textbook-be/internal/entity"
	"physical-ai-textbook-be/internal/model"

	"gorm.io/datatypes"
)

type AuditLogMapper struct{}

func NewAuditLogMapper() *AuditLogMapper {
	return &AuditLogMapper{}
}

func (m *AuditLogMapper) ToEntity(a *model.AuditLog) *entity.AuditLog {
	if a == nil {
		return nil
	}

	var details map[string]interface{}
	if len(a.Details) > 0 {
		// Malformed JSON leaves details nil; the row is still worth returning.
		_ = json.Unmarshal(a.Details, &details)
	}

	return &entity.AuditLog{
		Id:        a.Id,
		UserId:    a.UserId,
		EventType: entity.AuditEventType(a.EventType),
		IpAddress: a.IpAddress,
		UserAgent: a.UserAgent,
		Details:   details,
		Timestamp: a.Timestamp,
	}
}

func (m *AuditLogMapper) ToModel(a *entity.AuditLog) *model.AuditLog {
	if a == nil {
		return nil
	}

	var details datatypes.JSON
	if len(a.Details) > 0 {
		if raw, err := json.Marshal(a.Details); err == nil {
			details = datatypes.JSON(raw)
		}
	}

	return &model.AuditLog{
		Id:        a.Id,
		UserId:    a.UserId,
		EventType: string(a.EventType),
		IpAddress: a.IpAddress,
		UserAgent: a.UserAgent,
		Details:   details,
		Timestamp: a.Timestamp,
	}
}

func (m *AuditLogMapper) ToEntities(logs []*model.AuditLog) []*entity.AuditLog {
	entities := make([]*entity.AuditLog, len(logs))
	for i, l := range logs {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
