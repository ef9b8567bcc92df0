package dto

import (
	"time"

	"github.com/assetdesk-io/assetdesk-api/internal/models"
)

// AuditListRequest narrows the audit trail listing.
type AuditListRequest struct {
	Page       int    `query:"page" validate:"omitempty,min=1"`
	PageSize   int    `query:"page_size" validate:"omitempty,min=1,max=200"`
	ActorID    *uint  `query:"actor_id"`
	Action     string `query:"action" validate:"omitempty,oneof=CREATE UPDATE DELETE"`
	EntityType string `query:"entity_type" validate:"omitempty,max=64"`
}

// AuditLogResponse is the serialized audit trail entry.
type AuditLogResponse struct {
	ID          uint                   `json:"id"`
	ActorID     *uint                  `json:"actor_id"`
	Action      string                 `json:"action"`
	EntityType  string                 `json:"entity_type"`
	EntityID    uint                   `json:"entity_id"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
	CreatedAt   time.Time              `json:"created_at"`
}

// NewAuditLogResponse converts a model into a DTO.
func NewAuditLogResponse(model models.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:          model.ID,
		ActorID:     model.ActorID,
		Action:      model.Action,
		EntityType:  model.EntityType,
		EntityID:    model.EntityID,
		Description: model.Description,
		Metadata:    map[string]interface{}(model.Metadata),
		CreatedAt:   model.CreatedAt,
	}
}

// NewAuditLogResponseSlice converts a slice of models into DTOs.
func NewAuditLogResponseSlice(entries []models.AuditLog) []AuditLogResponse {
	responses := make([]AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewAuditLogResponse(entry))
	}

	return responses
}
