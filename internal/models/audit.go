package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog captures one structured change notification emitted after a
// successful mutation.
type AuditLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	ActorID     *uint             `json:"actor_id"`
	Action      string            `gorm:"size:16;not null" json:"action"`
	EntityType  string            `gorm:"size:64;not null" json:"entity_type"`
	EntityID    uint              `gorm:"not null" json:"entity_id"`
	Description string            `gorm:"size:512" json:"description"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt   time.Time         `json:"created_at"`
}
