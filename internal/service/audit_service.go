package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/assetdesk-io/assetdesk-api/internal/dto"
	"github.com/assetdesk-io/assetdesk-api/internal/models"
	"github.com/assetdesk-io/assetdesk-api/internal/repository"
)

// Audit actions recorded by the sink.
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// AuditEntry is one structured change notification.
type AuditEntry struct {
	EntityType  string                 `json:"entity_type"`
	EntityID    uint                   `json:"entity_id"`
	Action      string                 `json:"action"`
	Description string                 `json:"description"`
	ActorID     *uint                  `json:"actor_id"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// AuditSink receives structured change notifications after successful
// mutations. Callers treat Record as best-effort: a sink failure never rolls
// back the mutation that triggered it.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AuditPublisher fans recorded entries out to a message broker.
type AuditPublisher interface {
	Publish(payload interface{}) error
}

// AuditService persists and serves the audit trail.
type AuditService interface {
	AuditSink
	List(ctx context.Context, filter dto.AuditListRequest) ([]dto.AuditLogResponse, int64, error)
}

type auditService struct {
	repo      repository.AuditLogRepository
	publisher AuditPublisher
	logger    zerolog.Logger
}

// NewAuditService builds the audit trail service. The publisher may be nil
// when no broker is configured.
func NewAuditService(repo repository.AuditLogRepository, publisher AuditPublisher, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) error {
	log := models.AuditLog{
		ActorID:     entry.ActorID,
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Description: entry.Description,
		Metadata:    datatypes.JSONMap(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &log); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(entry); err != nil {
			// Broker fan-out is secondary to the persisted trail.
			s.logger.Warn().Err(err).Str("entity_type", entry.EntityType).Msg("audit publish failed")
		}
	}

	return nil
}

func (s *auditService) List(ctx context.Context, filter dto.AuditListRequest) ([]dto.AuditLogResponse, int64, error) {
	entries, total, err := s.repo.List(ctx, repository.AuditLogFilter{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		ActorID:    filter.ActorID,
		Action:     filter.Action,
		EntityType: filter.EntityType,
	})
	if err != nil {
		return nil, 0, err
	}

	return dto.NewAuditLogResponseSlice(entries), total, nil
}
