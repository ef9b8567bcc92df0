package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/assetdesk-io/assetdesk-api/internal/dto"
	"github.com/assetdesk-io/assetdesk-api/internal/models"
	"github.com/assetdesk-io/assetdesk-api/internal/observability"
	"github.com/assetdesk-io/assetdesk-api/internal/repository"
)

// ResolverService derives "where is this equipment right now" from the ledger.
// It is a pure read-side projection: current state comes from ranking the
// immutable log by (occurred_at, id), never from the last row inserted.
type ResolverService interface {
	ResolveOne(ctx context.Context, kind models.EquipmentKind, equipmentID uint) (dto.CurrentAssignmentResponse, error)
	ResolveAll(ctx context.Context) ([]dto.CurrentAssignmentResponse, error)
}

type resolverService struct {
	events repository.AssignmentEventRepository
	cache  *CurrentAssignmentCache
	logger zerolog.Logger
}

// NewResolverService builds the current-location resolver. The cache may be nil.
func NewResolverService(events repository.AssignmentEventRepository, cache *CurrentAssignmentCache, logger zerolog.Logger) ResolverService {
	return &resolverService{
		events: events,
		cache:  cache,
		logger: logger.With().Str("component", "resolver_service").Logger(),
	}
}

func (s *resolverService) ResolveOne(ctx context.Context, kind models.EquipmentKind, equipmentID uint) (dto.CurrentAssignmentResponse, error) {
	if !kind.Valid() {
		return dto.CurrentAssignmentResponse{}, newInvalidAction("kind", "unrecognised equipment kind")
	}

	if cached, ok := s.cache.Get(ctx, kind, equipmentID); ok {
		observability.ResolverLookups().WithLabelValues("hit").Inc()
		return cached, nil
	}
	observability.ResolverLookups().WithLabelValues("miss").Inc()

	event, err := s.events.Latest(ctx, kind, equipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Empty history is an answer, not an error.
			response := dto.CurrentAssignmentResponse{
				EquipmentID: equipmentID,
				Kind:        string(kind),
				Assigned:    false,
			}
			s.cache.Set(ctx, kind, equipmentID, response)
			return response, nil
		}
		return dto.CurrentAssignmentResponse{}, err
	}

	response := dto.NewCurrentAssignmentResponse(event)
	s.cache.Set(ctx, kind, equipmentID, response)

	return response, nil
}

func (s *resolverService) ResolveAll(ctx context.Context) ([]dto.CurrentAssignmentResponse, error) {
	// Recomputed fresh on every call; bulk reports never go through the cache.
	events, err := s.events.LatestAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CurrentAssignmentResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, dto.NewCurrentAssignmentResponse(event))
	}

	return responses, nil
}
