package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/assetdesk-io/assetdesk-api/internal/dto"
	"github.com/assetdesk-io/assetdesk-api/internal/models"
	"github.com/assetdesk-io/assetdesk-api/internal/repository"
)

// LocationService exposes location registry use cases.
type LocationService interface {
	List(ctx context.Context) ([]dto.LocationResponse, error)
	Get(ctx context.Context, id uint) (dto.LocationResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.LocationCreateRequest) (dto.LocationResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.LocationUpdateRequest) (dto.LocationResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type locationService struct {
	locations repository.LocationRepository
	events    repository.AssignmentEventRepository
	guard     AccessGuard
	sink      AuditSink
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewLocationService builds the location registry service.
func NewLocationService(
	locations repository.LocationRepository,
	events repository.AssignmentEventRepository,
	guard AccessGuard,
	sink AuditSink,
	validate *validator.Validate,
	logger zerolog.Logger,
) LocationService {
	return &locationService{
		locations: locations,
		events:    events,
		guard:     guard,
		sink:      sink,
		validator: validate,
		logger:    logger.With().Str("component", "location_service").Logger(),
	}
}

func (s *locationService) List(ctx context.Context) ([]dto.LocationResponse, error) {
	locations, err := s.locations.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewLocationResponseSlice(locations), nil
}

func (s *locationService) Get(ctx context.Context, id uint) (dto.LocationResponse, error) {
	location, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LocationResponse{}, newNotFound("id", "location not found")
		}
		return dto.LocationResponse{}, err
	}

	return dto.NewLocationResponse(location), nil
}

func (s *locationService) Create(ctx context.Context, actor Actor, payload dto.LocationCreateRequest) (dto.LocationResponse, error) {
	if err := s.guard.Authorize(ctx, actor, PermissionManageRegistry); err != nil {
		return dto.LocationResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.LocationResponse{}, newInvalidAction("", err.Error())
	}

	location := models.Location{
		Name:  payload.Name,
		Floor: payload.Floor,
		Room:  payload.Room,
	}

	if err := s.locations.Create(ctx, &location); err != nil {
		return dto.LocationResponse{}, err
	}

	s.recordAudit(ctx, actor, location.ID, AuditActionCreate, fmt.Sprintf("location %s created", location.Name))

	return dto.NewLocationResponse(location), nil
}

func (s *locationService) Update(ctx context.Context, actor Actor, id uint, payload dto.LocationUpdateRequest) (dto.LocationResponse, error) {
	if err := s.guard.Authorize(ctx, actor, PermissionManageRegistry); err != nil {
		return dto.LocationResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.LocationResponse{}, newInvalidAction("", err.Error())
	}

	location, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LocationResponse{}, newNotFound("id", "location not found")
		}
		return dto.LocationResponse{}, err
	}

	if payload.Name != nil {
		location.Name = *payload.Name
	}
	if payload.Floor != nil {
		location.Floor = *payload.Floor
	}
	if payload.Room != nil {
		location.Room = *payload.Room
	}

	if err := s.locations.Update(ctx, &location); err != nil {
		return dto.LocationResponse{}, err
	}

	s.recordAudit(ctx, actor, location.ID, AuditActionUpdate, fmt.Sprintf("location %s updated", location.Name))

	return dto.NewLocationResponse(location), nil
}

func (s *locationService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := s.guard.Authorize(ctx, actor, PermissionManageRegistry); err != nil {
		return err
	}

	referenced, err := s.events.CountForLocation(ctx, id)
	if err != nil {
		return err
	}
	if referenced > 0 {
		return newConflict("location is referenced by assignment history")
	}

	if err := s.locations.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFound("id", "location not found")
		}
		return err
	}

	s.recordAudit(ctx, actor, id, AuditActionDelete, fmt.Sprintf("location %d deleted", id))

	return nil
}

func (s *locationService) recordAudit(ctx context.Context, actor Actor, entityID uint, action, description string) {
	actorID := actor.ID
	if err := s.sink.Record(ctx, AuditEntry{
		EntityType:  "location",
		EntityID:    entityID,
		Action:      action,
		Description: description,
		ActorID:     &actorID,
	}); err != nil {
		s.logger.Warn().Err(err).Str("error_kind", string(KindSinkUnavailable)).Msg("audit sink unavailable")
	}
}
