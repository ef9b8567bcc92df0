package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/assetdesk-io/assetdesk-api/internal/dto"
	"github.com/assetdesk-io/assetdesk-api/internal/models"
	"github.com/assetdesk-io/assetdesk-api/internal/observability"
	"github.com/assetdesk-io/assetdesk-api/internal/repository"
)

// LedgerService accepts assignment actions, validates them against the
// registries, appends them immutably and exposes per-equipment history.
type LedgerService interface {
	Append(ctx context.Context, actor Actor, payload dto.AppendAssignmentRequest) (dto.AssignmentEventResponse, error)
	History(ctx context.Context, kind models.EquipmentKind, equipmentID uint) ([]dto.AssignmentEventResponse, error)
}

type ledgerService struct {
	events    repository.AssignmentEventRepository
	computers repository.ComputerRepository
	devices   repository.DeviceRepository
	locations repository.LocationRepository
	employees repository.EmployeeRepository
	guard     AccessGuard
	sink      AuditSink
	cache     *CurrentAssignmentCache
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewLedgerService builds the assignment ledger. The cache may be nil.
func NewLedgerService(
	events repository.AssignmentEventRepository,
	computers repository.ComputerRepository,
	devices repository.DeviceRepository,
	locations repository.LocationRepository,
	employees repository.EmployeeRepository,
	guard AccessGuard,
	sink AuditSink,
	cache *CurrentAssignmentCache,
	validate *validator.Validate,
	logger zerolog.Logger,
) LedgerService {
	return &ledgerService{
		events:    events,
		computers: computers,
		devices:   devices,
		locations: locations,
		employees: employees,
		guard:     guard,
		sink:      sink,
		cache:     cache,
		validator: validate,
		logger:    logger.With().Str("component", "ledger_service").Logger(),
		now:       time.Now,
	}
}

func (s *ledgerService) Append(ctx context.Context, actor Actor, payload dto.AppendAssignmentRequest) (dto.AssignmentEventResponse, error) {
	// Authorization happens before any validation or persistence and a denial
	// produces no audit record.
	if err := s.guard.Authorize(ctx, actor, PermissionAssignEquipment); err != nil {
		return dto.AssignmentEventResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentEventResponse{}, newInvalidAction("", err.Error())
	}

	if (payload.ComputerID == nil) == (payload.DeviceID == nil) {
		return dto.AssignmentEventResponse{}, newInvalidAction("computer_id", "exactly one of computer_id or device_id must be set")
	}

	if err := validateTargets(payload); err != nil {
		return dto.AssignmentEventResponse{}, err
	}

	kind, equipmentID, err := s.checkReferences(ctx, payload)
	if err != nil {
		return dto.AssignmentEventResponse{}, err
	}

	occurredAt, err := s.resolveOccurredAt(payload.OccurredAt)
	if err != nil {
		return dto.AssignmentEventResponse{}, err
	}

	created, err := s.appendWithRetry(ctx, actor, payload, occurredAt)
	if err != nil {
		return dto.AssignmentEventResponse{}, err
	}

	observability.LedgerAppends().WithLabelValues(created.ActionType).Inc()
	s.cache.Invalidate(ctx, kind, equipmentID)

	// Best-effort: a failing sink is logged, never rolled back into the ledger.
	actorID := actor.ID
	if err := s.sink.Record(ctx, AuditEntry{
		EntityType:  "assignment_event",
		EntityID:    created.ID,
		Action:      AuditActionCreate,
		Description: describeEvent(created),
		ActorID:     &actorID,
		Metadata: map[string]interface{}{
			"kind":         string(kind),
			"equipment_id": equipmentID,
			"action_type":  created.ActionType,
		},
	}); err != nil {
		observability.AuditFailures().Inc()
		s.logger.Warn().
			Err(err).
			Str("error_kind", string(KindSinkUnavailable)).
			Uint("event_id", created.ID).
			Msg("audit sink unavailable")
	}

	s.logger.Info().
		Uint("event_id", created.ID).
		Str("kind", string(kind)).
		Uint("equipment_id", equipmentID).
		Str("action_type", created.ActionType).
		Msg("assignment event appended")

	return dto.NewAssignmentEventResponse(created), nil
}

func (s *ledgerService) History(ctx context.Context, kind models.EquipmentKind, equipmentID uint) ([]dto.AssignmentEventResponse, error) {
	if !kind.Valid() {
		return nil, newInvalidAction("kind", "unrecognised equipment kind")
	}

	events, err := s.events.History(ctx, kind, equipmentID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentEventResponseSlice(events), nil
}

func (s *ledgerService) appendWithRetry(ctx context.Context, actor Actor, payload dto.AppendAssignmentRequest, occurredAt time.Time) (models.AssignmentEvent, error) {
	appendOnce := func() (models.AssignmentEvent, error) {
		event := models.AssignmentEvent{
			ComputerID:  payload.ComputerID,
			DeviceID:    payload.DeviceID,
			LocationID:  payload.LocationID,
			EmployeeID:  payload.EmployeeID,
			ActionType:  payload.ActionType,
			OccurredAt:  occurredAt,
			CreatedByID: actor.ID,
		}
		err := s.events.AppendSuperseding(ctx, &event)
		return event, err
	}

	created, err := appendOnce()
	if err != nil && errors.Is(err, repository.ErrSerialization) {
		s.logger.Warn().Err(err).Msg("append lost a concurrent-write race, retrying once")
		created, err = appendOnce()
	}
	if err != nil {
		if errors.Is(err, repository.ErrSerialization) {
			observability.LedgerConflicts().Inc()
			return models.AssignmentEvent{}, newConflict("concurrent assignment for this equipment, retry the request")
		}
		return models.AssignmentEvent{}, err
	}

	return created, nil
}

func (s *ledgerService) checkReferences(ctx context.Context, payload dto.AppendAssignmentRequest) (models.EquipmentKind, uint, error) {
	var kind models.EquipmentKind
	var equipmentID uint

	switch {
	case payload.ComputerID != nil:
		kind = models.KindComputer
		equipmentID = *payload.ComputerID
		if _, err := s.computers.GetByID(ctx, equipmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", 0, newNotFound("computer_id", "computer not found")
			}
			return "", 0, err
		}
	default:
		kind = models.KindDevice
		equipmentID = *payload.DeviceID
		if _, err := s.devices.GetByID(ctx, equipmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", 0, newNotFound("device_id", "device not found")
			}
			return "", 0, err
		}
	}

	if payload.LocationID != nil {
		if _, err := s.locations.GetByID(ctx, *payload.LocationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", 0, newNotFound("location_id", "location not found")
			}
			return "", 0, err
		}
	}

	if payload.EmployeeID != nil {
		if _, err := s.employees.GetByID(ctx, *payload.EmployeeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", 0, newNotFound("employee_id", "employee not found")
			}
			return "", 0, err
		}
	}

	return kind, equipmentID, nil
}

func (s *ledgerService) resolveOccurredAt(raw string) (time.Time, error) {
	if raw == "" {
		// Microsecond resolution keeps the (occurred_at, id) tiebreak meaningful
		// for bulk operations landing inside the same instant.
		return s.now().UTC().Truncate(time.Microsecond), nil
	}

	occurredAt, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, newInvalidAction("occurred_at", "invalid timestamp")
	}

	return occurredAt.UTC().Truncate(time.Microsecond), nil
}

func validateTargets(payload dto.AppendAssignmentRequest) error {
	switch payload.ActionType {
	case models.ActionAssignToEmployee:
		if payload.EmployeeID == nil {
			return newInvalidAction("employee_id", "assign_to_employee requires a target employee")
		}
		if payload.LocationID != nil {
			return newInvalidAction("location_id", "assign_to_employee does not take a target location")
		}
	case models.ActionAssignToLocation:
		if payload.LocationID == nil {
			return newInvalidAction("location_id", "assign_to_location requires a target location")
		}
		if payload.EmployeeID != nil {
			return newInvalidAction("employee_id", "assign_to_location does not take a target employee")
		}
	case models.ActionReturn, models.ActionRetire:
		if payload.EmployeeID != nil {
			return newInvalidAction("employee_id", payload.ActionType+" clears both targets")
		}
		if payload.LocationID != nil {
			return newInvalidAction("location_id", payload.ActionType+" clears both targets")
		}
	default:
		return newInvalidAction("action_type", "unrecognised action type")
	}

	return nil
}

func describeEvent(event models.AssignmentEvent) string {
	subject := fmt.Sprintf("%s %d", event.Kind(), event.EquipmentID())
	switch event.ActionType {
	case models.ActionAssignToEmployee:
		return fmt.Sprintf("%s assigned to employee %d", subject, *event.EmployeeID)
	case models.ActionAssignToLocation:
		return fmt.Sprintf("%s assigned to location %d", subject, *event.LocationID)
	case models.ActionReturn:
		return fmt.Sprintf("%s returned", subject)
	case models.ActionRetire:
		return fmt.Sprintf("%s retired", subject)
	default:
		return fmt.Sprintf("%s %s", subject, event.ActionType)
	}
}
