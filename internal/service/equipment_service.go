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

// EquipmentService exposes registry use cases for both equipment kinds.
type EquipmentService interface {
	ListComputers(ctx context.Context) ([]dto.ComputerResponse, error)
	GetComputer(ctx context.Context, id uint) (dto.ComputerResponse, error)
	CreateComputer(ctx context.Context, actor Actor, payload dto.ComputerCreateRequest) (dto.ComputerResponse, error)
	UpdateComputer(ctx context.Context, actor Actor, id uint, payload dto.ComputerUpdateRequest) (dto.ComputerResponse, error)
	DeleteComputer(ctx context.Context, actor Actor, id uint) error

	ListDevices(ctx context.Context) ([]dto.DeviceResponse, error)
	GetDevice(ctx context.Context, id uint) (dto.DeviceResponse, error)
	CreateDevice(ctx context.Context, actor Actor, payload dto.DeviceCreateRequest) (dto.DeviceResponse, error)
	UpdateDevice(ctx context.Context, actor Actor, id uint, payload dto.DeviceUpdateRequest) (dto.DeviceResponse, error)
	DeleteDevice(ctx context.Context, actor Actor, id uint) error
}

type equipmentService struct {
	computers repository.ComputerRepository
	devices   repository.DeviceRepository
	events    repository.AssignmentEventRepository
	guard     AccessGuard
	sink      AuditSink
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEquipmentService builds the equipment registry service.
func NewEquipmentService(
	computers repository.ComputerRepository,
	devices repository.DeviceRepository,
	events repository.AssignmentEventRepository,
	guard AccessGuard,
	sink AuditSink,
	validate *validator.Validate,
	logger zerolog.Logger,
) EquipmentService {
	return &equipmentService{
		computers: computers,
		devices:   devices,
		events:    events,
		guard:     guard,
		sink:      sink,
		validator: validate,
		logger:    logger.With().Str("component", "equipment_service").Logger(),
	}
}

func (s *equipmentService) ListComputers(ctx context.Context) ([]dto.ComputerResponse, error) {
	computers, err := s.computers.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewComputerResponseSlice(computers), nil
}

func (s *equipmentService) GetComputer(ctx context.Context, id uint) (dto.ComputerResponse, error) {
	computer, err := s.computers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ComputerResponse{}, newNotFound("id", "computer not found")
		}
		return dto.ComputerResponse{}, err
	}

	return dto.NewComputerResponse(computer), nil
}

func (s *equipmentService) CreateComputer(ctx context.Context, actor Actor, payload dto.ComputerCreateRequest) (dto.ComputerResponse, error) {
	if err := s.guard.Authorize(ctx, actor, PermissionManageRegistry); err != nil {
		return dto.ComputerResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.ComputerResponse{}, newInvalidAction("", err.Error())
	}

	computer := models.Computer{
		Serial:   payload.Serial,
		Hostname: payload.Hostname,
		Model:    payload.Model,
		Notes:    payload.Notes,
	}

	if err := s.computers.Create(ctx, &computer); err != nil {
		return dto.ComputerResponse{}, err
	}

	s.recordAudit(ctx, actor, "computer", computer.ID, AuditActionCreate, fmt.Sprintf("computer %s registered", computer.Serial))

	return dto.NewComputerResponse(computer), nil
}

func (s *equipmentService) UpdateComputer(ctx context.Context, actor Actor, id uint, payload dto.ComputerUpdateRequest) (dto.ComputerResponse, error) {
	if err := s.guard.Authorize(ctx, actor, PermissionManageRegistry); err != nil {
		return dto.ComputerResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.ComputerResponse{}, newInvalidAction("", err.Error())
	}

	computer, err := s.computers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ComputerResponse{}, newNotFound("id", "computer not found")
		}
		return dto.ComputerResponse{}, err
	}

	if payload.Hostname != nil {
		computer.Hostname = *payload.Hostname
	}
	if payload.Model != nil {
		computer.Model = *payload.Model
	}
	if payload.Notes != nil {
		computer.Notes = *payload.Notes
	}

	if err := s.computers.Update(ctx, &computer); err != nil {
		return dto.ComputerResponse{}, err
	}

	s.recordAudit(ctx, actor, "computer", computer.ID, AuditActionUpdate, fmt.Sprintf("computer %s updated", computer.Serial))

	return dto.NewComputerResponse(computer), nil
}

func (s *equipmentService) DeleteComputer(ctx context.Context, actor Actor, id uint) error {
	if err := s.guard.Authorize(ctx, actor, PermissionManageRegistry); err != nil {
		return err
	}

	// Ledger history may never dangle: referenced equipment stays registered.
	referenced, err := s.events.CountForEquipment(ctx, models.KindComputer, id)
	if err != nil {
		return err
	}
	if referenced > 0 {
		return newConflict("computer is referenced by assignment history")
	}

	if err := s.computers.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFound("id", "computer not found")
		}
		return err
	}

	s.recordAudit(ctx, actor, "computer", id, AuditActionDelete, fmt.Sprintf("computer %d deleted", id))

	return nil
}

func (s *equipmentService) ListDevices(ctx context.Context) ([]dto.DeviceResponse, error) {
	devices, err := s.devices.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewDeviceResponseSlice(devices), nil
}

func (s *equipmentService) GetDevice(ctx context.Context, id uint) (dto.DeviceResponse, error) {
	device, err := s.devices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DeviceResponse{}, newNotFound("id", "device not found")
		}
		return dto.DeviceResponse{}, err
	}

	return dto.NewDeviceResponse(device), nil
}

func (s *equipmentService) CreateDevice(ctx context.Context, actor Actor, payload dto.DeviceCreateRequest) (dto.DeviceResponse, error) {
	if err := s.guard.Authorize(ctx, actor, PermissionManageRegistry); err != nil {
		return dto.DeviceResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.DeviceResponse{}, newInvalidAction("", err.Error())
	}

	device := models.Device{
		Serial:   payload.Serial,
		Name:     payload.Name,
		Category: payload.Category,
		Notes:    payload.Notes,
	}

	if err := s.devices.Create(ctx, &device); err != nil {
		return dto.DeviceResponse{}, err
	}

	s.recordAudit(ctx, actor, "device", device.ID, AuditActionCreate, fmt.Sprintf("device %s registered", device.Serial))

	return dto.NewDeviceResponse(device), nil
}

func (s *equipmentService) UpdateDevice(ctx context.Context, actor Actor, id uint, payload dto.DeviceUpdateRequest) (dto.DeviceResponse, error) {
	if err := s.guard.Authorize(ctx, actor, PermissionManageRegistry); err != nil {
		return dto.DeviceResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.DeviceResponse{}, newInvalidAction("", err.Error())
	}

	device, err := s.devices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DeviceResponse{}, newNotFound("id", "device not found")
		}
		return dto.DeviceResponse{}, err
	}

	if payload.Name != nil {
		device.Name = *payload.Name
	}
	if payload.Category != nil {
		device.Category = *payload.Category
	}
	if payload.Notes != nil {
		device.Notes = *payload.Notes
	}

	if err := s.devices.Update(ctx, &device); err != nil {
		return dto.DeviceResponse{}, err
	}

	s.recordAudit(ctx, actor, "device", device.ID, AuditActionUpdate, fmt.Sprintf("device %s updated", device.Serial))

	return dto.NewDeviceResponse(device), nil
}

func (s *equipmentService) DeleteDevice(ctx context.Context, actor Actor, id uint) error {
	if err := s.guard.Authorize(ctx, actor, PermissionManageRegistry); err != nil {
		return err
	}

	referenced, err := s.events.CountForEquipment(ctx, models.KindDevice, id)
	if err != nil {
		return err
	}
	if referenced > 0 {
		return newConflict("device is referenced by assignment history")
	}

	if err := s.devices.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFound("id", "device not found")
		}
		return err
	}

	s.recordAudit(ctx, actor, "device", id, AuditActionDelete, fmt.Sprintf("device %d deleted", id))

	return nil
}

func (s *equipmentService) recordAudit(ctx context.Context, actor Actor, entityType string, entityID uint, action, description string) {
	actorID := actor.ID
	if err := s.sink.Record(ctx, AuditEntry{
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
		ActorID:     &actorID,
	}); err != nil {
		s.logger.Warn().Err(err).Str("error_kind", string(KindSinkUnavailable)).Msg("audit sink unavailable")
	}
}
