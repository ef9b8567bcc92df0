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

// EmployeeService exposes employee registry use cases.
type EmployeeService interface {
	List(ctx context.Context) ([]dto.EmployeeResponse, error)
	Get(ctx context.Context, id uint) (dto.EmployeeResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.EmployeeCreateRequest) (dto.EmployeeResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.EmployeeUpdateRequest) (dto.EmployeeResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type employeeService struct {
	employees repository.EmployeeRepository
	events    repository.AssignmentEventRepository
	guard     AccessGuard
	sink      AuditSink
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEmployeeService builds the employee registry service.
func NewEmployeeService(
	employees repository.EmployeeRepository,
	events repository.AssignmentEventRepository,
	guard AccessGuard,
	sink AuditSink,
	validate *validator.Validate,
	logger zerolog.Logger,
) EmployeeService {
	return &employeeService{
		employees: employees,
		events:    events,
		guard:     guard,
		sink:      sink,
		validator: validate,
		logger:    logger.With().Str("component", "employee_service").Logger(),
	}
}

func (s *employeeService) List(ctx context.Context) ([]dto.EmployeeResponse, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewEmployeeResponseSlice(employees), nil
}

func (s *employeeService) Get(ctx context.Context, id uint) (dto.EmployeeResponse, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, newNotFound("id", "employee not found")
		}
		return dto.EmployeeResponse{}, err
	}

	return dto.NewEmployeeResponse(employee), nil
}

func (s *employeeService) Create(ctx context.Context, actor Actor, payload dto.EmployeeCreateRequest) (dto.EmployeeResponse, error) {
	if err := s.guard.Authorize(ctx, actor, PermissionManageRegistry); err != nil {
		return dto.EmployeeResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.EmployeeResponse{}, newInvalidAction("", err.Error())
	}

	role := payload.Role
	if role == "" {
		role = "viewer"
	}

	employee := models.Employee{
		Name:  payload.Name,
		Email: payload.Email,
		Role:  role,
	}

	if err := s.employees.Create(ctx, &employee); err != nil {
		return dto.EmployeeResponse{}, err
	}

	s.recordAudit(ctx, actor, employee.ID, AuditActionCreate, fmt.Sprintf("employee %s created", employee.Email))

	return dto.NewEmployeeResponse(employee), nil
}

func (s *employeeService) Update(ctx context.Context, actor Actor, id uint, payload dto.EmployeeUpdateRequest) (dto.EmployeeResponse, error) {
	if err := s.guard.Authorize(ctx, actor, PermissionManageRegistry); err != nil {
		return dto.EmployeeResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.EmployeeResponse{}, newInvalidAction("", err.Error())
	}

	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, newNotFound("id", "employee not found")
		}
		return dto.EmployeeResponse{}, err
	}

	if payload.Name != nil {
		employee.Name = *payload.Name
	}
	if payload.Email != nil {
		employee.Email = *payload.Email
	}
	if payload.Role != nil {
		employee.Role = *payload.Role
	}

	if err := s.employees.Update(ctx, &employee); err != nil {
		return dto.EmployeeResponse{}, err
	}

	s.recordAudit(ctx, actor, employee.ID, AuditActionUpdate, fmt.Sprintf("employee %s updated", employee.Email))

	return dto.NewEmployeeResponse(employee), nil
}

func (s *employeeService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := s.guard.Authorize(ctx, actor, PermissionManageRegistry); err != nil {
		return err
	}

	referenced, err := s.events.CountForEmployee(ctx, id)
	if err != nil {
		return err
	}
	if referenced > 0 {
		return newConflict("employee is referenced by assignment history")
	}

	if err := s.employees.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFound("id", "employee not found")
		}
		return err
	}

	s.recordAudit(ctx, actor, id, AuditActionDelete, fmt.Sprintf("employee %d deleted", id))

	return nil
}

func (s *employeeService) recordAudit(ctx context.Context, actor Actor, entityID uint, action, description string) {
	actorID := actor.ID
	if err := s.sink.Record(ctx, AuditEntry{
		EntityType:  "employee",
		EntityID:    entityID,
		Action:      action,
		Description: description,
		ActorID:     &actorID,
	}); err != nil {
		s.logger.Warn().Err(err).Str("error_kind", string(KindSinkUnavailable)).Msg("audit sink unavailable")
	}
}
