package dto

import (
	"time"

	"github.com/assetdesk-io/assetdesk-api/internal/models"
)

// AppendAssignmentRequest describes a new ledger entry. Exactly one of
// ComputerID/DeviceID must be set; the ledger rejects ambiguous references.
type AppendAssignmentRequest struct {
	ComputerID *uint  `json:"computer_id"`
	DeviceID   *uint  `json:"device_id"`
	ActionType string `json:"action_type" validate:"required,oneof=assign_to_employee assign_to_location return retire"`
	LocationID *uint  `json:"location_id"`
	EmployeeID *uint  `json:"employee_id"`
	OccurredAt string `json:"occurred_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// AssignmentEventResponse is the serialized form of one ledger entry.
type AssignmentEventResponse struct {
	ID          uint      `json:"id"`
	EquipmentID uint      `json:"equipment_id"`
	Kind        string    `json:"kind"`
	LocationID  *uint     `json:"location_id"`
	EmployeeID  *uint     `json:"employee_id"`
	ActionType  string    `json:"action_type"`
	OccurredAt  time.Time `json:"occurred_at"`
	Active      bool      `json:"active"`
	CreatedByID uint      `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewAssignmentEventResponse converts a model into a DTO.
func NewAssignmentEventResponse(model models.AssignmentEvent) AssignmentEventResponse {
	return AssignmentEventResponse{
		ID:          model.ID,
		EquipmentID: model.EquipmentID(),
		Kind:        string(model.Kind()),
		LocationID:  model.LocationID,
		EmployeeID:  model.EmployeeID,
		ActionType:  model.ActionType,
		OccurredAt:  model.OccurredAt,
		Active:      model.Active,
		CreatedByID: model.CreatedByID,
		CreatedAt:   model.CreatedAt,
	}
}

// NewAssignmentEventResponseSlice converts a slice of models into DTOs.
func NewAssignmentEventResponseSlice(events []models.AssignmentEvent) []AssignmentEventResponse {
	responses := make([]AssignmentEventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, NewAssignmentEventResponse(event))
	}

	return responses
}

// CurrentAssignmentResponse answers "where is this equipment right now".
// Assigned is false when the equipment has no ledger history.
type CurrentAssignmentResponse struct {
	EquipmentID uint                     `json:"equipment_id"`
	Kind        string                   `json:"kind"`
	Assigned    bool                     `json:"assigned"`
	Event       *AssignmentEventResponse `json:"event,omitempty"`
}

// NewCurrentAssignmentResponse wraps the winning event for one equipment item.
func NewCurrentAssignmentResponse(event models.AssignmentEvent) CurrentAssignmentResponse {
	response := NewAssignmentEventResponse(event)
	return CurrentAssignmentResponse{
		EquipmentID: response.EquipmentID,
		Kind:        response.Kind,
		Assigned:    true,
		Event:       &response,
	}
}
