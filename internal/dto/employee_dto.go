package dto

import (
	"time"

	"github.com/assetdesk-io/assetdesk-api/internal/models"
)

// EmployeeCreateRequest describes the payload for creating an employee.
type EmployeeCreateRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin it_staff viewer"`
}

// EmployeeUpdateRequest describes a partial employee update.
type EmployeeUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role" validate:"omitempty,oneof=admin it_staff viewer"`
}

// EmployeeResponse is the serialized registry entry.
type EmployeeResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEmployeeResponse converts a model into a DTO.
func NewEmployeeResponse(model models.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewEmployeeResponseSlice converts a slice of models into DTOs.
func NewEmployeeResponseSlice(employees []models.Employee) []EmployeeResponse {
	responses := make([]EmployeeResponse, 0, len(employees))
	for _, employee := range employees {
		responses = append(responses, NewEmployeeResponse(employee))
	}

	return responses
}
