package dto

import (
	"time"

	"github.com/assetdesk-io/assetdesk-api/internal/models"
)

// ComputerCreateRequest describes the payload for registering a computer.
type ComputerCreateRequest struct {
	Serial   string `json:"serial" validate:"required,min=3"`
	Hostname string `json:"hostname" validate:"omitempty,max=255"`
	Model    string `json:"model" validate:"omitempty,max=255"`
	Notes    string `json:"notes"`
}

// ComputerUpdateRequest describes a partial computer update.
type ComputerUpdateRequest struct {
	Hostname *string `json:"hostname" validate:"omitempty,max=255"`
	Model    *string `json:"model" validate:"omitempty,max=255"`
	Notes    *string `json:"notes"`
}

// ComputerResponse is the serialized registry entry.
type ComputerResponse struct {
	ID        uint      `json:"id"`
	Serial    string    `json:"serial"`
	Hostname  string    `json:"hostname"`
	Model     string    `json:"model"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewComputerResponse converts a model into a DTO.
func NewComputerResponse(model models.Computer) ComputerResponse {
	return ComputerResponse{
		ID:        model.ID,
		Serial:    model.Serial,
		Hostname:  model.Hostname,
		Model:     model.Model,
		Notes:     model.Notes,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewComputerResponseSlice converts a slice of models into DTOs.
func NewComputerResponseSlice(computers []models.Computer) []ComputerResponse {
	responses := make([]ComputerResponse, 0, len(computers))
	for _, computer := range computers {
		responses = append(responses, NewComputerResponse(computer))
	}

	return responses
}

// DeviceCreateRequest describes the payload for registering a device.
type DeviceCreateRequest struct {
	Serial   string `json:"serial" validate:"required,min=3"`
	Name     string `json:"name" validate:"required,min=2"`
	Category string `json:"category" validate:"omitempty,max=64"`
	Notes    string `json:"notes"`
}

// DeviceUpdateRequest describes a partial device update.
type DeviceUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2"`
	Category *string `json:"category" validate:"omitempty,max=64"`
	Notes    *string `json:"notes"`
}

// DeviceResponse is the serialized registry entry.
type DeviceResponse struct {
	ID        uint      `json:"id"`
	Serial    string    `json:"serial"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDeviceResponse converts a model into a DTO.
func NewDeviceResponse(model models.Device) DeviceResponse {
	return DeviceResponse{
		ID:        model.ID,
		Serial:    model.Serial,
		Name:      model.Name,
		Category:  model.Category,
		Notes:     model.Notes,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewDeviceResponseSlice converts a slice of models into DTOs.
func NewDeviceResponseSlice(devices []models.Device) []DeviceResponse {
	responses := make([]DeviceResponse, 0, len(devices))
	for _, device := range devices {
		responses = append(responses, NewDeviceResponse(device))
	}

	return responses
}
