package dto

import (
	"time"

	"github.com/assetdesk-io/assetdesk-api/internal/models"
)

// LocationCreateRequest describes the payload for creating a location.
type LocationCreateRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Floor string `json:"floor" validate:"omitempty,max=64"`
	Room  string `json:"room" validate:"omitempty,max=64"`
}

// LocationUpdateRequest describes a partial location update.
type LocationUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2"`
	Floor *string `json:"floor" validate:"omitempty,max=64"`
	Room  *string `json:"room" validate:"omitempty,max=64"`
}

// LocationResponse is the serialized registry entry.
type LocationResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Floor     string    `json:"floor"`
	Room      string    `json:"room"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLocationResponse converts a model into a DTO.
func NewLocationResponse(model models.Location) LocationResponse {
	return LocationResponse{
		ID:        model.ID,
		Name:      model.Name,
		Floor:     model.Floor,
		Room:      model.Room,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewLocationResponseSlice converts a slice of models into DTOs.
func NewLocationResponseSlice(locations []models.Location) []LocationResponse {
	responses := make([]LocationResponse, 0, len(locations))
	for _, location := range locations {
		responses = append(responses, NewLocationResponse(location))
	}

	return responses
}
