package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/assetdesk-io/assetdesk-api/internal/models"
)

// LocationRepository defines persistence operations for the location registry.
type LocationRepository interface {
	List(ctx context.Context) ([]models.Location, error)
	GetByID(ctx context.Context, id uint) (models.Location, error)
	Create(ctx context.Context, location *models.Location) error
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id uint) error
}

type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository instantiates a GORM-backed location registry.
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) List(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&locations).Error; err != nil {
		return nil, err
	}

	return locations, nil
}

func (r *locationRepository) GetByID(ctx context.Context, id uint) (models.Location, error) {
	var location models.Location
	if err := r.db.WithContext(ctx).First(&location, id).Error; err != nil {
		return models.Location{}, err
	}

	return location, nil
}

func (r *locationRepository) Create(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *locationRepository) Update(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

func (r *locationRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Location{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
