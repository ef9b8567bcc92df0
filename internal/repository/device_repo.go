package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/assetdesk-io/assetdesk-api/internal/models"
)

// DeviceRepository defines persistence operations for the device registry.
type DeviceRepository interface {
	List(ctx context.Context) ([]models.Device, error)
	GetByID(ctx context.Context, id uint) (models.Device, error)
	Create(ctx context.Context, device *models.Device) error
	Update(ctx context.Context, device *models.Device) error
	Delete(ctx context.Context, id uint) error
}

type deviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository instantiates a GORM-backed device registry.
func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) List(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	if err := r.db.WithContext(ctx).Order("serial ASC").Find(&devices).Error; err != nil {
		return nil, err
	}

	return devices, nil
}

func (r *deviceRepository) GetByID(ctx context.Context, id uint) (models.Device, error) {
	var device models.Device
	if err := r.db.WithContext(ctx).First(&device, id).Error; err != nil {
		return models.Device{}, err
	}

	return device, nil
}

func (r *deviceRepository) Create(ctx context.Context, device *models.Device) error {
	return r.db.WithContext(ctx).Create(device).Error
}

func (r *deviceRepository) Update(ctx context.Context, device *models.Device) error {
	return r.db.WithContext(ctx).Save(device).Error
}

func (r *deviceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Device{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
