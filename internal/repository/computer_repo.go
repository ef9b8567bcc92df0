package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/assetdesk-io/assetdesk-api/internal/models"
)

// ComputerRepository defines persistence operations for the computer registry.
type ComputerRepository interface {
	List(ctx context.Context) ([]models.Computer, error)
	GetByID(ctx context.Context, id uint) (models.Computer, error)
	Create(ctx context.Context, computer *models.Computer) error
	Update(ctx context.Context, computer *models.Computer) error
	Delete(ctx context.Context, id uint) error
}

type computerRepository struct {
	db *gorm.DB
}

// NewComputerRepository instantiates a GORM-backed computer registry.
func NewComputerRepository(db *gorm.DB) ComputerRepository {
	return &computerRepository{db: db}
}

func (r *computerRepository) List(ctx context.Context) ([]models.Computer, error) {
	var computers []models.Computer
	if err := r.db.WithContext(ctx).Order("serial ASC").Find(&computers).Error; err != nil {
		return nil, err
	}

	return computers, nil
}

func (r *computerRepository) GetByID(ctx context.Context, id uint) (models.Computer, error) {
	var computer models.Computer
	if err := r.db.WithContext(ctx).First(&computer, id).Error; err != nil {
		return models.Computer{}, err
	}

	return computer, nil
}

func (r *computerRepository) Create(ctx context.Context, computer *models.Computer) error {
	return r.db.WithContext(ctx).Create(computer).Error
}

func (r *computerRepository) Update(ctx context.Context, computer *models.Computer) error {
	return r.db.WithContext(ctx).Save(computer).Error
}

func (r *computerRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Computer{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
