package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/assetdesk-io/assetdesk-api/internal/models"
)

// EmployeeRepository defines persistence operations for the employee registry.
type EmployeeRepository interface {
	List(ctx context.Context) ([]models.Employee, error)
	GetByID(ctx context.Context, id uint) (models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id uint) error
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository instantiates a GORM-backed employee registry.
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&employees).Error; err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id uint) (models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		return models.Employee{}, err
	}

	return employee, nil
}

func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Employee{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
