package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/assetdesk-io/assetdesk-api/internal/models"
)

// ErrSerialization marks an append that lost a concurrent-write race and can be
// retried by the caller.
var ErrSerialization = errors.New("assignment append serialization failure")

// AssignmentEventRepository persists the append-only assignment ledger.
type AssignmentEventRepository interface {
	// AppendSuperseding atomically clears the currently active event for the
	// event's equipment, inserts the new event, and re-marks the event with the
	// greatest (occurred_at, id) as the single active one. A backdated insert
	// therefore never displaces the standing assignment.
	AppendSuperseding(ctx context.Context, event *models.AssignmentEvent) error
	History(ctx context.Context, kind models.EquipmentKind, equipmentID uint) ([]models.AssignmentEvent, error)
	Latest(ctx context.Context, kind models.EquipmentKind, equipmentID uint) (models.AssignmentEvent, error)
	LatestAll(ctx context.Context) ([]models.AssignmentEvent, error)
	CountForEquipment(ctx context.Context, kind models.EquipmentKind, equipmentID uint) (int64, error)
	CountForLocation(ctx context.Context, locationID uint) (int64, error)
	CountForEmployee(ctx context.Context, employeeID uint) (int64, error)
}

type assignmentEventRepository struct {
	db *gorm.DB
}

// NewAssignmentEventRepository instantiates a GORM-backed ledger store.
func NewAssignmentEventRepository(db *gorm.DB) AssignmentEventRepository {
	return &assignmentEventRepository{db: db}
}

func partitionColumn(kind models.EquipmentKind) string {
	if kind == models.KindComputer {
		return "computer_id"
	}
	return "device_id"
}

func (r *assignmentEventRepository) AppendSuperseding(ctx context.Context, event *models.AssignmentEvent) error {
	column := partitionColumn(event.Kind())
	equipmentID := event.EquipmentID()
	if equipmentID == 0 {
		return fmt.Errorf("assignment event carries no equipment reference")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize concurrent appends for the same equipment partition. SQLite
		// has no row locks but serializes writing transactions globally.
		lockQuery := tx
		if tx.Dialector.Name() != "sqlite" {
			lockQuery = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var partition []models.AssignmentEvent
		if err := lockQuery.Where(column+" = ?", equipmentID).Find(&partition).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.AssignmentEvent{}).
			Where(column+" = ? AND active = ?", equipmentID, true).
			Update("active", false).Error; err != nil {
			return err
		}

		if err := tx.Create(event).Error; err != nil {
			return err
		}

		winner := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.AssignmentEvent{}).
			Select("id").
			Where(column+" = ?", equipmentID).
			Order("occurred_at DESC, id DESC").
			Limit(1)

		return tx.Model(&models.AssignmentEvent{}).
			Where("id IN (?)", winner).
			Update("active", true).Error
	})
	if err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		return err
	}

	return nil
}

func (r *assignmentEventRepository) History(ctx context.Context, kind models.EquipmentKind, equipmentID uint) ([]models.AssignmentEvent, error) {
	events := make([]models.AssignmentEvent, 0)
	err := r.db.WithContext(ctx).
		Where(partitionColumn(kind)+" = ?", equipmentID).
		Order("occurred_at DESC, id DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *assignmentEventRepository) Latest(ctx context.Context, kind models.EquipmentKind, equipmentID uint) (models.AssignmentEvent, error) {
	var event models.AssignmentEvent
	err := r.db.WithContext(ctx).
		Where(partitionColumn(kind)+" = ?", equipmentID).
		Order("occurred_at DESC, id DESC").
		First(&event).Error
	if err != nil {
		return models.AssignmentEvent{}, err
	}

	return event, nil
}

// latestAllQuery ranks events per equipment partition and keeps rank 1 by
// (occurred_at, id) descending. Computers and devices are two independent
// partition spaces even though they share the table.
const latestAllQuery = `
SELECT e.* FROM assignment_events e
WHERE e.computer_id IS NOT NULL
  AND NOT EXISTS (
    SELECT 1 FROM assignment_events o
    WHERE o.computer_id = e.computer_id
      AND (o.occurred_at > e.occurred_at OR (o.occurred_at = e.occurred_at AND o.id > e.id))
  )
UNION ALL
SELECT e.* FROM assignment_events e
WHERE e.device_id IS NOT NULL
  AND NOT EXISTS (
    SELECT 1 FROM assignment_events o
    WHERE o.device_id = e.device_id
      AND (o.occurred_at > e.occurred_at OR (o.occurred_at = e.occurred_at AND o.id > e.id))
  )
ORDER BY occurred_at DESC, id DESC`

func (r *assignmentEventRepository) LatestAll(ctx context.Context) ([]models.AssignmentEvent, error) {
	events := make([]models.AssignmentEvent, 0)
	if err := r.db.WithContext(ctx).Raw(latestAllQuery).Scan(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *assignmentEventRepository) CountForEquipment(ctx context.Context, kind models.EquipmentKind, equipmentID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.AssignmentEvent{}).
		Where(partitionColumn(kind)+" = ?", equipmentID).
		Count(&total).Error

	return total, err
}

func (r *assignmentEventRepository) CountForLocation(ctx context.Context, locationID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.AssignmentEvent{}).
		Where("location_id = ?", locationID).
		Count(&total).Error

	return total, err
}

func (r *assignmentEventRepository) CountForEmployee(ctx context.Context, employeeID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.AssignmentEvent{}).
		Where("employee_id = ?", employeeID).
		Count(&total).Error

	return total, err
}

func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "could not serialize") ||
		strings.Contains(message, "deadlock detected") ||
		strings.Contains(message, "database is locked")
}
