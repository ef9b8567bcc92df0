package models

import "time"

// Action types recognised by the assignment ledger.
const (
	ActionAssignToEmployee = "assign_to_employee"
	ActionAssignToLocation = "assign_to_location"
	ActionReturn           = "return"
	ActionRetire           = "retire"
)

// AssignmentEvent is one immutable entry in the equipment assignment ledger.
// Exactly one of ComputerID/DeviceID is set; the two nullable columns are the
// storage form of a (kind, id) tagged reference. Events are never updated in
// place: corrections are new events, and a superseded event only has its
// Active flag cleared.
type AssignmentEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ComputerID  *uint     `gorm:"index" json:"computer_id"`
	DeviceID    *uint     `gorm:"index" json:"device_id"`
	LocationID  *uint     `json:"location_id"`
	EmployeeID  *uint     `json:"employee_id"`
	ActionType  string    `gorm:"size:32;not null" json:"action_type"`
	OccurredAt  time.Time `gorm:"index;not null" json:"occurred_at"`
	Active      bool      `gorm:"not null;default:false" json:"active"`
	CreatedByID uint      `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Kind reports which equipment identity space the event belongs to.
func (e AssignmentEvent) Kind() EquipmentKind {
	if e.ComputerID != nil {
		return KindComputer
	}
	return KindDevice
}

// EquipmentID returns the referenced equipment identifier within the event's
// identity space.
func (e AssignmentEvent) EquipmentID() uint {
	if e.ComputerID != nil {
		return *e.ComputerID
	}
	if e.DeviceID != nil {
		return *e.DeviceID
	}
	return 0
}

// Supersedes orders two events for the same equipment: greater OccurredAt wins,
// identical timestamps fall back to the greater event id (most recently created).
func (e AssignmentEvent) Supersedes(other AssignmentEvent) bool {
	if !e.OccurredAt.Equal(other.OccurredAt) {
		return e.OccurredAt.After(other.OccurredAt)
	}
	return e.ID > other.ID
}
