package models

import "time"

// EquipmentKind discriminates the two equipment identity spaces. Computers and
// devices share the assignment ledger but never share an identifier namespace.
type EquipmentKind string

const (
	KindComputer EquipmentKind = "computer"
	KindDevice   EquipmentKind = "device"
)

// Valid reports whether the kind is one of the recognised equipment kinds.
func (k EquipmentKind) Valid() bool {
	return k == KindComputer || k == KindDevice
}

// Computer represents a workstation or laptop tracked by the registry.
type Computer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Serial    string    `gorm:"size:120;uniqueIndex;not null" json:"serial"`
	Hostname  string    `gorm:"size:255" json:"hostname"`
	Model     string    `gorm:"size:255" json:"model"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Device represents non-computer equipment such as monitors, phones and docks.
type Device struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Serial    string    `gorm:"size:120;uniqueIndex;not null" json:"serial"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Category  string    `gorm:"size:64" json:"category"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
