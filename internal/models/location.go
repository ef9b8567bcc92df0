package models

import "time"

// Location is a physical place equipment can be assigned to.
type Location struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Floor     string    `gorm:"size:64" json:"floor"`
	Room      string    `gorm:"size:64" json:"room"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
