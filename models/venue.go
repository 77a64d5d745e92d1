package models

import "time"

// Venue is a physical location users can check into. Coordinates are WGS84; a venue
// with a (0,0) pair is treated as having no usable position.
type Venue struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Address   string    `gorm:"size:512" json:"address"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	ImageURL  string    `gorm:"size:512" json:"image_url"`
	Category  string    `gorm:"size:32" json:"category"`
	IsActive  bool      `gorm:"index;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
