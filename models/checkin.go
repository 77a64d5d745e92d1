package models

import "time"

// CheckIn asserts that a user is currently present at a venue. Public profile fields
// are snapshotted at check-in time so later profile edits do not rewrite what other
// users already saw. Rows are deactivated, never deleted.
//
// Invariant: at most one row with is_active=true exists per user_email at any time.
type CheckIn struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserEmail       string     `gorm:"size:255;index:idx_checkins_user_active;not null" json:"user_email"`
	UserName        string     `gorm:"size:128" json:"user_name"`
	UserPhoto       string     `gorm:"size:512" json:"user_photo"`
	UserGender      string     `gorm:"size:16" json:"user_gender"`
	UserBio         string     `gorm:"size:512" json:"user_bio"`
	UserPrivateMode bool       `json:"user_private_mode"`
	LocationID      uint       `gorm:"index:idx_checkins_location_active;not null" json:"location_id"`
	LocationName    string     `gorm:"size:255" json:"location_name"`
	IsActive        bool       `gorm:"index:idx_checkins_user_active;index:idx_checkins_location_active" json:"is_active"`
	CheckedOutAt    *time.Time `json:"checked_out_at"`
	CreatedAt       time.Time  `json:"created_at"`
}
