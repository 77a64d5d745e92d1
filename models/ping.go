package models

import "time"

// Ping status values. A ping only ever moves forward:
// pending -> seen, and either of those -> matched once the reverse ping exists.
const (
	PingPending = "pending"
	PingSeen    = "seen"
	PingMatched = "matched"
)

// Ping is a directed interest signal from one user to another, created at a shared
// venue. Sender identity fields are snapshotted for display stability. The unique
// pair index is the persistence-level backstop for duplicate-ping rejection.
type Ping struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FromUserEmail string    `gorm:"size:255;index:idx_pings_pair,unique;not null" json:"from_user_email"`
	FromUserName  string    `gorm:"size:128" json:"from_user_name"`
	FromUserPhoto string    `gorm:"size:512" json:"from_user_photo"`
	ToUserEmail   string    `gorm:"size:255;index:idx_pings_pair,unique;index;not null" json:"to_user_email"`
	LocationID    uint      `json:"location_id"`
	LocationName  string    `gorm:"size:255" json:"location_name"`
	Status        string    `gorm:"size:16;index;default:'pending'" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
