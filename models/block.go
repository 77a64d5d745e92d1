package models

import "time"

// Block is a directed blocker -> blocked edge. Visibility filtering treats the edge
// as mutual: each side is hidden from the other.
type Block struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BlockerEmail string    `gorm:"size:255;index;index:idx_blocks_pair,unique;not null" json:"blocker_email"`
	BlockedEmail string    `gorm:"size:255;index;index:idx_blocks_pair,unique;not null" json:"blocked_email"`
	CreatedAt    time.Time `json:"created_at"`
}

// Involves reports whether email is on either side of the edge.
func (b *Block) Involves(email string) bool {
	return b.BlockerEmail == email || b.BlockedEmail == email
}
