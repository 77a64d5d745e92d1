package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hirlapp/hirl-server/models"
)

// BlockRepository is the gorm-backed store for block edges.
type BlockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new repository instance.
func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

// Create inserts a blocker -> blocked edge. Creating an edge that already exists is
// a no-op thanks to the unique pair index.
func (r *BlockRepository) Create(ctx context.Context, blocker, blocked string) error {
	b := models.Block{BlockerEmail: blocker, BlockedEmail: blocked}
	err := r.db.WithContext(ctx).Create(&b).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// Delete removes the blocker -> blocked edge. Returns false when no edge existed.
func (r *BlockRepository) Delete(ctx context.Context, blocker, blocked string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("blocker_email = ? AND blocked_email = ?", blocker, blocked).
		Delete(&models.Block{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Involving returns every edge where the user is blocker or blocked. The visibility
// filter consumes both directions.
func (r *BlockRepository) Involving(ctx context.Context, email string) ([]models.Block, error) {
	var blocks []models.Block
	err := r.db.WithContext(ctx).
		Where("blocker_email = ? OR blocked_email = ?", email, email).
		Find(&blocks).Error
	return blocks, err
}

// ByBlocker lists the edges the user created, newest first.
func (r *BlockRepository) ByBlocker(ctx context.Context, email string) ([]models.Block, error) {
	var blocks []models.Block
	err := r.db.WithContext(ctx).
		Where("blocker_email = ?", email).
		Order("created_at DESC").
		Find(&blocks).Error
	return blocks, err
}
