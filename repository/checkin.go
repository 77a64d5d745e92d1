package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hirlapp/hirl-server/models"
)

// CheckInRepository is the gorm-backed store for check-in rows.
type CheckInRepository struct {
	db *gorm.DB
}

// NewCheckInRepository creates a new repository instance.
func NewCheckInRepository(db *gorm.DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

// ActiveByUser returns the user's active check-in, or (nil, nil) when none exists.
// The (user_email, is_active) index makes this the hot-path lookup.
func (r *CheckInRepository) ActiveByUser(ctx context.Context, email string) (*models.CheckIn, error) {
	var rec models.CheckIn
	err := r.db.WithContext(ctx).
		Where("user_email = ? AND is_active = ?", email, true).
		Order("created_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ActiveByVenue returns all active check-ins at a venue, oldest first.
func (r *CheckInRepository) ActiveByVenue(ctx context.Context, venueID uint) ([]models.CheckIn, error) {
	var recs []models.CheckIn
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND is_active = ?", venueID, true).
		Order("created_at ASC").
		Find(&recs).Error
	return recs, err
}

// SupersedeAndCreate deactivates any active check-in for rec.UserEmail and inserts
// rec as the single active row, inside one transaction. The user row is locked FOR
// UPDATE first so two near-simultaneous check-ins for the same user serialize
// instead of both landing active.
func (r *CheckInRepository) SupersedeAndCreate(ctx context.Context, rec *models.CheckIn) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ?", rec.UserEmail).
			First(&user).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.CheckIn{}).
			Where("user_email = ? AND is_active = ?", rec.UserEmail, true).
			Updates(map[string]interface{}{"is_active": false, "checked_out_at": now}).Error; err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
}

// Deactivate flips an active row to inactive. Returns false when the row was already
// inactive or missing; the conditional WHERE is what makes check-out race-safe.
func (r *CheckInRepository) Deactivate(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.CheckIn{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{"is_active": false, "checked_out_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetPrivateMode rewrites user_private_mode on the user's active rows. One
// conditional UPDATE; zero rows affected just means the user is not checked in.
func (r *CheckInRepository) SetPrivateMode(ctx context.Context, email string, private bool) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.CheckIn{}).
		Where("user_email = ? AND is_active = ?", email, true).
		Update("user_private_mode", private)
	return res.RowsAffected, res.Error
}

// Get returns the check-in by id, or (nil, nil) when missing.
func (r *CheckInRepository) Get(ctx context.Context, id uint) (*models.CheckIn, error) {
	var rec models.CheckIn
	err := r.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
