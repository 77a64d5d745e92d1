package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hirlapp/hirl-server/models"
)

// PingRepository is the gorm-backed store for ping rows.
type PingRepository struct {
	db *gorm.DB
}

// NewPingRepository creates a new repository instance.
func NewPingRepository(db *gorm.DB) *PingRepository {
	return &PingRepository{db: db}
}

// ActiveFromTo returns the ping from -> to in any status, or (nil, nil). The unique
// (from, to) index guarantees at most one row per direction.
func (r *PingRepository) ActiveFromTo(ctx context.Context, from, to string) (*models.Ping, error) {
	var p models.Ping
	err := r.db.WithContext(ctx).
		Where("from_user_email = ? AND to_user_email = ?", from, to).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a ping row.
func (r *PingRepository) Create(ctx context.Context, p *models.Ping) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// MarkSeen performs the conditional pending -> seen transition for the recipient.
func (r *PingRepository) MarkSeen(ctx context.Context, id uint, toEmail string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Ping{}).
		Where("id = ? AND to_user_email = ? AND status = ?", id, toEmail, models.PingPending).
		Update("status", models.PingSeen)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// PromoteMatched marks every non-matched ping between a and b, in both directions,
// as matched. One conditional UPDATE, so it is idempotent and safe to attempt from
// either write path.
func (r *PingRepository) PromoteMatched(ctx context.Context, a, b string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Ping{}).
		Where("((from_user_email = ? AND to_user_email = ?) OR (from_user_email = ? AND to_user_email = ?)) AND status <> ?",
			a, b, b, a, models.PingMatched).
		Update("status", models.PingMatched)
	return res.RowsAffected, res.Error
}

// Get returns the ping by id, or (nil, nil) when missing.
func (r *PingRepository) Get(ctx context.Context, id uint) (*models.Ping, error) {
	var p models.Ping
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// IncomingByStatus lists pings addressed to the user in the given status, newest
// first. Clients poll this for the notification feed.
func (r *PingRepository) IncomingByStatus(ctx context.Context, toEmail, status string) ([]models.Ping, error) {
	var pings []models.Ping
	err := r.db.WithContext(ctx).
		Where("to_user_email = ? AND status = ?", toEmail, status).
		Order("created_at DESC").
		Find(&pings).Error
	return pings, err
}

// MatchedInvolving lists matched pings where the user is on either side.
func (r *PingRepository) MatchedInvolving(ctx context.Context, email string) ([]models.Ping, error) {
	var pings []models.Ping
	err := r.db.WithContext(ctx).
		Where("(from_user_email = ? OR to_user_email = ?) AND status = ?", email, email, models.PingMatched).
		Order("updated_at DESC").
		Find(&pings).Error
	return pings, err
}
