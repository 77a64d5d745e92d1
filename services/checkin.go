package services

import (
	"context"
	"time"

	"github.com/hirlapp/hirl-server/geo"
	"github.com/hirlapp/hirl-server/models"
)

// CheckInStore is the persistence contract the check-in manager needs. The
// supersede-then-create sequence is a single call so the adapter can make it atomic
// (the gorm implementation runs it in one transaction holding the user row).
type CheckInStore interface {
	// ActiveByUser returns the user's active check-in, or (nil, nil) when none.
	ActiveByUser(ctx context.Context, email string) (*models.CheckIn, error)
	// SupersedeAndCreate deactivates any active check-in for rec.UserEmail and
	// creates rec active, atomically.
	SupersedeAndCreate(ctx context.Context, rec *models.CheckIn) error
	// Deactivate flips an active row to inactive with the given check-out time.
	// Returns false when the row was not active (or does not exist).
	Deactivate(ctx context.Context, id uint, at time.Time) (bool, error)
	// SetPrivateMode rewrites user_private_mode on the user's active check-in rows.
	// Returns the number of rows changed.
	SetPrivateMode(ctx context.Context, email string, private bool) (int64, error)
	// Get returns the check-in by id, or (nil, nil) when missing.
	Get(ctx context.Context, id uint) (*models.CheckIn, error)
}

// CheckInService enforces the at-most-one-active-check-in invariant and the check-in
// range guard. Range is re-validated here regardless of what the client claimed.
type CheckInService struct {
	store CheckInStore
	gate  *geo.Gate
	now   func() time.Time
}

// NewCheckInService wires the service. gate must not be nil.
func NewCheckInService(store CheckInStore, gate *geo.Gate) *CheckInService {
	return &CheckInService{store: store, gate: gate, now: time.Now}
}

// CheckIn records the user's presence at the venue. Any prior active check-in, at
// this venue or another, is deactivated in the same atomic write. Fails with
// ErrOutOfRange when pos is missing or beyond the check-in radius.
func (s *CheckInService) CheckIn(ctx context.Context, user *models.User, venue *models.Venue, pos *geo.Point) (*models.CheckIn, error) {
	if !s.gate.WithinCheckInRange(pos, venue) {
		return nil, ErrOutOfRange
	}

	rec := &models.CheckIn{
		UserEmail:       user.Email,
		UserName:        user.FullName,
		UserPhoto:       user.PhotoURL,
		UserGender:      user.Gender,
		UserBio:         user.Bio,
		UserPrivateMode: user.PrivateMode,
		LocationID:      venue.ID,
		LocationName:    venue.Name,
		IsActive:        true,
		CreatedAt:       s.now(),
	}
	if err := s.store.SupersedeAndCreate(ctx, rec); err != nil {
		return nil, &PersistenceError{Op: "checkin.supersede_and_create", Err: err}
	}
	return rec, nil
}

// CheckOut deactivates the check-in. ErrNotActive when it is already inactive or
// unknown.
func (s *CheckInService) CheckOut(ctx context.Context, id uint) error {
	ok, err := s.store.Deactivate(ctx, id, s.now())
	if err != nil {
		return &PersistenceError{Op: "checkin.deactivate", Err: err}
	}
	if !ok {
		return ErrNotActive
	}
	return nil
}

// SetPrivateMode propagates a privacy toggle onto the user's active check-in, so
// going private hides them from grids immediately instead of on their next check-in.
// The other snapshot fields stay frozen; privacy is the one that must be live.
func (s *CheckInService) SetPrivateMode(ctx context.Context, email string, private bool) error {
	if _, err := s.store.SetPrivateMode(ctx, email, private); err != nil {
		return &PersistenceError{Op: "checkin.set_private_mode", Err: err}
	}
	return nil
}

// ActiveCheckInFor returns the user's current active check-in, or nil.
func (s *CheckInService) ActiveCheckInFor(ctx context.Context, email string) (*models.CheckIn, error) {
	rec, err := s.store.ActiveByUser(ctx, email)
	if err != nil {
		return nil, &PersistenceError{Op: "checkin.active_by_user", Err: err}
	}
	return rec, nil
}

// Get returns a check-in by id, or nil when missing.
func (s *CheckInService) Get(ctx context.Context, id uint) (*models.CheckIn, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "checkin.get", Err: err}
	}
	return rec, nil
}
