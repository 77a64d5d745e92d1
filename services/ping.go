package services

import (
	"context"
	"strings"
	"time"

	"github.com/hirlapp/hirl-server/models"
)

// PingStore is the persistence contract for the ping/match engine. PromoteMatched
// must be a single conditional write covering both directions so that two pings
// arriving at nearly the same instant cannot double-fire or half-apply a match.
type PingStore interface {
	// ActiveFromTo returns the ping from -> to regardless of status, or (nil, nil).
	// Every existing ping counts as active: there is no withdraw operation.
	ActiveFromTo(ctx context.Context, from, to string) (*models.Ping, error)
	// Create inserts a new ping row.
	Create(ctx context.Context, p *models.Ping) error
	// MarkSeen transitions the ping pending -> seen, only when it is addressed to
	// toEmail and still pending. Returns false when no row changed.
	MarkSeen(ctx context.Context, id uint, toEmail string) (bool, error)
	// PromoteMatched sets every non-matched ping between the two users, in both
	// directions, to matched. Idempotent; returns the number of rows changed.
	PromoteMatched(ctx context.Context, a, b string) (int64, error)
	// Get returns the ping by id, or (nil, nil) when missing.
	Get(ctx context.Context, id uint) (*models.Ping, error)
}

// UserDirectory answers whether an email belongs to a registered account.
type UserDirectory interface {
	EmailExists(ctx context.Context, email string) (bool, error)
}

// PingService governs the directed ping workflow and mutual-match promotion.
//
// Match promotion runs from whichever write path observes the mutual pair, and is a
// no-op when the pair is already matched, so concurrent A->B and B->A creation is
// safe from either side.
type PingService struct {
	store PingStore
	users UserDirectory
	now   func() time.Time
}

// NewPingService wires the service.
func NewPingService(store PingStore, users UserDirectory) *PingService {
	return &PingService{store: store, users: users, now: time.Now}
}

// SendPing creates a pending ping from the user to toEmail at the given venue, then
// checks the reverse direction and promotes both pings to matched when it exists.
// The returned ping reflects the post-promotion status.
func (s *PingService) SendPing(ctx context.Context, from *models.User, toEmail string, venue *models.Venue) (*models.Ping, error) {
	toEmail = strings.ToLower(strings.TrimSpace(toEmail))
	if strings.EqualFold(from.Email, toEmail) {
		return nil, ErrSelfPing
	}

	exists, err := s.users.EmailExists(ctx, toEmail)
	if err != nil {
		return nil, &PersistenceError{Op: "ping.recipient_lookup", Err: err}
	}
	if !exists {
		return nil, ErrRecipientNotFound
	}

	existing, err := s.store.ActiveFromTo(ctx, from.Email, toEmail)
	if err != nil {
		return nil, &PersistenceError{Op: "ping.lookup", Err: err}
	}
	if existing != nil {
		return nil, ErrDuplicatePing
	}

	ping := &models.Ping{
		FromUserEmail: from.Email,
		FromUserName:  from.FullName,
		FromUserPhoto: from.PhotoURL,
		ToUserEmail:   toEmail,
		Status:        models.PingPending,
		CreatedAt:     s.now(),
		UpdatedAt:     s.now(),
	}
	if venue != nil {
		ping.LocationID = venue.ID
		ping.LocationName = venue.Name
	}
	if err := s.store.Create(ctx, ping); err != nil {
		return nil, &PersistenceError{Op: "ping.create", Err: err}
	}

	reverse, err := s.store.ActiveFromTo(ctx, toEmail, from.Email)
	if err != nil {
		return nil, &PersistenceError{Op: "ping.reverse_lookup", Err: err}
	}
	if reverse != nil {
		if _, err := s.store.PromoteMatched(ctx, from.Email, toEmail); err != nil {
			return nil, &PersistenceError{Op: "ping.promote_matched", Err: err}
		}
		ping.Status = models.PingMatched
	}
	return ping, nil
}

// MarkSeen acknowledges a pending ping. Only the recipient may acknowledge, and only
// the pending -> seen transition exists; a seen ping stays eligible for matching.
func (s *PingService) MarkSeen(ctx context.Context, id uint, recipientEmail string) error {
	updated, err := s.store.MarkSeen(ctx, id, recipientEmail)
	if err != nil {
		return &PersistenceError{Op: "ping.mark_seen", Err: err}
	}
	if updated {
		return nil
	}
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return &PersistenceError{Op: "ping.get", Err: err}
	}
	if p == nil {
		return ErrPingNotFound
	}
	return ErrPingNotPending
}
