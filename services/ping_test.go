package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirlapp/hirl-server/models"
)

// memPingStore is an in-memory PingStore mirroring the unique (from, to) pair
// constraint of the real table.
type memPingStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.Ping
}

func newMemPingStore() *memPingStore {
	return &memPingStore{nextID: 1, rows: map[uint]*models.Ping{}}
}

func (s *memPingStore) ActiveFromTo(_ context.Context, from, to string) (*models.Ping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.rows {
		if strings.EqualFold(p.FromUserEmail, from) && strings.EqualFold(p.ToUserEmail, to) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memPingStore) Create(_ context.Context, p *models.Ping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	cp := *p
	s.rows[p.ID] = &cp
	return nil
}

func (s *memPingStore) MarkSeen(_ context.Context, id uint, toEmail string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok || !strings.EqualFold(p.ToUserEmail, toEmail) || p.Status != models.PingPending {
		return false, nil
	}
	p.Status = models.PingSeen
	return true, nil
}

func (s *memPingStore) PromoteMatched(_ context.Context, a, b string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, p := range s.rows {
		pair := (strings.EqualFold(p.FromUserEmail, a) && strings.EqualFold(p.ToUserEmail, b)) ||
			(strings.EqualFold(p.FromUserEmail, b) && strings.EqualFold(p.ToUserEmail, a))
		if pair && p.Status != models.PingMatched {
			p.Status = models.PingMatched
			n++
		}
	}
	return n, nil
}

func (s *memPingStore) Get(_ context.Context, id uint) (*models.Ping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *memPingStore) status(id uint) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[id].Status
}

// memUserDirectory recognizes a fixed set of accounts; empty means everyone exists.
type memUserDirectory struct {
	known map[string]bool
}

func (d *memUserDirectory) EmailExists(_ context.Context, email string) (bool, error) {
	if len(d.known) == 0 {
		return true, nil
	}
	return d.known[strings.ToLower(email)], nil
}

func newPingService(store PingStore) *PingService {
	return NewPingService(store, &memUserDirectory{})
}

func sender(email, name string) *models.User {
	return &models.User{Email: email, FullName: name}
}

func pingVenue() *models.Venue {
	return &models.Venue{ID: 4, Name: "Dive Bar"}
}

func TestSendPingCreatesPending(t *testing.T) {
	store := newMemPingStore()
	svc := newPingService(store)

	p, err := svc.SendPing(context.Background(), sender("a@hirl.com", "A"), "b@hirl.com", pingVenue())
	require.NoError(t, err)

	assert.Equal(t, models.PingPending, p.Status)
	assert.Equal(t, "a@hirl.com", p.FromUserEmail)
	assert.Equal(t, "b@hirl.com", p.ToUserEmail)
	assert.Equal(t, uint(4), p.LocationID)
	assert.Equal(t, "Dive Bar", p.LocationName)
}

func TestSendPingRejectsSelf(t *testing.T) {
	svc := newPingService(newMemPingStore())
	_, err := svc.SendPing(context.Background(), sender("a@hirl.com", "A"), "A@HIRL.COM", pingVenue())
	assert.ErrorIs(t, err, ErrSelfPing)
}

func TestSendPingRejectsDuplicate(t *testing.T) {
	store := newMemPingStore()
	svc := newPingService(store)
	a := sender("a@hirl.com", "A")

	_, err := svc.SendPing(context.Background(), a, "b@hirl.com", pingVenue())
	require.NoError(t, err)

	_, err = svc.SendPing(context.Background(), a, "b@hirl.com", pingVenue())
	assert.ErrorIs(t, err, ErrDuplicatePing)

	// A seen ping still counts as existing
	_, err = svc.SendPing(context.Background(), a, "b@hirl.com", pingVenue())
	assert.ErrorIs(t, err, ErrDuplicatePing)
}

func TestMutualPingsMatchBothRows(t *testing.T) {
	store := newMemPingStore()
	svc := newPingService(store)

	first, err := svc.SendPing(context.Background(), sender("a@hirl.com", "A"), "b@hirl.com", pingVenue())
	require.NoError(t, err)
	assert.Equal(t, models.PingPending, first.Status)

	second, err := svc.SendPing(context.Background(), sender("b@hirl.com", "B"), "a@hirl.com", pingVenue())
	require.NoError(t, err)

	assert.Equal(t, models.PingMatched, second.Status)
	assert.Equal(t, models.PingMatched, store.status(first.ID))
	assert.Equal(t, models.PingMatched, store.status(second.ID))
}

func TestOneDirectionalPingStaysPending(t *testing.T) {
	store := newMemPingStore()
	svc := newPingService(store)

	p, err := svc.SendPing(context.Background(), sender("a@hirl.com", "A"), "b@hirl.com", pingVenue())
	require.NoError(t, err)
	assert.Equal(t, models.PingPending, store.status(p.ID))
}

func TestSeenPingStillMatches(t *testing.T) {
	store := newMemPingStore()
	svc := newPingService(store)

	first, err := svc.SendPing(context.Background(), sender("a@hirl.com", "A"), "b@hirl.com", pingVenue())
	require.NoError(t, err)

	// Recipient acknowledges before pinging back; acknowledging does not forfeit
	// the pending match.
	require.NoError(t, svc.MarkSeen(context.Background(), first.ID, "b@hirl.com"))
	assert.Equal(t, models.PingSeen, store.status(first.ID))

	second, err := svc.SendPing(context.Background(), sender("b@hirl.com", "B"), "a@hirl.com", pingVenue())
	require.NoError(t, err)
	assert.Equal(t, models.PingMatched, second.Status)
	assert.Equal(t, models.PingMatched, store.status(first.ID))
}

func TestMarkSeenErrors(t *testing.T) {
	store := newMemPingStore()
	svc := newPingService(store)

	p, err := svc.SendPing(context.Background(), sender("a@hirl.com", "A"), "b@hirl.com", pingVenue())
	require.NoError(t, err)

	// Only the recipient may acknowledge
	assert.ErrorIs(t, svc.MarkSeen(context.Background(), p.ID, "a@hirl.com"), ErrPingNotPending)

	assert.ErrorIs(t, svc.MarkSeen(context.Background(), 999, "b@hirl.com"), ErrPingNotFound)

	require.NoError(t, svc.MarkSeen(context.Background(), p.ID, "b@hirl.com"))
	assert.ErrorIs(t, svc.MarkSeen(context.Background(), p.ID, "b@hirl.com"), ErrPingNotPending)
}

func TestPromoteMatchedIdempotent(t *testing.T) {
	store := newMemPingStore()
	svc := newPingService(store)

	first, err := svc.SendPing(context.Background(), sender("a@hirl.com", "A"), "b@hirl.com", pingVenue())
	require.NoError(t, err)
	second, err := svc.SendPing(context.Background(), sender("b@hirl.com", "B"), "a@hirl.com", pingVenue())
	require.NoError(t, err)

	// Re-running promotion changes nothing
	n, err := store.PromoteMatched(context.Background(), "a@hirl.com", "b@hirl.com")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, models.PingMatched, store.status(first.ID))
	assert.Equal(t, models.PingMatched, store.status(second.ID))
}

func TestSendPingRejectsUnknownRecipient(t *testing.T) {
	store := newMemPingStore()
	svc := NewPingService(store, &memUserDirectory{known: map[string]bool{"b@hirl.com": true}})
	a := sender("a@hirl.com", "A")

	// A ping to a nonexistent account must not create a row; the unique pair
	// would be occupied forever.
	_, err := svc.SendPing(context.Background(), a, "nobody@hirl.com", pingVenue())
	assert.ErrorIs(t, err, ErrRecipientNotFound)
	assert.Empty(t, store.rows)

	_, err = svc.SendPing(context.Background(), a, "b@hirl.com", pingVenue())
	require.NoError(t, err)
}

func TestSendPingNormalizesRecipient(t *testing.T) {
	store := newMemPingStore()
	svc := newPingService(store)

	p, err := svc.SendPing(context.Background(), sender("a@hirl.com", "A"), "  B@HIRL.COM ", pingVenue())
	require.NoError(t, err)
	assert.Equal(t, "b@hirl.com", p.ToUserEmail)
}
