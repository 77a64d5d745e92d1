package services

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirlapp/hirl-server/geo"
	"github.com/hirlapp/hirl-server/models"
	"github.com/hirlapp/hirl-server/visibility"
)

// memCheckInStore is an in-memory CheckInStore used to test service semantics
// without a database.
type memCheckInStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.CheckIn
}

func newMemCheckInStore() *memCheckInStore {
	return &memCheckInStore{nextID: 1, rows: map[uint]*models.CheckIn{}}
}

func (s *memCheckInStore) ActiveByUser(_ context.Context, email string) (*models.CheckIn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.UserEmail == email && r.IsActive {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memCheckInStore) SupersedeAndCreate(_ context.Context, rec *models.CheckIn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, r := range s.rows {
		if r.UserEmail == rec.UserEmail && r.IsActive {
			r.IsActive = false
			r.CheckedOutAt = &now
		}
	}
	rec.ID = s.nextID
	s.nextID++
	cp := *rec
	s.rows[rec.ID] = &cp
	return nil
}

func (s *memCheckInStore) Deactivate(_ context.Context, id uint, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok || !r.IsActive {
		return false, nil
	}
	r.IsActive = false
	r.CheckedOutAt = &at
	return true, nil
}

func (s *memCheckInStore) SetPrivateMode(_ context.Context, email string, private bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.rows {
		if r.UserEmail == email && r.IsActive {
			r.UserPrivateMode = private
			n++
		}
	}
	return n, nil
}

func (s *memCheckInStore) Get(_ context.Context, id uint) (*models.CheckIn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *memCheckInStore) activeCount(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.rows {
		if r.UserEmail == email && r.IsActive {
			n++
		}
	}
	return n
}

func (s *memCheckInStore) totalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func testUser() *models.User {
	return &models.User{
		Email:    "alex@hirl.com",
		FullName: "Alex",
		Gender:   models.GenderOther,
		Bio:      "hello",
	}
}

func testVenue() *models.Venue {
	return &models.Venue{ID: 7, Name: "Corner Cafe", Latitude: 40.7000, Longitude: -74.0000}
}

func nearPos() *geo.Point {
	return &geo.Point{Latitude: 40.7001, Longitude: -74.0001}
}

func TestCheckInSnapshotsProfile(t *testing.T) {
	store := newMemCheckInStore()
	svc := NewCheckInService(store, geo.NewGate(10000, 500))

	rec, err := svc.CheckIn(context.Background(), testUser(), testVenue(), nearPos())
	require.NoError(t, err)

	assert.Equal(t, "alex@hirl.com", rec.UserEmail)
	assert.Equal(t, "Alex", rec.UserName)
	assert.Equal(t, uint(7), rec.LocationID)
	assert.Equal(t, "Corner Cafe", rec.LocationName)
	assert.True(t, rec.IsActive)
	assert.Nil(t, rec.CheckedOutAt)
}

func TestCheckInOutOfRange(t *testing.T) {
	store := newMemCheckInStore()
	svc := NewCheckInService(store, geo.NewGate(10000, 500))

	// ~11km away
	far := &geo.Point{Latitude: 40.8000, Longitude: -74.0000}
	_, err := svc.CheckIn(context.Background(), testUser(), testVenue(), far)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 0, store.totalCount(), "rejected check-in must leave no row behind")
}

func TestCheckInUnknownPositionRefused(t *testing.T) {
	store := newMemCheckInStore()
	svc := NewCheckInService(store, geo.NewGate(10000, 500))

	_, err := svc.CheckIn(context.Background(), testUser(), testVenue(), nil)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestCheckInSupersedesPrevious(t *testing.T) {
	store := newMemCheckInStore()
	svc := NewCheckInService(store, geo.NewGate(10000, 500))
	user := testUser()

	first, err := svc.CheckIn(context.Background(), user, testVenue(), nearPos())
	require.NoError(t, err)

	other := &models.Venue{ID: 8, Name: "Rooftop", Latitude: 40.7005, Longitude: -74.0005}
	second, err := svc.CheckIn(context.Background(), user, other, nearPos())
	require.NoError(t, err)

	assert.Equal(t, 1, store.activeCount(user.Email))

	old, err := svc.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)
	assert.NotNil(t, old.CheckedOutAt)

	current, err := svc.ActiveCheckInFor(context.Background(), user.Email)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, second.ID, current.ID)
	assert.Equal(t, uint(8), current.LocationID)
}

func TestCheckOut(t *testing.T) {
	store := newMemCheckInStore()
	svc := NewCheckInService(store, geo.NewGate(10000, 500))

	rec, err := svc.CheckIn(context.Background(), testUser(), testVenue(), nearPos())
	require.NoError(t, err)

	require.NoError(t, svc.CheckOut(context.Background(), rec.ID))

	// Second check-out is rejected, as is checking out an unknown id
	assert.ErrorIs(t, svc.CheckOut(context.Background(), rec.ID), ErrNotActive)
	assert.ErrorIs(t, svc.CheckOut(context.Background(), 999), ErrNotActive)

	current, err := svc.ActiveCheckInFor(context.Background(), "alex@hirl.com")
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestSetPrivateModeUpdatesActiveCheckIn(t *testing.T) {
	store := newMemCheckInStore()
	svc := NewCheckInService(store, geo.NewGate(10000, 500))
	user := testUser()

	rec, err := svc.CheckIn(context.Background(), user, testVenue(), nearPos())
	require.NoError(t, err)
	require.False(t, rec.UserPrivateMode)

	require.NoError(t, svc.SetPrivateMode(context.Background(), user.Email, true))

	current, err := svc.ActiveCheckInFor(context.Background(), user.Email)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.True(t, current.UserPrivateMode)

	// Toggling back works too, and a user with no active check-in is a no-op
	require.NoError(t, svc.SetPrivateMode(context.Background(), user.Email, false))
	require.NoError(t, svc.SetPrivateMode(context.Background(), "ghost@hirl.com", true))
}

// Going private while checked in must hide the user from other viewers on their
// very next grid fetch, without waiting for a re-check-in.
func TestGoingPrivateHidesActiveCheckInFromGrid(t *testing.T) {
	store := newMemCheckInStore()
	svc := NewCheckInService(store, geo.NewGate(10000, 500))

	b := &models.User{Email: "b@hirl.com", FullName: "B", Gender: models.GenderFemale}
	_, err := svc.CheckIn(context.Background(), b, testVenue(), nearPos())
	require.NoError(t, err)

	viewer := &models.User{Email: "a@hirl.com", Gender: models.GenderMale, Seeking: models.SeekingEveryone}
	policy := visibility.NewPolicy(visibility.Options{})

	before, err := svc.ActiveCheckInFor(context.Background(), b.Email)
	require.NoError(t, err)
	require.Len(t, policy.Visible(viewer, []models.CheckIn{*before}, nil), 1)

	require.NoError(t, svc.SetPrivateMode(context.Background(), b.Email, true))

	after, err := svc.ActiveCheckInFor(context.Background(), b.Email)
	require.NoError(t, err)
	assert.Empty(t, policy.Visible(viewer, []models.CheckIn{*after}, nil))
}

func TestAtMostOneActiveUnderRandomSequences(t *testing.T) {
	store := newMemCheckInStore()
	svc := NewCheckInService(store, geo.NewGate(10000, 500))
	user := testUser()

	venues := []*models.Venue{
		{ID: 1, Name: "A", Latitude: 40.7000, Longitude: -74.0000},
		{ID: 2, Name: "B", Latitude: 40.7002, Longitude: -74.0002},
		{ID: 3, Name: "C", Latitude: 40.7004, Longitude: -74.0004},
	}

	rng := rand.New(rand.NewSource(1))
	var lastID uint
	for i := 0; i < 200; i++ {
		if rng.Intn(3) == 0 && lastID != 0 {
			_ = svc.CheckOut(context.Background(), lastID)
		} else {
			rec, err := svc.CheckIn(context.Background(), user, venues[rng.Intn(len(venues))], nearPos())
			require.NoError(t, err)
			lastID = rec.ID
		}
		require.LessOrEqual(t, store.activeCount(user.Email), 1, "step %d", i)
	}
}
