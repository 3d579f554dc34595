package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
	"github.com/google/uuid"
)

// MemoryStore keeps every entity in process memory behind a single lock so
// cascades and transitions are atomic. It backs tests and STORAGE=memory.
type MemoryStore struct {
	mu  sync.RWMutex
	seq int64
	// order records insertion sequence for stable creation ordering.
	order    map[string]int64
	accounts map[string]model.Account
	profiles map[string]model.Profile // keyed by user id
	tours    map[string]model.Tour
	dates    map[string]model.AvailableDate
	bookings map[string]model.Booking
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		order:    make(map[string]int64),
		accounts: make(map[string]model.Account),
		profiles: make(map[string]model.Profile),
		tours:    make(map[string]model.Tour),
		dates:    make(map[string]model.AvailableDate),
		bookings: make(map[string]model.Booking),
	}
}

// Accounts returns the AccountStore view of the memory store.
func (s *MemoryStore) Accounts() AccountStore { return memoryAccounts{s} }

// Profiles returns the ProfileStore view of the memory store.
func (s *MemoryStore) Profiles() ProfileStore { return memoryProfiles{s} }

// Tours returns the TourStore view of the memory store.
func (s *MemoryStore) Tours() TourStore { return memoryTours{s} }

// Bookings returns the BookingStore view of the memory store.
func (s *MemoryStore) Bookings() BookingStore { return memoryBookings{s} }

// stamp assigns an id when missing and records insertion order. Caller holds mu.
func (s *MemoryStore) stamp(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
	s.seq++
	s.order[*id] = s.seq
}

func (s *MemoryStore) before(a, b string) bool {
	return s.order[a] < s.order[b]
}

// ─── Accounts ────────────────────────────────────────────────────────────────

type memoryAccounts struct{ s *MemoryStore }

func (m memoryAccounts) Create(_ context.Context, a *model.Account) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.stamp(&a.ID)
	a.CreatedAt = time.Now().UTC()
	m.s.accounts[a.ID] = *a
	return nil
}

func (m memoryAccounts) GetByID(_ context.Context, id string) (*model.Account, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	a, ok := m.s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m memoryAccounts) ListByEmail(_ context.Context, email string) ([]model.Account, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var out []model.Account
	for _, a := range m.s.accounts {
		if a.Email == email {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.s.before(out[i].ID, out[j].ID) })
	return out, nil
}

// ─── Profiles ────────────────────────────────────────────────────────────────

type memoryProfiles struct{ s *MemoryStore }

func copyProfile(p model.Profile) *model.Profile {
	p.Languages = append([]string{}, p.Languages...)
	return &p
}

func (m memoryProfiles) Create(_ context.Context, p *model.Profile) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, exists := m.s.profiles[p.UserID]; exists {
		return ErrProfileExists
	}
	m.s.stamp(&p.ID)
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.Languages == nil {
		p.Languages = []string{}
	}
	m.s.profiles[p.UserID] = *copyProfile(*p)
	return nil
}

func (m memoryProfiles) GetByUserID(_ context.Context, userID string) (*model.Profile, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	p, ok := m.s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyProfile(p), nil
}

func (m memoryProfiles) Update(_ context.Context, p *model.Profile) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cur, ok := m.s.profiles[p.UserID]
	if !ok {
		return ErrNotFound
	}
	p.ID, p.CreatedAt = cur.ID, cur.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	if p.Languages == nil {
		p.Languages = []string{}
	}
	m.s.profiles[p.UserID] = *copyProfile(*p)
	return nil
}

// ─── Tours and dates ─────────────────────────────────────────────────────────

type memoryTours struct{ s *MemoryStore }

func copyTour(t model.Tour) model.Tour {
	if t.MaxParticipants != nil {
		n := *t.MaxParticipants
		t.MaxParticipants = &n
	}
	return t
}

// withDates joins a tour with its sorted dates. Caller holds mu.
func (m memoryTours) withDates(t model.Tour) model.TourWithDates {
	dates := []model.AvailableDate{}
	for _, d := range m.s.dates {
		if d.TourID == t.ID {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool {
		if dates[i].Date != dates[j].Date {
			return dates[i].Date < dates[j].Date
		}
		if dates[i].StartTime != dates[j].StartTime {
			return dates[i].StartTime < dates[j].StartTime
		}
		return m.s.before(dates[i].ID, dates[j].ID)
	})
	return model.TourWithDates{Tour: copyTour(t), AvailableDates: dates}
}

func (m memoryTours) Create(_ context.Context, t *model.Tour) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.stamp(&t.ID)
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	m.s.tours[t.ID] = copyTour(*t)
	return nil
}

func (m memoryTours) Update(_ context.Context, t *model.Tour) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cur, ok := m.s.tours[t.ID]
	if !ok {
		return ErrNotFound
	}
	t.UserID, t.CreatedAt = cur.UserID, cur.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	m.s.tours[t.ID] = copyTour(*t)
	return nil
}

func (m memoryTours) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.tours[id]; !ok {
		return ErrNotFound
	}
	delete(m.s.tours, id)
	for dateID, d := range m.s.dates {
		if d.TourID == id {
			delete(m.s.dates, dateID)
		}
	}
	for bookingID, b := range m.s.bookings {
		if b.TourID == id {
			delete(m.s.bookings, bookingID)
		}
	}
	return nil
}

func (m memoryTours) GetByID(_ context.Context, id string) (*model.TourWithDates, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	t, ok := m.s.tours[id]
	if !ok {
		return nil, ErrNotFound
	}
	tw := m.withDates(t)
	return &tw, nil
}

func (m memoryTours) ListByOwner(_ context.Context, ownerID string, activeOnly bool) ([]model.TourWithDates, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var owned []model.Tour
	for _, t := range m.s.tours {
		if t.UserID != ownerID || (activeOnly && !t.IsActive) {
			continue
		}
		owned = append(owned, t)
	}
	sort.Slice(owned, func(i, j int) bool { return m.s.before(owned[i].ID, owned[j].ID) })

	out := make([]model.TourWithDates, 0, len(owned))
	for _, t := range owned {
		out = append(out, m.withDates(t))
	}
	return out, nil
}

func (m memoryTours) AddDate(_ context.Context, d *model.AvailableDate) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.tours[d.TourID]; !ok {
		return ErrNotFound
	}
	m.s.stamp(&d.ID)
	d.CreatedAt = time.Now().UTC()
	m.s.dates[d.ID] = *d
	return nil
}

func (m memoryTours) GetDate(_ context.Context, id string) (*model.AvailableDate, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	d, ok := m.s.dates[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (m memoryTours) RemoveDate(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.dates[id]; !ok {
		return ErrNotFound
	}
	for _, b := range m.s.bookings {
		if b.AvailableDateID == id && b.Status != model.StatusCancelled {
			return ErrDateInUse
		}
	}
	for bookingID, b := range m.s.bookings {
		if b.AvailableDateID == id {
			delete(m.s.bookings, bookingID)
		}
	}
	delete(m.s.dates, id)
	return nil
}

// ─── Bookings ────────────────────────────────────────────────────────────────

type memoryBookings struct{ s *MemoryStore }

func (m memoryBookings) Create(_ context.Context, b *model.Booking) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.tours[b.TourID]; !ok {
		return ErrNotFound
	}
	if _, ok := m.s.dates[b.AvailableDateID]; !ok {
		return ErrNotFound
	}
	m.s.stamp(&b.ID)
	if b.Status == "" {
		b.Status = model.StatusPending
	}
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	m.s.bookings[b.ID] = *b
	return nil
}

func (m memoryBookings) GetByID(_ context.Context, id string) (*model.Booking, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	b, ok := m.s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m memoryBookings) ListByOwner(_ context.Context, ownerID string, status model.BookingStatus) ([]model.BookingWithDetails, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var out []model.BookingWithDetails
	for _, b := range m.s.bookings {
		t, ok := m.s.tours[b.TourID]
		if !ok || t.UserID != ownerID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		d := m.s.dates[b.AvailableDateID]
		out = append(out, model.BookingWithDetails{
			Booking:        b,
			Tour:           model.BookingTour{Title: t.Title, Price: t.Price},
			AvailableDate:  model.BookingDate{Date: d.Date, StartTime: d.StartTime},
			EstimatedTotal: t.EstimatedTotal(b.Participants),
		})
	}
	// Newest first.
	sort.Slice(out, func(i, j int) bool { return m.s.before(out[j].ID, out[i].ID) })
	return out, nil
}

func (m memoryBookings) Transition(_ context.Context, id string, to model.BookingStatus) (*model.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	b, ok := m.s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if b.Status == to {
		return &b, nil
	}
	if !model.CanTransition(b.Status, to) {
		return nil, ErrInvalidTransition
	}
	if to == model.StatusConfirmed {
		d, ok := m.s.dates[b.AvailableDateID]
		if !ok {
			return nil, ErrNotFound
		}
		if d.SpotsAvailable < b.Participants {
			return nil, ErrNoCapacity
		}
		d.SpotsAvailable -= b.Participants
		m.s.dates[d.ID] = d
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	m.s.bookings[b.ID] = b
	return &b, nil
}
