package flow

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
)

// Tab is a section of the admin panel.
type Tab string

const (
	TabTours    Tab = "tours"
	TabBookings Tab = "bookings"
	TabProfile  Tab = "profile"
)

var (
	ErrUnknownTab     = errors.New("unknown admin tab")
	ErrNoDraft        = errors.New("nothing to save")
	ErrSaveInProgress = errors.New("a save is already in progress")
)

// TourManager is implemented by service.TourService.
type TourManager interface {
	ListTours(ctx context.Context, ownerID string, activeOnly bool) ([]model.TourWithDates, error)
	CreateTour(ctx context.Context, ownerID string, in model.TourInput) (*model.Tour, error)
	UpdateTour(ctx context.Context, ownerID, id string, in model.TourInput) (*model.Tour, error)
	DeleteTour(ctx context.Context, ownerID, id string) error
	AddDate(ctx context.Context, ownerID, tourID string, in model.DateInput) (*model.AvailableDate, error)
	RemoveDate(ctx context.Context, ownerID, dateID string) error
}

// BookingManager is implemented by service.BookingService.
type BookingManager interface {
	ListBookings(ctx context.Context, ownerID string, status model.BookingStatus) ([]model.BookingWithDetails, error)
	SetStatus(ctx context.Context, ownerID, id string, status model.BookingStatus) (*model.Booking, error)
}

// ProfileManager is implemented by service.ProfileService.
type ProfileManager interface {
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in model.ProfileInput) (*model.Profile, error)
}

// ProfileDraft is the profile form. Languages are typed as a comma-separated list.
type ProfileDraft struct {
	Name      string
	Bio       string
	PhotoURL  string
	Phone     string
	Email     string
	Location  string
	Languages string
}

func draftFromProfile(p *model.Profile) ProfileDraft {
	return ProfileDraft{
		Name:      p.Name,
		Bio:       p.Bio,
		PhotoURL:  p.PhotoURL,
		Phone:     p.Phone,
		Email:     p.Email,
		Location:  p.Location,
		Languages: strings.Join(p.Languages, ", "),
	}
}

func (d ProfileDraft) input() model.ProfileInput {
	return model.ProfileInput{
		Name:      d.Name,
		Bio:       d.Bio,
		PhotoURL:  d.PhotoURL,
		Phone:     d.Phone,
		Email:     d.Email,
		Location:  d.Location,
		Languages: model.ParseLanguages(d.Languages),
	}
}

// tourDraft is an unsaved tour form. An empty id means a new tour.
type tourDraft struct {
	id    string
	input model.TourInput
}

// AdminPanel is the signed-in guide's dashboard. Drafts live until they are
// saved or the guide switches tabs, which discards them.
type AdminPanel struct {
	ownerID  string
	tours    TourManager
	bookings BookingManager
	profiles ProfileManager

	mu           sync.Mutex
	tab          Tab
	tourDraft    *tourDraft
	profileDraft *ProfileDraft
	saving       bool
}

// NewAdminPanel opens the panel for ownerID on the tours tab.
func NewAdminPanel(ownerID string, tours TourManager, bookings BookingManager, profiles ProfileManager) *AdminPanel {
	return &AdminPanel{
		ownerID:  ownerID,
		tours:    tours,
		bookings: bookings,
		profiles: profiles,
		tab:      TabTours,
	}
}

// Tab returns the active tab.
func (p *AdminPanel) Tab() Tab {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tab
}

// SwitchTab changes the visible tab and drops any unsaved draft.
func (p *AdminPanel) SwitchTab(tab Tab) error {
	switch tab {
	case TabTours, TabBookings, TabProfile:
	default:
		return ErrUnknownTab
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tab = tab
	p.tourDraft = nil
	p.profileDraft = nil
	return nil
}

// Saving reports whether a save is in flight.
func (p *AdminPanel) Saving() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saving
}

// ─── Tours tab ───────────────────────────────────────────────────────────────

// Tours lists every tour of the owner, active or not.
func (p *AdminPanel) Tours(ctx context.Context) ([]model.TourWithDates, error) {
	return p.tours.ListTours(ctx, p.ownerID, false)
}

// EditTour starts a draft. Pass an empty id for a new tour.
func (p *AdminPanel) EditTour(id string, in model.TourInput) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tourDraft = &tourDraft{id: id, input: in}
}

// TourDraft returns the unsaved tour form, if any.
func (p *AdminPanel) TourDraft() (string, model.TourInput, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tourDraft == nil {
		return "", model.TourInput{}, false
	}
	return p.tourDraft.id, p.tourDraft.input, true
}

// SaveTour creates or updates the drafted tour. The draft is kept when the
// save fails.
func (p *AdminPanel) SaveTour(ctx context.Context) (*model.Tour, error) {
	p.mu.Lock()
	if p.saving {
		p.mu.Unlock()
		return nil, ErrSaveInProgress
	}
	if p.tourDraft == nil {
		p.mu.Unlock()
		return nil, ErrNoDraft
	}
	draft := *p.tourDraft
	p.saving = true
	p.mu.Unlock()

	var (
		t   *model.Tour
		err error
	)
	if draft.id == "" {
		t, err = p.tours.CreateTour(ctx, p.ownerID, draft.input)
	} else {
		t, err = p.tours.UpdateTour(ctx, p.ownerID, draft.id, draft.input)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.saving = false
	if err != nil {
		return nil, err
	}
	p.tourDraft = nil
	return t, nil
}

// DeleteTour removes a tour with its dates and bookings.
func (p *AdminPanel) DeleteTour(ctx context.Context, id string) error {
	return p.tours.DeleteTour(ctx, p.ownerID, id)
}

// AddDate offers a new date on one of the owner's tours.
func (p *AdminPanel) AddDate(ctx context.Context, tourID string, in model.DateInput) (*model.AvailableDate, error) {
	return p.tours.AddDate(ctx, p.ownerID, tourID, in)
}

// RemoveDate withdraws a date that no active booking holds.
func (p *AdminPanel) RemoveDate(ctx context.Context, dateID string) error {
	return p.tours.RemoveDate(ctx, p.ownerID, dateID)
}

// ─── Bookings tab ────────────────────────────────────────────────────────────

// Bookings lists requests for the owner's tours. An empty status lists all.
func (p *AdminPanel) Bookings(ctx context.Context, status model.BookingStatus) ([]model.BookingWithDetails, error) {
	return p.bookings.ListBookings(ctx, p.ownerID, status)
}

// ConfirmBooking accepts a pending request.
func (p *AdminPanel) ConfirmBooking(ctx context.Context, id string) (*model.Booking, error) {
	return p.bookings.SetStatus(ctx, p.ownerID, id, model.StatusConfirmed)
}

// CancelBooking rejects a pending request.
func (p *AdminPanel) CancelBooking(ctx context.Context, id string) (*model.Booking, error) {
	return p.bookings.SetStatus(ctx, p.ownerID, id, model.StatusCancelled)
}

// ─── Profile tab ─────────────────────────────────────────────────────────────

// EditProfile loads the stored profile into a fresh draft.
func (p *AdminPanel) EditProfile(ctx context.Context) (ProfileDraft, error) {
	prof, err := p.profiles.GetProfile(ctx, p.ownerID)
	if err != nil {
		return ProfileDraft{}, err
	}
	d := draftFromProfile(prof)
	p.mu.Lock()
	p.profileDraft = &d
	p.mu.Unlock()
	return d, nil
}

// SetProfileDraft replaces the profile form contents.
func (p *AdminPanel) SetProfileDraft(d ProfileDraft) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profileDraft = &d
}

// ProfileDraft returns the unsaved profile form, if any.
func (p *AdminPanel) ProfileDraft() (ProfileDraft, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.profileDraft == nil {
		return ProfileDraft{}, false
	}
	return *p.profileDraft, true
}

// SaveProfile stores the drafted profile.
func (p *AdminPanel) SaveProfile(ctx context.Context) (*model.Profile, error) {
	p.mu.Lock()
	if p.saving {
		p.mu.Unlock()
		return nil, ErrSaveInProgress
	}
	if p.profileDraft == nil {
		p.mu.Unlock()
		return nil, ErrNoDraft
	}
	in := p.profileDraft.input()
	p.saving = true
	p.mu.Unlock()

	prof, err := p.profiles.UpdateProfile(ctx, p.ownerID, in)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.saving = false
	if err != nil {
		return nil, err
	}
	d := draftFromProfile(prof)
	p.profileDraft = &d
	return prof, nil
}
