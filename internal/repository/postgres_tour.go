package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TourRepository handles persistence for tours and their available dates.
type TourRepository struct {
	db *pgxpool.Pool
}

// NewTourRepository constructs a TourRepository.
func NewTourRepository(db *pgxpool.Pool) *TourRepository {
	return &TourRepository{db: db}
}

const tourColumns = `id, user_id, title, description, image_url, price, duration_hours,
	location, max_participants, is_active, created_at, updated_at`

func scanTour(row pgx.Row) (model.Tour, error) {
	var t model.Tour
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.ImageURL,
		&t.Price, &t.DurationHours, &t.Location, &t.MaxParticipants, &t.IsActive,
		&t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func scanDate(row pgx.Row) (model.AvailableDate, error) {
	var (
		d   model.AvailableDate
		day time.Time
	)
	if err := row.Scan(&d.ID, &d.TourID, &day, &d.StartTime, &d.SpotsAvailable, &d.CreatedAt); err != nil {
		return d, err
	}
	d.Date = day.Format(model.DateLayout)
	return d, nil
}

// Create inserts a new tour and returns it with a generated UUID.
func (r *TourRepository) Create(ctx context.Context, t *model.Tour) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := r.db.Exec(ctx,
		`INSERT INTO tours (`+tourColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.UserID, t.Title, t.Description, t.ImageURL, t.Price, t.DurationHours,
		t.Location, t.MaxParticipants, t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tour: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of a tour.
func (r *TourRepository) Update(ctx context.Context, t *model.Tour) error {
	t.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx,
		`UPDATE tours
		 SET title = $2, description = $3, image_url = $4, price = $5,
		     duration_hours = $6, location = $7, max_participants = $8,
		     is_active = $9, updated_at = $10
		 WHERE id = $1`,
		t.ID, t.Title, t.Description, t.ImageURL, t.Price, t.DurationHours,
		t.Location, t.MaxParticipants, t.IsActive, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tour: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a tour. Dates and bookings go with it through
// ON DELETE CASCADE foreign keys, inside the same statement.
func (r *TourRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tour: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID returns a single tour with its dates or ErrNotFound.
func (r *TourRepository) GetByID(ctx context.Context, id string) (*model.TourWithDates, error) {
	t, err := scanTour(r.db.QueryRow(ctx,
		`SELECT `+tourColumns+` FROM tours WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get tour: %w", err)
	}
	dates, err := r.datesFor(ctx, []string{t.ID})
	if err != nil {
		return nil, err
	}
	return &model.TourWithDates{Tour: t, AvailableDates: nonNilDates(dates[t.ID])}, nil
}

// ListByOwner returns the owner's tours ordered by creation time ascending.
func (r *TourRepository) ListByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]model.TourWithDates, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+tourColumns+`
		 FROM tours
		 WHERE user_id = $1 AND (NOT $2 OR is_active)
		 ORDER BY created_at ASC, id ASC`,
		ownerID, activeOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	defer rows.Close()

	var tours []model.TourWithDates
	var ids []string
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tour: %w", err)
		}
		tours = append(tours, model.TourWithDates{Tour: t})
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return tours, nil
	}

	dates, err := r.datesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range tours {
		tours[i].AvailableDates = nonNilDates(dates[tours[i].ID])
	}
	return tours, nil
}

func (r *TourRepository) datesFor(ctx context.Context, tourIDs []string) (map[string][]model.AvailableDate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tour_id, date, start_time, spots_available, created_at
		 FROM available_dates
		 WHERE tour_id = ANY($1)
		 ORDER BY date ASC, start_time ASC, created_at ASC`,
		tourIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("list dates: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.AvailableDate, len(tourIDs))
	for rows.Next() {
		d, err := scanDate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		out[d.TourID] = append(out[d.TourID], d)
	}
	return out, rows.Err()
}

// AddDate inserts a new available date for an existing tour.
func (r *TourRepository) AddDate(ctx context.Context, d *model.AvailableDate) error {
	day, err := d.Day()
	if err != nil {
		return fmt.Errorf("parse date: %w", err)
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.CreatedAt = time.Now().UTC()

	_, err = r.db.Exec(ctx,
		`INSERT INTO available_dates (id, tour_id, date, start_time, spots_available, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.TourID, day, d.StartTime, d.SpotsAvailable, d.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert date: %w", err)
	}
	return nil
}

// GetDate returns a single available date or ErrNotFound.
func (r *TourRepository) GetDate(ctx context.Context, id string) (*model.AvailableDate, error) {
	d, err := scanDate(r.db.QueryRow(ctx,
		`SELECT id, tour_id, date, start_time, spots_available, created_at
		 FROM available_dates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get date: %w", err)
	}
	return &d, nil
}

// RemoveDate deletes an available date unless active bookings reference it.
// The date row stays locked until commit so no booking can be confirmed
// against it in between.
func (r *TourRepository) RemoveDate(ctx context.Context, id string) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var lockedID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM available_dates WHERE id = $1 FOR UPDATE`, id,
	).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock date row: %w", err)
	}

	var active int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE available_date_id = $1 AND status IN ('pending', 'confirmed')`,
		id,
	).Scan(&active)
	if err != nil {
		return fmt.Errorf("count bookings: %w", err)
	}
	if active > 0 {
		return ErrDateInUse
	}

	if _, err = tx.Exec(ctx, `DELETE FROM bookings WHERE available_date_id = $1`, id); err != nil {
		return fmt.Errorf("delete cancelled bookings: %w", err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM available_dates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete date: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func nonNilDates(d []model.AvailableDate) []model.AvailableDate {
	if d == nil {
		return []model.AvailableDate{}
	}
	return d
}
