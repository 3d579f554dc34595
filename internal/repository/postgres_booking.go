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

// BookingRepository handles persistence for booking requests.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, tour_id, available_date_id, customer_name, customer_email,
	customer_phone, participants, notes, status, created_at, updated_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.TourID, &b.AvailableDateID, &b.CustomerName,
		&b.CustomerEmail, &b.CustomerPhone, &b.Participants, &b.Notes, &b.Status,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new booking. Unknown tour or date ids surface as ErrNotFound.
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = model.StatusPending
	}
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now

	_, err := r.db.Exec(ctx,
		`INSERT INTO bookings (`+bookingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.ID, b.TourID, b.AvailableDateID, b.CustomerName, b.CustomerEmail,
		b.CustomerPhone, b.Participants, b.Notes, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetByID returns a single booking or ErrNotFound.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// ListByOwner returns bookings on the owner's tours joined with tour and
// date details, newest first.
func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID string, status model.BookingStatus) ([]model.BookingWithDetails, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.tour_id, b.available_date_id, b.customer_name, b.customer_email,
		        b.customer_phone, b.participants, b.notes, b.status, b.created_at, b.updated_at,
		        t.title, t.price, d.date, d.start_time
		 FROM bookings b
		 JOIN tours t ON t.id = b.tour_id
		 JOIN available_dates d ON d.id = b.available_date_id
		 WHERE t.user_id = $1 AND ($2 = '' OR b.status = $2)
		 ORDER BY b.created_at DESC, b.id ASC`,
		ownerID, string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []model.BookingWithDetails
	for rows.Next() {
		var (
			bd  model.BookingWithDetails
			day time.Time
		)
		b := &bd.Booking
		if err := rows.Scan(&b.ID, &b.TourID, &b.AvailableDateID, &b.CustomerName,
			&b.CustomerEmail, &b.CustomerPhone, &b.Participants, &b.Notes, &b.Status,
			&b.CreatedAt, &b.UpdatedAt,
			&bd.Tour.Title, &bd.Tour.Price, &day, &bd.AvailableDate.StartTime); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bd.AvailableDate.Date = day.Format(model.DateLayout)
		bd.EstimatedTotal = bd.Tour.Price * float64(b.Participants)
		out = append(out, bd)
	}
	return out, rows.Err()
}

// Transition moves a booking out of pending inside a serialised transaction.
//
// Confirming a booking consumes spots on its date, so two guides' browser
// tabs (or a double click) racing to confirm bookings on the same date must
// not both read the same spots_available and both succeed. Both the booking
// row and the date row are taken with SELECT … FOR UPDATE before anything is
// checked, which serialises concurrent transitions on the same date.
//
// A booking already in the requested terminal state is returned unchanged so
// repeating the call is harmless.
func (r *BookingRepository) Transition(ctx context.Context, id string, to model.BookingStatus) (b *model.Booking, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// ── Step 1: lock the booking row. ────────────────────────────────────
	b, err = scanBooking(tx.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock booking row: %w", err)
	}

	// ── Step 2: idempotent repeat or illegal transition. ─────────────────
	if b.Status == to {
		err = tx.Commit(ctx)
		if err != nil {
			return nil, fmt.Errorf("commit transaction: %w", err)
		}
		return b, nil
	}
	if !model.CanTransition(b.Status, to) {
		return nil, ErrInvalidTransition
	}

	// ── Step 3: consume spots when confirming. ───────────────────────────
	if to == model.StatusConfirmed {
		var spots int
		err = tx.QueryRow(ctx,
			`SELECT spots_available FROM available_dates WHERE id = $1 FOR UPDATE`,
			b.AvailableDateID,
		).Scan(&spots)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("lock date row: %w", err)
		}
		if spots < b.Participants {
			return nil, ErrNoCapacity
		}
		_, err = tx.Exec(ctx,
			`UPDATE available_dates SET spots_available = spots_available - $2 WHERE id = $1`,
			b.AvailableDateID, b.Participants,
		)
		if err != nil {
			return nil, fmt.Errorf("decrement spots: %w", err)
		}
	}

	// ── Step 4: write the new status. ────────────────────────────────────
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	_, err = tx.Exec(ctx,
		`UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`,
		b.ID, b.Status, b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return b, nil
}
