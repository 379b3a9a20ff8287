package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"valley_travel/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valJSON(v any) any {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return nil
	}
	return string(b)
}

type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Repo { return &Repo{db: db, now: time.Now} }

var (
	_ domain.PackageRepository = (*Repo)(nil)
	_ domain.BookingRepository = (*Repo)(nil)
)

// ---- packages ----

// UpsertPackage inserts or updates by title and returns the row id.
func (r *Repo) UpsertPackage(ctx context.Context, p domain.TravelPackage) (int64, error) {
	res, err := r.db.ExecContext(ctx, upsertPackageSQL,
		p.Title,
		p.Destination,
		p.DurationDays,
		p.Price,
		p.Image,
		valJSON(p.Highlights),
		p.Active,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPackage(s scanner) (domain.TravelPackage, error) {
	var p domain.TravelPackage
	var highlights []byte
	if err := s.Scan(&p.ID, &p.Title, &p.Destination, &p.DurationDays, &p.Price, &p.Image, &highlights, &p.Active); err != nil {
		return domain.TravelPackage{}, err
	}
	if len(highlights) > 0 {
		if err := json.Unmarshal(highlights, &p.Highlights); err != nil {
			return domain.TravelPackage{}, fmt.Errorf("package %d highlights: %w", p.ID, err)
		}
	}
	return p, nil
}

func (r *Repo) ListPackages(ctx context.Context) ([]domain.TravelPackage, error) {
	rows, err := r.db.QueryContext(ctx, listPackagesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.TravelPackage{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetPackage(ctx context.Context, id int64) (domain.TravelPackage, error) {
	p, err := scanPackage(r.db.QueryRowContext(ctx, getPackageSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TravelPackage{}, fmt.Errorf("package %d: %w", id, domain.ErrNotFound)
	}
	return p, err
}

// ---- bookings ----

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.ID,
		b.PackageID,
		b.TravelerName,
		b.Email,
		b.Phone,
		b.Travelers,
		b.TravelDate,
		b.Amount,
		b.Currency,
		string(b.Status),
		b.OrderID,
		valStr(b.PaymentID),
		valStr(b.FailureReason),
		b.CreatedAt,
		b.UpdatedAt,
	)
	return err
}

func (r *Repo) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	var b domain.Booking
	var status string
	var paymentID, reason sql.NullString
	err := r.db.QueryRowContext(ctx, getBookingSQL, id).Scan(
		&b.ID, &b.PackageID, &b.TravelerName, &b.Email, &b.Phone, &b.Travelers, &b.TravelDate,
		&b.Amount, &b.Currency, &status, &b.OrderID, &paymentID, &reason, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Booking{}, err
	}
	b.Status = domain.BookingStatus(status)
	if paymentID.Valid {
		b.PaymentID = &paymentID.String
	}
	if reason.Valid {
		b.FailureReason = &reason.String
	}
	return b, nil
}

func (r *Repo) UpdateBookingPayment(ctx context.Context, id string, st domain.BookingStatus, paymentID, reason *string) error {
	res, err := r.db.ExecContext(ctx, updateBookingPaymentSQL,
		string(st), valStr(paymentID), valStr(reason), r.now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	// MySQL reports unchanged rows as unaffected
	var one int
	if err := r.db.QueryRowContext(ctx, bookingExistsSQL, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
		}
		return err
	}
	return nil
}
