package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valley_travel/internal/domain"
)

func newMock(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	r := New(db)
	r.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	return r, mock
}

var packageCols = []string{"id", "title", "destination", "duration_days", "price", "image", "highlights", "active"}

func TestListPackages(t *testing.T) {
	r, mock := newMock(t)
	rows := sqlmock.NewRows(packageCols).
		AddRow(2, "Dal Lake Houseboat", "Srinagar", 3, 12000, "", nil, true).
		AddRow(1, "Gulmarg Snow Escape", "Gulmarg", 4, 18500, "g.jpg", []byte(`["Gondola","Skiing"]`), true)
	mock.ExpectQuery(regexp.QuoteMeta(listPackagesSQL)).WillReturnRows(rows)

	ps, err := r.ListPackages(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Nil(t, ps[0].Highlights)
	assert.Equal(t, []string{"Gondola", "Skiing"}, ps[1].Highlights)
	assert.Equal(t, int64(18500), ps[1].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPackage_NotFound(t *testing.T) {
	r, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(getPackageSQL)).WithArgs(int64(9)).WillReturnRows(sqlmock.NewRows(packageCols))

	_, err := r.GetPackage(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsertPackage(t *testing.T) {
	r, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(upsertPackageSQL)).
		WithArgs("Gulmarg Snow Escape", "Gulmarg", 4, int64(18500), "g.jpg", `["Gondola"]`, true).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := r.UpsertPackage(context.Background(), domain.TravelPackage{
		Title: "Gulmarg Snow Escape", Destination: "Gulmarg", DurationDays: 4, Price: 18500,
		Image: "g.jpg", Highlights: []string{"Gondola"}, Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestCreateAndGetBooking(t *testing.T) {
	r, mock := newMock(t)
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	b := domain.Booking{
		ID: "bk-1", PackageID: 1, TravelerName: "Ravi", Email: "r@x.com", Phone: "9876543210",
		Travelers: 2, TravelDate: "2026-11-20", Amount: 3700000, Currency: "INR",
		Status: domain.BookingPendingPayment, OrderID: "order_1", CreatedAt: now, UpdatedAt: now,
	}
	mock.ExpectExec(regexp.QuoteMeta(insertBookingSQL)).
		WithArgs("bk-1", int64(1), "Ravi", "r@x.com", "9876543210", 2, "2026-11-20", int64(3700000), "INR",
			"pending_payment", "order_1", nil, nil, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, r.CreateBooking(context.Background(), b))

	cols := []string{"id", "package_id", "traveler_name", "email", "phone", "travelers", "travel_date",
		"amount", "currency", "status", "order_id", "payment_id", "failure_reason", "created_at", "updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta(getBookingSQL)).WithArgs("bk-1").WillReturnRows(
		sqlmock.NewRows(cols).AddRow("bk-1", 1, "Ravi", "r@x.com", "9876543210", 2, "2026-11-20",
			3700000, "INR", "paid", "order_1", "pay_1", nil, now, now))

	got, err := r.GetBooking(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPaid, got.Status)
	require.NotNil(t, got.PaymentID)
	assert.Equal(t, "pay_1", *got.PaymentID)
	assert.Nil(t, got.FailureReason)
	assert.Equal(t, "2026-11-20", got.TravelDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingPayment(t *testing.T) {
	r, mock := newMock(t)
	ctx := context.Background()
	at := r.now().UTC()
	pay := "pay_1"

	mock.ExpectExec(regexp.QuoteMeta(updateBookingPaymentSQL)).
		WithArgs("paid", "pay_1", nil, at, "bk-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, r.UpdateBookingPayment(ctx, "bk-1", domain.BookingPaid, &pay, nil))

	// unchanged row: existence check decides
	mock.ExpectExec(regexp.QuoteMeta(updateBookingPaymentSQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(bookingExistsSQL)).WithArgs("bk-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	require.NoError(t, r.UpdateBookingPayment(ctx, "bk-1", domain.BookingPaid, &pay, nil))

	mock.ExpectExec(regexp.QuoteMeta(updateBookingPaymentSQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(bookingExistsSQL)).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	err := r.UpdateBookingPayment(ctx, "nope", domain.BookingPaid, &pay, nil)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}
