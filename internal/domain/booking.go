package domain

import "time"

type TravelPackage struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Destination  string   `json:"destination"`
	DurationDays int      `json:"durationDays"`
	Price        int64    `json:"price"` // INR
	Image        string   `json:"image"`
	Highlights   []string `json:"highlights"`
	Active       bool     `json:"active"`
}

type BookingStatus string

const (
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingPaid           BookingStatus = "paid"
	BookingPaymentFailed  BookingStatus = "payment_failed"
)

type Booking struct {
	ID            string        `json:"id"`
	PackageID     int64         `json:"packageId"`
	TravelerName  string        `json:"travelerName"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Travelers     int           `json:"travelers"`
	TravelDate    string        `json:"travelDate"`
	Amount        int64         `json:"amount"` // paise
	Currency      string        `json:"currency"`
	Status        BookingStatus `json:"status"`
	OrderID       string        `json:"orderId"`
	PaymentID     *string       `json:"paymentId,omitempty"`
	FailureReason *string       `json:"failureReason,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// PaymentOrder is the gateway order the browser checkout is opened against.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}
