package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"valley_travel/internal/domain"
	"valley_travel/internal/validation"
)

const (
	currencyINR  = "INR"
	maxTravelers = 20
	mailTimeout  = 15 * time.Second
)

type BookingRequest struct {
	PackageID    int64  `json:"packageId"`
	TravelerName string `json:"travelerName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Travelers    int    `json:"travelers"`
	TravelDate   string `json:"travelDate"`
}

// Checkout is what the browser needs to open the payment popup.
type Checkout struct {
	Booking  domain.Booking `json:"booking"`
	KeyID    string         `json:"keyId"`
	OrderID  string         `json:"orderId"`
	Amount   int64          `json:"amount"`
	Currency string         `json:"currency"`
}

type PaymentConfirmation struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// BookingService handles the package booking form and its payment lifecycle.
type BookingService struct {
	packages domain.PackageRepository
	bookings domain.BookingRepository
	gateway  domain.PaymentGateway
	mail     domain.Mailer
	now      func() time.Time
	wg       sync.WaitGroup
}

func NewBookingService(p domain.PackageRepository, b domain.BookingRepository, g domain.PaymentGateway, m domain.Mailer) *BookingService {
	return &BookingService{packages: p, bookings: b, gateway: g, mail: m, now: time.Now}
}

func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (Checkout, error) {
	if err := s.validate(req); err != nil {
		return Checkout{}, err
	}
	pkg, err := s.packages.GetPackage(ctx, req.PackageID)
	if err != nil {
		return Checkout{}, err
	}
	if !pkg.Active {
		return Checkout{}, domain.NewValidationError(map[string]string{"packageId": "This package is no longer available"})
	}

	id := uuid.NewString()
	amount := pkg.Price * int64(req.Travelers) * 100
	order, err := s.gateway.CreateOrder(ctx, amount, currencyINR, id)
	if err != nil {
		return Checkout{}, fmt.Errorf("create payment order: %w", err)
	}

	now := s.now().UTC()
	b := domain.Booking{
		ID:           id,
		PackageID:    pkg.ID,
		TravelerName: strings.TrimSpace(req.TravelerName),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Travelers:    req.Travelers,
		TravelDate:   req.TravelDate,
		Amount:       amount,
		Currency:     currencyINR,
		Status:       domain.BookingPendingPayment,
		OrderID:      order.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		return Checkout{}, fmt.Errorf("save booking: %w", err)
	}
	log.Info().Str("booking_id", id).Str("order_id", order.ID).Int64("amount", amount).Msg("booking created")
	return Checkout{Booking: b, KeyID: s.gateway.KeyID(), OrderID: order.ID, Amount: amount, Currency: currencyINR}, nil
}

func (s *BookingService) validate(req BookingRequest) error {
	errs := validation.ValidateForm(map[string]string{
		"travelerName": req.TravelerName,
		"email":        req.Email,
		"phone":        req.Phone,
	}, map[string]any{
		"travelerName": validation.Required("Traveler name"),
		"email":        validation.Email,
		"phone":        validation.Phone,
	})
	if req.PackageID <= 0 {
		errs["packageId"] = "Please choose a package"
	}
	if req.Travelers < 1 || req.Travelers > maxTravelers {
		errs["travelers"] = fmt.Sprintf("Travelers must be between 1 and %d", maxTravelers)
	}
	if d, err := time.Parse(dateLayout, req.TravelDate); err != nil {
		errs["travelDate"] = "Travel date must be YYYY-MM-DD"
	} else if d.Before(s.now().UTC().Truncate(24 * time.Hour)) {
		errs["travelDate"] = "Travel date cannot be in the past"
	}
	return domain.NewValidationError(errs)
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	return s.bookings.GetBooking(ctx, id)
}

// ConfirmPayment accepts the checkout callback only after checking the gateway
// signature server-side.
func (s *BookingService) ConfirmPayment(ctx context.Context, id string, c PaymentConfirmation) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if c.OrderID != b.OrderID {
		return domain.Booking{}, fmt.Errorf("booking %s: %w", id, domain.ErrInvalidSignature)
	}
	if err := s.gateway.VerifySignature(c.OrderID, c.PaymentID, c.Signature); err != nil {
		return domain.Booking{}, err
	}
	if b.Status == domain.BookingPaid {
		return b, nil
	}
	if err := s.bookings.UpdateBookingPayment(ctx, id, domain.BookingPaid, &c.PaymentID, nil); err != nil {
		return domain.Booking{}, err
	}
	b.Status = domain.BookingPaid
	b.PaymentID = &c.PaymentID
	b.FailureReason = nil
	b.UpdatedAt = s.now().UTC()
	log.Info().Str("booking_id", id).Str("payment_id", c.PaymentID).Msg("payment confirmed")
	s.notify(b)
	return b, nil
}

// FailPayment records a checkout failure reported by the browser.
func (s *BookingService) FailPayment(ctx context.Context, id, reason string) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.Status == domain.BookingPaid {
		return domain.Booking{}, fmt.Errorf("%w: booking %s is already paid", domain.ErrConflict, id)
	}
	if strings.TrimSpace(reason) == "" {
		reason = "payment failed"
	}
	if err := s.bookings.UpdateBookingPayment(ctx, id, domain.BookingPaymentFailed, nil, &reason); err != nil {
		return domain.Booking{}, err
	}
	b.Status = domain.BookingPaymentFailed
	b.FailureReason = &reason
	b.UpdatedAt = s.now().UTC()
	log.Warn().Str("booking_id", id).Str("reason", reason).Msg("payment failed")
	s.notify(b)
	return b, nil
}

// notify sends the booking email in the background; failures are only logged.
func (s *BookingService) notify(b domain.Booking) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		params := map[string]string{
			"booking_id":     b.ID,
			"traveler_name":  b.TravelerName,
			"travel_date":    b.TravelDate,
			"travelers":      strconv.Itoa(b.Travelers),
			"amount":         fmt.Sprintf("%.2f", float64(b.Amount)/100),
			"currency":       b.Currency,
			"payment_status": string(b.Status),
		}
		if pkg, err := s.packages.GetPackage(ctx, b.PackageID); err == nil {
			params["package_name"] = pkg.Title
			params["destination"] = pkg.Destination
		}
		if err := s.mail.SendBookingUpdate(ctx, b.Email, b.TravelerName, params); err != nil {
			log.Warn().Err(err).Str("booking_id", b.ID).Msg("booking email failed")
		}
	}()
}

// Wait blocks until background emails have finished.
func (s *BookingService) Wait() { s.wg.Wait() }
