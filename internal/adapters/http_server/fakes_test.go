package httpserver_test

import (
	"context"
	"sync"

	"valley_travel/internal/adapters/razorpay"
	"valley_travel/internal/domain"
)

type stubHotels struct {
	mu      sync.Mutex
	hotels  []domain.Hotel
	pending []domain.Hotel
}

func (s *stubHotels) GetHotels(ctx context.Context) ([]domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Hotel(nil), s.hotels...), nil
}

func (s *stubHotels) GetPendingHotels(ctx context.Context) ([]domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Hotel(nil), s.pending...), nil
}

func (s *stubHotels) CreateHotel(ctx context.Context, d domain.HotelDraft) (domain.Hotel, error) {
	return domain.Hotel{ID: "new-1", Name: d.Name, Location: d.Location, Price: d.Price, Stars: d.Stars}, nil
}

func (s *stubHotels) ApproveHotel(ctx context.Context, id string) (*domain.Hotel, error) {
	return nil, nil
}

func (s *stubHotels) RejectHotel(ctx context.Context, id, reason string) error { return nil }

func (s *stubHotels) UpdateHotel(ctx context.Context, id string, p domain.HotelPatch) error {
	return nil
}

func (s *stubHotels) DeleteHotel(ctx context.Context, id string) error {
	if id == "missing" {
		return domain.ErrNotFound
	}
	return nil
}

type stubRegistrar struct {
	mu     sync.Mutex
	drafts []domain.RegistrationDraft
	err    error
}

func (s *stubRegistrar) Register(ctx context.Context, d domain.RegistrationDraft) (domain.RegistrationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return domain.RegistrationRecord{}, s.err
	}
	s.drafts = append(s.drafts, d)
	return domain.RegistrationRecord{ID: "reg-1", UID: "u-1", HotelName: d.Hotel.HotelName, Status: domain.RegistrationPending}, nil
}

type stubPackages map[int64]domain.TravelPackage

func (s stubPackages) ListPackages(ctx context.Context) ([]domain.TravelPackage, error) {
	out := []domain.TravelPackage{}
	for _, p := range s {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s stubPackages) GetPackage(ctx context.Context, id int64) (domain.TravelPackage, error) {
	p, ok := s[id]
	if !ok {
		return domain.TravelPackage{}, domain.ErrNotFound
	}
	return p, nil
}

type stubBookings struct {
	mu   sync.Mutex
	rows map[string]domain.Booking
}

func (s *stubBookings) CreateBooking(ctx context.Context, b domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[b.ID] = b
	return nil
}

func (s *stubBookings) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (s *stubBookings) UpdateBookingPayment(ctx context.Context, id string, st domain.BookingStatus, paymentID, reason *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status, b.PaymentID, b.FailureReason = st, paymentID, reason
	s.rows[id] = b
	return nil
}

const gatewaySecret = "rzp_secret"

// stubGateway opens orders locally and checks signatures the way Razorpay signs them.
type stubGateway struct{}

func (stubGateway) KeyID() string { return "rzp_test_key" }

func (stubGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (domain.PaymentOrder, error) {
	return domain.PaymentOrder{ID: "order_" + receipt[:8], Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

func (stubGateway) VerifySignature(orderID, paymentID, signature string) error {
	if razorpay.Sign(gatewaySecret, orderID, paymentID) != signature {
		return domain.ErrInvalidSignature
	}
	return nil
}

type stubIdentity map[string]domain.IdentityClaims

func (s stubIdentity) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	return "", domain.ErrForbidden
}

func (s stubIdentity) DeleteUser(ctx context.Context, uid string) error { return nil }

func (s stubIdentity) EmailVerificationLink(ctx context.Context, email string) (string, error) {
	return "", nil
}

func (s stubIdentity) VerifyIDToken(ctx context.Context, idToken string) (domain.IdentityClaims, error) {
	c, ok := s[idToken]
	if !ok {
		return domain.IdentityClaims{}, domain.ErrUnauthorized
	}
	return c, nil
}

type stubRegStore struct {
	mu   sync.Mutex
	recs map[string]domain.RegistrationRecord
}

func (s *stubRegStore) CreateRegistration(ctx context.Context, r domain.RegistrationRecord) (string, error) {
	return "", domain.ErrForbidden
}

func (s *stubRegStore) CreateHotelUser(ctx context.Context, u domain.HotelUser) error { return nil }

func (s *stubRegStore) GetRegistration(ctx context.Context, id string) (domain.RegistrationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recs[id]
	if !ok {
		return domain.RegistrationRecord{}, domain.ErrNotFound
	}
	return r, nil
}

func (s *stubRegStore) ListRegistrations(ctx context.Context, st domain.RegistrationStatus) ([]domain.RegistrationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.RegistrationRecord
	for _, r := range s.recs {
		if st == "" || r.Status == st {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRegStore) UpdateRegistrationStatus(ctx context.Context, id string, ch domain.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.recs[id]
	r.Status = ch.Status
	s.recs[id] = r
	return nil
}

func (s *stubRegStore) GetHotelUser(ctx context.Context, uid string) (domain.HotelUser, error) {
	return domain.HotelUser{}, domain.ErrNotFound
}
