package domain

import (
	"context"
	"time"
)

// HotelsAPI is the remote hotel CRUD backend.
type HotelsAPI interface {
	GetHotels(ctx context.Context) ([]Hotel, error)
	GetPendingHotels(ctx context.Context) ([]Hotel, error)
	CreateHotel(ctx context.Context, d HotelDraft) (Hotel, error)
	// ApproveHotel returns the server's copy of the record when it sends one.
	ApproveHotel(ctx context.Context, id string) (*Hotel, error)
	RejectHotel(ctx context.Context, id, reason string) error
	UpdateHotel(ctx context.Context, id string, p HotelPatch) error
	DeleteHotel(ctx context.Context, id string) error
}

type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (uid string, err error)
	DeleteUser(ctx context.Context, uid string) error
	EmailVerificationLink(ctx context.Context, email string) (string, error)
	VerifyIDToken(ctx context.Context, idToken string) (IdentityClaims, error)
}

type RegistrationStore interface {
	CreateRegistration(ctx context.Context, r RegistrationRecord) (string, error)
	CreateHotelUser(ctx context.Context, u HotelUser) error
	GetRegistration(ctx context.Context, id string) (RegistrationRecord, error)
	ListRegistrations(ctx context.Context, status RegistrationStatus) ([]RegistrationRecord, error)
	UpdateRegistrationStatus(ctx context.Context, id string, ch StatusChange) error
	GetHotelUser(ctx context.Context, uid string) (HotelUser, error)
}

// Registrar is the registerHotel call the wizard submits to.
type Registrar interface {
	Register(ctx context.Context, d RegistrationDraft) (RegistrationRecord, error)
}

type Mailer interface {
	SendVerification(ctx context.Context, to, name, link string) error
	SendBookingUpdate(ctx context.Context, to, name string, params map[string]string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Locker hands out short-lived exclusive leases on a key. Release only frees
// the lease when token still owns it.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

type FavoritesStore interface {
	AddFavorite(ctx context.Context, uid, hotelID string) error
	RemoveFavorite(ctx context.Context, uid, hotelID string) error
	ListFavorites(ctx context.Context, uid string) ([]string, error)
}

type PackageRepository interface {
	ListPackages(ctx context.Context) ([]TravelPackage, error)
	GetPackage(ctx context.Context, id int64) (TravelPackage, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, b Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	UpdateBookingPayment(ctx context.Context, id string, status BookingStatus, paymentID, reason *string) error
}

type PaymentGateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (PaymentOrder, error)
	VerifySignature(orderID, paymentID, signature string) error
}
