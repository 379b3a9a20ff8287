package domain

import "time"

const (
	DefaultState       = "Jammu and Kashmir"
	DefaultRate        = "2000"
	DefaultWeekendRate = "2500"
	HotelRole          = "hotel"
)

type PersonalInfo struct {
	OwnerName       string `json:"ownerName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Phone           string `json:"phone"`
	AlternatePhone  string `json:"alternatePhone"`
}

type HotelInfo struct {
	HotelName   string `json:"hotelName"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// RatePeriod is one row of the seasonal, extra-bed or child-without-bed tables.
type RatePeriod struct {
	Label     string `json:"label" firestore:"label"`
	StartDate string `json:"startDate" firestore:"startDate"`
	EndDate   string `json:"endDate" firestore:"endDate"`
	Rate      string `json:"rate" firestore:"rate"`
}

type RateInfo struct {
	DefaultRate        string       `json:"defaultRate"`
	DefaultWeekendRate string       `json:"defaultWeekendRate"`
	SeasonalRates      []RatePeriod `json:"seasonalRates"`
	ExtraBedRates      []RatePeriod `json:"extraBedRates"`
	CWNBRates          []RatePeriod `json:"cwnbRates"`
}

type BlackoutDate struct {
	StartDate string `json:"startDate" firestore:"startDate"`
	EndDate   string `json:"endDate" firestore:"endDate"`
	Reason    string `json:"reason" firestore:"reason"`
}

// Paired reports whether both ends of the range are set.
func (b BlackoutDate) Paired() bool { return b.StartDate != "" && b.EndDate != "" }

type AvailabilityInfo struct {
	BlackoutDates []BlackoutDate `json:"blackoutDates"`
}

type LegalInfo struct {
	GSTNumber string `json:"gstNumber"`
	PANNumber string `json:"panNumber"`
}

// RegistrationDraft accumulates wizard input, grouped by the step that owns it.
type RegistrationDraft struct {
	Personal     PersonalInfo     `json:"personal"`
	Hotel        HotelInfo        `json:"hotel"`
	Rates        RateInfo         `json:"rates"`
	Availability AvailabilityInfo `json:"availability"`
	Legal        LegalInfo        `json:"legal"`
}

func NewRegistrationDraft() RegistrationDraft {
	return RegistrationDraft{Hotel: HotelInfo{State: DefaultState}}
}

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// RegistrationRecord is the persisted registration document. Passwords never leave
// the identity provider, so they are not part of it.
type RegistrationRecord struct {
	ID                 string             `json:"id" firestore:"-"`
	UID                string             `json:"uid" firestore:"uid"`
	OwnerName          string             `json:"ownerName" firestore:"ownerName"`
	Email              string             `json:"email" firestore:"email"`
	Phone              string             `json:"phone" firestore:"phone"`
	AlternatePhone     string             `json:"alternatePhone" firestore:"alternatePhone"`
	HotelName          string             `json:"hotelName" firestore:"hotelName"`
	Address            string             `json:"address" firestore:"address"`
	City               string             `json:"city" firestore:"city"`
	State              string             `json:"state" firestore:"state"`
	Pincode            string             `json:"pincode" firestore:"pincode"`
	Description        string             `json:"description" firestore:"description"`
	Website            string             `json:"website" firestore:"website"`
	GSTNumber          string             `json:"gstNumber" firestore:"gstNumber"`
	PANNumber          string             `json:"panNumber" firestore:"panNumber"`
	DefaultRate        string             `json:"defaultRate" firestore:"defaultRate"`
	DefaultWeekendRate string             `json:"defaultWeekendRate" firestore:"defaultWeekendRate"`
	SeasonalRates      []RatePeriod       `json:"seasonalRates" firestore:"seasonalRates"`
	ExtraBedRates      []RatePeriod       `json:"extraBedRates" firestore:"extraBedRates"`
	CWNBRates          []RatePeriod       `json:"cwnbRates" firestore:"cwnbRates"`
	BlackoutDates      []BlackoutDate     `json:"blackoutDates" firestore:"blackoutDates"`
	Status             RegistrationStatus `json:"status" firestore:"status"`
	Role               string             `json:"role" firestore:"role"`
	RegisteredAt       time.Time          `json:"registeredAt" firestore:"registeredAt"`
	UpdatedAt          time.Time          `json:"updatedAt" firestore:"updatedAt"`
	ApprovedBy         *string            `json:"approvedBy" firestore:"approvedBy"`
	ApprovedAt         *time.Time         `json:"approvedAt" firestore:"approvedAt"`
	RejectionReason    *string            `json:"rejectionReason" firestore:"rejectionReason"`
}

// HotelUser is the per-identity profile kept alongside the registration.
type HotelUser struct {
	UID            string             `json:"uid" firestore:"uid"`
	Email          string             `json:"email" firestore:"email"`
	OwnerName      string             `json:"ownerName" firestore:"ownerName"`
	HotelName      string             `json:"hotelName" firestore:"hotelName"`
	Role           string             `json:"role" firestore:"role"`
	Status         RegistrationStatus `json:"status" firestore:"status"`
	RegistrationID string             `json:"registrationId" firestore:"registrationId"`
	CreatedAt      time.Time          `json:"createdAt" firestore:"createdAt"`
}

// StatusChange is an admin decision on a registration.
type StatusChange struct {
	Status  RegistrationStatus
	AdminID string
	Reason  string
	At      time.Time
}

// IdentityClaims is what a verified identity token tells us about its holder.
type IdentityClaims struct {
	UID           string
	Email         string
	EmailVerified bool
	Admin         bool
}
