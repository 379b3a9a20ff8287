package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"valley_travel/internal/domain"
)

// RegistrationService is the registerHotel implementation plus the admin review
// of submitted registrations.
type RegistrationService struct {
	idp   domain.IdentityProvider
	store domain.RegistrationStore
	mail  domain.Mailer
	now   func() time.Time
}

func NewRegistrationService(idp domain.IdentityProvider, store domain.RegistrationStore, mail domain.Mailer) *RegistrationService {
	return &RegistrationService{idp: idp, store: store, mail: mail, now: time.Now}
}

// Register creates the partner identity, persists the registration and its user
// profile, then sends the verification email. A failed email does not fail the
// registration.
func (s *RegistrationService) Register(ctx context.Context, d domain.RegistrationDraft) (domain.RegistrationRecord, error) {
	uid, err := s.idp.CreateUser(ctx, d.Personal.Email, d.Personal.Password, d.Personal.OwnerName)
	if err != nil {
		return domain.RegistrationRecord{}, err
	}

	rec := recordFromDraft(uid, d, s.now().UTC())
	id, err := s.store.CreateRegistration(ctx, rec)
	if err != nil {
		if derr := s.idp.DeleteUser(ctx, uid); derr != nil {
			log.Error().Err(derr).Str("uid", uid).Msg("rollback identity after failed registration write")
		}
		return domain.RegistrationRecord{}, fmt.Errorf("save registration: %w", err)
	}
	rec.ID = id

	if err := s.store.CreateHotelUser(ctx, domain.HotelUser{
		UID:            uid,
		Email:          rec.Email,
		OwnerName:      rec.OwnerName,
		HotelName:      rec.HotelName,
		Role:           domain.HotelRole,
		Status:         domain.RegistrationPending,
		RegistrationID: id,
		CreatedAt:      rec.RegisteredAt,
	}); err != nil {
		log.Warn().Err(err).Str("uid", uid).Str("registration_id", id).Msg("hotel user profile write failed")
	}

	link, err := s.idp.EmailVerificationLink(ctx, rec.Email)
	if err != nil {
		log.Warn().Err(err).Str("uid", uid).Msg("verification link failed")
	} else if err := s.mail.SendVerification(ctx, rec.Email, rec.OwnerName, link); err != nil {
		log.Warn().Err(err).Str("uid", uid).Msg("verification email failed")
	}

	log.Info().Str("uid", uid).Str("registration_id", id).Str("hotel", rec.HotelName).Msg("hotel registered")
	return rec, nil
}

func (s *RegistrationService) List(ctx context.Context, status domain.RegistrationStatus) ([]domain.RegistrationRecord, error) {
	return s.store.ListRegistrations(ctx, status)
}

func (s *RegistrationService) Approve(ctx context.Context, id, adminID string) (domain.RegistrationRecord, error) {
	return s.decide(ctx, id, domain.StatusChange{Status: domain.RegistrationApproved, AdminID: adminID})
}

func (s *RegistrationService) Reject(ctx context.Context, id, adminID, reason string) (domain.RegistrationRecord, error) {
	if strings.TrimSpace(reason) == "" {
		return domain.RegistrationRecord{}, domain.NewValidationError(map[string]string{"reason": "Rejection reason is required"})
	}
	return s.decide(ctx, id, domain.StatusChange{Status: domain.RegistrationRejected, AdminID: adminID, Reason: reason})
}

func (s *RegistrationService) decide(ctx context.Context, id string, ch domain.StatusChange) (domain.RegistrationRecord, error) {
	rec, err := s.store.GetRegistration(ctx, id)
	if err != nil {
		return domain.RegistrationRecord{}, err
	}
	if rec.Status != domain.RegistrationPending {
		return domain.RegistrationRecord{}, fmt.Errorf("%w: registration %s is already %s", domain.ErrConflict, id, rec.Status)
	}
	ch.At = s.now().UTC()
	if err := s.store.UpdateRegistrationStatus(ctx, id, ch); err != nil {
		return domain.RegistrationRecord{}, err
	}
	rec.Status = ch.Status
	rec.UpdatedAt = ch.At
	switch ch.Status {
	case domain.RegistrationApproved:
		rec.ApprovedBy, rec.ApprovedAt = &ch.AdminID, &ch.At
	case domain.RegistrationRejected:
		rec.RejectionReason = &ch.Reason
	}
	log.Info().Str("registration_id", id).Str("status", string(ch.Status)).Str("admin", ch.AdminID).Msg("registration reviewed")
	return rec, nil
}

func recordFromDraft(uid string, d domain.RegistrationDraft, now time.Time) domain.RegistrationRecord {
	return domain.RegistrationRecord{
		UID:                uid,
		OwnerName:          strings.TrimSpace(d.Personal.OwnerName),
		Email:              d.Personal.Email,
		Phone:              d.Personal.Phone,
		AlternatePhone:     d.Personal.AlternatePhone,
		HotelName:          strings.TrimSpace(d.Hotel.HotelName),
		Address:            d.Hotel.Address,
		City:               d.Hotel.City,
		State:              d.Hotel.State,
		Pincode:            d.Hotel.Pincode,
		Description:        d.Hotel.Description,
		Website:            d.Hotel.Website,
		GSTNumber:          d.Legal.GSTNumber,
		PANNumber:          d.Legal.PANNumber,
		DefaultRate:        d.Rates.DefaultRate,
		DefaultWeekendRate: d.Rates.DefaultWeekendRate,
		SeasonalRates:      d.Rates.SeasonalRates,
		ExtraBedRates:      d.Rates.ExtraBedRates,
		CWNBRates:          d.Rates.CWNBRates,
		BlackoutDates:      d.Availability.BlackoutDates,
		Status:             domain.RegistrationPending,
		Role:               domain.HotelRole,
		RegisteredAt:       now,
		UpdatedAt:          now,
	}
}
