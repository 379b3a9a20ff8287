package firebase

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"valley_travel/internal/domain"
)

const (
	registrationsCollection = "hotelRegistrations"
	hotelUsersCollection    = "hotelUsers"
)

// Registrations implements domain.RegistrationStore on Firestore.
type Registrations struct {
	fs *firestore.Client
}

func NewRegistrations(fs *firestore.Client) *Registrations { return &Registrations{fs: fs} }

var _ domain.RegistrationStore = (*Registrations)(nil)

func (r *Registrations) CreateRegistration(ctx context.Context, rec domain.RegistrationRecord) (string, error) {
	ref, _, err := r.fs.Collection(registrationsCollection).Add(ctx, rec)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// CreateHotelUser keys the profile by uid so a repeated write overwrites it.
func (r *Registrations) CreateHotelUser(ctx context.Context, u domain.HotelUser) error {
	_, err := r.fs.Collection(hotelUsersCollection).Doc(u.UID).Set(ctx, u)
	return err
}

func (r *Registrations) GetRegistration(ctx context.Context, id string) (domain.RegistrationRecord, error) {
	snap, err := r.fs.Collection(registrationsCollection).Doc(id).Get(ctx)
	if err != nil {
		return domain.RegistrationRecord{}, notFound(err, "registration "+id)
	}
	var rec domain.RegistrationRecord
	if err := snap.DataTo(&rec); err != nil {
		return domain.RegistrationRecord{}, err
	}
	rec.ID = snap.Ref.ID
	return rec, nil
}

// ListRegistrations returns newest first. An empty status lists everything.
func (r *Registrations) ListRegistrations(ctx context.Context, st domain.RegistrationStatus) ([]domain.RegistrationRecord, error) {
	q := r.fs.Collection(registrationsCollection).Query
	if st != "" {
		q = q.Where("status", "==", string(st))
	}
	it := q.OrderBy("registeredAt", firestore.Desc).Documents(ctx)
	defer it.Stop()

	out := []domain.RegistrationRecord{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var rec domain.RegistrationRecord
		if err := snap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("decode registration %s: %w", snap.Ref.ID, err)
		}
		rec.ID = snap.Ref.ID
		out = append(out, rec)
	}
	return out, nil
}

// UpdateRegistrationStatus writes the decision and mirrors the status into the
// owner's profile in one transaction.
func (r *Registrations) UpdateRegistrationStatus(ctx context.Context, id string, ch domain.StatusChange) error {
	regRef := r.fs.Collection(registrationsCollection).Doc(id)
	return r.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(regRef)
		if err != nil {
			return notFound(err, "registration "+id)
		}
		uid, _ := snap.Data()["uid"].(string)
		if err := tx.Update(regRef, statusUpdates(ch)); err != nil {
			return err
		}
		if uid == "" {
			return nil
		}
		userRef := r.fs.Collection(hotelUsersCollection).Doc(uid)
		return tx.Set(userRef, map[string]any{"status": string(ch.Status)}, firestore.MergeAll)
	})
}

func (r *Registrations) GetHotelUser(ctx context.Context, uid string) (domain.HotelUser, error) {
	snap, err := r.fs.Collection(hotelUsersCollection).Doc(uid).Get(ctx)
	if err != nil {
		return domain.HotelUser{}, notFound(err, "hotel user "+uid)
	}
	var u domain.HotelUser
	if err := snap.DataTo(&u); err != nil {
		return domain.HotelUser{}, err
	}
	return u, nil
}

func statusUpdates(ch domain.StatusChange) []firestore.Update {
	ups := []firestore.Update{
		{Path: "status", Value: string(ch.Status)},
		{Path: "updatedAt", Value: ch.At},
	}
	switch ch.Status {
	case domain.RegistrationApproved:
		ups = append(ups,
			firestore.Update{Path: "approvedBy", Value: ch.AdminID},
			firestore.Update{Path: "approvedAt", Value: ch.At},
		)
	case domain.RegistrationRejected:
		ups = append(ups,
			firestore.Update{Path: "rejectionReason", Value: ch.Reason},
			firestore.Update{Path: "rejectedBy", Value: ch.AdminID},
		)
	}
	return ups
}

func notFound(err error, what string) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}
