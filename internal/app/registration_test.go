package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valley_travel/internal/app"
	"valley_travel/internal/domain"
)

type fakeIdentity struct {
	createErr error
	deleted   []string
	linkErr   error
	claims    map[string]domain.IdentityClaims
}

func (f *fakeIdentity) CreateUser(ctx context.Context, email, password, name string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return "uid-" + email, nil
}

func (f *fakeIdentity) DeleteUser(ctx context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

func (f *fakeIdentity) EmailVerificationLink(ctx context.Context, email string) (string, error) {
	if f.linkErr != nil {
		return "", f.linkErr
	}
	return "https://verify.example/" + email, nil
}

func (f *fakeIdentity) VerifyIDToken(ctx context.Context, tok string) (domain.IdentityClaims, error) {
	c, ok := f.claims[tok]
	if !ok {
		return domain.IdentityClaims{}, errors.New("token expired")
	}
	return c, nil
}

type fakeRegStore struct {
	recs     map[string]domain.RegistrationRecord
	users    map[string]domain.HotelUser
	writeErr error
	userErr  error
}

func newRegStore() *fakeRegStore {
	return &fakeRegStore{recs: map[string]domain.RegistrationRecord{}, users: map[string]domain.HotelUser{}}
}

func (f *fakeRegStore) CreateRegistration(ctx context.Context, r domain.RegistrationRecord) (string, error) {
	if f.writeErr != nil {
		return "", f.writeErr
	}
	id := "reg-" + r.UID
	r.ID = id
	f.recs[id] = r
	return id, nil
}

func (f *fakeRegStore) CreateHotelUser(ctx context.Context, u domain.HotelUser) error {
	if f.userErr != nil {
		return f.userErr
	}
	f.users[u.UID] = u
	return nil
}

func (f *fakeRegStore) GetRegistration(ctx context.Context, id string) (domain.RegistrationRecord, error) {
	r, ok := f.recs[id]
	if !ok {
		return domain.RegistrationRecord{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeRegStore) ListRegistrations(ctx context.Context, status domain.RegistrationStatus) ([]domain.RegistrationRecord, error) {
	var out []domain.RegistrationRecord
	for _, r := range f.recs {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRegStore) UpdateRegistrationStatus(ctx context.Context, id string, ch domain.StatusChange) error {
	r, ok := f.recs[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = ch.Status
	f.recs[id] = r
	return nil
}

func (f *fakeRegStore) GetHotelUser(ctx context.Context, uid string) (domain.HotelUser, error) {
	u, ok := f.users[uid]
	if !ok {
		return domain.HotelUser{}, domain.ErrNotFound
	}
	return u, nil
}

func submittedDraft() domain.RegistrationDraft {
	d := domain.NewRegistrationDraft()
	d.Personal = validPersonal()
	d.Hotel = validHotel()
	return app.NormalizeDraft(d)
}

func TestRegister_PersistsAndSendsVerification(t *testing.T) {
	idp, store, mail := &fakeIdentity{}, newRegStore(), &fakeMailer{}
	svc := app.NewRegistrationService(idp, store, mail)

	rec, err := svc.Register(context.Background(), submittedDraft())
	require.NoError(t, err)
	assert.Equal(t, "reg-uid-a@b.com", rec.ID)
	assert.Equal(t, domain.RegistrationPending, rec.Status)
	assert.Equal(t, domain.HotelRole, rec.Role)
	assert.Equal(t, "2000", rec.DefaultRate)
	assert.Equal(t, "2500", rec.DefaultWeekendRate)
	assert.False(t, rec.RegisteredAt.IsZero())

	u, err := store.GetHotelUser(context.Background(), rec.UID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, u.RegistrationID)
	assert.Equal(t, []string{"a@b.com|https://verify.example/a@b.com"}, mail.verified)
}

func TestRegister_EmailInUsePassesThrough(t *testing.T) {
	svc := app.NewRegistrationService(&fakeIdentity{createErr: domain.ErrEmailInUse}, newRegStore(), &fakeMailer{})
	_, err := svc.Register(context.Background(), submittedDraft())
	assert.ErrorIs(t, err, domain.ErrEmailInUse)
}

func TestRegister_StoreFailureRollsBackIdentity(t *testing.T) {
	idp, store := &fakeIdentity{}, newRegStore()
	store.writeErr = errors.New("firestore unavailable")
	svc := app.NewRegistrationService(idp, store, &fakeMailer{})

	_, err := svc.Register(context.Background(), submittedDraft())
	require.Error(t, err)
	assert.Equal(t, []string{"uid-a@b.com"}, idp.deleted)
}

func TestRegister_EmailFailureDoesNotFail(t *testing.T) {
	store := newRegStore()
	store.userErr = errors.New("profile write failed")
	svc := app.NewRegistrationService(&fakeIdentity{}, store, &fakeMailer{err: errors.New("smtp down")})
	_, err := svc.Register(context.Background(), submittedDraft())
	assert.NoError(t, err)
}

func TestReviewRegistration(t *testing.T) {
	ctx := context.Background()
	store := newRegStore()
	svc := app.NewRegistrationService(&fakeIdentity{}, store, &fakeMailer{})
	rec, err := svc.Register(ctx, submittedDraft())
	require.NoError(t, err)

	_, err = svc.Reject(ctx, rec.ID, "admin-1", " ")
	_, isValidation := domain.AsValidation(err)
	assert.True(t, isValidation, "blank reason must be rejected, got %v", err)

	got, err := svc.Approve(ctx, rec.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, "admin-1", *got.ApprovedBy)
	assert.WithinDuration(t, time.Now(), *got.ApprovedAt, time.Minute)

	_, err = svc.Reject(ctx, rec.ID, "admin-1", "duplicate")
	assert.ErrorIs(t, err, domain.ErrConflict)

	pending, err := svc.List(ctx, domain.RegistrationPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = svc.Approve(ctx, "missing", "admin-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
