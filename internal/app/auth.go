package app

import (
	"context"
	"errors"

	"valley_travel/internal/domain"
)

const (
	RoleAdmin    = "admin"
	RoleHotel    = domain.HotelRole
	RoleCustomer = "customer"
)

// TokenIssuer mints session tokens for verified identities.
type TokenIssuer interface {
	Issue(uid, email, role string) (string, error)
}

type Session struct {
	Token string `json:"token"`
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthService exchanges identity-provider tokens for API session tokens.
type AuthService struct {
	idp    domain.IdentityProvider
	store  domain.RegistrationStore
	tokens TokenIssuer
}

func NewAuthService(idp domain.IdentityProvider, store domain.RegistrationStore, t TokenIssuer) *AuthService {
	return &AuthService{idp: idp, store: store, tokens: t}
}

func (s *AuthService) Exchange(ctx context.Context, idToken string) (Session, error) {
	if idToken == "" {
		return Session{}, domain.ErrUnauthorized
	}
	claims, err := s.idp.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Session{}, errors.Join(domain.ErrUnauthorized, err)
	}
	role := RoleCustomer
	switch {
	case claims.Admin:
		role = RoleAdmin
	default:
		u, err := s.store.GetHotelUser(ctx, claims.UID)
		switch {
		case err == nil && u.Role == domain.HotelRole:
			role = RoleHotel
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return Session{}, err
		}
	}
	tok, err := s.tokens.Issue(claims.UID, claims.Email, role)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok, UID: claims.UID, Email: claims.Email, Role: role}, nil
}
