package firebase

import (
	"context"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"

	"valley_travel/internal/domain"
)

// Identity implements domain.IdentityProvider on Firebase Auth.
type Identity struct {
	c *auth.Client
}

func NewIdentity(c *auth.Client) *Identity { return &Identity{c: c} }

var _ domain.IdentityProvider = (*Identity)(nil)

func (i *Identity) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName).
		EmailVerified(false)
	u, err := i.c.CreateUser(ctx, params)
	if err != nil {
		return "", mapAuthError(err)
	}
	return u.UID, nil
}

func (i *Identity) DeleteUser(ctx context.Context, uid string) error {
	return i.c.DeleteUser(ctx, uid)
}

func (i *Identity) EmailVerificationLink(ctx context.Context, email string) (string, error) {
	return i.c.EmailVerificationLink(ctx, email)
}

func (i *Identity) VerifyIDToken(ctx context.Context, idToken string) (domain.IdentityClaims, error) {
	tok, err := i.c.VerifyIDToken(ctx, idToken)
	if err != nil {
		return domain.IdentityClaims{}, err
	}
	return claimsFrom(tok.UID, tok.Claims), nil
}

func claimsFrom(uid string, m map[string]any) domain.IdentityClaims {
	c := domain.IdentityClaims{UID: uid}
	c.Email, _ = m["email"].(string)
	c.EmailVerified, _ = m["email_verified"].(bool)
	if admin, ok := m["admin"].(bool); ok && admin {
		c.Admin = true
	}
	if role, ok := m["role"].(string); ok && role == "admin" {
		c.Admin = true
	}
	return c
}

func mapAuthError(err error) error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return fmt.Errorf("%w: %v", domain.ErrEmailInUse, err)
	case isWeakPassword(err):
		return fmt.Errorf("%w: %v", domain.ErrWeakPassword, err)
	}
	return err
}

func isWeakPassword(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "weak_password") ||
		strings.Contains(msg, "weak password") ||
		strings.Contains(msg, "password must be")
}
