package security

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const (
	issuer          = "valley-travel"
	sessionAudience = "valley-api"
	serviceAudience = "hotels-api"

	RoleService = "service"
)

// Claims is what a session or service token carries.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and checks HS256 tokens.
type TokenManager struct {
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret string, sessionTTL time.Duration) *TokenManager {
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), sessionTTL: sessionTTL, now: time.Now}
}

// Issue mints a session token for an API caller.
func (m *TokenManager) Issue(uid, email, role string) (string, error) {
	return m.sign(uid, email, role, sessionAudience, m.sessionTTL)
}

// IssueService mints the short-lived bearer the hotels API client presents.
func (m *TokenManager) IssueService(ttl time.Duration) (string, error) {
	return m.sign("valley-travel-api", "", RoleService, serviceAudience, ttl)
}

func (m *TokenManager) sign(uid, email, role, aud string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UID:   uid,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{aud},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Validate accepts session tokens only.
func (m *TokenManager) Validate(tok string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tok, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return c, nil
}

// ServiceTokenSource caches a service token and renews it shortly before expiry
// or after Invalidate.
type ServiceTokenSource struct {
	tm  *TokenManager
	ttl time.Duration

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewServiceTokenSource(tm *TokenManager, ttl time.Duration) *ServiceTokenSource {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ServiceTokenSource{tm: tm, ttl: ttl}
}

func (s *ServiceTokenSource) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tm.now()
	if s.token != "" && now.Before(s.expires.Add(-time.Minute)) {
		return s.token, nil
	}
	tok, err := s.tm.IssueService(s.ttl)
	if err != nil {
		return "", err
	}
	s.token, s.expires = tok, now.Add(s.ttl)
	return tok, nil
}

// Invalidate drops the cached token; the next call mints a new one.
func (s *ServiceTokenSource) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
