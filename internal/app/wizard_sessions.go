package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"valley_travel/internal/domain"
)

const (
	lockTTL  = 30 * time.Second
	lockPoll = 20 * time.Millisecond
)

// WizardSessions keeps wizard state in the cache between HTTP requests and
// serializes work on one session with a lock.
type WizardSessions struct {
	cache    domain.Cache
	locks    domain.Locker
	reg      domain.Registrar
	ttl      time.Duration
	policies map[Step]Policy
	delay    time.Duration
	// OnRegistered is called after a submitted wizard's close delay elapses.
	OnRegistered func(domain.RegistrationRecord)
}

func NewWizardSessions(c domain.Cache, l domain.Locker, reg domain.Registrar, ttl, closeDelay time.Duration) *WizardSessions {
	return &WizardSessions{cache: c, locks: l, reg: reg, ttl: ttl, delay: closeDelay, policies: DefaultPolicies()}
}

// WithPolicies overrides the per-step validation policy. p is copied.
func (s *WizardSessions) WithPolicies(p map[Step]Policy) *WizardSessions {
	merged := make(map[Step]Policy, len(s.policies)+len(p))
	for k, v := range s.policies {
		merged[k] = v
	}
	for k, v := range p {
		merged[k] = v
	}
	s.policies = merged
	return s
}

func sessionKey(id string) string { return "wizard:" + id }
func lockKey(id string) string    { return "wizard:" + id + ":lock" }

func (s *WizardSessions) Open(ctx context.Context) (string, WizardState, error) {
	id := uuid.NewString()
	st := NewWizardState()
	if err := s.save(ctx, id, st); err != nil {
		return "", WizardState{}, err
	}
	return id, st, nil
}

func (s *WizardSessions) Get(ctx context.Context, id string) (WizardState, error) {
	var st WizardState
	ok, err := s.cache.Get(ctx, sessionKey(id), &st)
	if err != nil {
		return WizardState{}, err
	}
	if !ok {
		return WizardState{}, fmt.Errorf("wizard %s: %w", id, domain.ErrNotFound)
	}
	return st, nil
}

func (s *WizardSessions) Close(ctx context.Context, id string) error {
	return s.cache.Del(ctx, sessionKey(id))
}

// Do loads the wizard, applies fn under the session lock and saves the result,
// including banners and errors fn left behind when it failed.
func (s *WizardSessions) Do(ctx context.Context, id string, fn func(*Wizard) error) (WizardState, error) {
	token, ok, err := s.locks.Acquire(ctx, lockKey(id), lockTTL)
	if err != nil {
		return WizardState{}, err
	}
	if !ok {
		return WizardState{}, domain.ErrSubmitInFlight
	}
	defer s.release(id, token)

	st, err := s.Get(ctx, id)
	if err != nil {
		return WizardState{}, err
	}
	w := RestoreWizard(s.reg, st, WizardOptions{
		Policies:   s.policies,
		CloseDelay: s.delay,
		OnSuccess:  func(rec domain.RegistrationRecord) { s.finish(id, rec) },
	})
	opErr := fn(w)
	out := w.State()
	if err := s.save(ctx, id, out); err != nil {
		return out, errors.Join(opErr, err)
	}
	return out, opErr
}

func (s *WizardSessions) Submit(ctx context.Context, id string) (WizardState, error) {
	return s.Do(ctx, id, func(w *Wizard) error {
		_, err := w.Submit(ctx)
		return err
	})
}

func (s *WizardSessions) release(id, token string) {
	if err := s.locks.Release(context.Background(), lockKey(id), token); err != nil {
		log.Warn().Err(err).Str("wizard_id", id).Msg("wizard lock release failed")
	}
}

// waitLock polls for the session lock until ctx is done.
func (s *WizardSessions) waitLock(ctx context.Context, id string) (string, error) {
	for {
		token, ok, err := s.locks.Acquire(ctx, lockKey(id), lockTTL)
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(lockPoll):
		}
	}
}

// finish drops a submitted session. It takes the session lock first so the
// submitting request has saved its final state before the delete.
func (s *WizardSessions) finish(id string, rec domain.RegistrationRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), lockTTL)
	defer cancel()
	if token, err := s.waitLock(ctx, id); err != nil {
		log.Warn().Err(err).Str("wizard_id", id).Msg("wizard lock not acquired, dropping session anyway")
	} else {
		defer s.release(id, token)
	}
	if err := s.cache.Del(context.Background(), sessionKey(id)); err != nil {
		log.Warn().Err(err).Str("wizard_id", id).Msg("drop submitted wizard failed")
	}
	if s.OnRegistered != nil {
		s.OnRegistered(rec)
	}
}

func (s *WizardSessions) save(ctx context.Context, id string, st WizardState) error {
	return s.cache.Set(ctx, sessionKey(id), st, int(s.ttl.Seconds()))
}
