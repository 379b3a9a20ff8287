package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"valley_travel/internal/domain"
)

// ---- fakes shared by the app tests ----

// fakeCache round-trips through JSON like the redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	sets  int

	// setDelay stalls every Set
	setDelay time.Duration
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	delay := c.setDelay
	c.mu.Unlock()
	time.Sleep(delay)
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	c.sets++
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]string
	n    int
}

func (l *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[string]string{}
	}
	if _, ok := l.held[key]; ok {
		return "", false, nil
	}
	l.n++
	tok := fmt.Sprintf("tok-%d", l.n)
	l.held[key] = tok
	return tok, true, nil
}

func (l *fakeLocker) Release(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
	}
	return nil
}

// fakeRegistrar records every payload; block, when set, holds Register until closed.
type fakeRegistrar struct {
	mu      sync.Mutex
	calls   []domain.RegistrationDraft
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (r *fakeRegistrar) Register(ctx context.Context, d domain.RegistrationDraft) (domain.RegistrationRecord, error) {
	r.mu.Lock()
	r.calls = append(r.calls, d)
	r.mu.Unlock()
	if r.entered != nil {
		r.entered <- struct{}{}
	}
	if r.block != nil {
		<-r.block
	}
	if r.err != nil {
		return domain.RegistrationRecord{}, r.err
	}
	return domain.RegistrationRecord{ID: "reg-1", UID: "uid-1", HotelName: d.Hotel.HotelName, Status: domain.RegistrationPending}, nil
}

func (r *fakeRegistrar) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type fakePackages struct {
	mu    sync.Mutex
	pkgs  map[int64]domain.TravelPackage
	calls int
}

func (f *fakePackages) ListPackages(ctx context.Context) ([]domain.TravelPackage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := make([]domain.TravelPackage, 0, len(f.pkgs))
	for id := int64(1); id <= int64(len(f.pkgs)); id++ {
		if p, ok := f.pkgs[id]; ok && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePackages) GetPackage(ctx context.Context, id int64) (domain.TravelPackage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	p, ok := f.pkgs[id]
	if !ok {
		return domain.TravelPackage{}, domain.ErrNotFound
	}
	return p, nil
}

type fakeMailer struct {
	mu       sync.Mutex
	verified []string
	bookings []map[string]string
	err      error
}

func (m *fakeMailer) SendVerification(ctx context.Context, to, name, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verified = append(m.verified, to+"|"+link)
	return m.err
}

func (m *fakeMailer) SendBookingUpdate(ctx context.Context, to, name string, params map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = append(m.bookings, params)
	return m.err
}

func ptr[T any](v T) *T { return &v }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
