package hotelsapi

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"valley_travel/internal/adapters/observability"
	"valley_travel/internal/domain"
)

// TokenSource supplies the bearer token sent with every call.
type TokenSource interface {
	Token() (string, error)
}

type Client struct {
	base   string
	hc     *http.Client
	tokens TokenSource
	rl     *rate.Limiter
	// OnUnauthorized runs whenever the backend answers 401.
	OnUnauthorized func()
}

func New(base string, tokens TokenSource, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("hotels API base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		hc:     &http.Client{Timeout: 20 * time.Second},
		tokens: tokens,
		rl:     rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var _ domain.HotelsAPI = (*Client)(nil)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// ---- HotelsAPI ----

func (c *Client) GetHotels(ctx context.Context) ([]domain.Hotel, error) {
	var raw []map[string]any
	if err := c.do(ctx, http.MethodGet, "/hotels", "hotels", nil, &raw); err != nil {
		return nil, err
	}
	return mapHotels(raw, domain.HotelApproved), nil
}

func (c *Client) GetPendingHotels(ctx context.Context) ([]domain.Hotel, error) {
	var raw []map[string]any
	if err := c.do(ctx, http.MethodGet, "/hotels/pending", "hotels_pending", nil, &raw); err != nil {
		return nil, err
	}
	return mapHotels(raw, domain.HotelPending), nil
}

func (c *Client) CreateHotel(ctx context.Context, d domain.HotelDraft) (domain.Hotel, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, "/hotels", "hotels_create", d, &raw); err != nil {
		return domain.Hotel{}, err
	}
	h := mapHotel(raw)
	if h.ID == "" {
		return domain.Hotel{}, fmt.Errorf("hotels API: created hotel has no id")
	}
	// fill what the backend did not echo back
	if h.Name == "" {
		h.Name = d.Name
	}
	if h.Location == "" {
		h.Location = d.Location
	}
	if h.Price == 0 {
		h.Price = d.Price
	}
	if h.Taxes == 0 {
		h.Taxes = d.Taxes
	}
	if h.Stars == 0 {
		h.Stars = d.Stars
	}
	if len(h.Amenities) == 0 {
		h.Amenities = append([]string(nil), d.Amenities...)
	}
	if h.Image == "" {
		h.Image = d.Image
	}
	return h, nil
}

// ApproveHotel returns nil when the backend answers without a usable record.
func (c *Client) ApproveHotel(ctx context.Context, id string) (*domain.Hotel, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodPut, "/hotels/"+url.PathEscape(id)+"/approve", "hotels_approve", nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	h := mapHotel(raw)
	if h.ID == "" {
		h.ID = id
	}
	return &h, nil
}

func (c *Client) RejectHotel(ctx context.Context, id, reason string) error {
	body := map[string]string{"reason": reason}
	return c.do(ctx, http.MethodPut, "/hotels/"+url.PathEscape(id)+"/reject", "hotels_reject", body, nil)
}

func (c *Client) UpdateHotel(ctx context.Context, id string, p domain.HotelPatch) error {
	return c.do(ctx, http.MethodPut, "/hotels/"+url.PathEscape(id), "hotels_update", p, nil)
}

func (c *Client) DeleteHotel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/hotels/"+url.PathEscape(id), "hotels_delete", nil, nil)
}

// ---- Internals ----

var errRemote = errors.New("hotels API error")

// do sends one call with client-side rate limiting and decodes the envelope's
// data into out. Idempotent methods retry on 429 and transient 5xx, honoring
// Retry-After when provided.
func (c *Client) do(ctx context.Context, method, path, endpoint string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		payload = b
	}
	attempts := 4
	if method == http.MethodPost {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "valley-travel/1.0")
		if c.tokens != nil {
			tok, err := c.tokens.Token()
			if err != nil {
				return fmt.Errorf("hotels API token: %w", err)
			}
			req.Header.Set("Authorization", "Bearer "+tok)
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("hotels_api", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < attempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("hotels_api", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := decode(resp.Body, out)
			resp.Body.Close()
			return err

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return fmt.Errorf("hotels API %s: %w", path, domain.ErrNotFound)

		case http.StatusUnauthorized:
			resp.Body.Close()
			if c.OnUnauthorized != nil {
				c.OnUnauthorized()
			}
			return domain.ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return domain.ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%w: status %d", errRemote, resp.StatusCode)
			if i < attempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			var env envelope
			if json.Unmarshal(b, &env) == nil && env.Message != "" {
				return fmt.Errorf("%w: %s", errRemote, env.Message)
			}
			return fmt.Errorf("%w: status %d: %s", errRemote, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return lastErr
}

// decode unwraps {success, data, message}. A bare JSON body is accepted too.
func decode(r io.Reader, out any) error {
	b, err := io.ReadAll(io.LimitReader(r, 8<<20))
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err == nil && (env.Data != nil || env.Message != "" || env.Success) {
		if !env.Success && env.Message != "" {
			return fmt.Errorf("%w: %s", errRemote, env.Message)
		}
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return nil
		}
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(b, out)
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
