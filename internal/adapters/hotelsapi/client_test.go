package hotelsapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"valley_travel/internal/adapters/hotelsapi"
	"valley_travel/internal/domain"
)

type staticToken string

func (s staticToken) Token() (string, error) { return string(s), nil }

func newClient(t *testing.T, h http.Handler) *hotelsapi.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	cl, err := hotelsapi.New(ts.URL, staticToken("svc-token"), 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func ctxT(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClient_GetHotels_RetriesThenSuccess(t *testing.T) {
	var hits int32
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer svc-token" {
			t.Errorf("authorization = %q", got)
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.WriteHeader(503)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": []map[string]any{
					{"_id": "h1", "name": "Lake View", "location": "Srinagar", "price": 4000, "stars": 4,
						"rating": map[string]any{"value": 4.5}, "reviewCount": "120", "amenities": []any{"WiFi", map[string]any{"name": "Spa"}},
						"images": []any{"https://img/1.jpg"}},
					{"name": "no id, dropped"},
				},
			})
		}
	}))

	hs, err := cl.GetHotels(ctxT(t))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
	if len(hs) != 1 {
		t.Fatalf("want 1 hotel, got %+v", hs)
	}
	h := hs[0]
	if h.ID != "h1" || h.Price != 4000 || h.Rating != 4.5 || h.Reviews != 120 || h.Image != "https://img/1.jpg" {
		t.Fatalf("unexpected mapping: %+v", h)
	}
	if len(h.Amenities) != 2 || h.Amenities[1] != "Spa" {
		t.Fatalf("amenities = %v", h.Amenities)
	}
	if h.Status != domain.HotelApproved {
		t.Fatalf("status = %s", h.Status)
	}
}

func TestClient_CreateDoesNotRetry(t *testing.T) {
	var hits int32
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(500)
	}))
	if _, err := cl.CreateHotel(ctxT(t), domain.HotelDraft{Name: "x"}); err == nil {
		t.Fatal("expected error")
	}
	if hits != 1 {
		t.Fatalf("POST retried %d times", hits)
	}
}

func TestClient_CreateHotelFillsFromDraft(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/hotels" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var d domain.HotelDraft
		_ = json.NewDecoder(r.Body).Decode(&d)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{"_id": "n1", "name": d.Name}})
	}))
	h, err := cl.CreateHotel(ctxT(t), domain.HotelDraft{Name: "Chinar", Location: "Srinagar", Price: 3000, Stars: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if h.ID != "n1" || h.Location != "Srinagar" || h.Price != 3000 || h.Stars != 3 {
		t.Fatalf("unexpected hotel: %+v", h)
	}
}

func TestClient_ApproveWithoutBody(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/hotels/p1/approve" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"success":true,"message":"approved"}`)
	}))
	h, err := cl.ApproveHotel(ctxT(t), "p1")
	if err != nil || h != nil {
		t.Fatalf("want nil record, got %+v, %v", h, err)
	}
}

func TestClient_RejectSendsReason(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["reason"] != "duplicate" {
			t.Errorf("reason = %q", body["reason"])
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	if err := cl.RejectHotel(ctxT(t), "p1", "duplicate"); err != nil {
		t.Fatalf("reject: %v", err)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	var unauthorized int32
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/hotels/missing":
			http.NotFound(w, r)
		case "/hotels/locked":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"success":false,"message":"price is required"}`)
		}
	}))
	cl.OnUnauthorized = func() { atomic.AddInt32(&unauthorized, 1) }

	if err := cl.DeleteHotel(ctxT(t), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := cl.DeleteHotel(ctxT(t), "locked"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if atomic.LoadInt32(&unauthorized) != 1 {
		t.Fatal("unauthorized hook not called")
	}
	err := cl.UpdateHotel(ctxT(t), "h1", domain.HotelPatch{})
	if err == nil || err.Error() != "hotels API error: price is required" {
		t.Fatalf("want backend message, got %v", err)
	}
}
