package app

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"valley_travel/internal/domain"
	"valley_travel/internal/validation"
)

// DirectoryStore mirrors the remote hotel API into two in-memory lists:
// approved hotels and hotels awaiting review. Mutations go to the API first and
// are reconciled locally only when the call succeeds.
type DirectoryStore struct {
	api domain.HotelsAPI

	mu      sync.RWMutex
	hotels  []domain.Hotel
	pending []domain.Hotel

	flightMu sync.Mutex
	inflight map[string]struct{}
	loading  atomic.Int32
}

func NewDirectoryStore(api domain.HotelsAPI) *DirectoryStore {
	return &DirectoryStore{api: api, inflight: map[string]struct{}{}}
}

// Hotels returns a copy of the approved list.
func (s *DirectoryStore) Hotels() []domain.Hotel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyHotels(s.hotels)
}

// Pending returns a copy of the pending list.
func (s *DirectoryStore) Pending() []domain.Hotel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyHotels(s.pending)
}

// Snapshot returns copies of both lists taken under one lock.
func (s *DirectoryStore) Snapshot() (hotels, pending []domain.Hotel) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyHotels(s.hotels), copyHotels(s.pending)
}

// Loading reports whether any remote call is in flight.
func (s *DirectoryStore) Loading() bool { return s.loading.Load() > 0 }

// begin marks an operation in flight. Keyed operations reject a duplicate
// while the first one is still running.
func (s *DirectoryStore) begin(key string) (func(), error) {
	if key != "" {
		s.flightMu.Lock()
		if _, busy := s.inflight[key]; busy {
			s.flightMu.Unlock()
			return nil, fmt.Errorf("%s: %w", key, domain.ErrOperationInFlight)
		}
		s.inflight[key] = struct{}{}
		s.flightMu.Unlock()
	}
	s.loading.Add(1)
	return func() {
		s.loading.Add(-1)
		if key != "" {
			s.flightMu.Lock()
			delete(s.inflight, key)
			s.flightMu.Unlock()
		}
	}, nil
}

// LoadHotels replaces the approved list. On failure the previous list stays.
func (s *DirectoryStore) LoadHotels(ctx context.Context) error {
	done, _ := s.begin("")
	defer done()
	hs, err := s.api.GetHotels(ctx)
	if err != nil {
		return fmt.Errorf("load hotels: %w", err)
	}
	s.mu.Lock()
	s.hotels = copyHotels(hs)
	s.mu.Unlock()
	return nil
}

// LoadPendingHotels replaces the pending list. Admin-only data.
func (s *DirectoryStore) LoadPendingHotels(ctx context.Context) error {
	done, _ := s.begin("")
	defer done()
	hs, err := s.api.GetPendingHotels(ctx)
	if err != nil {
		return fmt.Errorf("load pending hotels: %w", err)
	}
	s.mu.Lock()
	s.pending = copyHotels(hs)
	s.mu.Unlock()
	return nil
}

// RefreshData reloads the approved list.
func (s *DirectoryStore) RefreshData(ctx context.Context) error {
	return s.LoadHotels(ctx)
}

// RefreshAll reloads both lists concurrently.
func (s *DirectoryStore) RefreshAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.LoadHotels(gctx) })
	g.Go(func() error { return s.LoadPendingHotels(gctx) })
	return g.Wait()
}

// AddHotel submits a listing; new listings always start pending.
func (s *DirectoryStore) AddHotel(ctx context.Context, d domain.HotelDraft) (domain.Hotel, error) {
	if err := ValidateHotelDraft(d); err != nil {
		return domain.Hotel{}, err
	}
	done, err := s.begin("create:" + d.Name)
	if err != nil {
		return domain.Hotel{}, err
	}
	defer done()
	h, err := s.api.CreateHotel(ctx, d)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("create hotel: %w", err)
	}
	h.Status = domain.HotelPending
	s.mu.Lock()
	s.pending = prepend(s.pending, h)
	s.mu.Unlock()
	log.Info().Str("hotel_id", h.ID).Str("name", h.Name).Msg("hotel submitted")
	return h, nil
}

// ApproveHotel moves the hotel from pending to approved.
func (s *DirectoryStore) ApproveHotel(ctx context.Context, id string) (domain.Hotel, error) {
	done, err := s.begin("approve:" + id)
	if err != nil {
		return domain.Hotel{}, err
	}
	defer done()
	server, err := s.api.ApproveHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("approve hotel %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var local *domain.Hotel
	if i := indexOf(s.pending, id); i >= 0 {
		h := s.pending[i]
		local = &h
		s.pending = removeAt(s.pending, i)
	}
	if local == nil && server == nil {
		// a refresh already dropped it and the API sent nothing back; the next load picks it up
		log.Warn().Str("hotel_id", id).Msg("approved hotel not in local pending list")
		return domain.Hotel{ID: id, Status: domain.HotelApproved}, nil
	}
	approved := reconcileApproved(id, local, server)
	if i := indexOf(s.hotels, id); i >= 0 {
		s.hotels = removeAt(s.hotels, i)
	}
	s.hotels = prepend(s.hotels, approved)
	log.Info().Str("hotel_id", id).Msg("hotel approved")
	return approved, nil
}

// RejectHotel drops the hotel from the pending list.
func (s *DirectoryStore) RejectHotel(ctx context.Context, id, reason string) error {
	done, err := s.begin("reject:" + id)
	if err != nil {
		return err
	}
	defer done()
	if err := s.api.RejectHotel(ctx, id, reason); err != nil {
		return fmt.Errorf("reject hotel %s: %w", id, err)
	}
	s.mu.Lock()
	if i := indexOf(s.pending, id); i >= 0 {
		s.pending = removeAt(s.pending, i)
	}
	s.mu.Unlock()
	log.Info().Str("hotel_id", id).Str("reason", reason).Msg("hotel rejected")
	return nil
}

// UpdateHotel merges the patch into the approved hotel in place.
func (s *DirectoryStore) UpdateHotel(ctx context.Context, id string, p domain.HotelPatch) error {
	done, err := s.begin("update:" + id)
	if err != nil {
		return err
	}
	defer done()
	if err := s.api.UpdateHotel(ctx, id, p); err != nil {
		return fmt.Errorf("update hotel %s: %w", id, err)
	}
	s.mu.Lock()
	if i := indexOf(s.hotels, id); i >= 0 {
		s.hotels[i] = s.hotels[i].Apply(p)
	}
	s.mu.Unlock()
	return nil
}

// DeleteHotel removes the hotel from the approved list.
func (s *DirectoryStore) DeleteHotel(ctx context.Context, id string) error {
	done, err := s.begin("delete:" + id)
	if err != nil {
		return err
	}
	defer done()
	if err := s.api.DeleteHotel(ctx, id); err != nil {
		return fmt.Errorf("delete hotel %s: %w", id, err)
	}
	s.mu.Lock()
	if i := indexOf(s.hotels, id); i >= 0 {
		s.hotels = removeAt(s.hotels, i)
	}
	s.mu.Unlock()
	log.Info().Str("hotel_id", id).Msg("hotel deleted")
	return nil
}

// reconcileApproved builds the approved record field by field. The API's copy
// wins for every field it sets; the cached pending copy fills the rest.
func reconcileApproved(id string, local, server *domain.Hotel) domain.Hotel {
	var out domain.Hotel
	if local != nil {
		out = *local
	}
	if server != nil {
		if server.Name != "" {
			out.Name = server.Name
		}
		if server.Location != "" {
			out.Location = server.Location
		}
		if server.Price != 0 {
			out.Price = server.Price
		}
		if server.Taxes != 0 {
			out.Taxes = server.Taxes
		}
		if server.Stars != 0 {
			out.Stars = server.Stars
		}
		if server.Rating != 0 {
			out.Rating = server.Rating
		}
		if server.Reviews != 0 {
			out.Reviews = server.Reviews
		}
		if len(server.Amenities) > 0 {
			out.Amenities = append([]string(nil), server.Amenities...)
		}
		if server.Image != "" {
			out.Image = server.Image
		}
	}
	out.ID = id
	out.Status = domain.HotelApproved
	return out
}

func indexOf(hs []domain.Hotel, id string) int {
	for i := range hs {
		if hs[i].ID == id {
			return i
		}
	}
	return -1
}

func removeAt(hs []domain.Hotel, i int) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(hs)-1)
	out = append(out, hs[:i]...)
	return append(out, hs[i+1:]...)
}

func prepend(hs []domain.Hotel, h domain.Hotel) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(hs)+1)
	out = append(out, h)
	return append(out, hs...)
}

func copyHotels(hs []domain.Hotel) []domain.Hotel {
	out := make([]domain.Hotel, len(hs))
	for i, h := range hs {
		h.Amenities = append([]string(nil), h.Amenities...)
		out[i] = h
	}
	return out
}

// ValidateHotelDraft checks a partner listing before it reaches the API.
func ValidateHotelDraft(d domain.HotelDraft) error {
	errs := validation.ValidateForm(map[string]string{
		"name":     d.Name,
		"location": d.Location,
		"price":    strconv.FormatFloat(d.Price, 'f', -1, 64),
	}, map[string]any{
		"name":     validation.HotelName,
		"location": validation.Required("Location"),
		"price":    validation.Price,
	})
	if d.Stars < 0 || d.Stars > 5 {
		errs["stars"] = "Star rating must be 5 or less"
	}
	return domain.NewValidationError(errs)
}
