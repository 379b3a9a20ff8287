package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"valley_travel/internal/domain"
)

// HotelAdder submits one listing; DirectoryStore satisfies it.
type HotelAdder interface {
	AddHotel(ctx context.Context, d domain.HotelDraft) (domain.Hotel, error)
}

type ImportResult struct {
	Index   int
	Name    string
	HotelID string
	Err     error
}

// ImportHotels submits drafts with at most workers calls in flight. Results
// come back in input order; a failed item does not stop the others.
func ImportHotels(ctx context.Context, dst HotelAdder, drafts []domain.HotelDraft, workers int) []ImportResult {
	if workers <= 0 {
		workers = 1
	}
	out := make([]ImportResult, len(drafts))
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for i, d := range drafts {
		out[i] = ImportResult{Index: i, Name: d.Name}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			for j := i; j < len(drafts); j++ {
				out[j] = ImportResult{Index: j, Name: drafts[j].Name, Err: err}
			}
			break
		}
		wg.Add(1)
		go func(i int, d domain.HotelDraft) {
			defer wg.Done()
			defer sem.Release(1)

			h, err := dst.AddHotel(ctx, d)
			if err != nil {
				out[i].Err = err
				log.Warn().Int("index", i).Str("name", d.Name).Err(err).Msg("import failed")
				return
			}
			out[i].HotelID = h.ID
			log.Info().Int("index", i).Str("hotel_id", h.ID).Msg("import ok")
		}(i, d)
	}

	wg.Wait()
	return out
}
