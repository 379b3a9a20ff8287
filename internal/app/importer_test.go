package app_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valley_travel/internal/app"
	"valley_travel/internal/domain"
)

type countingAdder struct {
	mu      sync.Mutex
	active  int32
	maxSeen int32
}

func (c *countingAdder) AddHotel(ctx context.Context, d domain.HotelDraft) (domain.Hotel, error) {
	n := atomic.AddInt32(&c.active, 1)
	defer atomic.AddInt32(&c.active, -1)
	c.mu.Lock()
	if n > c.maxSeen {
		c.maxSeen = n
	}
	c.mu.Unlock()
	time.Sleep(5 * time.Millisecond)
	if d.Name == "broken" {
		return domain.Hotel{}, errors.New("hotels API error: price is required")
	}
	return domain.Hotel{ID: "id-" + d.Name}, nil
}

func TestImportHotels_BoundedAndOrdered(t *testing.T) {
	adder := &countingAdder{}
	drafts := []domain.HotelDraft{{Name: "a"}, {Name: "broken"}, {Name: "c"}, {Name: "d"}, {Name: "e"}, {Name: "f"}}

	res := app.ImportHotels(context.Background(), adder, drafts, 2)
	require.Len(t, res, len(drafts))
	assert.LessOrEqual(t, adder.maxSeen, int32(2))
	for i, r := range res {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, drafts[i].Name, r.Name)
	}
	assert.Error(t, res[1].Err)
	assert.Equal(t, "id-f", res[5].HotelID)
}

func TestImportHotels_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := app.ImportHotels(ctx, &countingAdder{}, []domain.HotelDraft{{Name: "a"}, {Name: "b"}}, 1)
	for _, r := range res {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}
