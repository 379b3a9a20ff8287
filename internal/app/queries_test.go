package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"valley_travel/internal/app"
	"valley_travel/internal/domain"
)

func newPackages() *fakePackages {
	return &fakePackages{pkgs: map[int64]domain.TravelPackage{
		1: {ID: 1, Title: "Gulmarg Snow Escape", Destination: "Gulmarg", DurationDays: 4, Price: 18500, Highlights: []string{"Gondola"}, Active: true},
		2: {ID: 2, Title: "Dal Lake Houseboat", Destination: "Srinagar", DurationDays: 3, Price: 12000, Active: true},
		3: {ID: 3, Title: "Retired", Destination: "Leh", Price: 9000, Active: false},
	}}
}

func TestGetPackage_CacheMissThenHit(t *testing.T) {
	repo := newPackages()
	cache := &fakeCache{}
	q := app.NewCatalogService(repo, cache, 10*time.Minute)

	p, err := q.GetPackage(context.Background(), 1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p.Title != "Gulmarg Snow Escape" {
		t.Fatalf("unexpected package: %+v", p)
	}

	// second read must come from cache
	pk := repo.pkgs[1]
	pk.Title = "SHOULD NOT SEE THIS"
	repo.pkgs[1] = pk

	p2, err := q.GetPackage(context.Background(), 1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p2.Title != "Gulmarg Snow Escape" {
		t.Fatalf("expected cached title, got %s", p2.Title)
	}
}

func TestGetPackage_NotFound(t *testing.T) {
	q := app.NewCatalogService(newPackages(), &fakeCache{}, time.Minute)
	if _, err := q.GetPackage(context.Background(), 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListPackages_Cache(t *testing.T) {
	repo := newPackages()
	cache := &fakeCache{}
	q := app.NewCatalogService(repo, cache, 10*time.Minute)

	out, err := q.ListPackages(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 active packages, got %d", len(out))
	}

	// mutating the result must not leak into the cache
	out[0].Highlights[0] = "mutated"
	calls := repo.calls
	out2, _ := q.ListPackages(context.Background())
	if repo.calls != calls {
		t.Fatalf("expected cache hit, repo called again")
	}
	if out2[0].Highlights[0] != "Gondola" {
		t.Fatalf("cached highlights mutated: %v", out2[0].Highlights)
	}
}
