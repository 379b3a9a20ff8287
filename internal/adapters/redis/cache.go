package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"valley_travel/internal/adapters/observability"
	"valley_travel/internal/domain"
)

// Store backs the read-through cache, wizard drafts, session locks and
// favorites with one Redis client.
type Store struct{ c *redis.Client }

func New(addr, pass string, db int) *Store {
	return NewFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewFromClient(c *redis.Client) *Store { return &Store{c: c} }

var (
	_ domain.Cache          = (*Store)(nil)
	_ domain.Locker         = (*Store)(nil)
	_ domain.FavoritesStore = (*Store)(nil)
)

func (r *Store) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Store) Close() error { return r.c.Close() }

func (r *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (r *Store) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, b, time.Duration(ttlSec)*time.Second).Err()
}

func (r *Store) Del(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, key).Err()
}

// ---- Locker ----

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

func (r *Store) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := r.c.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (r *Store) Release(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, r.c, []string{key}, token).Err()
}

// ---- Favorites ----

func favoritesKey(uid string) string { return "favorites:" + uid }

func (r *Store) AddFavorite(ctx context.Context, uid, hotelID string) error {
	return r.c.SAdd(ctx, favoritesKey(uid), hotelID).Err()
}

func (r *Store) RemoveFavorite(ctx context.Context, uid, hotelID string) error {
	return r.c.SRem(ctx, favoritesKey(uid), hotelID).Err()
}

func (r *Store) ListFavorites(ctx context.Context, uid string) ([]string, error) {
	ids, err := r.c.SMembers(ctx, favoritesKey(uid)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}
