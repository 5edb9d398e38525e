// Package cache is the shared client cache: reference data, game details,
// per-user collection lists and rate-limit counters. Redis when configured,
// an in-process LRU otherwise or whenever Redis stops answering.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gamehub/models"
	"gamehub/monitoring"
	"gamehub/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrMiss = errors.New("cache miss")

const (
	genresKey           = "genres:all"
	platformsKey        = "platforms:all"
	gameKeyPrefix       = "game:"            // game:123
	collectionKeyPrefix = "collection:user:" // collection:user:7:owned
	rateLimitPrefix     = "ratelimit:"

	ReferenceTTL  = time.Hour
	GameTTL       = 10 * time.Minute
	CollectionTTL = 5 * time.Minute
)

type backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type Cache struct {
	primary  backend // nil without Redis
	fallback *memoryBackend
}

// New builds a cache over client; a nil client means memory only.
func New(client *redis.Client, memorySize int) *Cache {
	c := &Cache{fallback: newMemoryBackend(memorySize)}
	if client != nil {
		c.primary = &redisBackend{client: client}
	}
	return c
}

// NewMemory builds a cache without Redis.
func NewMemory(size int) *Cache {
	return New(nil, size)
}

// run tries Redis first and falls back to memory when Redis errors out.
// A miss is an answer, not an error.
func run[T any](c *Cache, op string, fn func(backend) (T, error)) (T, error) {
	if c.primary != nil {
		v, err := fn(c.primary)
		if err == nil || errors.Is(err, ErrMiss) {
			return v, err
		}
		utils.Log.WithFields(logrus.Fields{"op": op, "error": err.Error()}).Debug("Redis unavailable, using memory cache")
	}
	return fn(c.fallback)
}

func (c *Cache) getJSON(ctx context.Context, key string, dest interface{}) bool {
	data, err := run(c, "get", func(b backend) ([]byte, error) { return b.Get(ctx, key) })
	if err != nil {
		monitoring.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		utils.Log.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Dropping undecodable cache entry")
		c.delete(ctx, key)
		monitoring.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	monitoring.CacheLookups.WithLabelValues("hit").Inc()
	return true
}

func (c *Cache) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		utils.Log.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Failed to encode cache entry")
		return
	}
	_, _ = run(c, "set", func(b backend) (struct{}, error) { return struct{}{}, b.Set(ctx, key, data, ttl) })
}

func (c *Cache) delete(ctx context.Context, keys ...string) {
	_, _ = run(c, "del", func(b backend) (struct{}, error) { return struct{}{}, b.Delete(ctx, keys...) })
}

func (c *Cache) Genres(ctx context.Context) ([]models.Genre, bool) {
	var genres []models.Genre
	ok := c.getJSON(ctx, genresKey, &genres)
	return genres, ok
}

func (c *Cache) SetGenres(ctx context.Context, genres []models.Genre) {
	c.setJSON(ctx, genresKey, genres, ReferenceTTL)
}

func (c *Cache) Platforms(ctx context.Context) ([]models.Platform, bool) {
	var platforms []models.Platform
	ok := c.getJSON(ctx, platformsKey, &platforms)
	return platforms, ok
}

func (c *Cache) SetPlatforms(ctx context.Context, platforms []models.Platform) {
	c.setJSON(ctx, platformsKey, platforms, ReferenceTTL)
}

func gameKey(id uint) string {
	return fmt.Sprintf("%s%d", gameKeyPrefix, id)
}

func (c *Cache) Game(ctx context.Context, id uint) (*models.Game, bool) {
	var game models.Game
	if !c.getJSON(ctx, gameKey(id), &game) {
		return nil, false
	}
	return &game, true
}

func (c *Cache) SetGame(ctx context.Context, game models.Game) {
	c.setJSON(ctx, gameKey(game.ID), game, GameTTL)
}

func (c *Cache) InvalidateGame(ctx context.Context, id uint) {
	c.delete(ctx, gameKey(id))
}

func collectionKey(userID uint, kind string) string {
	return fmt.Sprintf("%s%d:%s", collectionKeyPrefix, userID, kind)
}

// Collection returns a cached personal collection list.
func (c *Cache) Collection(ctx context.Context, userID uint, kind string) ([]models.Game, bool) {
	var games []models.Game
	ok := c.getJSON(ctx, collectionKey(userID, kind), &games)
	return games, ok
}

func (c *Cache) SetCollection(ctx context.Context, userID uint, kind string, games []models.Game) {
	if games == nil {
		games = []models.Game{}
	}
	c.setJSON(ctx, collectionKey(userID, kind), games, CollectionTTL)
}

// InvalidateCollections drops the user's cached lists of the given kinds.
func (c *Cache) InvalidateCollections(ctx context.Context, userID uint, kinds []string) {
	keys := make([]string, 0, len(kinds))
	for _, k := range kinds {
		keys = append(keys, collectionKey(userID, k))
	}
	if len(keys) > 0 {
		c.delete(ctx, keys...)
	}
}

// RemoveGame drops gameID from every cached collection of the user and
// from the detail cache.
func (c *Cache) RemoveGame(ctx context.Context, userID uint, kinds []string, gameID uint) {
	c.rewriteCollections(ctx, userID, kinds, func(games []models.Game) []models.Game {
		out := games[:0]
		for _, g := range games {
			if g.ID != gameID {
				out = append(out, g)
			}
		}
		return out
	})
	c.InvalidateGame(ctx, gameID)
}

// ReplaceGame swaps in the edited game wherever the user's cached
// collections hold it, and refreshes the detail cache.
func (c *Cache) ReplaceGame(ctx context.Context, userID uint, kinds []string, game models.Game) {
	c.rewriteCollections(ctx, userID, kinds, func(games []models.Game) []models.Game {
		for i := range games {
			if games[i].ID == game.ID {
				games[i] = game
			}
		}
		return games
	})
	c.SetGame(ctx, game)
}

func (c *Cache) rewriteCollections(ctx context.Context, userID uint, kinds []string, fn func([]models.Game) []models.Game) {
	for _, kind := range kinds {
		games, ok := c.Collection(ctx, userID, kind)
		if !ok {
			continue
		}
		c.SetCollection(ctx, userID, kind, fn(games))
	}
}

// Allow counts one hit against key in a fixed window and reports whether
// the hit is within limit, plus how many remain. Counting failures allow.
func (c *Cache) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int) {
	n, err := run(c, "incr", func(b backend) (int64, error) { return b.Incr(ctx, rateLimitPrefix+key, window) })
	if err != nil {
		return true, limit
	}
	remaining := limit - int(n)
	if remaining < 0 {
		return false, 0
	}
	return true, remaining
}
