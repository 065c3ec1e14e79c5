package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront-backend/logger"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Generation counts invalidations of one user's cart. A reader records it before
// touching the database and may only fill the cache under that same generation.
type Generation int64

// unknownGeneration is handed out when the counter could not be read; Fill ignores it.
const unknownGeneration Generation = -1

// generationTTL keeps idle counters from piling up; it must outlive any entry TTL.
const generationTTL = 24 * time.Hour

// Snapshot is the row-level content of a cart. Catalog data such as price, stock and
// names is never cached and is resolved again on every read.
type Snapshot struct {
	CartID uuid.UUID `json:"cart_id"`
	Lines  []Line    `json:"lines"`
}

type Line struct {
	ID           uuid.UUID `json:"id"`
	ProductSKUID uuid.UUID `json:"product_sku_id"`
	Quantity     int       `json:"quantity"`
	AddedAt      time.Time `json:"added_at"`
}

// CartCache stores cart snapshots per user. Implementations must treat every failure
// as a miss; the database stays the source of truth.
type CartCache interface {
	// Lookup returns the cached snapshot, if any, and the generation current at read
	// time. The generation is valid on a miss too.
	Lookup(ctx context.Context, userID uuid.UUID) (*Snapshot, Generation, bool)
	// Fill stores snap unless the cart was invalidated after gen was observed.
	Fill(ctx context.Context, userID uuid.UUID, gen Generation, snap *Snapshot)
	// Invalidate drops the entry and advances the generation.
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type noopCache struct{}

// NewNoop returns a cache that never hits.
func NewNoop() CartCache { return noopCache{} }

func (noopCache) Lookup(context.Context, uuid.UUID) (*Snapshot, Generation, bool) {
	return nil, unknownGeneration, false
}
func (noopCache) Fill(context.Context, uuid.UUID, Generation, *Snapshot) {}
func (noopCache) Invalidate(context.Context, uuid.UUID)                  {}

type redisCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

type storedSnapshot struct {
	Generation Generation `json:"generation"`
	Snapshot   *Snapshot  `json:"snapshot"`
}

var errGenerationMoved = errors.New("cart generation moved")

// NewRedisClient dials addr and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewRedisCartCache(rdb *goredis.Client, ttl time.Duration, log *logger.Logger) CartCache {
	return &redisCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With("service", "RedisCartCache"),
	}
}

func cartKey(userID uuid.UUID) string {
	return "cart:snapshot:" + userID.String()
}

func generationKey(userID uuid.UUID) string {
	return "cart:generation:" + userID.String()
}

func (c *redisCache) Lookup(ctx context.Context, userID uuid.UUID) (*Snapshot, Generation, bool) {
	vals, err := c.rdb.MGet(ctx, generationKey(userID), cartKey(userID)).Result()
	if err != nil {
		c.log.Warn("cart cache read failed", "user_id", userID, "error", err)
		return nil, unknownGeneration, false
	}

	gen, err := parseGeneration(vals[0])
	if err != nil {
		c.log.Warn("cart cache generation corrupt, dropping", "user_id", userID, "error", err)
		_ = c.rdb.Del(ctx, generationKey(userID), cartKey(userID)).Err()
		return nil, unknownGeneration, false
	}

	raw, ok := vals[1].(string)
	if !ok {
		return nil, gen, false
	}
	var stored storedSnapshot
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || stored.Snapshot == nil {
		c.log.Warn("cart cache entry corrupt, dropping", "user_id", userID, "error", err)
		c.Invalidate(ctx, userID)
		return nil, unknownGeneration, false
	}
	if stored.Generation != gen {
		return nil, gen, false
	}
	return stored.Snapshot, gen, true
}

func (c *redisCache) Fill(ctx context.Context, userID uuid.UUID, gen Generation, snap *Snapshot) {
	if gen == unknownGeneration || snap == nil {
		return
	}
	raw, err := json.Marshal(storedSnapshot{Generation: gen, Snapshot: snap})
	if err != nil {
		c.log.Warn("cart cache encode failed", "user_id", userID, "error", err)
		return
	}

	genKey := generationKey(userID)
	err = c.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		observed, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if Generation(observed) != gen {
			return errGenerationMoved
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, cartKey(userID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errGenerationMoved), errors.Is(err, goredis.TxFailedErr):
		c.log.Debug("cart cache fill skipped, cart changed", "user_id", userID)
	default:
		c.log.Warn("cart cache write failed", "user_id", userID, "error", err)
	}
}

func (c *redisCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	genKey := generationKey(userID)
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, cartKey(userID))
		return nil
	})
	if err != nil {
		c.log.Warn("cart cache invalidate failed", "user_id", userID, "error", err)
	}
}

func parseGeneration(v interface{}) (Generation, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected generation type %T", v)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse generation: %w", err)
	}
	return Generation(n), nil
}
