package reports

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wealthdesk-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	cacheKeyPrefix  = "report:investor:"
	genKeyPrefix    = "report:investor_gen:"
	DefaultCacheTTL = 5 * time.Minute
)

// Cache keeps built investor reports in Redis. A nil *Cache, or one without a
// client, caches nothing. Cache failures are logged and never surface to callers.
//
// Each investor has a generation counter bumped by Invalidate. A report is
// only stored if the generation read before building it is still current.
type Cache struct {
	Rdb *redis.Client
	TTL time.Duration
}

func cacheKey(investorID uuid.UUID) string {
	return cacheKeyPrefix + investorID.String()
}

func genKey(investorID uuid.UUID) string {
	return genKeyPrefix + investorID.String()
}

func (c *Cache) enabled() bool {
	return c != nil && c.Rdb != nil
}

func (c *Cache) Get(ctx context.Context, investorID uuid.UUID) (*domain.InvestorReport, bool) {
	if !c.enabled() {
		return nil, false
	}
	b, err := c.Rdb.Get(ctx, cacheKey(investorID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("investor_id", investorID.String()).Msg("report cache read failed")
		}
		return nil, false
	}
	var r domain.InvestorReport
	if err := json.Unmarshal(b, &r); err != nil {
		log.Warn().Err(err).Str("investor_id", investorID.String()).Msg("report cache entry unreadable")
		return nil, false
	}
	return &r, true
}

// Generation returns the investor's current generation. ok is false when the
// cache is disabled or unreachable, and the built report must not be stored.
func (c *Cache) Generation(ctx context.Context, investorID uuid.UUID) (gen int64, ok bool) {
	if !c.enabled() {
		return 0, false
	}
	gen, err := readGen(ctx, c.Rdb, investorID)
	if err != nil {
		log.Warn().Err(err).Str("investor_id", investorID.String()).Msg("report cache generation read failed")
		return 0, false
	}
	return gen, true
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGen(ctx context.Context, cmd getter, investorID uuid.UUID) (int64, error) {
	gen, err := cmd.Get(ctx, genKey(investorID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set stores r if the investor's generation still equals gen. A concurrent
// Invalidate makes the write a no-op.
func (c *Cache) Set(ctx context.Context, r *domain.InvestorReport, gen int64) {
	if !c.enabled() || r == nil {
		return
	}
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	gk := genKey(r.InvestorID)
	err = c.Rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readGen(ctx, tx, r.InvestorID)
		if err != nil {
			return err
		}
		if cur != gen {
			log.Debug().Str("investor_id", r.InvestorID.String()).Msg("report changed while building; not cached")
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cacheKey(r.InvestorID), b, ttl)
			return nil
		})
		return err
	}, gk)
	if errors.Is(err, redis.TxFailedErr) {
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("investor_id", r.InvestorID.String()).Msg("report cache write failed")
	}
}

// Invalidate bumps the investor's generation and drops the cached report.
func (c *Cache) Invalidate(ctx context.Context, investorID uuid.UUID) {
	if !c.enabled() {
		return
	}
	_, err := c.Rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(investorID))
		pipe.Del(ctx, cacheKey(investorID))
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("investor_id", investorID.String()).Msg("report cache invalidation failed")
	}
}
